package service

import (
	"context"
	"errors"
	"strings"

	"chemmarket/internal/logger"
	"chemmarket/internal/model"
	"chemmarket/internal/repository"

	"go.mongodb.org/mongo-driver/mongo"
	"go.opentelemetry.io/otel"
)

var RatingServiceTracer = otel.Tracer("RatingService")

// RatingService records buyer ratings on publicly discoverable products.
type RatingService struct {
	ratings  *repository.RatingRepository
	products *repository.ProductRepository
}

func NewRatingService(ratings *repository.RatingRepository, products *repository.ProductRepository) *RatingService {
	return &RatingService{ratings: ratings, products: products}
}

type RatingInput struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

func (s *RatingService) Create(ctx context.Context, productID string, in RatingInput) (*model.Rating, error) {
	ctx, span := RatingServiceTracer.Start(ctx, "RatingService.Create")
	defer span.End()
	logger.Info(ctx, "Service")

	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))

	if in.Name == "" || in.Email == "" {
		return nil, Invalid("Name and email are required")
	}
	if in.Rating < 1 || in.Rating > 5 {
		return nil, Invalid("Rating must be between 1 and 5")
	}

	oid, err := parseObjectID(productID, "Product not found")
	if err != nil {
		return nil, err
	}
	product, err := s.products.FindEligibleByID(ctx, oid)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, NotFound("Product not found")
	}
	if err != nil {
		return nil, err
	}

	rating := &model.Rating{
		Name:    in.Name,
		Email:   in.Email,
		Product: product.ID,
		Rating:  in.Rating,
		Comment: strings.TrimSpace(in.Comment),
	}
	if err := s.ratings.Insert(ctx, rating); err != nil {
		return nil, err
	}
	return rating, nil
}
