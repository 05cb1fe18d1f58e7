package repository

import (
	"context"
	"time"

	"chemmarket/internal/logger"
	"chemmarket/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.opentelemetry.io/otel"
)

type RatingRepository struct {
	collection *mongo.Collection
}

var RatingRepositoryTracer = otel.Tracer("RatingRepository")

func NewRatingRepository(db *mongo.Database) *RatingRepository {
	return &RatingRepository{
		collection: db.Collection("ratings"),
	}
}

func (r *RatingRepository) Insert(ctx context.Context, rating *model.Rating) error {
	ctx, span := RatingRepositoryTracer.Start(ctx, "RatingRepository.Insert")
	defer span.End()
	logger.Info(ctx, "Repository")

	rating.ID = primitive.NewObjectID()
	rating.CreatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, rating)
	return err
}

func (r *RatingRepository) FindByProduct(ctx context.Context, productID primitive.ObjectID) ([]model.Rating, error) {
	ctx, span := RatingRepositoryTracer.Start(ctx, "RatingRepository.FindByProduct")
	defer span.End()
	logger.Info(ctx, "Repository")

	cursor, err := r.collection.Find(ctx, bson.M{"product": productID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var ratings []model.Rating
	if err := cursor.All(ctx, &ratings); err != nil {
		return nil, err
	}
	return ratings, nil
}
