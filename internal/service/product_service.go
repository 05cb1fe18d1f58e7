package service

import (
	"context"
	"errors"
	"strings"

	"chemmarket/internal/logger"
	"chemmarket/internal/model"
	"chemmarket/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.opentelemetry.io/otel"
)

// ProductService serves the public, read-only product surface outside the
// discovery pipeline: detail pages, the featured band, per-seller listings,
// and the legacy search endpoint.
type ProductService struct {
	products *repository.ProductRepository
	users    *repository.UserRepository
	ratings  *repository.RatingRepository
	settings *repository.SettingsRepository
}

var ProductServiceTracer = otel.Tracer("ProductService")

func NewProductService(products *repository.ProductRepository, users *repository.UserRepository, ratings *repository.RatingRepository, settings *repository.SettingsRepository) *ProductService {
	return &ProductService{
		products: products,
		users:    users,
		ratings:  ratings,
		settings: settings,
	}
}

type ProductDetail struct {
	Product       *model.Product
	Ratings       []model.Rating
	RatingCount   int
	RatingSum     int
	RatingAverage float64
	SellerName    string
	SellerCompany string
	SellerID      *primitive.ObjectID
	UsdToInrRate  *float64
}

// Detail returns one publicly discoverable product with its seller identity
// and rating aggregate.
func (s *ProductService) Detail(ctx context.Context, id string) (*ProductDetail, error) {
	ctx, span := ProductServiceTracer.Start(ctx, "ProductService.Detail")
	defer span.End()
	logger.Info(ctx, "Service")

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, NotFound("Product not found")
	}

	product, err := s.products.FindEligibleByID(ctx, oid)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, NotFound("Product not found")
	}
	if err != nil {
		return nil, err
	}

	detail := &ProductDetail{Product: product, Ratings: []model.Rating{}}

	seller, err := s.users.FindByID(ctx, product.Seller)
	if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, err
	}
	if seller != nil {
		detail.SellerName = seller.Username
		detail.SellerCompany = seller.Company
		detail.SellerID = &seller.ID
	}

	ratings, err := s.ratings.FindByProduct(ctx, product.ID)
	if err != nil {
		return nil, err
	}
	if ratings != nil {
		detail.Ratings = ratings
	}
	for _, r := range ratings {
		detail.RatingSum += r.Rating
	}
	detail.RatingCount = len(ratings)
	if detail.RatingCount > 0 {
		detail.RatingAverage = float64(detail.RatingSum) / float64(detail.RatingCount)
	}

	rate, err := s.settings.UsdToInrRate(ctx)
	if err != nil {
		return nil, err
	}
	detail.UsdToInrRate = rate

	return detail, nil
}

type ProductListing struct {
	Products     []model.CatalogProduct
	Total        int64
	Page         int
	Limit        int
	TotalPages   int64
	Seller       string
	UsdToInrRate *float64
}

// Featured lists featured eligible products, enriched with seller identity.
func (s *ProductService) Featured(ctx context.Context, page, limit int) (*ProductListing, error) {
	ctx, span := ProductServiceTracer.Start(ctx, "ProductService.Featured")
	defer span.End()
	logger.Info(ctx, "Service")

	page = ClampPage(page)
	limit = ClampLimit(limit)
	skip := pageSkip(page, limit)

	summaries, err := s.products.FindFeatured(ctx, skip, int64(limit))
	if err != nil {
		return nil, err
	}

	enriched, err := s.enrichSummaries(ctx, summaries)
	if err != nil {
		return nil, err
	}

	total, err := s.products.CountAll(ctx)
	if err != nil {
		return nil, err
	}

	rate, err := s.settings.UsdToInrRate(ctx)
	if err != nil {
		return nil, err
	}

	return &ProductListing{
		Products:     enriched,
		Total:        total,
		Page:         page,
		Limit:        limit,
		TotalPages:   (total + int64(limit) - 1) / int64(limit),
		UsdToInrRate: rate,
	}, nil
}

// SellerProducts lists an active seller's eligible products, optionally
// excluding the product the caller is already viewing.
func (s *ProductService) SellerProducts(ctx context.Context, sellerID, exclude string, page, limit int) (*ProductListing, error) {
	ctx, span := ProductServiceTracer.Start(ctx, "ProductService.SellerProducts")
	defer span.End()
	logger.Info(ctx, "Service")

	oid, err := primitive.ObjectIDFromHex(sellerID)
	if err != nil {
		return nil, NotFound("Seller not found")
	}

	seller, err := s.users.FindByID(ctx, oid)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, NotFound("Seller not found")
	}
	if err != nil {
		return nil, err
	}
	if seller.Role != model.RoleSeller || !seller.IsActive {
		return nil, Forbidden("Seller not authorized")
	}

	page = ClampPage(page)
	limit = ClampLimit(limit)
	skip := pageSkip(page, limit)

	var excludeID *primitive.ObjectID
	if exclude != "" {
		if eid, err := primitive.ObjectIDFromHex(exclude); err == nil {
			excludeID = &eid
		}
	}

	summaries, err := s.products.FindPublicBySeller(ctx, oid, excludeID, skip, int64(limit))
	if err != nil {
		return nil, err
	}

	enriched, err := s.enrichSummaries(ctx, summaries)
	if err != nil {
		return nil, err
	}

	total, err := s.products.CountPublicBySeller(ctx, oid)
	if err != nil {
		return nil, err
	}

	rate, err := s.settings.UsdToInrRate(ctx)
	if err != nil {
		return nil, err
	}

	return &ProductListing{
		Products:     enriched,
		Total:        total,
		Page:         page,
		Limit:        limit,
		TotalPages:   (total + int64(limit) - 1) / int64(limit),
		Seller:       seller.Username,
		UsdToInrRate: rate,
	}, nil
}

type SearchResult struct {
	Products     []model.Product
	Total        int64
	Page         int
	Limit        int
	TotalPages   int64
	UsdToInrRate float64
}

// Search is the legacy endpoint: store-level pagination, description included
// in the match, and no verification requirement on the product.
func (s *ProductService) Search(ctx context.Context, term string, page, limit int) (*SearchResult, error) {
	ctx, span := ProductServiceTracer.Start(ctx, "ProductService.Search")
	defer span.End()
	logger.Info(ctx, "Service")

	term = strings.TrimSpace(term)
	if term == "" {
		return nil, Invalid("Search parameter is required")
	}
	if len(term) < 3 {
		return nil, Invalid("Search parameter must be at least 3 characters long")
	}

	rate, err := s.settings.UsdToInrRate(ctx)
	if err != nil {
		return nil, err
	}
	if rate == nil {
		return nil, NotFound("Settings not found")
	}

	page = ClampPage(page)
	limit = ClampLimit(limit)
	skip := pageSkip(page, limit)

	products, err := s.products.SearchVisible(ctx, term, skip, int64(limit))
	if err != nil {
		return nil, err
	}
	if products == nil {
		products = []model.Product{}
	}

	total, err := s.products.CountVisibleMatching(ctx, term)
	if err != nil {
		return nil, err
	}

	return &SearchResult{
		Products:     products,
		Total:        total,
		Page:         page,
		Limit:        limit,
		TotalPages:   (total + int64(limit) - 1) / int64(limit),
		UsdToInrRate: *rate,
	}, nil
}

type SellerContact struct {
	Username    string   `json:"username"`
	Company     string   `json:"company"`
	Email       string   `json:"email"`
	CountryCode string   `json:"countryCode"`
	PhoneNumber string   `json:"phoneNumber"`
	Description string   `json:"description,omitempty"`
	Speciality  []string `json:"speciality,omitempty"`
	IsVerified  bool     `json:"isVerified"`
}

// Contact returns an active seller's public contact card.
func (s *ProductService) Contact(ctx context.Context, sellerID string) (*SellerContact, error) {
	ctx, span := ProductServiceTracer.Start(ctx, "ProductService.Contact")
	defer span.End()
	logger.Info(ctx, "Service")

	oid, err := primitive.ObjectIDFromHex(sellerID)
	if err != nil {
		return nil, NotFound("Seller not found")
	}
	seller, err := s.users.FindByID(ctx, oid)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, NotFound("Seller not found")
	}
	if err != nil {
		return nil, err
	}
	if seller.Role != model.RoleSeller || !seller.IsActive {
		return nil, NotFound("Seller not found")
	}

	return &SellerContact{
		Username:    seller.Username,
		Company:     seller.Company,
		Email:       seller.Email,
		CountryCode: seller.CountryCode,
		PhoneNumber: seller.PhoneNumber,
		Description: seller.Description,
		Speciality:  seller.Speciality,
		IsVerified:  seller.IsVerified,
	}, nil
}

func (s *ProductService) enrichSummaries(ctx context.Context, summaries []model.ProductSummary) ([]model.CatalogProduct, error) {
	seen := make(map[string]bool, len(summaries))
	ids := make([]primitive.ObjectID, 0, len(summaries))
	for _, p := range summaries {
		if hex := p.Seller.Hex(); !seen[hex] {
			seen[hex] = true
			ids = append(ids, p.Seller)
		}
	}

	sellers, err := s.users.FindActiveSellers(ctx, ids)
	if err != nil {
		return nil, err
	}

	enriched := make([]model.CatalogProduct, 0, len(summaries))
	for _, p := range summaries {
		seller, ok := sellers[p.Seller.Hex()]
		if !ok {
			continue
		}
		enriched = append(enriched, p.Enrich(seller))
	}
	return enriched, nil
}
