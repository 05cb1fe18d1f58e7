package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"chemmarket/internal/logger"
	"chemmarket/internal/model"
	"chemmarket/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.opentelemetry.io/otel"
)

var SellerServiceTracer = otel.Tracer("SellerService")

// SellerService is the authenticated seller portal: portfolio management,
// incoming orders, assigned sourcing requests and dashboard analytics.
type SellerService struct {
	products *repository.ProductRepository
	orders   *repository.OrderRepository
	requests *repository.RequestRepository
}

func NewSellerService(products *repository.ProductRepository, orders *repository.OrderRepository, requests *repository.RequestRepository) *SellerService {
	return &SellerService{products: products, orders: orders, requests: requests}
}

type ProductInput struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	CI          string  `json:"ci"`
	Tone        string  `json:"tone"`
	Currency    string  `json:"currency"`
	Stock       float64 `json:"stock"`
	StockUnit   string  `json:"stockUnit"`
	IsVisible   *bool   `json:"isVisible"`
	Status      string  `json:"status"`
}

func (in *ProductInput) validate() error {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return Invalid("Product name is required")
	}
	if in.Price <= 0 {
		return Invalid("Price must be greater than zero")
	}
	if in.Stock < 0 {
		return Invalid("Stock cannot be negative")
	}
	if !model.IsValidStockUnit(in.StockUnit) {
		return Invalid("Invalid stock unit")
	}
	if !model.IsValidCurrency(in.Currency) {
		return Invalid("Currency must be INR or USD")
	}
	if in.Status != "" && in.Status != model.ProductStatusActive && in.Status != model.ProductStatusInactive {
		return Invalid("Status must be active or inactive")
	}
	return nil
}

// CreateProduct adds a product to the seller's portfolio. New products start
// unverified and stay out of public discovery until an admin approves them.
func (s *SellerService) CreateProduct(ctx context.Context, seller *model.User, in ProductInput, imageKey string) (*model.Product, error) {
	ctx, span := SellerServiceTracer.Start(ctx, "SellerService.CreateProduct")
	defer span.End()
	logger.Info(ctx, "Service")

	if err := in.validate(); err != nil {
		return nil, err
	}

	status := in.Status
	if status == "" {
		status = model.ProductStatusActive
	}
	visible := true
	if in.IsVisible != nil {
		visible = *in.IsVisible
	}

	product := &model.Product{
		Name:        in.Name,
		Description: strings.TrimSpace(in.Description),
		Price:       in.Price,
		CI:          strings.TrimSpace(in.CI),
		Tone:        strings.TrimSpace(in.Tone),
		Currency:    in.Currency,
		Stock:       in.Stock,
		StockUnit:   in.StockUnit,
		IsVisible:   visible,
		Image:       imageKey,
		Seller:      seller.ID,
		Status:      status,
	}
	if err := s.products.Insert(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

type SellerList[T any] struct {
	Items      []T
	Total      int64
	Page       int
	Limit      int
	TotalPages int64
}

// ListProducts pages through the seller's own portfolio, optionally filtered
// by status or a search term.
func (s *SellerService) ListProducts(ctx context.Context, seller *model.User, status, search string, page, limit int) (*SellerList[model.Product], error) {
	ctx, span := SellerServiceTracer.Start(ctx, "SellerService.ListProducts")
	defer span.End()
	logger.Info(ctx, "Service")

	page = ClampPage(page)
	limit = ClampLimit(limit)
	skip := pageSkip(page, limit)

	if search = strings.TrimSpace(search); search != "" {
		items, err := s.products.SearchBySeller(ctx, seller.ID, search, skip, int64(limit))
		if err != nil {
			return nil, err
		}
		total := int64(len(items))
		return &SellerList[model.Product]{
			Items:      emptyIfNil(items),
			Total:      total,
			Page:       page,
			Limit:      limit,
			TotalPages: (total + int64(limit) - 1) / int64(limit),
		}, nil
	}

	extra := bson.M{}
	if status == model.ProductStatusActive || status == model.ProductStatusInactive {
		extra["status"] = status
	}

	items, err := s.products.FindBySeller(ctx, seller.ID, extra, skip, int64(limit))
	if err != nil {
		return nil, err
	}
	total, err := s.products.CountBySeller(ctx, seller.ID, extra)
	if err != nil {
		return nil, err
	}
	return &SellerList[model.Product]{
		Items:      emptyIfNil(items),
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: (total + int64(limit) - 1) / int64(limit),
	}, nil
}

func (s *SellerService) GetProduct(ctx context.Context, seller *model.User, id string) (*model.Product, error) {
	ctx, span := SellerServiceTracer.Start(ctx, "SellerService.GetProduct")
	defer span.End()
	logger.Info(ctx, "Service")

	oid, err := parseObjectID(id, "Product not found")
	if err != nil {
		return nil, err
	}
	product, err := s.products.FindByIDForSeller(ctx, oid, seller.ID)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, NotFound("Product not found")
	}
	if err != nil {
		return nil, err
	}
	return product, nil
}

// UpdateProduct rewrites the editable fields of one of the seller's products.
// Editing drops the verification flag so the change goes through review again.
func (s *SellerService) UpdateProduct(ctx context.Context, seller *model.User, id string, in ProductInput, imageKey string) (*model.Product, error) {
	ctx, span := SellerServiceTracer.Start(ctx, "SellerService.UpdateProduct")
	defer span.End()
	logger.Info(ctx, "Service")

	oid, err := parseObjectID(id, "Product not found")
	if err != nil {
		return nil, err
	}
	if err := in.validate(); err != nil {
		return nil, err
	}

	fields := bson.M{
		"name":        in.Name,
		"description": strings.TrimSpace(in.Description),
		"price":       in.Price,
		"ci":          strings.TrimSpace(in.CI),
		"tone":        strings.TrimSpace(in.Tone),
		"currency":    in.Currency,
		"stock":       in.Stock,
		"stockUnit":   in.StockUnit,
		"isVerified":  false,
		"updatedAt":   time.Now().UTC(),
	}
	if in.IsVisible != nil {
		fields["isVisible"] = *in.IsVisible
	}
	if in.Status != "" {
		fields["status"] = in.Status
	}
	if imageKey != "" {
		fields["image"] = imageKey
	}

	matched, err := s.products.UpdateForSeller(ctx, oid, seller.ID, fields)
	if err != nil {
		return nil, err
	}
	if !matched {
		return nil, NotFound("Product not found")
	}
	return s.products.FindByIDForSeller(ctx, oid, seller.ID)
}

// ToggleProductStatus flips a product between active and inactive.
func (s *SellerService) ToggleProductStatus(ctx context.Context, seller *model.User, id string) (*model.Product, error) {
	ctx, span := SellerServiceTracer.Start(ctx, "SellerService.ToggleProductStatus")
	defer span.End()
	logger.Info(ctx, "Service")

	oid, err := parseObjectID(id, "Product not found")
	if err != nil {
		return nil, err
	}
	product, err := s.products.FindByIDForSeller(ctx, oid, seller.ID)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, NotFound("Product not found")
	}
	if err != nil {
		return nil, err
	}

	next := model.ProductStatusActive
	if product.Status == model.ProductStatusActive {
		next = model.ProductStatusInactive
	}
	fields := bson.M{"status": next, "updatedAt": time.Now().UTC()}
	if _, err := s.products.UpdateForSeller(ctx, oid, seller.ID, fields); err != nil {
		return nil, err
	}
	product.Status = next
	return product, nil
}

func (s *SellerService) DeleteProduct(ctx context.Context, seller *model.User, id string) error {
	ctx, span := SellerServiceTracer.Start(ctx, "SellerService.DeleteProduct")
	defer span.End()
	logger.Info(ctx, "Service")

	oid, err := parseObjectID(id, "Product not found")
	if err != nil {
		return err
	}
	matched, err := s.products.DeleteForSeller(ctx, oid, seller.ID)
	if err != nil {
		return err
	}
	if !matched {
		return NotFound("Product not found")
	}
	return nil
}

// ListOrders pages through orders placed against the seller's products. A
// search term switches to buyer name, contact and order id matching.
func (s *SellerService) ListOrders(ctx context.Context, seller *model.User, status, search string, page, limit int) (*SellerList[model.Order], error) {
	ctx, span := SellerServiceTracer.Start(ctx, "SellerService.ListOrders")
	defer span.End()
	logger.Info(ctx, "Service")

	if status != "" && !model.IsValidOrderStatus(status) {
		return nil, Invalid("Invalid order status")
	}

	page = ClampPage(page)
	limit = ClampLimit(limit)
	skip := pageSkip(page, limit)

	if search = strings.TrimSpace(search); search != "" {
		items, err := s.orders.SearchBySeller(ctx, seller.ID, search, skip, int64(limit))
		if err != nil {
			return nil, err
		}
		total := int64(len(items))
		return &SellerList[model.Order]{
			Items:      emptyIfNil(items),
			Total:      total,
			Page:       page,
			Limit:      limit,
			TotalPages: (total + int64(limit) - 1) / int64(limit),
		}, nil
	}

	items, err := s.orders.FindBySeller(ctx, seller.ID, status, skip, int64(limit))
	if err != nil {
		return nil, err
	}
	total, err := s.orders.CountBySeller(ctx, seller.ID, status)
	if err != nil {
		return nil, err
	}
	return &SellerList[model.Order]{
		Items:      emptyIfNil(items),
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: (total + int64(limit) - 1) / int64(limit),
	}, nil
}

func (s *SellerService) UpdateOrderStatus(ctx context.Context, seller *model.User, id, status string) error {
	ctx, span := SellerServiceTracer.Start(ctx, "SellerService.UpdateOrderStatus")
	defer span.End()
	logger.Info(ctx, "Service")

	if !model.IsValidOrderStatus(status) {
		return Invalid("Invalid order status")
	}
	oid, err := parseObjectID(id, "Order not found")
	if err != nil {
		return err
	}
	matched, err := s.orders.UpdateStatusForSeller(ctx, oid, seller.ID, status)
	if err != nil {
		return err
	}
	if !matched {
		return NotFound("Order not found")
	}
	return nil
}

// ListRequests pages through sourcing requests an admin assigned to this
// seller.
func (s *SellerService) ListRequests(ctx context.Context, seller *model.User, page, limit int) (*SellerList[model.Request], error) {
	ctx, span := SellerServiceTracer.Start(ctx, "SellerService.ListRequests")
	defer span.End()
	logger.Info(ctx, "Service")

	page = ClampPage(page)
	limit = ClampLimit(limit)
	skip := pageSkip(page, limit)

	items, err := s.requests.FindBySeller(ctx, seller.ID, skip, int64(limit))
	if err != nil {
		return nil, err
	}
	total := int64(len(items))
	return &SellerList[model.Request]{
		Items:      emptyIfNil(items),
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: (total + int64(limit) - 1) / int64(limit),
	}, nil
}

func (s *SellerService) UpdateRequestStatus(ctx context.Context, seller *model.User, id, status string) error {
	ctx, span := SellerServiceTracer.Start(ctx, "SellerService.UpdateRequestStatus")
	defer span.End()
	logger.Info(ctx, "Service")

	if !model.IsValidRequestStatus(status) {
		return Invalid("Invalid request status")
	}
	oid, err := parseObjectID(id, "Request not found")
	if err != nil {
		return err
	}
	matched, err := s.requests.UpdateStatusForSeller(ctx, oid, seller.ID, status)
	if err != nil {
		return err
	}
	if !matched {
		return NotFound("Request not found")
	}
	return nil
}

type SellerAnalytics struct {
	Products model.SellerProductStats `json:"products"`
	Orders   model.SellerOrderStats   `json:"orders"`
}

// Analytics rolls the seller's portfolio and order aggregates into one
// dashboard payload.
func (s *SellerService) Analytics(ctx context.Context, seller *model.User) (*SellerAnalytics, error) {
	ctx, span := SellerServiceTracer.Start(ctx, "SellerService.Analytics")
	defer span.End()
	logger.Info(ctx, "Service")

	productStats, err := s.products.SellerStats(ctx, seller.ID)
	if err != nil {
		return nil, err
	}
	orderStats, err := s.orders.SellerStats(ctx, seller.ID)
	if err != nil {
		return nil, err
	}
	return &SellerAnalytics{Products: *productStats, Orders: *orderStats}, nil
}

func emptyIfNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
