package service

import (
	"context"
	"errors"
	"time"

	"chemmarket/internal/logger"
	"chemmarket/internal/model"
	"chemmarket/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.opentelemetry.io/otel"
)

var AdminServiceTracer = otel.Tracer("AdminService")

// AdminService is the moderation surface: account and listing review, request
// triage and the marketplace roll-up.
type AdminService struct {
	users    *repository.UserRepository
	products *repository.ProductRepository
	orders   *repository.OrderRepository
	requests *repository.RequestRepository
}

func NewAdminService(users *repository.UserRepository, products *repository.ProductRepository, orders *repository.OrderRepository, requests *repository.RequestRepository) *AdminService {
	return &AdminService{users: users, products: products, orders: orders, requests: requests}
}

func (s *AdminService) ListUsers(ctx context.Context, page, limit int) (*SellerList[model.User], error) {
	ctx, span := AdminServiceTracer.Start(ctx, "AdminService.ListUsers")
	defer span.End()
	logger.Info(ctx, "Service")

	page = ClampPage(page)
	limit = ClampLimit(limit)

	items, err := s.users.FindAll(ctx, pageSkip(page, limit), int64(limit))
	if err != nil {
		return nil, err
	}
	total, err := s.users.CountAll(ctx)
	if err != nil {
		return nil, err
	}
	return &SellerList[model.User]{
		Items:      emptyIfNil(items),
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: (total + int64(limit) - 1) / int64(limit),
	}, nil
}

func (s *AdminService) GetUser(ctx context.Context, id string) (*model.User, error) {
	ctx, span := AdminServiceTracer.Start(ctx, "AdminService.GetUser")
	defer span.End()
	logger.Info(ctx, "Service")

	oid, err := parseObjectID(id, "User not found")
	if err != nil {
		return nil, err
	}
	user, err := s.users.FindByID(ctx, oid)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, NotFound("User not found")
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// SetUserActive suspends or restores an account. Suspending revokes issued
// tokens so open sessions die immediately.
func (s *AdminService) SetUserActive(ctx context.Context, id string, active bool) error {
	ctx, span := AdminServiceTracer.Start(ctx, "AdminService.SetUserActive")
	defer span.End()
	logger.Info(ctx, "Service")

	oid, err := parseObjectID(id, "User not found")
	if err != nil {
		return err
	}
	if err := s.users.SetActive(ctx, oid, active); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return NotFound("User not found")
		}
		return err
	}
	if !active {
		return s.users.SetTokens(ctx, oid, "", "")
	}
	return nil
}

func (s *AdminService) SetUserVerified(ctx context.Context, id string, verified bool) error {
	ctx, span := AdminServiceTracer.Start(ctx, "AdminService.SetUserVerified")
	defer span.End()
	logger.Info(ctx, "Service")

	oid, err := parseObjectID(id, "User not found")
	if err != nil {
		return err
	}
	if err := s.users.SetVerified(ctx, oid, verified); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return NotFound("User not found")
		}
		return err
	}
	return nil
}

// DeleteUser removes an account together with its entire portfolio.
func (s *AdminService) DeleteUser(ctx context.Context, id string) error {
	ctx, span := AdminServiceTracer.Start(ctx, "AdminService.DeleteUser")
	defer span.End()
	logger.Info(ctx, "Service")

	oid, err := parseObjectID(id, "User not found")
	if err != nil {
		return err
	}
	user, err := s.users.FindByID(ctx, oid)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return NotFound("User not found")
	}
	if err != nil {
		return err
	}
	if user.Role == model.RoleAdmin {
		return Forbidden("Admin accounts cannot be deleted")
	}
	if _, err := s.products.DeleteBySeller(ctx, oid); err != nil {
		return err
	}
	return s.users.Delete(ctx, oid)
}

func (s *AdminService) ListProducts(ctx context.Context, page, limit int) (*SellerList[model.Product], error) {
	ctx, span := AdminServiceTracer.Start(ctx, "AdminService.ListProducts")
	defer span.End()
	logger.Info(ctx, "Service")

	page = ClampPage(page)
	limit = ClampLimit(limit)

	items, err := s.products.FindAll(ctx, pageSkip(page, limit), int64(limit))
	if err != nil {
		return nil, err
	}
	total, err := s.products.CountAll(ctx)
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

func (s *AdminService) SetProductVerified(ctx context.Context, id string, verified bool) error {
	ctx, span := AdminServiceTracer.Start(ctx, "AdminService.SetProductVerified")
	defer span.End()
	logger.Info(ctx, "Service")

	return s.setProductFields(ctx, id, bson.M{"isVerified": verified})
}

func (s *AdminService) SetProductFeatured(ctx context.Context, id string, featured bool) error {
	ctx, span := AdminServiceTracer.Start(ctx, "AdminService.SetProductFeatured")
	defer span.End()
	logger.Info(ctx, "Service")

	return s.setProductFields(ctx, id, bson.M{"isFeatured": featured})
}

func (s *AdminService) SetProductVisible(ctx context.Context, id string, visible bool) error {
	ctx, span := AdminServiceTracer.Start(ctx, "AdminService.SetProductVisible")
	defer span.End()
	logger.Info(ctx, "Service")

	return s.setProductFields(ctx, id, bson.M{"isVisible": visible})
}

func (s *AdminService) SetProductStatus(ctx context.Context, id, status string) error {
	ctx, span := AdminServiceTracer.Start(ctx, "AdminService.SetProductStatus")
	defer span.End()
	logger.Info(ctx, "Service")

	if status != model.ProductStatusActive && status != model.ProductStatusInactive {
		return Invalid("Status must be active or inactive")
	}
	return s.setProductFields(ctx, id, bson.M{"status": status})
}

func (s *AdminService) setProductFields(ctx context.Context, id string, fields bson.M) error {
	oid, err := parseObjectID(id, "Product not found")
	if err != nil {
		return err
	}
	fields["updatedAt"] = time.Now().UTC()
	matched, err := s.products.SetFields(ctx, oid, fields)
	if err != nil {
		return err
	}
	if !matched {
		return NotFound("Product not found")
	}
	return nil
}

func (s *AdminService) DeleteProduct(ctx context.Context, id string) error {
	ctx, span := AdminServiceTracer.Start(ctx, "AdminService.DeleteProduct")
	defer span.End()
	logger.Info(ctx, "Service")

	oid, err := parseObjectID(id, "Product not found")
	if err != nil {
		return err
	}
	return s.products.Delete(ctx, oid)
}

func (s *AdminService) ListRequests(ctx context.Context, page, limit int) (*RequestPage, error) {
	ctx, span := AdminServiceTracer.Start(ctx, "AdminService.ListRequests")
	defer span.End()
	logger.Info(ctx, "Service")

	page = ClampPage(page)
	limit = ClampLimit(limit)

	items, err := s.requests.FindAll(ctx, pageSkip(page, limit), int64(limit))
	if err != nil {
		return nil, err
	}
	total, err := s.requests.CountAll(ctx)
	if err != nil {
		return nil, err
	}
	return &RequestPage{
		Requests:   emptyIfNil(items),
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: (total + int64(limit) - 1) / int64(limit),
	}, nil
}

func (s *AdminService) GetRequest(ctx context.Context, id string) (*model.Request, error) {
	ctx, span := AdminServiceTracer.Start(ctx, "AdminService.GetRequest")
	defer span.End()
	logger.Info(ctx, "Service")

	oid, err := parseObjectID(id, "Request not found")
	if err != nil {
		return nil, err
	}
	request, err := s.requests.FindByID(ctx, oid)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, NotFound("Request not found")
	}
	if err != nil {
		return nil, err
	}
	return request, nil
}

func (s *AdminService) SetRequestVerified(ctx context.Context, id string, verified bool) error {
	ctx, span := AdminServiceTracer.Start(ctx, "AdminService.SetRequestVerified")
	defer span.End()
	logger.Info(ctx, "Service")

	return s.setRequestFields(ctx, id, bson.M{"isVerified": verified})
}

// AssignRequest hands a sourcing request to a seller for fulfilment.
func (s *AdminService) AssignRequest(ctx context.Context, id, sellerID string) error {
	ctx, span := AdminServiceTracer.Start(ctx, "AdminService.AssignRequest")
	defer span.End()
	logger.Info(ctx, "Service")

	oid, err := parseObjectID(sellerID, "Seller not found")
	if err != nil {
		return err
	}
	seller, err := s.users.FindByID(ctx, oid)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return NotFound("Seller not found")
	}
	if err != nil {
		return err
	}
	if seller.Role != model.RoleSeller || !seller.IsActive {
		return Invalid("Requests can only be assigned to active sellers")
	}
	return s.setRequestFields(ctx, id, bson.M{"seller": seller.ID})
}

func (s *AdminService) setRequestFields(ctx context.Context, id string, fields bson.M) error {
	oid, err := parseObjectID(id, "Request not found")
	if err != nil {
		return err
	}
	fields["updatedAt"] = time.Now().UTC()
	matched, err := s.requests.SetFields(ctx, oid, fields)
	if err != nil {
		return err
	}
	if !matched {
		return NotFound("Request not found")
	}
	return nil
}

func (s *AdminService) DeleteRequest(ctx context.Context, id string) error {
	ctx, span := AdminServiceTracer.Start(ctx, "AdminService.DeleteRequest")
	defer span.End()
	logger.Info(ctx, "Service")

	oid, err := parseObjectID(id, "Request not found")
	if err != nil {
		return err
	}
	return s.requests.Delete(ctx, oid)
}

// Stats rolls the collection counts into the admin dashboard payload.
func (s *AdminService) Stats(ctx context.Context) (*model.MarketStats, error) {
	ctx, span := AdminServiceTracer.Start(ctx, "AdminService.Stats")
	defer span.End()
	logger.Info(ctx, "Service")

	stats := &model.MarketStats{}
	var err error
	if stats.TotalUsers, err = s.users.CountAll(ctx); err != nil {
		return nil, err
	}
	if stats.TotalProducts, err = s.products.CountAll(ctx); err != nil {
		return nil, err
	}
	if stats.TotalOrders, err = s.orders.CountAll(ctx); err != nil {
		return nil, err
	}
	if stats.TotalRequests, err = s.requests.CountAll(ctx); err != nil {
		return nil, err
	}
	return stats, nil
}
