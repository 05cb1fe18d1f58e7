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

const maxOrderNoteLength = 500

var OrderServiceTracer = otel.Tracer("OrderService")

// OrderService takes purchase orders from anonymous buyers. Prices quoted in
// USD are converted to INR at the stored exchange rate before the total is
// snapshotted.
type OrderService struct {
	orders   *repository.OrderRepository
	products *repository.ProductRepository
	users    *repository.UserRepository
	settings *repository.SettingsRepository
}

func NewOrderService(orders *repository.OrderRepository, products *repository.ProductRepository, users *repository.UserRepository, settings *repository.SettingsRepository) *OrderService {
	return &OrderService{orders: orders, products: products, users: users, settings: settings}
}

type OrderInput struct {
	Product       string  `json:"product"`
	BuyerName     string  `json:"buyerName"`
	BuyerContact  string  `json:"buyerContact"`
	ContactMethod string  `json:"contactMethod"`
	Quantity      float64 `json:"quantity"`
	Note          string  `json:"note"`
}

// Create places an order against an eligible product. Buyer and seller
// contact details are copied onto the order so later account changes do not
// rewrite history.
func (s *OrderService) Create(ctx context.Context, in OrderInput) (*model.Order, error) {
	ctx, span := OrderServiceTracer.Start(ctx, "OrderService.Create")
	defer span.End()
	logger.Info(ctx, "Service")

	in.BuyerName = strings.TrimSpace(in.BuyerName)
	in.BuyerContact = strings.TrimSpace(in.BuyerContact)
	in.Note = strings.TrimSpace(in.Note)

	if in.BuyerName == "" || in.BuyerContact == "" {
		return nil, Invalid("Buyer name and contact are required")
	}
	if !model.IsValidContactMethod(in.ContactMethod) {
		return nil, Invalid("Contact method must be phone, email or whatsapp")
	}
	if len(in.Note) > maxOrderNoteLength {
		return nil, Invalid("Note cannot exceed 500 characters")
	}
	if in.Quantity == 0 {
		in.Quantity = 1
	}
	if in.Quantity < 1 {
		return nil, Invalid("Quantity must be at least 1")
	}

	productID, err := parseObjectID(in.Product, "Product not found")
	if err != nil {
		return nil, err
	}
	product, err := s.products.FindEligibleByID(ctx, productID)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, NotFound("Product not found")
	}
	if err != nil {
		return nil, err
	}

	seller, err := s.users.FindByID(ctx, product.Seller)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, NotFound("Seller not found")
	}
	if err != nil {
		return nil, err
	}
	if seller.Role != model.RoleSeller || !seller.IsActive {
		return nil, Forbidden("Seller is not accepting orders")
	}

	price := product.Price
	currency := product.Currency
	if currency == model.CurrencyUSD {
		rate, err := s.settings.UsdToInrRate(ctx)
		if err != nil {
			return nil, err
		}
		if rate == nil {
			return nil, NotFound("Settings not found")
		}
		price = product.Price * *rate
		currency = model.CurrencyINR
	}

	order := &model.Order{
		Product:       product.ID,
		BuyerName:     in.BuyerName,
		BuyerContact:  in.BuyerContact,
		ContactMethod: in.ContactMethod,
		Seller:        seller.ID,
		Note:          in.Note,
		SellerName:    seller.Username,
		SellerContact: seller.CountryCode + seller.PhoneNumber,
		Quantity:      in.Quantity,
		Price:         price,
		Currency:      currency,
		TotalAmount:   price * in.Quantity,
		Status:        model.OrderStatusPending,
	}
	if err := s.orders.Insert(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}
