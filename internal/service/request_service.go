package service

import (
	"context"
	"strings"

	"chemmarket/internal/logger"
	"chemmarket/internal/model"
	"chemmarket/internal/repository"

	"go.opentelemetry.io/otel"
)

var RequestServiceTracer = otel.Tracer("RequestService")

// RequestService takes sourcing requests from anonymous buyers and serves the
// admin-approved ones publicly.
type RequestService struct {
	requests *repository.RequestRepository
}

func NewRequestService(requests *repository.RequestRepository) *RequestService {
	return &RequestService{requests: requests}
}

type RequestInput struct {
	Name          string  `json:"name"`
	ContactMethod string  `json:"contactMethod"`
	Contact       string  `json:"contact"`
	CountryCode   string  `json:"countryCode"`
	CI            string  `json:"ci"`
	Tone          string  `json:"tone"`
	Quantity      float64 `json:"quantity"`
	StockUnit     string  `json:"stockUnit"`
	Note          string  `json:"note"`
}

// Create records a sourcing request. Requests stay private until an admin
// verifies them.
func (s *RequestService) Create(ctx context.Context, in RequestInput, imageKey string) (*model.Request, error) {
	ctx, span := RequestServiceTracer.Start(ctx, "RequestService.Create")
	defer span.End()
	logger.Info(ctx, "Service")

	in.Name = strings.TrimSpace(in.Name)
	in.Contact = strings.TrimSpace(in.Contact)
	in.Note = strings.TrimSpace(in.Note)

	if in.Name == "" || in.Contact == "" {
		return nil, Invalid("Name and contact are required")
	}
	if !model.IsValidContactMethod(in.ContactMethod) {
		return nil, Invalid("Contact method must be phone, email or whatsapp")
	}
	if in.Quantity <= 0 {
		return nil, Invalid("Quantity must be greater than zero")
	}
	if !model.IsValidStockUnit(in.StockUnit) {
		return nil, Invalid("Invalid stock unit")
	}
	if len(in.Note) > maxOrderNoteLength {
		return nil, Invalid("Note cannot exceed 500 characters")
	}

	request := &model.Request{
		Name:          in.Name,
		ContactMethod: in.ContactMethod,
		Contact:       in.Contact,
		CountryCode:   strings.TrimSpace(in.CountryCode),
		CI:            strings.TrimSpace(in.CI),
		Tone:          strings.TrimSpace(in.Tone),
		Quantity:      in.Quantity,
		StockUnit:     in.StockUnit,
		Note:          in.Note,
		Status:        model.RequestStatusPending,
		Image:         imageKey,
	}
	if err := s.requests.Insert(ctx, request); err != nil {
		return nil, err
	}
	return request, nil
}

type RequestPage struct {
	Requests   []model.Request
	Total      int64
	Page       int
	Limit      int
	TotalPages int64
}

// ListPublic pages through verified requests, optionally matching a search
// term against name, colour index and tone.
func (s *RequestService) ListPublic(ctx context.Context, search string, page, limit int) (*RequestPage, error) {
	ctx, span := RequestServiceTracer.Start(ctx, "RequestService.ListPublic")
	defer span.End()
	logger.Info(ctx, "Service")

	page = ClampPage(page)
	limit = ClampLimit(limit)
	skip := pageSkip(page, limit)

	var (
		items []model.Request
		err   error
	)
	if search = strings.TrimSpace(search); search != "" {
		items, err = s.requests.SearchPublic(ctx, search, skip, int64(limit))
	} else {
		items, err = s.requests.FindPublic(ctx, skip, int64(limit))
	}
	if err != nil {
		return nil, err
	}

	total, err := s.requests.CountPublic(ctx)
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
