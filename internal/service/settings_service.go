package service

import (
	"context"
	"errors"

	"chemmarket/internal/logger"
	"chemmarket/internal/repository"

	"go.mongodb.org/mongo-driver/mongo"
	"go.opentelemetry.io/otel"
)

var SettingsServiceTracer = otel.Tracer("SettingsService")

// SettingsService exposes the marketplace-wide settings document.
type SettingsService struct {
	settings *repository.SettingsRepository
}

func NewSettingsService(settings *repository.SettingsRepository) *SettingsService {
	return &SettingsService{settings: settings}
}

func (s *SettingsService) UsdToInrRate(ctx context.Context) (float64, error) {
	ctx, span := SettingsServiceTracer.Start(ctx, "SettingsService.UsdToInrRate")
	defer span.End()
	logger.Info(ctx, "Service")

	rate, err := s.settings.UsdToInrRate(ctx)
	if err != nil {
		return 0, err
	}
	if rate == nil {
		return 0, NotFound("Settings not found")
	}
	return *rate, nil
}

func (s *SettingsService) UpdateUsdToInrRate(ctx context.Context, rate float64) error {
	ctx, span := SettingsServiceTracer.Start(ctx, "SettingsService.UpdateUsdToInrRate")
	defer span.End()
	logger.Info(ctx, "Service")

	if rate <= 0 {
		return Invalid("Exchange rate must be greater than zero")
	}
	err := s.settings.UpdateRate(ctx, rate)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return NotFound("Settings not found")
	}
	return err
}
