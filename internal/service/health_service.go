package service

import (
	"context"
	"time"

	"chemmarket/internal/logger"

	"go.mongodb.org/mongo-driver/mongo"
	"go.opentelemetry.io/otel"
)

// HealthService reports on the dependencies the marketplace cannot run
// without. Currently that is just MongoDB.
type HealthService struct {
	mongo *mongo.Client
}

type HealthStatus struct {
	Mongo string
}

var HealthServiceTracer = otel.Tracer("HealthService")

func NewHealthService(mongo *mongo.Client) *HealthService {
	return &HealthService{mongo: mongo}
}

func (s *HealthService) Check(ctx context.Context) HealthStatus {
	ctx, span := HealthServiceTracer.Start(ctx, "HealthService.Check")
	defer span.End()
	logger.Info(ctx, "Service")

	status := HealthStatus{Mongo: "UP"}

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := s.mongo.Ping(pingCtx, nil); err != nil {
		status.Mongo = "DOWN"
	}

	return status
}
