package http

import (
	"net/http"

	"chemmarket/internal/logger"
	"chemmarket/internal/service"

	"go.opentelemetry.io/otel"
)

type HealthHandler struct {
	service *service.HealthService
}

var HttpHealthHandlerTracer = otel.Tracer("HttpHealthHandler")

func NewHealthHandler(service *service.HealthService) *HealthHandler {
	return &HealthHandler{
		service: service,
	}
}

func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	ctx, span := HttpHealthHandlerTracer.Start(r.Context(), "HttpHealthHandler.Check")
	defer span.End()
	logger.Info(ctx, "HttpHealthHandler")

	status := h.service.Check(ctx)

	overall := "UP"
	code := http.StatusOK
	if status.Mongo == "DOWN" {
		overall = "DOWN"
		code = http.StatusInternalServerError
	}

	writeJSON(w, code, map[string]any{
		"status": overall,
		"data": map[string]string{
			"mongodb": status.Mongo,
		},
	})
}
