package http

import (
	"net/http"

	"chemmarket/internal/logger"
	"chemmarket/internal/service"

	"go.opentelemetry.io/otel"
)

type OrderHandler struct {
	service *service.OrderService
}

var HttpOrderHandlerTracer = otel.Tracer("HttpOrderHandler")

func NewOrderHandler(service *service.OrderService) *OrderHandler {
	return &OrderHandler{service: service}
}

// Create handles POST /orders, the public buy endpoint.
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx, span := HttpOrderHandlerTracer.Start(r.Context(), "HttpOrderHandler.Create")
	defer span.End()
	logger.Info(ctx, "HttpOrderHandler")

	var in service.OrderInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(ctx, w, err)
		return
	}

	order, err := h.service.Create(ctx, in)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "Order placed successfully",
		"order":   order,
	})
}
