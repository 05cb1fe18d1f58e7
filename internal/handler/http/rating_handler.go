package http

import (
	"net/http"

	"chemmarket/internal/logger"
	"chemmarket/internal/service"

	"go.opentelemetry.io/otel"
)

type RatingHandler struct {
	service *service.RatingService
}

var HttpRatingHandlerTracer = otel.Tracer("HttpRatingHandler")

func NewRatingHandler(service *service.RatingService) *RatingHandler {
	return &RatingHandler{service: service}
}

// Create handles POST /products/{id}/ratings.
func (h *RatingHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx, span := HttpRatingHandlerTracer.Start(r.Context(), "HttpRatingHandler.Create")
	defer span.End()
	logger.Info(ctx, "HttpRatingHandler")

	var in service.RatingInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(ctx, w, err)
		return
	}

	rating, err := h.service.Create(ctx, r.PathValue("id"), in)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "Rating submitted successfully",
		"rating":  rating,
	})
}
