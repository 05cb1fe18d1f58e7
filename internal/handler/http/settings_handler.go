package http

import (
	"net/http"

	"chemmarket/internal/logger"
	"chemmarket/internal/service"

	"go.opentelemetry.io/otel"
)

type SettingsHandler struct {
	service *service.SettingsService
}

var HttpSettingsHandlerTracer = otel.Tracer("HttpSettingsHandler")

func NewSettingsHandler(service *service.SettingsService) *SettingsHandler {
	return &SettingsHandler{service: service}
}

// Rate handles GET /settings/rate.
func (h *SettingsHandler) Rate(w http.ResponseWriter, r *http.Request) {
	ctx, span := HttpSettingsHandlerTracer.Start(r.Context(), "HttpSettingsHandler.Rate")
	defer span.End()
	logger.Info(ctx, "HttpSettingsHandler")

	rate, err := h.service.UsdToInrRate(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message":      "Settings fetched successfully",
		"usdToInrRate": rate,
	})
}

type rateUpdateRequest struct {
	UsdToInrRate float64 `json:"usdToInrRate"`
}

// UpdateRate handles PUT /admin/settings/rate.
func (h *SettingsHandler) UpdateRate(w http.ResponseWriter, r *http.Request) {
	ctx, span := HttpSettingsHandlerTracer.Start(r.Context(), "HttpSettingsHandler.UpdateRate")
	defer span.End()
	logger.Info(ctx, "HttpSettingsHandler")

	var in rateUpdateRequest
	if err := decodeJSON(r, &in); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.service.UpdateUsdToInrRate(ctx, in.UsdToInrRate); err != nil {
		writeError(ctx, w, err)
		return
	}
	writeMessage(w, http.StatusOK, "Exchange rate updated successfully")
}
