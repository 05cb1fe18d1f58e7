package http

import (
	"net/http"

	"chemmarket/internal/logger"
	"chemmarket/internal/service"

	"go.opentelemetry.io/otel"
)

type AdminHandler struct {
	service *service.AdminService
}

var HttpAdminHandlerTracer = otel.Tracer("HttpAdminHandler")

func NewAdminHandler(service *service.AdminService) *AdminHandler {
	return &AdminHandler{service: service}
}

// ListUsers handles GET /admin/users.
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	ctx, span := HttpAdminHandlerTracer.Start(r.Context(), "HttpAdminHandler.ListUsers")
	defer span.End()
	logger.Info(ctx, "HttpAdminHandler")

	list, err := h.service.ListUsers(ctx, queryInt(r, "page"), queryInt(r, "limit"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeSellerList(w, "Users fetched successfully", list)
}

// GetUser handles GET /admin/users/{id}.
func (h *AdminHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	ctx, span := HttpAdminHandlerTracer.Start(r.Context(), "HttpAdminHandler.GetUser")
	defer span.End()
	logger.Info(ctx, "HttpAdminHandler")

	user, err := h.service.GetUser(ctx, r.PathValue("id"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "User fetched successfully",
		"user":    user,
	})
}

type activeUpdateRequest struct {
	Active bool `json:"active"`
}

type verifiedUpdateRequest struct {
	Verified bool `json:"verified"`
}

// SetUserActive handles PATCH /admin/users/{id}/active.
func (h *AdminHandler) SetUserActive(w http.ResponseWriter, r *http.Request) {
	ctx, span := HttpAdminHandlerTracer.Start(r.Context(), "HttpAdminHandler.SetUserActive")
	defer span.End()
	logger.Info(ctx, "HttpAdminHandler")

	var in activeUpdateRequest
	if err := decodeJSON(r, &in); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.service.SetUserActive(ctx, r.PathValue("id"), in.Active); err != nil {
		writeError(ctx, w, err)
		return
	}
	writeMessage(w, http.StatusOK, "User updated successfully")
}

// SetUserVerified handles PATCH /admin/users/{id}/verify.
func (h *AdminHandler) SetUserVerified(w http.ResponseWriter, r *http.Request) {
	ctx, span := HttpAdminHandlerTracer.Start(r.Context(), "HttpAdminHandler.SetUserVerified")
	defer span.End()
	logger.Info(ctx, "HttpAdminHandler")

	var in verifiedUpdateRequest
	if err := decodeJSON(r, &in); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.service.SetUserVerified(ctx, r.PathValue("id"), in.Verified); err != nil {
		writeError(ctx, w, err)
		return
	}
	writeMessage(w, http.StatusOK, "User updated successfully")
}

// DeleteUser handles DELETE /admin/users/{id}.
func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	ctx, span := HttpAdminHandlerTracer.Start(r.Context(), "HttpAdminHandler.DeleteUser")
	defer span.End()
	logger.Info(ctx, "HttpAdminHandler")

	if err := h.service.DeleteUser(ctx, r.PathValue("id")); err != nil {
		writeError(ctx, w, err)
		return
	}
	writeMessage(w, http.StatusOK, "User and products deleted successfully")
}

// ListProducts handles GET /admin/products.
func (h *AdminHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	ctx, span := HttpAdminHandlerTracer.Start(r.Context(), "HttpAdminHandler.ListProducts")
	defer span.End()
	logger.Info(ctx, "HttpAdminHandler")

	list, err := h.service.ListProducts(ctx, queryInt(r, "page"), queryInt(r, "limit"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeSellerList(w, "Products fetched successfully", list)
}

// SetProductVerified handles PATCH /admin/products/{id}/verify.
func (h *AdminHandler) SetProductVerified(w http.ResponseWriter, r *http.Request) {
	ctx, span := HttpAdminHandlerTracer.Start(r.Context(), "HttpAdminHandler.SetProductVerified")
	defer span.End()
	logger.Info(ctx, "HttpAdminHandler")

	var in verifiedUpdateRequest
	if err := decodeJSON(r, &in); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.service.SetProductVerified(ctx, r.PathValue("id"), in.Verified); err != nil {
		writeError(ctx, w, err)
		return
	}
	writeMessage(w, http.StatusOK, "Product updated successfully")
}

type visibleUpdateRequest struct {
	Visible bool `json:"visible"`
}

// SetProductVisible handles PATCH /admin/products/{id}/visibility.
func (h *AdminHandler) SetProductVisible(w http.ResponseWriter, r *http.Request) {
	ctx, span := HttpAdminHandlerTracer.Start(r.Context(), "HttpAdminHandler.SetProductVisible")
	defer span.End()
	logger.Info(ctx, "HttpAdminHandler")

	var in visibleUpdateRequest
	if err := decodeJSON(r, &in); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.service.SetProductVisible(ctx, r.PathValue("id"), in.Visible); err != nil {
		writeError(ctx, w, err)
		return
	}
	writeMessage(w, http.StatusOK, "Product updated successfully")
}

// SetProductStatus handles PATCH /admin/products/{id}/status.
func (h *AdminHandler) SetProductStatus(w http.ResponseWriter, r *http.Request) {
	ctx, span := HttpAdminHandlerTracer.Start(r.Context(), "HttpAdminHandler.SetProductStatus")
	defer span.End()
	logger.Info(ctx, "HttpAdminHandler")

	var in statusUpdateRequest
	if err := decodeJSON(r, &in); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.service.SetProductStatus(ctx, r.PathValue("id"), in.Status); err != nil {
		writeError(ctx, w, err)
		return
	}
	writeMessage(w, http.StatusOK, "Product updated successfully")
}

type featuredUpdateRequest struct {
	Featured bool `json:"featured"`
}

// SetProductFeatured handles PATCH /admin/products/{id}/featured.
func (h *AdminHandler) SetProductFeatured(w http.ResponseWriter, r *http.Request) {
	ctx, span := HttpAdminHandlerTracer.Start(r.Context(), "HttpAdminHandler.SetProductFeatured")
	defer span.End()
	logger.Info(ctx, "HttpAdminHandler")

	var in featuredUpdateRequest
	if err := decodeJSON(r, &in); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.service.SetProductFeatured(ctx, r.PathValue("id"), in.Featured); err != nil {
		writeError(ctx, w, err)
		return
	}
	writeMessage(w, http.StatusOK, "Product updated successfully")
}

// DeleteProduct handles DELETE /admin/products/{id}.
func (h *AdminHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	ctx, span := HttpAdminHandlerTracer.Start(r.Context(), "HttpAdminHandler.DeleteProduct")
	defer span.End()
	logger.Info(ctx, "HttpAdminHandler")

	if err := h.service.DeleteProduct(ctx, r.PathValue("id")); err != nil {
		writeError(ctx, w, err)
		return
	}
	writeMessage(w, http.StatusOK, "Product deleted successfully")
}

// ListRequests handles GET /admin/requests.
func (h *AdminHandler) ListRequests(w http.ResponseWriter, r *http.Request) {
	ctx, span := HttpAdminHandlerTracer.Start(r.Context(), "HttpAdminHandler.ListRequests")
	defer span.End()
	logger.Info(ctx, "HttpAdminHandler")

	page, err := h.service.ListRequests(ctx, queryInt(r, "page"), queryInt(r, "limit"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message":    "Requests fetched successfully",
		"total":      page.Total,
		"count":      len(page.Requests),
		"page":       page.Page,
		"limit":      page.Limit,
		"totalPages": page.TotalPages,
		"requests":   page.Requests,
	})
}

// GetRequest handles GET /admin/requests/{id}.
func (h *AdminHandler) GetRequest(w http.ResponseWriter, r *http.Request) {
	ctx, span := HttpAdminHandlerTracer.Start(r.Context(), "HttpAdminHandler.GetRequest")
	defer span.End()
	logger.Info(ctx, "HttpAdminHandler")

	request, err := h.service.GetRequest(ctx, r.PathValue("id"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Request fetched successfully",
		"request": request,
	})
}

// SetRequestVerified handles PATCH /admin/requests/{id}/verify.
func (h *AdminHandler) SetRequestVerified(w http.ResponseWriter, r *http.Request) {
	ctx, span := HttpAdminHandlerTracer.Start(r.Context(), "HttpAdminHandler.SetRequestVerified")
	defer span.End()
	logger.Info(ctx, "HttpAdminHandler")

	var in verifiedUpdateRequest
	if err := decodeJSON(r, &in); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.service.SetRequestVerified(ctx, r.PathValue("id"), in.Verified); err != nil {
		writeError(ctx, w, err)
		return
	}
	writeMessage(w, http.StatusOK, "Request updated successfully")
}

type assignRequestBody struct {
	Seller string `json:"seller"`
}

// AssignRequest handles PATCH /admin/requests/{id}/assign.
func (h *AdminHandler) AssignRequest(w http.ResponseWriter, r *http.Request) {
	ctx, span := HttpAdminHandlerTracer.Start(r.Context(), "HttpAdminHandler.AssignRequest")
	defer span.End()
	logger.Info(ctx, "HttpAdminHandler")

	var in assignRequestBody
	if err := decodeJSON(r, &in); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.service.AssignRequest(ctx, r.PathValue("id"), in.Seller); err != nil {
		writeError(ctx, w, err)
		return
	}
	writeMessage(w, http.StatusOK, "Request assigned successfully")
}

// DeleteRequest handles DELETE /admin/requests/{id}.
func (h *AdminHandler) DeleteRequest(w http.ResponseWriter, r *http.Request) {
	ctx, span := HttpAdminHandlerTracer.Start(r.Context(), "HttpAdminHandler.DeleteRequest")
	defer span.End()
	logger.Info(ctx, "HttpAdminHandler")

	if err := h.service.DeleteRequest(ctx, r.PathValue("id")); err != nil {
		writeError(ctx, w, err)
		return
	}
	writeMessage(w, http.StatusOK, "Request deleted successfully")
}

// Stats handles GET /admin/stats.
func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	ctx, span := HttpAdminHandlerTracer.Start(r.Context(), "HttpAdminHandler.Stats")
	defer span.End()
	logger.Info(ctx, "HttpAdminHandler")

	stats, err := h.service.Stats(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Stats fetched successfully",
		"stats":   stats,
	})
}
