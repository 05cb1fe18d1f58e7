package http

import (
	"net/http"
	"strconv"

	"chemmarket/internal/logger"
	middleware_http "chemmarket/internal/middleware/http"
	"chemmarket/internal/service"
	"chemmarket/internal/upload"

	"go.opentelemetry.io/otel"
)

const maxUploadSize = 10 << 20

type SellerHandler struct {
	service  *service.SellerService
	uploader *upload.Uploader
}

var HttpSellerHandlerTracer = otel.Tracer("HttpSellerHandler")

func NewSellerHandler(service *service.SellerService, uploader *upload.Uploader) *SellerHandler {
	return &SellerHandler{service: service, uploader: uploader}
}

// productInputFromForm reads a multipart form: JSON-typed fields arrive as
// form values, the image as a file part.
func productInputFromForm(r *http.Request) (service.ProductInput, error) {
	var in service.ProductInput
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		return in, service.Invalid("Invalid multipart payload")
	}
	in.Name = r.FormValue("name")
	in.Description = r.FormValue("description")
	in.CI = r.FormValue("ci")
	in.Tone = r.FormValue("tone")
	in.Currency = r.FormValue("currency")
	in.StockUnit = r.FormValue("stockUnit")
	in.Status = r.FormValue("status")
	in.Price, _ = strconv.ParseFloat(r.FormValue("price"), 64)
	in.Stock, _ = strconv.ParseFloat(r.FormValue("stock"), 64)
	if v := r.FormValue("isVisible"); v != "" {
		visible := v == "true"
		in.IsVisible = &visible
	}
	return in, nil
}

func (h *SellerHandler) uploadImage(r *http.Request) (string, error) {
	file, header, err := r.FormFile("image")
	if err == http.ErrMissingFile {
		return "", nil
	}
	if err != nil {
		return "", service.Invalid("Invalid image upload")
	}
	defer file.Close()
	return h.uploader.Upload(r.Context(), file, header.Filename, header.Header.Get("Content-Type"))
}

// CreateProduct handles POST /seller/products.
func (h *SellerHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	ctx, span := HttpSellerHandlerTracer.Start(r.Context(), "HttpSellerHandler.CreateProduct")
	defer span.End()
	logger.Info(ctx, "HttpSellerHandler")

	in, err := productInputFromForm(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	imageKey, err := h.uploadImage(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	seller := middleware_http.UserFromContext(ctx)
	product, err := h.service.CreateProduct(ctx, seller, in, imageKey)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "Product created successfully",
		"product": product,
	})
}

type sellerListResponse[T any] struct {
	Message    string `json:"message"`
	Total      int64  `json:"total"`
	Count      int    `json:"count"`
	Page       int    `json:"page"`
	Limit      int    `json:"limit"`
	TotalPages int64  `json:"totalPages"`
	Items      []T    `json:"items"`
}

func writeSellerList[T any](w http.ResponseWriter, msg string, list *service.SellerList[T]) {
	writeJSON(w, http.StatusOK, sellerListResponse[T]{
		Message:    msg,
		Total:      list.Total,
		Count:      len(list.Items),
		Page:       list.Page,
		Limit:      list.Limit,
		TotalPages: list.TotalPages,
		Items:      list.Items,
	})
}

// ListProducts handles GET /seller/products.
func (h *SellerHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	ctx, span := HttpSellerHandlerTracer.Start(r.Context(), "HttpSellerHandler.ListProducts")
	defer span.End()
	logger.Info(ctx, "HttpSellerHandler")

	q := r.URL.Query()
	seller := middleware_http.UserFromContext(ctx)
	list, err := h.service.ListProducts(ctx, seller, q.Get("status"), q.Get("search"), queryInt(r, "page"), queryInt(r, "limit"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeSellerList(w, "Products fetched successfully", list)
}

// GetProduct handles GET /seller/products/{id}.
func (h *SellerHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	ctx, span := HttpSellerHandlerTracer.Start(r.Context(), "HttpSellerHandler.GetProduct")
	defer span.End()
	logger.Info(ctx, "HttpSellerHandler")

	seller := middleware_http.UserFromContext(ctx)
	product, err := h.service.GetProduct(ctx, seller, r.PathValue("id"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Product fetched successfully",
		"product": product,
	})
}

// UpdateProduct handles PUT /seller/products/{id}.
func (h *SellerHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	ctx, span := HttpSellerHandlerTracer.Start(r.Context(), "HttpSellerHandler.UpdateProduct")
	defer span.End()
	logger.Info(ctx, "HttpSellerHandler")

	in, err := productInputFromForm(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	imageKey, err := h.uploadImage(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	seller := middleware_http.UserFromContext(ctx)
	product, err := h.service.UpdateProduct(ctx, seller, r.PathValue("id"), in, imageKey)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Product updated successfully",
		"product": product,
	})
}

// ToggleProductStatus handles PATCH /seller/products/{id}/status.
func (h *SellerHandler) ToggleProductStatus(w http.ResponseWriter, r *http.Request) {
	ctx, span := HttpSellerHandlerTracer.Start(r.Context(), "HttpSellerHandler.ToggleProductStatus")
	defer span.End()
	logger.Info(ctx, "HttpSellerHandler")

	seller := middleware_http.UserFromContext(ctx)
	product, err := h.service.ToggleProductStatus(ctx, seller, r.PathValue("id"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Product status updated successfully",
		"product": product,
	})
}

// DeleteProduct handles DELETE /seller/products/{id}.
func (h *SellerHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	ctx, span := HttpSellerHandlerTracer.Start(r.Context(), "HttpSellerHandler.DeleteProduct")
	defer span.End()
	logger.Info(ctx, "HttpSellerHandler")

	seller := middleware_http.UserFromContext(ctx)
	if err := h.service.DeleteProduct(ctx, seller, r.PathValue("id")); err != nil {
		writeError(ctx, w, err)
		return
	}
	writeMessage(w, http.StatusOK, "Product deleted successfully")
}

// ListOrders handles GET /seller/orders.
func (h *SellerHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	ctx, span := HttpSellerHandlerTracer.Start(r.Context(), "HttpSellerHandler.ListOrders")
	defer span.End()
	logger.Info(ctx, "HttpSellerHandler")

	q := r.URL.Query()
	seller := middleware_http.UserFromContext(ctx)
	list, err := h.service.ListOrders(ctx, seller, q.Get("status"), q.Get("search"), queryInt(r, "page"), queryInt(r, "limit"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeSellerList(w, "Orders fetched successfully", list)
}

type statusUpdateRequest struct {
	Status string `json:"status"`
}

// UpdateOrderStatus handles PATCH /seller/orders/{id}/status.
func (h *SellerHandler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	ctx, span := HttpSellerHandlerTracer.Start(r.Context(), "HttpSellerHandler.UpdateOrderStatus")
	defer span.End()
	logger.Info(ctx, "HttpSellerHandler")

	var in statusUpdateRequest
	if err := decodeJSON(r, &in); err != nil {
		writeError(ctx, w, err)
		return
	}
	seller := middleware_http.UserFromContext(ctx)
	if err := h.service.UpdateOrderStatus(ctx, seller, r.PathValue("id"), in.Status); err != nil {
		writeError(ctx, w, err)
		return
	}
	writeMessage(w, http.StatusOK, "Order status updated successfully")
}

// ListRequests handles GET /seller/requests.
func (h *SellerHandler) ListRequests(w http.ResponseWriter, r *http.Request) {
	ctx, span := HttpSellerHandlerTracer.Start(r.Context(), "HttpSellerHandler.ListRequests")
	defer span.End()
	logger.Info(ctx, "HttpSellerHandler")

	seller := middleware_http.UserFromContext(ctx)
	list, err := h.service.ListRequests(ctx, seller, queryInt(r, "page"), queryInt(r, "limit"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeSellerList(w, "Requests fetched successfully", list)
}

// UpdateRequestStatus handles PATCH /seller/requests/{id}/status.
func (h *SellerHandler) UpdateRequestStatus(w http.ResponseWriter, r *http.Request) {
	ctx, span := HttpSellerHandlerTracer.Start(r.Context(), "HttpSellerHandler.UpdateRequestStatus")
	defer span.End()
	logger.Info(ctx, "HttpSellerHandler")

	var in statusUpdateRequest
	if err := decodeJSON(r, &in); err != nil {
		writeError(ctx, w, err)
		return
	}
	seller := middleware_http.UserFromContext(ctx)
	if err := h.service.UpdateRequestStatus(ctx, seller, r.PathValue("id"), in.Status); err != nil {
		writeError(ctx, w, err)
		return
	}
	writeMessage(w, http.StatusOK, "Request status updated successfully")
}

// Analytics handles GET /seller/analytics.
func (h *SellerHandler) Analytics(w http.ResponseWriter, r *http.Request) {
	ctx, span := HttpSellerHandlerTracer.Start(r.Context(), "HttpSellerHandler.Analytics")
	defer span.End()
	logger.Info(ctx, "HttpSellerHandler")

	seller := middleware_http.UserFromContext(ctx)
	analytics, err := h.service.Analytics(ctx, seller)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message":   "Analytics fetched successfully",
		"analytics": analytics,
	})
}

// VerificationStatus handles GET /seller/verification.
func (h *SellerHandler) VerificationStatus(w http.ResponseWriter, r *http.Request) {
	ctx, span := HttpSellerHandlerTracer.Start(r.Context(), "HttpSellerHandler.VerificationStatus")
	defer span.End()
	logger.Info(ctx, "HttpSellerHandler")

	seller := middleware_http.UserFromContext(ctx)
	writeJSON(w, http.StatusOK, map[string]any{
		"message":    "Verification status fetched successfully",
		"isVerified": seller.IsVerified,
		"isActive":   seller.IsActive,
	})
}
