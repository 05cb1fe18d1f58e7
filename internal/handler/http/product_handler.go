package http

import (
	"net/http"

	"chemmarket/internal/logger"
	"chemmarket/internal/model"
	"chemmarket/internal/service"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.opentelemetry.io/otel"
)

type ProductHandler struct {
	service *service.ProductService
}

var HttpProductHandlerTracer = otel.Tracer("HttpProductHandler")

func NewProductHandler(service *service.ProductService) *ProductHandler {
	return &ProductHandler{service: service}
}

type productDetailResponse struct {
	Message       string              `json:"message"`
	Product       *model.Product      `json:"product"`
	Ratings       []model.Rating      `json:"ratings"`
	RatingCount   int                 `json:"ratingCount"`
	RatingSum     int                 `json:"ratingSum"`
	RatingAverage float64             `json:"ratingAverage"`
	SellerName    string              `json:"sellerName"`
	SellerCompany string              `json:"sellerCompany"`
	SellerID      *primitive.ObjectID `json:"sellerId,omitempty"`
	UsdToInrRate  *float64            `json:"usdToInrRate"`
}

// Detail handles GET /products/{id}.
func (h *ProductHandler) Detail(w http.ResponseWriter, r *http.Request) {
	ctx, span := HttpProductHandlerTracer.Start(r.Context(), "HttpProductHandler.Detail")
	defer span.End()
	logger.Info(ctx, "HttpProductHandler")

	detail, err := h.service.Detail(ctx, r.PathValue("id"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeJSON(w, http.StatusOK, productDetailResponse{
		Message:       "Product fetched successfully",
		Product:       detail.Product,
		Ratings:       detail.Ratings,
		RatingCount:   detail.RatingCount,
		RatingSum:     detail.RatingSum,
		RatingAverage: detail.RatingAverage,
		SellerName:    detail.SellerName,
		SellerCompany: detail.SellerCompany,
		SellerID:      detail.SellerID,
		UsdToInrRate:  detail.UsdToInrRate,
	})
}

type productListResponse struct {
	Message      string                 `json:"message"`
	Total        int64                  `json:"total"`
	Count        int                    `json:"count"`
	Page         int                    `json:"page"`
	Limit        int                    `json:"limit"`
	TotalPages   int64                  `json:"totalPages"`
	Products     []model.CatalogProduct `json:"products"`
	Seller       string                 `json:"seller,omitempty"`
	UsdToInrRate *float64               `json:"usdToInrRate"`
}

// Featured handles GET /products/featured.
func (h *ProductHandler) Featured(w http.ResponseWriter, r *http.Request) {
	ctx, span := HttpProductHandlerTracer.Start(r.Context(), "HttpProductHandler.Featured")
	defer span.End()
	logger.Info(ctx, "HttpProductHandler")

	listing, err := h.service.Featured(ctx, queryInt(r, "page"), queryInt(r, "limit"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeJSON(w, http.StatusOK, productListResponse{
		Message:      "Featured products fetched successfully",
		Total:        listing.Total,
		Count:        len(listing.Products),
		Page:         listing.Page,
		Limit:        listing.Limit,
		TotalPages:   listing.TotalPages,
		Products:     listing.Products,
		UsdToInrRate: listing.UsdToInrRate,
	})
}

// BySeller handles GET /products/seller/{id}. An optional exclude parameter
// drops the product the buyer is already looking at.
func (h *ProductHandler) BySeller(w http.ResponseWriter, r *http.Request) {
	ctx, span := HttpProductHandlerTracer.Start(r.Context(), "HttpProductHandler.BySeller")
	defer span.End()
	logger.Info(ctx, "HttpProductHandler")

	listing, err := h.service.SellerProducts(ctx, r.PathValue("id"), r.URL.Query().Get("exclude"), queryInt(r, "page"), queryInt(r, "limit"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeJSON(w, http.StatusOK, productListResponse{
		Message:      "Seller products fetched successfully",
		Total:        listing.Total,
		Count:        len(listing.Products),
		Page:         listing.Page,
		Limit:        listing.Limit,
		TotalPages:   listing.TotalPages,
		Products:     listing.Products,
		Seller:       listing.Seller,
		UsdToInrRate: listing.UsdToInrRate,
	})
}

// Contact handles GET /sellers/{id}/contact.
func (h *ProductHandler) Contact(w http.ResponseWriter, r *http.Request) {
	ctx, span := HttpProductHandlerTracer.Start(r.Context(), "HttpProductHandler.Contact")
	defer span.End()
	logger.Info(ctx, "HttpProductHandler")

	contact, err := h.service.Contact(ctx, r.PathValue("id"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Seller fetched successfully",
		"seller":  contact,
	})
}

type searchResponse struct {
	Message      string          `json:"message"`
	Total        int64           `json:"total"`
	Count        int             `json:"count"`
	Page         int             `json:"page"`
	Limit        int             `json:"limit"`
	TotalPages   int64           `json:"totalPages"`
	Products     []model.Product `json:"products"`
	UsdToInrRate float64         `json:"usdToInrRate"`
}

// Search handles GET /search/{term}, kept for older clients.
func (h *ProductHandler) Search(w http.ResponseWriter, r *http.Request) {
	ctx, span := HttpProductHandlerTracer.Start(r.Context(), "HttpProductHandler.Search")
	defer span.End()
	logger.Info(ctx, "HttpProductHandler")

	result, err := h.service.Search(ctx, r.PathValue("term"), queryInt(r, "page"), queryInt(r, "limit"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeJSON(w, http.StatusOK, searchResponse{
		Message:      "Products fetched successfully",
		Total:        result.Total,
		Count:        len(result.Products),
		Page:         result.Page,
		Limit:        result.Limit,
		TotalPages:   result.TotalPages,
		Products:     result.Products,
		UsdToInrRate: result.UsdToInrRate,
	})
}
