package http

import (
	"net/http"

	"chemmarket/internal/catalog"
	"chemmarket/internal/logger"
	"chemmarket/internal/model"
	"chemmarket/internal/service"

	"go.opentelemetry.io/otel"
)

type CatalogHandler struct {
	service *service.CatalogService
}

var HttpCatalogHandlerTracer = otel.Tracer("HttpCatalogHandler")

func NewCatalogHandler(service *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{service: service}
}

type browseResponse struct {
	Message      string                 `json:"message"`
	Total        int                    `json:"total"`
	Count        int                    `json:"count"`
	Page         int                    `json:"page"`
	Limit        int                    `json:"limit"`
	TotalPages   int                    `json:"totalPages"`
	Products     []model.CatalogProduct `json:"products"`
	UsdToInrRate *float64               `json:"usdToInrRate"`
	Companies    []string               `json:"companies"`
	MaxPrice     float64                `json:"maxPrice"`
	MaxStock     float64                `json:"maxStock"`
}

// Browse handles GET /products, the discovery endpoint. Filters arrive as a
// single encoded query parameter, e.g. filters=price:100-500;company:acme.
func (h *CatalogHandler) Browse(w http.ResponseWriter, r *http.Request) {
	ctx, span := HttpCatalogHandlerTracer.Start(r.Context(), "HttpCatalogHandler.Browse")
	defer span.End()
	logger.Info(ctx, "HttpCatalogHandler")

	q := r.URL.Query()
	result, err := h.service.Browse(ctx, service.BrowseQuery{
		Search:  q.Get("search"),
		Filters: catalog.ParseFilters(q.Get("filters")),
		Sort:    q.Get("sort"),
		Page:    queryInt(r, "page"),
		Limit:   queryInt(r, "limit"),
	})
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeJSON(w, http.StatusOK, browseResponse{
		Message:      "Products fetched successfully",
		Total:        result.Total,
		Count:        len(result.Products),
		Page:         result.Page,
		Limit:        result.Limit,
		TotalPages:   result.TotalPages,
		Products:     result.Products,
		UsdToInrRate: result.UsdToInrRate,
		Companies:    result.Facets.Companies,
		MaxPrice:     result.Facets.MaxPrice,
		MaxStock:     result.Facets.MaxStock,
	})
}
