package http

import (
	"net/http"
	"strconv"

	"chemmarket/internal/logger"
	"chemmarket/internal/service"
	"chemmarket/internal/upload"

	"go.opentelemetry.io/otel"
)

type RequestHandler struct {
	service  *service.RequestService
	uploader *upload.Uploader
}

var HttpRequestHandlerTracer = otel.Tracer("HttpRequestHandler")

func NewRequestHandler(service *service.RequestService, uploader *upload.Uploader) *RequestHandler {
	return &RequestHandler{service: service, uploader: uploader}
}

// Create handles POST /requests. Buyers can attach a reference image.
func (h *RequestHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx, span := HttpRequestHandlerTracer.Start(r.Context(), "HttpRequestHandler.Create")
	defer span.End()
	logger.Info(ctx, "HttpRequestHandler")

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		writeError(ctx, w, service.Invalid("Invalid multipart payload"))
		return
	}

	quantity, _ := strconv.ParseFloat(r.FormValue("quantity"), 64)
	in := service.RequestInput{
		Name:          r.FormValue("name"),
		ContactMethod: r.FormValue("contactMethod"),
		Contact:       r.FormValue("contact"),
		CountryCode:   r.FormValue("countryCode"),
		CI:            r.FormValue("ci"),
		Tone:          r.FormValue("tone"),
		Quantity:      quantity,
		StockUnit:     r.FormValue("stockUnit"),
		Note:          r.FormValue("note"),
	}

	imageKey := ""
	if file, header, err := r.FormFile("image"); err == nil {
		defer file.Close()
		imageKey, err = h.uploader.Upload(ctx, file, header.Filename, header.Header.Get("Content-Type"))
		if err != nil {
			writeError(ctx, w, err)
			return
		}
	}

	request, err := h.service.Create(ctx, in, imageKey)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "Request submitted successfully",
		"request": request,
	})
}

// ListPublic handles GET /requests, serving only admin-verified requests.
func (h *RequestHandler) ListPublic(w http.ResponseWriter, r *http.Request) {
	ctx, span := HttpRequestHandlerTracer.Start(r.Context(), "HttpRequestHandler.ListPublic")
	defer span.End()
	logger.Info(ctx, "HttpRequestHandler")

	page, err := h.service.ListPublic(ctx, r.URL.Query().Get("search"), queryInt(r, "page"), queryInt(r, "limit"))
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
