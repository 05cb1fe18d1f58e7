package service

import (
	"context"
	"math"
	"strings"

	"chemmarket/internal/catalog"
	"chemmarket/internal/logger"
	"chemmarket/internal/model"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.opentelemetry.io/otel"
)

// Pagination bounds for product discovery.
const (
	DefaultPageLimit = 25
	MaxPageLimit     = 50
)

// ProductCatalog retrieves eligible products matching a free-text search.
type ProductCatalog interface {
	FindCatalog(ctx context.Context, search string) ([]model.ProductSummary, error)
}

// SellerDirectory resolves seller ids to active seller identities.
type SellerDirectory interface {
	FindActiveSellers(ctx context.Context, ids []primitive.ObjectID) (map[string]model.SellerRef, error)
}

// RateReader exposes the current USD to INR conversion rate. A nil rate means
// settings are uninitialized; that is not an error.
type RateReader interface {
	UsdToInrRate(ctx context.Context) (*float64, error)
}

// CatalogService is the product discovery query engine: it searches the
// eligible catalog, enriches candidates with seller identity, computes filter
// facets from the search set, and applies the in-memory
// filter/sort/paginate stage.
type CatalogService struct {
	products ProductCatalog
	sellers  SellerDirectory
	rates    RateReader
}

var CatalogServiceTracer = otel.Tracer("CatalogService")

func NewCatalogService(products ProductCatalog, sellers SellerDirectory, rates RateReader) *CatalogService {
	return &CatalogService{
		products: products,
		sellers:  sellers,
		rates:    rates,
	}
}

type BrowseQuery struct {
	Search  string
	Filters catalog.Filters
	Sort    string
	Page    int
	Limit   int
}

type BrowseResult struct {
	Products     []model.CatalogProduct
	Total        int
	TotalPages   int
	Page         int
	Limit        int
	Facets       catalog.Facets
	UsdToInrRate *float64
}

// ClampPage normalizes a requested page to >= 1.
func ClampPage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}

// ClampLimit normalizes a requested page size into [1, MaxPageLimit], with
// DefaultPageLimit for absent or non-positive values.
func ClampLimit(limit int) int {
	if limit == 0 {
		return DefaultPageLimit
	}
	if limit < 1 {
		return 1
	}
	if limit > MaxPageLimit {
		return MaxPageLimit
	}
	return limit
}

// pageSkip converts a clamped 1-based page into a Mongo skip offset. Pages so
// large that the multiplication would overflow are pinned past the end, which
// behaves like any other beyond-the-end page: an empty result, not an error.
func pageSkip(page, limit int) int64 {
	if limit > 0 && int64(page-1) > math.MaxInt64/int64(limit) {
		return math.MaxInt64
	}
	return int64(page-1) * int64(limit)
}

// Browse runs the full discovery pipeline. Facets always describe the
// enriched search set, never the filtered one, so the filter UI stays stable
// across filter changes. Store failures abort the request; a missing settings
// document only nulls the rate.
func (s *CatalogService) Browse(ctx context.Context, q BrowseQuery) (*BrowseResult, error) {
	ctx, span := CatalogServiceTracer.Start(ctx, "CatalogService.Browse")
	defer span.End()
	logger.Info(ctx, "Service")

	page := ClampPage(q.Page)
	limit := ClampLimit(q.Limit)

	candidates, err := s.products.FindCatalog(ctx, strings.TrimSpace(q.Search))
	if err != nil {
		return nil, err
	}

	rate, err := s.rates.UsdToInrRate(ctx)
	if err != nil {
		return nil, err
	}

	result := &BrowseResult{
		Products:     []model.CatalogProduct{},
		Page:         page,
		Limit:        limit,
		Facets:       catalog.Facets{Companies: []string{}},
		UsdToInrRate: rate,
	}
	if len(candidates) == 0 {
		return result, nil
	}

	enriched, err := s.enrich(ctx, candidates)
	if err != nil {
		return nil, err
	}

	result.Facets = catalog.ComputeFacets(enriched)
	pageOut := catalog.Apply(enriched, q.Filters, q.Sort, page, limit)
	result.Products = pageOut.Items
	result.Total = pageOut.Total
	result.TotalPages = pageOut.TotalPages
	return result, nil
}

// enrich resolves distinct seller ids and pairs each candidate with its
// seller. A candidate whose seller is missing or inactive is dropped, not
// nulled: discoverable products always carry a live seller.
func (s *CatalogService) enrich(ctx context.Context, candidates []model.ProductSummary) ([]model.CatalogProduct, error) {
	seen := make(map[string]bool, len(candidates))
	ids := make([]primitive.ObjectID, 0, len(candidates))
	for _, c := range candidates {
		if hex := c.Seller.Hex(); !seen[hex] {
			seen[hex] = true
			ids = append(ids, c.Seller)
		}
	}

	sellers, err := s.sellers.FindActiveSellers(ctx, ids)
	if err != nil {
		return nil, err
	}

	enriched := make([]model.CatalogProduct, 0, len(candidates))
	for _, c := range candidates {
		seller, ok := sellers[c.Seller.Hex()]
		if !ok {
			continue
		}
		enriched = append(enriched, c.Enrich(seller))
	}
	return enriched, nil
}
