package catalog

import (
	"sort"
	"strings"

	"chemmarket/internal/model"
)

// SortRelevant leaves the candidate list in the order the store produced it.
const SortRelevant = "relevant"

// Page is one page of filtered, sorted catalog products together with the
// pre-slice totals pagination UIs need.
type Page struct {
	Items      []model.CatalogProduct
	Total      int
	TotalPages int
}

// Facets summarize what filters are available for a search result set: the
// distinct seller companies plus price and stock maxima. They are computed
// over the enriched pre-filter candidates so the filter UI stays stable no
// matter which filters are currently applied.
type Facets struct {
	Companies []string
	MaxPrice  float64
	MaxStock  float64
}

// ComputeFacets derives Facets from an enriched candidate set. Companies keep
// first-seen order with empty names skipped; maxima are 0 for an empty set.
func ComputeFacets(candidates []model.CatalogProduct) Facets {
	f := Facets{Companies: []string{}}
	seen := make(map[string]bool, len(candidates))
	for _, c := range candidates {
		if name := c.Seller.Company; name != "" && !seen[name] {
			seen[name] = true
			f.Companies = append(f.Companies, name)
		}
		if c.Price > f.MaxPrice {
			f.MaxPrice = c.Price
		}
		if c.Stock > f.MaxStock {
			f.MaxStock = c.Stock
		}
	}
	return f
}

// Apply filters, sorts, and paginates an enriched candidate list in memory.
//
// Recognized filters are the company name set (case-insensitive) and the
// price/stock ranges; unknown keys are ignored so the parser may stay ahead
// of this stage. An empty sort or SortRelevant keeps the incoming order.
// Pages past the end come back empty, never as an error.
func Apply(candidates []model.CatalogProduct, filters Filters, sortKey string, page, limit int) Page {
	filtered := candidates

	if companies := filters.Companies(); len(companies) > 0 {
		wanted := make(map[string]bool, len(companies))
		for _, c := range companies {
			wanted[strings.ToLower(c)] = true
		}
		filtered = keep(filtered, func(p model.CatalogProduct) bool {
			return wanted[strings.ToLower(p.Seller.Company)]
		})
	}

	if r, ok := filters.NumericRange("price"); ok {
		filtered = keep(filtered, func(p model.CatalogProduct) bool {
			return p.Price >= r.Min && p.Price <= r.Max
		})
	}

	if r, ok := filters.NumericRange("stock"); ok {
		filtered = keep(filtered, func(p model.CatalogProduct) bool {
			return p.Stock >= r.Min && p.Stock <= r.Max
		})
	}

	sorted := filtered
	if sortKey != "" && sortKey != SortRelevant {
		sorted = make([]model.CatalogProduct, len(filtered))
		copy(sorted, filtered)
		sortProducts(sorted, sortKey)
	}

	total := len(sorted)
	totalPages := 0
	if limit > 0 {
		totalPages = (total + limit - 1) / limit
	}

	// The multiplication can overflow for absurd page numbers; a negative
	// start means we are past the end.
	start := (page - 1) * limit
	if start < 0 || start > total {
		start = total
	}
	end := start + limit
	if end < start || end > total {
		end = total
	}

	return Page{Items: sorted[start:end], Total: total, TotalPages: totalPages}
}

// keep returns the candidates satisfying pred, preserving order.
func keep(in []model.CatalogProduct, pred func(model.CatalogProduct) bool) []model.CatalogProduct {
	out := make([]model.CatalogProduct, 0, len(in))
	for _, p := range in {
		if pred(p) {
			out = append(out, p)
		}
	}
	return out
}

// sortProducts orders products by a "<field>-<direction>" key. Fields are
// price, stock, isFeatured, and name (the default); a missing direction means
// ascending and any direction other than "asc" means descending.
func sortProducts(products []model.CatalogProduct, sortKey string) {
	field := sortKey
	dir := 1.0
	if i := strings.Index(sortKey, "-"); i >= 0 {
		field = sortKey[:i]
		if sortKey[i+1:] != "asc" {
			dir = -1
		}
	}
	if field == "" {
		field = "name"
	}

	sort.SliceStable(products, func(i, j int) bool {
		a, b := products[i], products[j]
		switch field {
		case "price":
			return dir*(a.Price-b.Price) < 0
		case "stock":
			return dir*(a.Stock-b.Stock) < 0
		case "isFeatured":
			return dir*(boolToFloat(a.IsFeatured)-boolToFloat(b.IsFeatured)) < 0
		default:
			an := strings.ToLower(a.Name)
			bn := strings.ToLower(b.Name)
			if dir > 0 {
				return an < bn
			}
			return an > bn
		}
	})
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
