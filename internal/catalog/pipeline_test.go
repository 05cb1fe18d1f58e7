package catalog

import (
	"fmt"
	"testing"

	"chemmarket/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func candidate(name string, price, stock float64, company string) model.CatalogProduct {
	return model.CatalogProduct{
		Name:   name,
		Price:  price,
		Stock:  stock,
		Seller: model.SellerRef{Company: company, Username: "seller"},
	}
}

func TestComputeFacets(t *testing.T) {
	t.Run("companies keep first-seen order", func(t *testing.T) {
		f := ComputeFacets([]model.CatalogProduct{
			candidate("a", 10, 5, "Globex"),
			candidate("b", 20, 8, "Acme"),
			candidate("c", 15, 2, "Globex"),
		})
		assert.Equal(t, []string{"Globex", "Acme"}, f.Companies)
		assert.Equal(t, 20.0, f.MaxPrice)
		assert.Equal(t, 8.0, f.MaxStock)
	})

	t.Run("empty company names are skipped", func(t *testing.T) {
		f := ComputeFacets([]model.CatalogProduct{
			candidate("a", 10, 5, ""),
			candidate("b", 20, 8, "Acme"),
		})
		assert.Equal(t, []string{"Acme"}, f.Companies)
	})

	t.Run("empty set", func(t *testing.T) {
		f := ComputeFacets(nil)
		assert.Equal(t, []string{}, f.Companies)
		assert.Zero(t, f.MaxPrice)
		assert.Zero(t, f.MaxStock)
	})
}

func TestApplyPagination(t *testing.T) {
	var candidates []model.CatalogProduct
	for i := 0; i < 12; i++ {
		candidates = append(candidates, candidate(fmt.Sprintf("p%02d", i), float64(i), 1, "Acme"))
	}

	t.Run("pages of sizes 5 5 2", func(t *testing.T) {
		sizes := []int{5, 5, 2}
		for page := 1; page <= 3; page++ {
			result := Apply(candidates, Filters{}, "", page, 5)
			assert.Len(t, result.Items, sizes[page-1])
			assert.Equal(t, 12, result.Total)
			assert.Equal(t, 3, result.TotalPages)
		}
	})

	t.Run("page past the end is empty not an error", func(t *testing.T) {
		result := Apply(candidates, Filters{}, "", 9, 5)
		assert.Empty(t, result.Items)
		assert.Equal(t, 12, result.Total)
	})

	t.Run("page large enough to overflow the offset is empty", func(t *testing.T) {
		result := Apply(candidates, Filters{}, "", 400000000000000000, 25)
		assert.Empty(t, result.Items)
		assert.Equal(t, 12, result.Total)
		assert.Equal(t, 1, result.TotalPages)
	})

	t.Run("every candidate appears exactly once across pages", func(t *testing.T) {
		seen := map[string]int{}
		for page := 1; page <= 3; page++ {
			for _, p := range Apply(candidates, Filters{}, "", page, 5).Items {
				seen[p.Name]++
			}
		}
		require.Len(t, seen, 12)
		for name, n := range seen {
			assert.Equal(t, 1, n, name)
		}
	})
}

func TestApplyFilters(t *testing.T) {
	t.Run("price range keeps only in-range candidates", func(t *testing.T) {
		candidates := []model.CatalogProduct{
			candidate("cheap", 5, 1, "Acme"),
			candidate("mid", 50, 1, "Acme"),
			candidate("dear", 500, 1, "Acme"),
		}
		result := Apply(candidates, ParseFilters("price:10-100"), "", 1, 25)
		require.Len(t, result.Items, 1)
		assert.Equal(t, "mid", result.Items[0].Name)
	})

	t.Run("stock range", func(t *testing.T) {
		candidates := []model.CatalogProduct{
			candidate("a", 1, 5, "Acme"),
			candidate("b", 1, 50, "Acme"),
		}
		result := Apply(candidates, ParseFilters("stock:10-100"), "", 1, 25)
		require.Len(t, result.Items, 1)
		assert.Equal(t, "b", result.Items[0].Name)
	})

	t.Run("company filter is case-insensitive", func(t *testing.T) {
		candidates := []model.CatalogProduct{
			candidate("a", 1, 1, "ACME"),
			candidate("b", 1, 1, "Globex"),
		}
		result := Apply(candidates, Filters{"company": []string{"acme"}}, "", 1, 25)
		require.Len(t, result.Items, 1)
		assert.Equal(t, "a", result.Items[0].Name)
	})

	t.Run("unknown filter keys are ignored", func(t *testing.T) {
		candidates := []model.CatalogProduct{candidate("a", 1, 1, "Acme")}
		result := Apply(candidates, Filters{"tone": "7"}, "", 1, 25)
		assert.Len(t, result.Items, 1)
	})

	t.Run("inverted range matches nothing", func(t *testing.T) {
		candidates := []model.CatalogProduct{candidate("a", 50, 1, "Acme")}
		result := Apply(candidates, Filters{"price": Range{Min: 100, Max: 10}}, "", 1, 25)
		assert.Empty(t, result.Items)
		assert.Zero(t, result.Total)
	})
}

func TestApplySort(t *testing.T) {
	candidates := []model.CatalogProduct{
		candidate("bravo", 10, 3, "Acme"),
		candidate("alpha", 5, 1, "Acme"),
		candidate("Charlie", 20, 2, "Acme"),
	}

	prices := func(items []model.CatalogProduct) []float64 {
		out := make([]float64, len(items))
		for i, p := range items {
			out[i] = p.Price
		}
		return out
	}

	t.Run("price descending", func(t *testing.T) {
		result := Apply(candidates, Filters{}, "price-desc", 1, 25)
		assert.Equal(t, []float64{20, 10, 5}, prices(result.Items))
	})

	t.Run("price ascending", func(t *testing.T) {
		result := Apply(candidates, Filters{}, "price-asc", 1, 25)
		assert.Equal(t, []float64{5, 10, 20}, prices(result.Items))
	})

	t.Run("missing direction means ascending", func(t *testing.T) {
		result := Apply(candidates, Filters{}, "price", 1, 25)
		assert.Equal(t, []float64{5, 10, 20}, prices(result.Items))
	})

	t.Run("unknown direction means descending", func(t *testing.T) {
		result := Apply(candidates, Filters{}, "price-up", 1, 25)
		assert.Equal(t, []float64{20, 10, 5}, prices(result.Items))
	})

	t.Run("name sort is case-insensitive", func(t *testing.T) {
		result := Apply(candidates, Filters{}, "name-asc", 1, 25)
		names := []string{result.Items[0].Name, result.Items[1].Name, result.Items[2].Name}
		assert.Equal(t, []string{"alpha", "bravo", "Charlie"}, names)
	})

	t.Run("featured sort puts featured first on desc", func(t *testing.T) {
		featured := candidate("feat", 1, 1, "Acme")
		featured.IsFeatured = true
		result := Apply([]model.CatalogProduct{candidates[0], featured}, Filters{}, "isFeatured-desc", 1, 25)
		assert.Equal(t, "feat", result.Items[0].Name)
	})

	t.Run("relevant keeps input order", func(t *testing.T) {
		for _, key := range []string{"", SortRelevant} {
			result := Apply(candidates, Filters{}, key, 1, 25)
			assert.Equal(t, []float64{10, 5, 20}, prices(result.Items), key)
		}
	})

	t.Run("sorting does not mutate the input", func(t *testing.T) {
		Apply(candidates, Filters{}, "price-desc", 1, 25)
		assert.Equal(t, "bravo", candidates[0].Name)
	})
}
