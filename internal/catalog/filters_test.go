package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFilters(t *testing.T) {
	t.Run("range and list", func(t *testing.T) {
		f := ParseFilters("price:10-100;company:Acme,Globex")
		require.Len(t, f, 2)
		assert.Equal(t, Range{Min: 10, Max: 100}, f["price"])
		assert.Equal(t, []string{"Acme", "Globex"}, f["company"])
	})

	t.Run("booleans", func(t *testing.T) {
		f := ParseFilters("isFeatured:true;isVisible:false")
		assert.Equal(t, true, f["isFeatured"])
		assert.Equal(t, false, f["isVisible"])
	})

	t.Run("scalar string", func(t *testing.T) {
		f := ParseFilters("company:Acme")
		assert.Equal(t, "Acme", f["company"])
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Empty(t, ParseFilters(""))
	})

	t.Run("malformed entries are skipped", func(t *testing.T) {
		f := ParseFilters("noseparator;:nokey;price:10-20")
		require.Len(t, f, 1)
		assert.Equal(t, Range{Min: 10, Max: 20}, f["price"])
	})

	t.Run("non-numeric range bounds become zero", func(t *testing.T) {
		f := ParseFilters("price:abc-100;stock:5-xyz")
		assert.Equal(t, Range{Min: 0, Max: 100}, f["price"])
		assert.Equal(t, Range{Min: 5, Max: 0}, f["stock"])
	})

	t.Run("range only applies to price and stock", func(t *testing.T) {
		f := ParseFilters("tone:1-2")
		assert.Equal(t, "1-2", f["tone"])
	})

	t.Run("list entries are trimmed and blanks dropped", func(t *testing.T) {
		f := ParseFilters("company: Acme , ,Globex,")
		assert.Equal(t, []string{"Acme", "Globex"}, f["company"])
	})

	t.Run("idempotent for the same input", func(t *testing.T) {
		in := "price:10-100;company:Acme,Globex;isFeatured:true"
		assert.Equal(t, ParseFilters(in), ParseFilters(in))
	})
}

func TestFiltersCompanies(t *testing.T) {
	t.Run("list", func(t *testing.T) {
		f := Filters{"company": []string{"Acme", "Globex"}}
		assert.Equal(t, []string{"Acme", "Globex"}, f.Companies())
	})

	t.Run("scalar", func(t *testing.T) {
		f := Filters{"company": "Acme"}
		assert.Equal(t, []string{"Acme"}, f.Companies())
	})

	t.Run("absent", func(t *testing.T) {
		assert.Nil(t, Filters{}.Companies())
	})

	t.Run("blank scalar", func(t *testing.T) {
		assert.Nil(t, Filters{"company": "  "}.Companies())
	})

	t.Run("boolean scalar keeps its literal text", func(t *testing.T) {
		assert.Equal(t, []string{"true"}, ParseFilters("company:true").Companies())
		assert.Equal(t, []string{"false"}, ParseFilters("company:false").Companies())
	})
}

func TestFiltersNumericRange(t *testing.T) {
	f := Filters{"price": Range{Min: 1, Max: 2}, "company": "Acme"}

	r, ok := f.NumericRange("price")
	require.True(t, ok)
	assert.Equal(t, Range{Min: 1, Max: 2}, r)

	_, ok = f.NumericRange("company")
	assert.False(t, ok)

	_, ok = f.NumericRange("stock")
	assert.False(t, ok)
}
