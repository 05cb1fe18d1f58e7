package service

import (
	"context"
	"errors"
	"math"
	"testing"

	"chemmarket/internal/catalog"
	"chemmarket/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeCatalog struct {
	summaries []model.ProductSummary
	err       error
	search    string
}

func (f *fakeCatalog) FindCatalog(_ context.Context, search string) ([]model.ProductSummary, error) {
	f.search = search
	return f.summaries, f.err
}

type fakeSellers struct {
	sellers map[string]model.SellerRef
	err     error
	askedN  int
}

func (f *fakeSellers) FindActiveSellers(_ context.Context, ids []primitive.ObjectID) (map[string]model.SellerRef, error) {
	f.askedN = len(ids)
	return f.sellers, f.err
}

type fakeRates struct {
	rate *float64
	err  error
}

func (f *fakeRates) UsdToInrRate(_ context.Context) (*float64, error) {
	return f.rate, f.err
}

func summaryFor(seller primitive.ObjectID, name string, price, stock float64) model.ProductSummary {
	return model.ProductSummary{
		ID:     primitive.NewObjectID(),
		Name:   name,
		Price:  price,
		Stock:  stock,
		Seller: seller,
	}
}

func TestCatalogServiceBrowse(t *testing.T) {
	activeSeller := primitive.NewObjectID()
	inactiveSeller := primitive.NewObjectID()
	directory := map[string]model.SellerRef{
		activeSeller.Hex(): {ID: activeSeller, Company: "Acme", Username: "acme"},
	}
	rate := 85.0

	t.Run("drops candidates whose seller is inactive", func(t *testing.T) {
		svc := NewCatalogService(
			&fakeCatalog{summaries: []model.ProductSummary{
				summaryFor(activeSeller, "alive", 10, 5),
				summaryFor(inactiveSeller, "orphan", 99, 9),
			}},
			&fakeSellers{sellers: directory},
			&fakeRates{rate: &rate},
		)

		result, err := svc.Browse(context.Background(), BrowseQuery{})
		require.NoError(t, err)
		require.Len(t, result.Products, 1)
		assert.Equal(t, "alive", result.Products[0].Name)
		assert.Equal(t, "Acme", result.Products[0].Seller.Company)

		// The dropped candidate must not leak into any facet either.
		assert.Equal(t, []string{"Acme"}, result.Facets.Companies)
		assert.Equal(t, 10.0, result.Facets.MaxPrice)
		assert.Equal(t, 5.0, result.Facets.MaxStock)
	})

	t.Run("facets come from the search set not the filtered one", func(t *testing.T) {
		second := primitive.NewObjectID()
		dir := map[string]model.SellerRef{
			activeSeller.Hex(): {ID: activeSeller, Company: "Acme"},
			second.Hex():       {ID: second, Company: "Globex"},
		}
		svc := NewCatalogService(
			&fakeCatalog{summaries: []model.ProductSummary{
				summaryFor(activeSeller, "cheap", 5, 1),
				summaryFor(second, "dear", 500, 2),
			}},
			&fakeSellers{sellers: dir},
			&fakeRates{rate: &rate},
		)

		result, err := svc.Browse(context.Background(), BrowseQuery{
			Filters: catalog.ParseFilters("price:400-600"),
		})
		require.NoError(t, err)
		require.Len(t, result.Products, 1)
		assert.Equal(t, "dear", result.Products[0].Name)
		assert.Equal(t, []string{"Acme", "Globex"}, result.Facets.Companies)
		assert.Equal(t, 500.0, result.Facets.MaxPrice)
	})

	t.Run("empty catalog is a success", func(t *testing.T) {
		sellers := &fakeSellers{sellers: directory}
		svc := NewCatalogService(&fakeCatalog{}, sellers, &fakeRates{rate: &rate})

		result, err := svc.Browse(context.Background(), BrowseQuery{Search: "nothing"})
		require.NoError(t, err)
		assert.NotNil(t, result.Products)
		assert.Empty(t, result.Products)
		assert.Equal(t, []string{}, result.Facets.Companies)
		assert.Zero(t, result.Total)
		assert.Zero(t, sellers.askedN)
	})

	t.Run("missing settings nulls the rate", func(t *testing.T) {
		svc := NewCatalogService(
			&fakeCatalog{summaries: []model.ProductSummary{summaryFor(activeSeller, "a", 1, 1)}},
			&fakeSellers{sellers: directory},
			&fakeRates{},
		)
		result, err := svc.Browse(context.Background(), BrowseQuery{})
		require.NoError(t, err)
		assert.Nil(t, result.UsdToInrRate)
		assert.Len(t, result.Products, 1)
	})

	t.Run("store failure aborts the request", func(t *testing.T) {
		svc := NewCatalogService(
			&fakeCatalog{err: errors.New("connection reset")},
			&fakeSellers{sellers: directory},
			&fakeRates{rate: &rate},
		)
		_, err := svc.Browse(context.Background(), BrowseQuery{})
		assert.Error(t, err)
	})

	t.Run("seller lookup failure aborts the request", func(t *testing.T) {
		svc := NewCatalogService(
			&fakeCatalog{summaries: []model.ProductSummary{summaryFor(activeSeller, "a", 1, 1)}},
			&fakeSellers{err: errors.New("connection reset")},
			&fakeRates{rate: &rate},
		)
		_, err := svc.Browse(context.Background(), BrowseQuery{})
		assert.Error(t, err)
	})

	t.Run("search term is trimmed before the store sees it", func(t *testing.T) {
		store := &fakeCatalog{}
		svc := NewCatalogService(store, &fakeSellers{sellers: directory}, &fakeRates{rate: &rate})
		_, err := svc.Browse(context.Background(), BrowseQuery{Search: "  indigo  "})
		require.NoError(t, err)
		assert.Equal(t, "indigo", store.search)
	})

	t.Run("duplicate seller ids are resolved once", func(t *testing.T) {
		sellers := &fakeSellers{sellers: directory}
		svc := NewCatalogService(
			&fakeCatalog{summaries: []model.ProductSummary{
				summaryFor(activeSeller, "a", 1, 1),
				summaryFor(activeSeller, "b", 2, 2),
			}},
			sellers,
			&fakeRates{rate: &rate},
		)
		result, err := svc.Browse(context.Background(), BrowseQuery{})
		require.NoError(t, err)
		assert.Len(t, result.Products, 2)
		assert.Equal(t, 1, sellers.askedN)
	})
}

func TestClamping(t *testing.T) {
	t.Run("page", func(t *testing.T) {
		assert.Equal(t, 1, ClampPage(0))
		assert.Equal(t, 1, ClampPage(-3))
		assert.Equal(t, 7, ClampPage(7))
	})

	t.Run("limit", func(t *testing.T) {
		assert.Equal(t, DefaultPageLimit, ClampLimit(0))
		assert.Equal(t, 1, ClampLimit(-1))
		assert.Equal(t, MaxPageLimit, ClampLimit(200))
		assert.Equal(t, 10, ClampLimit(10))
	})

	t.Run("skip", func(t *testing.T) {
		assert.Equal(t, int64(0), pageSkip(1, 25))
		assert.Equal(t, int64(50), pageSkip(3, 25))

		// A page large enough to overflow the offset stays non-negative and
		// lands past the end of any collection.
		skip := pageSkip(400000000000000000, 25)
		assert.Equal(t, int64(math.MaxInt64), skip)
		assert.GreaterOrEqual(t, skip, int64(0))
	})
}
