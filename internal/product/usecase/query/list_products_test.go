package query

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medetk/storefront/internal/product/client"
	"github.com/medetk/storefront/internal/product/domain"
)

// fakeCatalog records which endpoint was hit and with what parameters
type fakeCatalog struct {
	products   []domain.Product
	total      int
	err        error
	lastCall   string
	lastSearch string
	lastSlug   string
	lastParams client.ListParams
}

func (f *fakeCatalog) Products(_ context.Context, p client.ListParams) (*domain.ProductsResponse, error) {
	f.lastCall, f.lastParams = "products", p
	return f.response()
}

func (f *fakeCatalog) Search(_ context.Context, searchText string, p client.ListParams) (*domain.ProductsResponse, error) {
	f.lastCall, f.lastSearch, f.lastParams = "search", searchText, p
	return f.response()
}

func (f *fakeCatalog) ByCategory(_ context.Context, slug string, p client.ListParams) (*domain.ProductsResponse, error) {
	f.lastCall, f.lastSlug, f.lastParams = "category", slug, p
	return f.response()
}

func (f *fakeCatalog) response() (*domain.ProductsResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	total := f.total
	if total == 0 {
		total = len(f.products)
	}
	return &domain.ProductsResponse{Products: f.products, Total: total}, nil
}

func laptops() []domain.Product {
	return []domain.Product{
		{ID: 1, Title: "Budget Laptop", Description: "entry level", Brand: "Acme", Price: 400},
		{ID: 2, Title: "Gaming Laptop", Description: "fast GPU", Brand: "Zenith", Price: 1800},
		{ID: 3, Title: "Desk Lamp", Description: "LED light", Brand: "Lumen", Price: 25},
		{ID: 4, Title: "Workstation", Description: "laptop replacement", Brand: "Acme", Price: 2400},
	}
}

func TestHandle_PlainListingUsesNativePagination(t *testing.T) {
	catalog := &fakeCatalog{products: laptops(), total: 100}
	handler := NewListProductsHandler(catalog)

	result, err := handler.Handle(context.Background(), ListProductsQuery{Limit: 12, Skip: 24})

	require.NoError(t, err)
	assert.Equal(t, "products", catalog.lastCall)
	assert.Equal(t, 12, catalog.lastParams.Limit)
	assert.Equal(t, 24, catalog.lastParams.Skip)
	assert.Equal(t, 100, result.Total)
}

func TestHandle_DefaultsLimitAndSkip(t *testing.T) {
	catalog := &fakeCatalog{products: laptops()}
	handler := NewListProductsHandler(catalog)

	_, err := handler.Handle(context.Background(), ListProductsQuery{Limit: 0, Skip: -5})

	require.NoError(t, err)
	assert.Equal(t, PageSize, catalog.lastParams.Limit)
	assert.Equal(t, 0, catalog.lastParams.Skip)
}

func TestHandle_SearchOnlyFetchesOversizedAndPaginatesLocally(t *testing.T) {
	catalog := &fakeCatalog{products: laptops()}
	handler := NewListProductsHandler(catalog)

	result, err := handler.Handle(context.Background(), ListProductsQuery{
		SearchText: "laptop",
		Limit:      2,
		Skip:       2,
	})

	require.NoError(t, err)
	assert.Equal(t, "search", catalog.lastCall)
	assert.Equal(t, "laptop", catalog.lastSearch)
	assert.Equal(t, oversizedLimit, catalog.lastParams.Limit)
	assert.Equal(t, 0, catalog.lastParams.Skip, "pagination happens locally")
	assert.Equal(t, 4, result.Total)
	assert.Equal(t, 2, len(result.Products))
	assert.Equal(t, 3, result.Products[0].ID)
}

func TestHandle_SearchOnlyTrimsWhitespace(t *testing.T) {
	catalog := &fakeCatalog{products: laptops()}
	handler := NewListProductsHandler(catalog)

	_, err := handler.Handle(context.Background(), ListProductsQuery{SearchText: "  laptop  "})

	require.NoError(t, err)
	assert.Equal(t, "laptop", catalog.lastSearch)
}

func TestHandle_WhitespaceOnlySearchIsPlainListing(t *testing.T) {
	catalog := &fakeCatalog{products: laptops()}
	handler := NewListProductsHandler(catalog)

	_, err := handler.Handle(context.Background(), ListProductsQuery{SearchText: "   "})

	require.NoError(t, err)
	assert.Equal(t, "products", catalog.lastCall)
}

func TestHandle_SearchWithinCategoryFiltersLocally(t *testing.T) {
	catalog := &fakeCatalog{products: laptops()}
	handler := NewListProductsHandler(catalog)

	result, err := handler.Handle(context.Background(), ListProductsQuery{
		SearchText: "laptop",
		Category:   "electronics",
		Limit:      12,
	})

	require.NoError(t, err)
	assert.Equal(t, "category", catalog.lastCall)
	assert.Equal(t, "electronics", catalog.lastSlug)
	assert.Equal(t, oversizedLimit, catalog.lastParams.Limit)

	// "Desk Lamp" has no laptop in title, description or brand
	assert.Equal(t, []int{1, 2, 4}, productIDs(result.Products))
	assert.Equal(t, 3, result.Total, "total counts the filtered set, not the raw page")
}

func TestHandle_SearchWithinCategoryMatchesDescriptionAndBrand(t *testing.T) {
	catalog := &fakeCatalog{products: laptops()}
	handler := NewListProductsHandler(catalog)

	result, err := handler.Handle(context.Background(), ListProductsQuery{
		SearchText: "acme",
		Category:   "electronics",
	})

	require.NoError(t, err)
	assert.Equal(t, []int{1, 4}, productIDs(result.Products))
}

func TestHandle_SearchWithinCategoryPaginatesFilteredSet(t *testing.T) {
	catalog := &fakeCatalog{products: laptops()}
	handler := NewListProductsHandler(catalog)

	result, err := handler.Handle(context.Background(), ListProductsQuery{
		SearchText: "laptop",
		Category:   "electronics",
		Limit:      2,
		Skip:       2,
	})

	require.NoError(t, err)
	assert.Equal(t, []int{4}, productIDs(result.Products))
	assert.Equal(t, 3, result.Total)
}

func TestHandle_CategoryOnlyUsesNativePagination(t *testing.T) {
	catalog := &fakeCatalog{products: laptops(), total: 42}
	handler := NewListProductsHandler(catalog)

	result, err := handler.Handle(context.Background(), ListProductsQuery{
		Category: "electronics",
		Limit:    12,
		Skip:     12,
	})

	require.NoError(t, err)
	assert.Equal(t, "category", catalog.lastCall)
	assert.Equal(t, 12, catalog.lastParams.Limit)
	assert.Equal(t, 12, catalog.lastParams.Skip)
	assert.Equal(t, 42, result.Total)
}

func TestHandle_CategoryOnlyReappliesLocalSort(t *testing.T) {
	catalog := &fakeCatalog{products: laptops()}
	handler := NewListProductsHandler(catalog)

	result, err := handler.Handle(context.Background(), ListProductsQuery{
		Category: "electronics",
		SortBy:   domain.SortByPrice,
		Order:    domain.OrderDesc,
	})

	require.NoError(t, err)
	assert.Equal(t, []int{4, 2, 1, 3}, productIDs(result.Products))
}

func TestHandle_SearchSortsThePageLocally(t *testing.T) {
	catalog := &fakeCatalog{products: laptops()}
	handler := NewListProductsHandler(catalog)

	result, err := handler.Handle(context.Background(), ListProductsQuery{
		SearchText: "laptop",
		SortBy:     domain.SortByPrice,
		Order:      domain.OrderAsc,
		Limit:      12,
	})

	require.NoError(t, err)
	assert.Equal(t, []int{3, 1, 2, 4}, productIDs(result.Products))
}

func TestHandle_SkipBeyondResultSetIsEmptyPage(t *testing.T) {
	catalog := &fakeCatalog{products: laptops()}
	handler := NewListProductsHandler(catalog)

	result, err := handler.Handle(context.Background(), ListProductsQuery{
		SearchText: "laptop",
		Limit:      12,
		Skip:       50,
	})

	require.NoError(t, err)
	assert.Empty(t, result.Products)
	assert.Equal(t, 4, result.Total)
}

func TestHandle_CatalogErrorPropagates(t *testing.T) {
	catalog := &fakeCatalog{err: errors.New("upstream unavailable")}
	handler := NewListProductsHandler(catalog)

	for _, q := range []ListProductsQuery{
		{},
		{SearchText: "laptop"},
		{Category: "electronics"},
		{SearchText: "laptop", Category: "electronics"},
	} {
		_, err := handler.Handle(context.Background(), q)
		assert.Error(t, err)
	}
}

func productIDs(products []domain.Product) []int {
	out := make([]int, len(products))
	for i, p := range products {
		out[i] = p.ID
	}
	return out
}
