package query

import (
	"context"
	"fmt"
	"strings"

	"github.com/medetk/storefront/internal/product/client"
	"github.com/medetk/storefront/internal/product/domain"
)

// PageSize is the default listing page size
const PageSize = 12

// oversizedLimit is requested from the remote source when filtering or
// pagination must happen locally, so one fetch covers the whole result set
const oversizedLimit = 100

// CatalogReader is the slice of the catalog client the composer needs
type CatalogReader interface {
	Products(ctx context.Context, p client.ListParams) (*domain.ProductsResponse, error)
	Search(ctx context.Context, searchText string, p client.ListParams) (*domain.ProductsResponse, error)
	ByCategory(ctx context.Context, slug string, p client.ListParams) (*domain.ProductsResponse, error)
}

// ListProductsQuery carries the listing view's input parameters
type ListProductsQuery struct {
	SearchText string
	Category   string
	SortBy     domain.SortBy
	Order      domain.SortOrder
	Limit      int
	Skip       int
}

// ListingResult is what the product grid renders
type ListingResult struct {
	Products []domain.Product `json:"products"`
	Total    int              `json:"total"`
}

// ListProductsHandler composes the listing fetch strategy. The remote source
// cannot combine search and category server-side, and its sort on search
// results is unreliable, so those combinations are blended locally.
type ListProductsHandler struct {
	catalog CatalogReader
}

// NewListProductsHandler creates a new list products handler
func NewListProductsHandler(catalog CatalogReader) *ListProductsHandler {
	return &ListProductsHandler{catalog: catalog}
}

// Handle executes the listing query
func (h *ListProductsHandler) Handle(ctx context.Context, q ListProductsQuery) (*ListingResult, error) {
	if q.Limit <= 0 {
		q.Limit = PageSize
	}
	if q.Skip < 0 {
		q.Skip = 0
	}

	searchText := strings.TrimSpace(q.SearchText)
	hasSearch := searchText != ""
	hasCategory := q.Category != ""

	switch {
	case hasSearch && hasCategory:
		return h.searchWithinCategory(ctx, searchText, q)
	case hasSearch:
		return h.searchOnly(ctx, searchText, q)
	case hasCategory:
		return h.categoryOnly(ctx, q)
	default:
		return h.plainListing(ctx, q)
	}
}

// searchWithinCategory fetches the whole category then filters by the search
// text locally. Pagination slices the filtered set, never the raw one.
func (h *ListProductsHandler) searchWithinCategory(ctx context.Context, searchText string, q ListProductsQuery) (*ListingResult, error) {
	res, err := h.catalog.ByCategory(ctx, q.Category, client.ListParams{
		Limit:  oversizedLimit,
		SortBy: q.SortBy,
		Order:  q.Order,
	})
	if err != nil {
		return nil, fmt.Errorf("category listing: %w", err)
	}

	filtered := filterBySearchText(res.Products, searchText)
	page := paginate(filtered, q.Skip, q.Limit)
	return &ListingResult{
		Products: domain.SortProducts(page, q.SortBy, q.Order),
		Total:    len(filtered),
	}, nil
}

// searchOnly uses the remote search endpoint but sorts and paginates locally;
// local sort is authoritative for search results
func (h *ListProductsHandler) searchOnly(ctx context.Context, searchText string, q ListProductsQuery) (*ListingResult, error) {
	res, err := h.catalog.Search(ctx, searchText, client.ListParams{
		Limit:  oversizedLimit,
		SortBy: q.SortBy,
		Order:  q.Order,
	})
	if err != nil {
		return nil, fmt.Errorf("search listing: %w", err)
	}

	page := paginate(res.Products, q.Skip, q.Limit)
	return &ListingResult{
		Products: domain.SortProducts(page, q.SortBy, q.Order),
		Total:    len(res.Products),
	}, nil
}

// categoryOnly uses native pagination, but re-applies the local sort so the
// ordering is deterministic regardless of remote behavior
func (h *ListProductsHandler) categoryOnly(ctx context.Context, q ListProductsQuery) (*ListingResult, error) {
	res, err := h.catalog.ByCategory(ctx, q.Category, client.ListParams{
		Limit:  q.Limit,
		Skip:   q.Skip,
		SortBy: q.SortBy,
		Order:  q.Order,
	})
	if err != nil {
		return nil, fmt.Errorf("category listing: %w", err)
	}

	return &ListingResult{
		Products: domain.SortProducts(res.Products, q.SortBy, q.Order),
		Total:    res.Total,
	}, nil
}

func (h *ListProductsHandler) plainListing(ctx context.Context, q ListProductsQuery) (*ListingResult, error) {
	res, err := h.catalog.Products(ctx, client.ListParams{
		Limit:  q.Limit,
		Skip:   q.Skip,
		SortBy: q.SortBy,
		Order:  q.Order,
	})
	if err != nil {
		return nil, fmt.Errorf("product listing: %w", err)
	}

	return &ListingResult{Products: res.Products, Total: res.Total}, nil
}

// filterBySearchText keeps products whose title, description or brand
// contains the search text, case-insensitively
func filterBySearchText(products []domain.Product, searchText string) []domain.Product {
	needle := strings.ToLower(strings.TrimSpace(searchText))
	filtered := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if strings.Contains(strings.ToLower(p.Title), needle) ||
			strings.Contains(strings.ToLower(p.Description), needle) ||
			strings.Contains(strings.ToLower(p.Brand), needle) {
			filtered = append(filtered, p)
		}
	}
	return filtered
}

func paginate(products []domain.Product, skip, limit int) []domain.Product {
	if skip >= len(products) {
		return []domain.Product{}
	}
	end := skip + limit
	if end > len(products) {
		end = len(products)
	}
	return products[skip:end]
}
