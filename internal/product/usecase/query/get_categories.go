package query

import (
	"context"

	"github.com/medetk/storefront/internal/product/domain"
)

// CategoryFetcher is the slice of the catalog client the category views need
type CategoryFetcher interface {
	Categories(ctx context.Context) ([]domain.Category, error)
	CategoryList(ctx context.Context) ([]string, error)
}

// GetCategoriesHandler handles category listing queries
type GetCategoriesHandler struct {
	catalog CategoryFetcher
}

// NewGetCategoriesHandler creates a new get categories handler
func NewGetCategoriesHandler(catalog CategoryFetcher) *GetCategoriesHandler {
	return &GetCategoriesHandler{catalog: catalog}
}

// Handle returns category slugs with display names
func (h *GetCategoriesHandler) Handle(ctx context.Context) ([]domain.Category, error) {
	return h.catalog.Categories(ctx)
}

// HandleList returns bare category slugs
func (h *GetCategoriesHandler) HandleList(ctx context.Context) ([]string, error) {
	return h.catalog.CategoryList(ctx)
}
