package query

import (
	"context"
	"fmt"

	"github.com/medetk/storefront/internal/product/domain"
)

// ProductFetcher is the slice of the catalog client the detail view needs
type ProductFetcher interface {
	Product(ctx context.Context, id int) (*domain.Product, error)
}

// GetProductQuery represents the query for a single product
type GetProductQuery struct {
	ID int
}

// GetProductHandler handles the get product query
type GetProductHandler struct {
	catalog ProductFetcher
}

// NewGetProductHandler creates a new get product handler
func NewGetProductHandler(catalog ProductFetcher) *GetProductHandler {
	return &GetProductHandler{catalog: catalog}
}

// Handle fetches the product from the remote catalog. Product detail is
// always re-fetched, never cached locally.
func (h *GetProductHandler) Handle(ctx context.Context, q GetProductQuery) (*domain.Product, error) {
	if q.ID <= 0 {
		return nil, fmt.Errorf("invalid product id: %d", q.ID)
	}
	return h.catalog.Product(ctx, q.ID)
}
