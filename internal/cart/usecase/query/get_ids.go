package query

import (
	"context"

	"github.com/medetk/storefront/internal/cart/domain"
)

// GetIDsQuery represents the query for the flattened id list
type GetIDsQuery struct{}

// GetIDsHandler handles the get ids query
//
// Deprecated: retained for callers not yet migrated to quantity-aware
// rendering; new callers should use GetItemsHandler.
type GetIDsHandler struct {
	store domain.CartStore
}

// NewGetIDsHandler creates a new get ids handler
func NewGetIDsHandler(store domain.CartStore) *GetIDsHandler {
	return &GetIDsHandler{store: store}
}

// Handle expands the item list so a product with quantity N appears N times
// consecutively, in the same order as GetItemsHandler
func (h *GetIDsHandler) Handle(ctx context.Context, _ GetIDsQuery) []int {
	items := h.store.ReadRaw(ctx).Items()
	ids := make([]int, 0, len(items))
	for _, item := range items {
		for i := 0; i < item.Quantity; i++ {
			ids = append(ids, item.ProductID)
		}
	}
	return ids
}
