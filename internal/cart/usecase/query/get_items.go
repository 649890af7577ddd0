package query

import (
	"context"

	"github.com/medetk/storefront/internal/cart/domain"
)

// GetItemsQuery represents the query for the current cart entries
type GetItemsQuery struct{}

// GetItemsHandler handles the get items query
type GetItemsHandler struct {
	store domain.CartStore
}

// NewGetItemsHandler creates a new get items handler
func NewGetItemsHandler(store domain.CartStore) *GetItemsHandler {
	return &GetItemsHandler{store: store}
}

// Handle re-reads storage and projects entries with quantity > 0. Nothing is
// cached between calls, so the result always reflects the latest write.
func (h *GetItemsHandler) Handle(ctx context.Context, _ GetItemsQuery) []domain.Item {
	return h.store.ReadRaw(ctx).Items()
}
