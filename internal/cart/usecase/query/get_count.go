package query

import (
	"context"

	"github.com/medetk/storefront/internal/cart/domain"
)

// GetCountQuery represents the query for the total unit count
type GetCountQuery struct{}

// GetCountHandler handles the get count query
type GetCountHandler struct {
	store domain.CartStore
}

// NewGetCountHandler creates a new get count handler
func NewGetCountHandler(store domain.CartStore) *GetCountHandler {
	return &GetCountHandler{store: store}
}

// Handle sums all quantities; zero for an empty cart
func (h *GetCountHandler) Handle(ctx context.Context, _ GetCountQuery) int {
	return h.store.ReadRaw(ctx).Total()
}
