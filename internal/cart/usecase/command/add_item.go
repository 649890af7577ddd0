package command

import (
	"context"
	"fmt"

	"github.com/medetk/storefront/internal/cart/domain"
)

// AddItemCommand represents the command to add one unit of a product
type AddItemCommand struct {
	ProductID int
}

// AddItemHandler handles the add item command
type AddItemHandler struct {
	store domain.CartStore
	bus   domain.Notifier
}

// NewAddItemHandler creates a new add item handler
func NewAddItemHandler(store domain.CartStore, bus domain.Notifier) *AddItemHandler {
	return &AddItemHandler{store: store, bus: bus}
}

// Handle increments the product's quantity by one, creating the entry at one
// if absent. Repeated calls accumulate; that is the "add another unit"
// behavior, not idempotency.
func (h *AddItemHandler) Handle(ctx context.Context, cmd AddItemCommand) ([]domain.Item, error) {
	if cmd.ProductID <= 0 {
		return nil, fmt.Errorf("%w: %d", domain.ErrInvalidProductID, cmd.ProductID)
	}

	m := h.store.ReadRaw(ctx)
	m[domain.Key(cmd.ProductID)]++

	if err := h.store.WriteRaw(ctx, m); err != nil {
		return nil, err
	}

	h.bus.Publish()
	return m.Items(), nil
}
