package command

import (
	"context"
	"fmt"

	"github.com/medetk/storefront/internal/cart/domain"
)

// RemoveItemCommand represents the command to remove a product entirely
type RemoveItemCommand struct {
	ProductID int
}

// RemoveItemHandler handles the remove item command
type RemoveItemHandler struct {
	store domain.CartStore
	bus   domain.Notifier
}

// NewRemoveItemHandler creates a new remove item handler
func NewRemoveItemHandler(store domain.CartStore, bus domain.Notifier) *RemoveItemHandler {
	return &RemoveItemHandler{store: store, bus: bus}
}

// Handle deletes the entry regardless of its quantity. Removing an absent
// product is a no-op that still publishes, keeping one signal per call.
func (h *RemoveItemHandler) Handle(ctx context.Context, cmd RemoveItemCommand) ([]domain.Item, error) {
	if cmd.ProductID <= 0 {
		return nil, fmt.Errorf("%w: %d", domain.ErrInvalidProductID, cmd.ProductID)
	}

	m := h.store.ReadRaw(ctx)
	delete(m, domain.Key(cmd.ProductID))

	if err := h.store.WriteRaw(ctx, m); err != nil {
		return nil, err
	}

	h.bus.Publish()
	return m.Items(), nil
}
