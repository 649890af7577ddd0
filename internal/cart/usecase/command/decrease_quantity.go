package command

import (
	"context"
	"fmt"

	"github.com/medetk/storefront/internal/cart/domain"
)

// DecreaseQuantityCommand represents the command to remove one unit of a product
type DecreaseQuantityCommand struct {
	ProductID int
}

// DecreaseQuantityHandler handles the decrease quantity command
type DecreaseQuantityHandler struct {
	store domain.CartStore
	bus   domain.Notifier
}

// NewDecreaseQuantityHandler creates a new decrease quantity handler
func NewDecreaseQuantityHandler(store domain.CartStore, bus domain.Notifier) *DecreaseQuantityHandler {
	return &DecreaseQuantityHandler{store: store, bus: bus}
}

// Handle decrements the product's quantity by one. A quantity that would
// reach zero deletes the entry instead; zero is never stored. Decreasing an
// absent product normalizes to absent.
func (h *DecreaseQuantityHandler) Handle(ctx context.Context, cmd DecreaseQuantityCommand) ([]domain.Item, error) {
	if cmd.ProductID <= 0 {
		return nil, fmt.Errorf("%w: %d", domain.ErrInvalidProductID, cmd.ProductID)
	}

	m := h.store.ReadRaw(ctx)
	key := domain.Key(cmd.ProductID)
	if current := m[key]; current <= 1 {
		delete(m, key)
	} else {
		m[key] = current - 1
	}

	if err := h.store.WriteRaw(ctx, m); err != nil {
		return nil, err
	}

	h.bus.Publish()
	return m.Items(), nil
}
