package command

import (
	"context"

	"github.com/medetk/storefront/internal/cart/domain"
)

// ClearCartCommand represents the command to empty the cart
type ClearCartCommand struct{}

// ClearCartHandler handles the clear cart command
type ClearCartHandler struct {
	store domain.CartStore
	bus   domain.Notifier
}

// NewClearCartHandler creates a new clear cart handler
func NewClearCartHandler(store domain.CartStore, bus domain.Notifier) *ClearCartHandler {
	return &ClearCartHandler{store: store, bus: bus}
}

// Handle removes the stored cart regardless of contents
func (h *ClearCartHandler) Handle(ctx context.Context, _ ClearCartCommand) error {
	if err := h.store.Clear(ctx); err != nil {
		return err
	}

	h.bus.Publish()
	return nil
}
