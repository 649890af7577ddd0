package command

import (
	"context"
	"fmt"

	"github.com/medetk/storefront/internal/product/domain"
)

// UpdateProductCommand represents the command to update a catalog product
type UpdateProductCommand struct {
	ProductID int
	Input     domain.UpdateProductInput
	// Partial selects PATCH semantics instead of a full PUT replace
	Partial bool
}

// UpdateProductHandler handles the update product command
type UpdateProductHandler struct {
	catalog CatalogWriter
}

// NewUpdateProductHandler creates a new update product handler
func NewUpdateProductHandler(catalog CatalogWriter) *UpdateProductHandler {
	return &UpdateProductHandler{catalog: catalog}
}

// Handle forwards the update to the remote catalog
func (h *UpdateProductHandler) Handle(ctx context.Context, cmd UpdateProductCommand) (*domain.Product, error) {
	if cmd.ProductID <= 0 {
		return nil, fmt.Errorf("invalid product id: %d", cmd.ProductID)
	}
	if cmd.Partial {
		return h.catalog.PatchProduct(ctx, cmd.ProductID, cmd.Input)
	}
	return h.catalog.UpdateProduct(ctx, cmd.ProductID, cmd.Input)
}
