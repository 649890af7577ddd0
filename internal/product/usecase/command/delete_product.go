package command

import (
	"context"
	"fmt"

	"github.com/medetk/storefront/internal/product/domain"
)

// DeleteProductCommand represents the command to delete a catalog product
type DeleteProductCommand struct {
	ProductID int
}

// DeleteProductHandler handles the delete product command
type DeleteProductHandler struct {
	catalog CatalogWriter
}

// NewDeleteProductHandler creates a new delete product handler
func NewDeleteProductHandler(catalog CatalogWriter) *DeleteProductHandler {
	return &DeleteProductHandler{catalog: catalog}
}

// Handle forwards the deletion to the remote catalog
func (h *DeleteProductHandler) Handle(ctx context.Context, cmd DeleteProductCommand) (*domain.DeleteProductResult, error) {
	if cmd.ProductID <= 0 {
		return nil, fmt.Errorf("invalid product id: %d", cmd.ProductID)
	}
	return h.catalog.DeleteProduct(ctx, cmd.ProductID)
}
