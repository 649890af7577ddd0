package command

import (
	"context"
	"fmt"

	"github.com/medetk/storefront/internal/product/domain"
)

// CatalogWriter is the slice of the catalog client the mutation commands need
type CatalogWriter interface {
	AddProduct(ctx context.Context, input domain.CreateProductInput) (*domain.Product, error)
	UpdateProduct(ctx context.Context, id int, input domain.UpdateProductInput) (*domain.Product, error)
	PatchProduct(ctx context.Context, id int, input domain.UpdateProductInput) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id int) (*domain.DeleteProductResult, error)
}

// CreateProductCommand represents the command to create a catalog product
type CreateProductCommand struct {
	Input domain.CreateProductInput
}

// CreateProductHandler handles the create product command
type CreateProductHandler struct {
	catalog CatalogWriter
}

// NewCreateProductHandler creates a new create product handler
func NewCreateProductHandler(catalog CatalogWriter) *CreateProductHandler {
	return &CreateProductHandler{catalog: catalog}
}

// Handle validates and forwards the creation to the remote catalog. The
// remote write affects product records only, never the cart.
func (h *CreateProductHandler) Handle(ctx context.Context, cmd CreateProductCommand) (*domain.Product, error) {
	if cmd.Input.Title == "" {
		return nil, fmt.Errorf("title is required")
	}
	if cmd.Input.Price < 0 {
		return nil, fmt.Errorf("price cannot be negative")
	}
	return h.catalog.AddProduct(ctx, cmd.Input)
}
