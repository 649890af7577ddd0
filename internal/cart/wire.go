//go:build wireinject
// +build wireinject

package cart

import (
	"github.com/google/wire"

	"github.com/medetk/storefront/internal/cart/bus"
	cartHTTP "github.com/medetk/storefront/internal/cart/delivery/http"
	"github.com/medetk/storefront/internal/cart/domain"
	"github.com/medetk/storefront/internal/cart/repository"
	"github.com/medetk/storefront/internal/cart/usecase/command"
	"github.com/medetk/storefront/internal/cart/usecase/query"
	productquery "github.com/medetk/storefront/internal/product/usecase/query"
)

// ProvideStore provides the cart store over the configured storage handle
func ProvideStore(storage domain.Storage) domain.CartStore {
	return repository.NewStore(storage)
}

// ProvideNotifier provides the bus as the mutation notifier
func ProvideNotifier(eventBus *bus.Bus) domain.Notifier {
	return eventBus
}

// Command handler providers
func ProvideAddItemHandler(store domain.CartStore, notifier domain.Notifier) *command.AddItemHandler {
	return command.NewAddItemHandler(store, notifier)
}

func ProvideRemoveItemHandler(store domain.CartStore, notifier domain.Notifier) *command.RemoveItemHandler {
	return command.NewRemoveItemHandler(store, notifier)
}

func ProvideDecreaseQuantityHandler(store domain.CartStore, notifier domain.Notifier) *command.DecreaseQuantityHandler {
	return command.NewDecreaseQuantityHandler(store, notifier)
}

func ProvideClearCartHandler(store domain.CartStore, notifier domain.Notifier) *command.ClearCartHandler {
	return command.NewClearCartHandler(store, notifier)
}

// Query handler providers
func ProvideGetItemsHandler(store domain.CartStore) *query.GetItemsHandler {
	return query.NewGetItemsHandler(store)
}

func ProvideGetIDsHandler(store domain.CartStore) *query.GetIDsHandler {
	return query.NewGetIDsHandler(store)
}

func ProvideGetCountHandler(store domain.CartStore) *query.GetCountHandler {
	return query.NewGetCountHandler(store)
}

// CartProviderSet is the wire provider set for the cart context
var CartProviderSet = wire.NewSet(
	ProvideStore,
	ProvideNotifier,
	ProvideAddItemHandler,
	ProvideRemoveItemHandler,
	ProvideDecreaseQuantityHandler,
	ProvideClearCartHandler,
	ProvideGetItemsHandler,
	ProvideGetIDsHandler,
	ProvideGetCountHandler,
	cartHTTP.NewCartHandler,
)

// InitializeCartHandler builds the cart HTTP handler with all dependencies
func InitializeCartHandler(
	storage domain.Storage,
	eventBus *bus.Bus,
	catalog productquery.ProductFetcher,
) *cartHTTP.CartHandler {
	wire.Build(CartProviderSet)
	return nil
}
