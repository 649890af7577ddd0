package command

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medetk/storefront/internal/cart/domain"
	"github.com/medetk/storefront/internal/cart/repository"
	"github.com/medetk/storefront/pkg/logger"
)

func TestMain(m *testing.M) {
	logger.Init("command-test", false)
	m.Run()
}

// countingNotifier records how many signals were published
type countingNotifier struct {
	published int
}

func (n *countingNotifier) Publish() { n.published++ }

// failingStore rejects every write
type failingStore struct{}

func (failingStore) ReadRaw(context.Context) domain.CountMap { return domain.CountMap{} }
func (failingStore) WriteRaw(context.Context, domain.CountMap) error {
	return errors.New("storage down")
}
func (failingStore) Clear(context.Context) error { return errors.New("storage down") }

func newTestStore(t *testing.T) *repository.Store {
	t.Helper()
	return repository.NewStore(repository.NewMemoryStorage())
}

func TestAddItem_CreatesEntryAtOne(t *testing.T) {
	store := newTestStore(t)
	notifier := &countingNotifier{}
	handler := NewAddItemHandler(store, notifier)

	items, err := handler.Handle(context.Background(), AddItemCommand{ProductID: 3})

	require.NoError(t, err)
	assert.Equal(t, []domain.Item{{ProductID: 3, Quantity: 1}}, items)
	assert.Equal(t, 1, notifier.published)
}

func TestAddItem_RepeatedCallsAccumulate(t *testing.T) {
	store := newTestStore(t)
	notifier := &countingNotifier{}
	handler := NewAddItemHandler(store, notifier)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := handler.Handle(ctx, AddItemCommand{ProductID: 7})
		require.NoError(t, err)
	}
	items, err := handler.Handle(ctx, AddItemCommand{ProductID: 3})
	require.NoError(t, err)

	assert.Equal(t, []domain.Item{
		{ProductID: 3, Quantity: 1},
		{ProductID: 7, Quantity: 3},
	}, items)
	assert.Equal(t, 4, notifier.published)
}

func TestAddItem_RejectsInvalidProductID(t *testing.T) {
	notifier := &countingNotifier{}
	handler := NewAddItemHandler(newTestStore(t), notifier)

	for _, id := range []int{0, -1} {
		_, err := handler.Handle(context.Background(), AddItemCommand{ProductID: id})
		assert.ErrorIs(t, err, domain.ErrInvalidProductID)
	}
	assert.Equal(t, 0, notifier.published, "rejected commands must not publish")
}

func TestAddItem_WriteFailureSuppressesSignal(t *testing.T) {
	notifier := &countingNotifier{}
	handler := NewAddItemHandler(failingStore{}, notifier)

	_, err := handler.Handle(context.Background(), AddItemCommand{ProductID: 3})

	require.Error(t, err)
	assert.Equal(t, 0, notifier.published)
}

func TestRemoveItem_DeletesRegardlessOfQuantity(t *testing.T) {
	store := newTestStore(t)
	notifier := &countingNotifier{}
	add := NewAddItemHandler(store, notifier)
	remove := NewRemoveItemHandler(store, notifier)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := add.Handle(ctx, AddItemCommand{ProductID: 9})
		require.NoError(t, err)
	}

	items, err := remove.Handle(ctx, RemoveItemCommand{ProductID: 9})

	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestRemoveItem_AbsentProductStillPublishes(t *testing.T) {
	notifier := &countingNotifier{}
	handler := NewRemoveItemHandler(newTestStore(t), notifier)

	items, err := handler.Handle(context.Background(), RemoveItemCommand{ProductID: 42})

	require.NoError(t, err)
	assert.Empty(t, items)
	assert.Equal(t, 1, notifier.published)
}

func TestDecreaseQuantity_Decrements(t *testing.T) {
	store := newTestStore(t)
	notifier := &countingNotifier{}
	add := NewAddItemHandler(store, notifier)
	decrease := NewDecreaseQuantityHandler(store, notifier)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := add.Handle(ctx, AddItemCommand{ProductID: 4})
		require.NoError(t, err)
	}

	items, err := decrease.Handle(ctx, DecreaseQuantityCommand{ProductID: 4})

	require.NoError(t, err)
	assert.Equal(t, []domain.Item{{ProductID: 4, Quantity: 2}}, items)
}

func TestDecreaseQuantity_AtOneDeletesEntry(t *testing.T) {
	store := newTestStore(t)
	notifier := &countingNotifier{}
	add := NewAddItemHandler(store, notifier)
	decrease := NewDecreaseQuantityHandler(store, notifier)
	ctx := context.Background()

	_, err := add.Handle(ctx, AddItemCommand{ProductID: 4})
	require.NoError(t, err)

	items, err := decrease.Handle(ctx, DecreaseQuantityCommand{ProductID: 4})

	require.NoError(t, err)
	assert.Empty(t, items)

	// Zero is never stored: the raw map has no entry at all
	assert.NotContains(t, store.ReadRaw(ctx), domain.Key(4))
}

func TestDecreaseQuantity_AbsentProductStaysAbsent(t *testing.T) {
	store := newTestStore(t)
	notifier := &countingNotifier{}
	handler := NewDecreaseQuantityHandler(store, notifier)

	items, err := handler.Handle(context.Background(), DecreaseQuantityCommand{ProductID: 8})

	require.NoError(t, err)
	assert.Empty(t, items)
	assert.Equal(t, 1, notifier.published)
}

func TestClearCart_EmptiesAndPublishes(t *testing.T) {
	store := newTestStore(t)
	notifier := &countingNotifier{}
	add := NewAddItemHandler(store, notifier)
	clear := NewClearCartHandler(store, notifier)
	ctx := context.Background()

	_, err := add.Handle(ctx, AddItemCommand{ProductID: 1})
	require.NoError(t, err)
	_, err = add.Handle(ctx, AddItemCommand{ProductID: 2})
	require.NoError(t, err)

	require.NoError(t, clear.Handle(ctx, ClearCartCommand{}))

	assert.Empty(t, store.ReadRaw(ctx))
	assert.Equal(t, 3, notifier.published)
}

func TestClearCart_StorageFailureSuppressesSignal(t *testing.T) {
	notifier := &countingNotifier{}
	handler := NewClearCartHandler(failingStore{}, notifier)

	err := handler.Handle(context.Background(), ClearCartCommand{})

	require.Error(t, err)
	assert.Equal(t, 0, notifier.published)
}
