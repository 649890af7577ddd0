package domain

import (
	"context"
	"errors"
	"sort"
	"strconv"
)

// ErrInvalidProductID is returned for zero or negative product ids
var ErrInvalidProductID = errors.New("invalid product id")

// Item is a single cart entry projected for rendering
type Item struct {
	ProductID int `json:"productId"`
	Quantity  int `json:"quantity"`
}

// CountMap is the canonical cart representation: stringified product id to
// positive quantity. An entry is deleted, never stored at zero.
type CountMap map[string]int

// Items projects the map to entries with quantity > 0, ordered by product id
// so repeated reads and the ids expansion stay consistent.
func (m CountMap) Items() []Item {
	items := make([]Item, 0, len(m))
	for key, qty := range m {
		if qty <= 0 {
			continue
		}
		id, err := strconv.Atoi(key)
		if err != nil {
			continue
		}
		items = append(items, Item{ProductID: id, Quantity: qty})
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].ProductID < items[j].ProductID
	})
	return items
}

// Total sums all quantities
func (m CountMap) Total() int {
	total := 0
	for _, qty := range m {
		total += qty
	}
	return total
}

// Key converts a product id to its storage key form
func Key(productID int) string {
	return strconv.Itoa(productID)
}

// Storage is the injected single-record key-value handle backing the cart.
// Implementations hold the storage key; the cart never addresses more than
// one record.
type Storage interface {
	// Get returns the raw stored value and whether a value exists
	Get(ctx context.Context) ([]byte, bool, error)
	// Set stores the raw value verbatim
	Set(ctx context.Context, value []byte) error
	// Delete removes the record entirely
	Delete(ctx context.Context) error
}

// CartStore is the accessor contract the mutation and query handlers use
type CartStore interface {
	// ReadRaw never fails; unreadable or malformed state degrades to an
	// empty map
	ReadRaw(ctx context.Context) CountMap
	// WriteRaw persists the map verbatim; storage errors surface
	WriteRaw(ctx context.Context, m CountMap) error
	// Clear removes the stored cart
	Clear(ctx context.Context) error
}

// Notifier broadcasts a payload-less change signal after each mutation
type Notifier interface {
	Publish()
}
