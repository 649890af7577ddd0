package domain

import (
	"sort"
	"strings"
)

// SortBy is the listing sort key
type SortBy string

// SortOrder is the listing sort direction
type SortOrder string

const (
	SortByTitle  SortBy = "title"
	SortByPrice  SortBy = "price"
	SortByRating SortBy = "rating"

	OrderAsc  SortOrder = "asc"
	OrderDesc SortOrder = "desc"
)

// SortProducts orders products by the given key and direction. The sort is
// stable: ties keep their relative input order. Unknown keys leave the input
// order untouched.
func SortProducts(products []Product, sortBy SortBy, order SortOrder) []Product {
	sorted := make([]Product, len(products))
	copy(sorted, products)

	var less func(a, b Product) bool
	switch sortBy {
	case SortByTitle:
		less = func(a, b Product) bool {
			return strings.ToLower(a.Title) < strings.ToLower(b.Title)
		}
	case SortByPrice:
		less = func(a, b Product) bool { return a.Price < b.Price }
	case SortByRating:
		less = func(a, b Product) bool { return a.Rating < b.Rating }
	default:
		return sorted
	}

	sort.SliceStable(sorted, func(i, j int) bool {
		if order == OrderDesc {
			return less(sorted[j], sorted[i])
		}
		return less(sorted[i], sorted[j])
	})
	return sorted
}
