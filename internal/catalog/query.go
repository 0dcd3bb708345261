package catalog

import (
	"sort"
	"strings"
)

// Query operations are pure functions over a snapshot obtained from
// Store.List. They never mutate their input and always preserve the
// catalog order of the records they keep.

// FilterByPriceCeiling keeps products with Price <= maxPrice. The boundary
// is inclusive; a negative ceiling simply yields an empty result.
func FilterByPriceCeiling(products []Product, maxPrice float64) []Product {
	out := make([]Product, 0, len(products))
	for _, p := range products {
		if p.Price <= maxPrice {
			out = append(out, p)
		}
	}
	return out
}

// FilterByCategory keeps products whose category equals the argument under
// case-insensitive comparison. Exact equality, not substring match.
func FilterByCategory(products []Product, category string) []Product {
	out := make([]Product, 0, len(products))
	for _, p := range products {
		if strings.EqualFold(p.Category, category) {
			out = append(out, p)
		}
	}
	return out
}

// SortByRatingDesc returns a new slice ordered by rating, highest first.
// The sort is stable: products with equal ratings keep their catalog order.
func SortByRatingDesc(products []Product) []Product {
	out := make([]Product, len(products))
	copy(out, products)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Rating > out[j].Rating })
	return out
}

// FindByName returns the first product whose name equals the argument under
// case-insensitive comparison. First match in catalog order wins when
// several products share a name.
func FindByName(products []Product, name string) (Product, bool) {
	for _, p := range products {
		if strings.EqualFold(p.Name, name) {
			return p, true
		}
	}
	return Product{}, false
}
