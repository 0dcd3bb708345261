package catalog

import (
	"context"
	"errors"
	"fmt"
)

// Product is a single catalog entry. A product carries no identity beyond
// its fields: two products with equal fields are the same product, and the
// catalog may hold several entries sharing a name.
type Product struct {
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Price    float64 `json:"price"`
	Rating   float64 `json:"rating"`
}

var (
	ErrEmptyName   = errors.New("product name is empty")
	ErrUnencodable = errors.New("name or category contains a delimiter or newline")
)

// Store owns the full product sequence. Order is load order followed by
// append order, and implementations must preserve it across List calls.
type Store interface {
	Ping(ctx context.Context) error
	List(ctx context.Context) ([]Product, error)
	Add(ctx context.Context, p Product) error
}

// PersistError reports a failed append to the backing store. By the time it
// is returned the in-memory catalog is already updated: the record stays
// visible to queries for the rest of the session but is lost on reload.
type PersistError struct {
	Path string
	Err  error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("persist to %s: %v", e.Path, e.Err)
}

func (e *PersistError) Unwrap() error { return e.Err }

func validate(p Product) error {
	if p.Name == "" {
		return ErrEmptyName
	}
	if !Encodable(p) {
		return ErrUnencodable
	}
	return nil
}
