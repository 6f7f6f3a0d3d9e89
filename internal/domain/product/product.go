package product

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// Sentinel errors for catalog lookups.
var (
	// ErrNotFound is returned when a requested product does not exist.
	ErrNotFound = errors.New("product not found")

	// ErrMalformedID is returned when an identifier cannot be parsed in the
	// store's identifier format.
	ErrMalformedID = errors.New("malformed product id")
)

// Product represents a catalog item available for purchase.
type Product struct {
	ID    string
	Name  string
	Price decimal.Decimal
	Sizes []Size
}

// Size is one stock entry of a product: a size label and its quantity.
type Size struct {
	Label    string
	Quantity int
}

// ListFilter narrows and pages a catalog listing. A zero-value field means
// no constraint; filters combine with logical AND.
type ListFilter struct {
	// Name matches products whose name contains this value, case-insensitively.
	Name string
	// Size matches products having a size entry with exactly this label.
	Size string

	Limit  int64
	Offset int64
}

// Repository defines persistence operations for the product catalog.
type Repository interface {
	// Create appends a new product and returns its store-generated ID.
	Create(ctx context.Context, p *Product) (string, error)

	// List returns up to filter.Limit products after skipping filter.Offset,
	// in stable ID order.
	List(ctx context.Context, filter ListFilter) ([]Product, error)

	// GetByID returns a single product. It returns ErrMalformedID when id is
	// not a valid identifier and ErrNotFound when no product matches.
	GetByID(ctx context.Context, id string) (*Product, error)
}
