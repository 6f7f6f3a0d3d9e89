package order

import (
	"context"
	"time"
)

// Order is a customer order. Once persisted it is never updated or deleted.
type Order struct {
	ID        string
	UserID    string
	Items     []LineItem
	CreatedAt time.Time
}

// LineItem is one entry within an order: a reference to a product and the
// requested quantity. The product reference is weak — it is checked when the
// order is placed but not enforced by the store afterwards.
type LineItem struct {
	ProductID string
	Qty       int
}

// Repository defines persistence operations for orders.
type Repository interface {
	// Create persists the order as a single document and returns its
	// store-generated ID.
	Create(ctx context.Context, o *Order) (string, error)

	// ListByUser returns up to limit orders for the user after skipping
	// offset, in stable ID order.
	ListByUser(ctx context.Context, userID string, limit, offset int64) ([]Order, error)
}
