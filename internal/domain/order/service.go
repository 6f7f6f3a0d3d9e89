package order

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"

	"github.com/xenking/storefront-api/internal/domain/product"
)

// unknownProductName is substituted at read time for line items whose product
// no longer exists in the catalog.
const unknownProductName = "Unknown"

// MalformedProductIDError indicates a line item's product reference is not a
// valid identifier.
type MalformedProductIDError struct {
	ProductID string
}

func (e *MalformedProductIDError) Error() string {
	return fmt.Sprintf("invalid productId format: %s", e.ProductID)
}

// ProductNotFoundError indicates a referenced product does not exist.
type ProductNotFoundError struct {
	ProductID string
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("product not found: %s", e.ProductID)
}

// InvalidQuantityError indicates a line item has a non-positive quantity.
type InvalidQuantityError struct {
	ProductID string
}

func (e *InvalidQuantityError) Error() string {
	return fmt.Sprintf("qty must be greater than 0 for product %s", e.ProductID)
}

// PlaceOrderRequest holds the input for placing an order.
type PlaceOrderRequest struct {
	UserID string
	Items  []LineItem
}

// View is the read-time shape of an order, with product names joined in.
type View struct {
	ID    string
	Items []LineItemView
}

// LineItemView is a line item denormalized with the product's display name.
type LineItemView struct {
	ProductID   string
	ProductName string
	Qty         int
}

// Service encapsulates order placement and listing business logic.
type Service struct {
	products product.Repository
	orders   Repository
}

// NewService creates an order Service with the required domain dependencies.
func NewService(products product.Repository, orders Repository) *Service {
	return &Service{
		products: products,
		orders:   orders,
	}
}

// PlaceOrder validates every line item against the catalog and, only when all
// items pass, persists the order as one document. The write is all-or-nothing:
// no order is stored if any item fails validation. The validation reads are
// sequential and not isolated from concurrent catalog mutation.
func (s *Service) PlaceOrder(ctx context.Context, req PlaceOrderRequest) (string, error) {
	items, err := s.resolveItems(ctx, req.Items)
	if err != nil {
		return "", err
	}

	id, err := s.orders.Create(ctx, &Order{
		UserID: req.UserID,
		Items:  items,
	})
	if err != nil {
		return "", errors.Wrap(err, "create order")
	}
	return id, nil
}

// resolveItems is the validation pass of PlaceOrder. It has no persistent
// effects: it either returns the full set of resolved line items or the first
// validation error encountered.
func (s *Service) resolveItems(ctx context.Context, items []LineItem) ([]LineItem, error) {
	resolved := make([]LineItem, 0, len(items))
	for _, item := range items {
		if item.Qty <= 0 {
			return nil, &InvalidQuantityError{ProductID: item.ProductID}
		}

		p, err := s.products.GetByID(ctx, item.ProductID)
		switch {
		case errors.Is(err, product.ErrMalformedID):
			return nil, &MalformedProductIDError{ProductID: item.ProductID}
		case errors.Is(err, product.ErrNotFound):
			return nil, &ProductNotFoundError{ProductID: item.ProductID}
		case err != nil:
			return nil, errors.Wrap(err, "get product")
		}

		resolved = append(resolved, LineItem{
			ProductID: p.ID,
			Qty:       item.Qty,
		})
	}
	return resolved, nil
}

// ListByUser returns the user's orders with product names resolved per line
// item. A product that has disappeared from the catalog since the order was
// placed yields the "Unknown" placeholder instead of failing the listing.
func (s *Service) ListByUser(ctx context.Context, userID string, limit, offset int64) ([]View, error) {
	orders, err := s.orders.ListByUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, errors.Wrap(err, "list orders")
	}

	views := make([]View, 0, len(orders))
	for _, o := range orders {
		items := make([]LineItemView, 0, len(o.Items))
		for _, item := range o.Items {
			name, err := s.productName(ctx, item.ProductID)
			if err != nil {
				return nil, err
			}
			items = append(items, LineItemView{
				ProductID:   item.ProductID,
				ProductName: name,
				Qty:         item.Qty,
			})
		}
		views = append(views, View{ID: o.ID, Items: items})
	}
	return views, nil
}

func (s *Service) productName(ctx context.Context, id string) (string, error) {
	p, err := s.products.GetByID(ctx, id)
	switch {
	case errors.Is(err, product.ErrNotFound), errors.Is(err, product.ErrMalformedID):
		return unknownProductName, nil
	case err != nil:
		return "", errors.Wrap(err, "get product")
	}
	return p.Name, nil
}
