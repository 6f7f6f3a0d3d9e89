package handler

import (
	"net/http"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/xenking/storefront-api/internal/domain/product"
)

// createProductRequest is the POST /products payload. Pointer fields
// distinguish absent values from zero values during validation.
type createProductRequest struct {
	Name  *string       `json:"name"`
	Price *float64      `json:"price"`
	Sizes []sizeRequest `json:"sizes"`
}

type sizeRequest struct {
	Size     *string `json:"size"`
	Quantity *int    `json:"quantity"`
}

func (req *createProductRequest) validate() error {
	if req.Name == nil || *req.Name == "" {
		return validationErrorf("name is required")
	}
	if req.Price == nil {
		return validationErrorf("price is required")
	}
	if *req.Price < 0 {
		return validationErrorf("price must not be negative")
	}
	if req.Sizes == nil {
		return validationErrorf("sizes is required")
	}
	for i, s := range req.Sizes {
		if s.Size == nil {
			return validationErrorf("sizes[%d].size is required", i)
		}
		if s.Quantity == nil {
			return validationErrorf("sizes[%d].quantity is required", i)
		}
		if *s.Quantity < 0 {
			return validationErrorf("sizes[%d].quantity must not be negative", i)
		}
	}
	return nil
}

// idResponse is the body of every successful creation call.
type idResponse struct {
	ID string `json:"id"`
}

// CreateProduct handles POST /products: validate the payload, append the
// product, and return its generated identifier. No dedup, no existence check.
func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req createProductRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	p := product.Product{
		Name:  *req.Name,
		Price: decimal.NewFromFloat(*req.Price),
		Sizes: make([]product.Size, len(req.Sizes)),
	}
	for i, s := range req.Sizes {
		p.Sizes[i] = product.Size{Label: *s.Size, Quantity: *s.Quantity}
	}

	id, err := h.products.Create(r.Context(), &p)
	if err != nil {
		writeServerError(w, r, errors.Wrap(err, "create product"))
		return
	}

	writeJSON(w, http.StatusCreated, idResponse{ID: id})
}

// productListItem is the list view of a product. Size and quantity detail is
// intentionally omitted here.
type productListItem struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

type productListResponse struct {
	Data []productListItem `json:"data"`
	Page page              `json:"page"`
}

// ListProducts handles GET /products with optional name (case-insensitive
// substring) and size (exact label) filters plus limit/offset pagination.
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	limit, offset, err := parsePagination(r)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	q := r.URL.Query()
	products, err := h.products.List(r.Context(), product.ListFilter{
		Name:   q.Get("name"),
		Size:   q.Get("size"),
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		writeServerError(w, r, errors.Wrap(err, "list products"))
		return
	}

	data := make([]productListItem, len(products))
	for i, p := range products {
		data[i] = productListItem{
			ID:    p.ID,
			Name:  p.Name,
			Price: p.Price.InexactFloat64(),
		}
	}

	writeJSON(w, http.StatusOK, productListResponse{
		Data: data,
		Page: makePage(limit, offset),
	})
}
