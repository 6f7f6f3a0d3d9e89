package handler

import (
	"net/http"

	"github.com/go-faster/errors"

	"github.com/xenking/storefront-api/internal/domain/order"
)

// placeOrderRequest is the POST /orders payload.
type placeOrderRequest struct {
	UserID *string            `json:"userId"`
	Items  []orderItemRequest `json:"items"`
}

type orderItemRequest struct {
	ProductID *string `json:"productId"`
	Qty       *int    `json:"qty"`
}

func (req *placeOrderRequest) validate() error {
	if req.UserID == nil {
		return validationErrorf("userId is required")
	}
	if req.Items == nil {
		return validationErrorf("items is required")
	}
	for i, item := range req.Items {
		if item.ProductID == nil {
			return validationErrorf("items[%d].productId is required", i)
		}
		if item.Qty == nil {
			return validationErrorf("items[%d].qty is required", i)
		}
	}
	return nil
}

// PlaceOrder handles POST /orders. Every line item is validated against the
// catalog before anything is written; the order is rejected whole on the
// first failing item.
func (h *Handler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	var req placeOrderRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	items := make([]order.LineItem, len(req.Items))
	for i, item := range req.Items {
		items[i] = order.LineItem{
			ProductID: *item.ProductID,
			Qty:       *item.Qty,
		}
	}

	id, err := h.orderService.PlaceOrder(r.Context(), order.PlaceOrderRequest{
		UserID: *req.UserID,
		Items:  items,
	})
	if err != nil {
		h.writeOrderError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, idResponse{ID: id})
}

// writeOrderError maps order placement errors onto the wire contract:
// malformed product identifiers are the client's formatting problem (400),
// references to absent products are not-found (404), bad quantities are
// payload violations (422). Anything else is a server error.
func (h *Handler) writeOrderError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		midErr *order.MalformedProductIDError
		pnfErr *order.ProductNotFoundError
		iqErr  *order.InvalidQuantityError
	)
	switch {
	case errors.As(err, &midErr):
		writeError(w, http.StatusBadRequest, midErr.Error())
	case errors.As(err, &pnfErr):
		writeError(w, http.StatusNotFound, pnfErr.Error())
	case errors.As(err, &iqErr):
		writeError(w, http.StatusUnprocessableEntity, iqErr.Error())
	default:
		writeServerError(w, r, errors.Wrap(err, "place order"))
	}
}

// orderListItem is the read-time shape of an order with product names joined.
type orderListItem struct {
	ID    string          `json:"id"`
	Items []orderItemView `json:"items"`
}

type orderItemView struct {
	ProductID   string `json:"productId"`
	ProductName string `json:"productName"`
	Qty         int    `json:"qty"`
}

type orderListResponse struct {
	Data []orderListItem `json:"data"`
	Page page            `json:"page"`
}

// ListOrders handles GET /orders/{user_id}. Line items carry the product's
// current display name, or "Unknown" when the product no longer exists.
func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	limit, offset, err := parsePagination(r)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	userID := r.PathValue("user_id")
	views, err := h.orderService.ListByUser(r.Context(), userID, limit, offset)
	if err != nil {
		writeServerError(w, r, errors.Wrap(err, "list orders"))
		return
	}

	data := make([]orderListItem, len(views))
	for i, v := range views {
		items := make([]orderItemView, len(v.Items))
		for j, item := range v.Items {
			items[j] = orderItemView{
				ProductID:   item.ProductID,
				ProductName: item.ProductName,
				Qty:         item.Qty,
			}
		}
		data[i] = orderListItem{ID: v.ID, Items: items}
	}

	writeJSON(w, http.StatusOK, orderListResponse{
		Data: data,
		Page: makePage(limit, offset),
	})
}
