// Package handler exposes the HTTP surface of the storefront: product
// catalog creation/listing and order placement/listing. Handlers validate
// payloads, delegate to the domain, and shape JSON responses.
package handler

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/xenking/storefront-api/internal/domain/order"
	"github.com/xenking/storefront-api/internal/domain/product"
)

// Handler holds the dependencies shared by all HTTP endpoints.
type Handler struct {
	products     product.Repository
	orderService *order.Service
}

// New constructs a Handler with the required domain dependencies.
func New(products product.Repository, orderService *order.Service) *Handler {
	return &Handler{
		products:     products,
		orderService: orderService,
	}
}

// Register attaches all API routes to the mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /products", h.CreateProduct)
	mux.HandleFunc("GET /products", h.ListProducts)
	mux.HandleFunc("POST /orders", h.PlaceOrder)
	mux.HandleFunc("GET /orders/{user_id}", h.ListOrders)
}

// validationError is a request payload violation, mapped to 422.
type validationError struct {
	msg string
}

func (e *validationError) Error() string { return e.msg }

func validationErrorf(format string, args ...any) error {
	return &validationError{msg: fmt.Sprintf(format, args...)}
}

// errorBody is the wire shape of every error response.
type errorBody struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorBody{Code: status, Message: message})
}

// writeServerError logs the cause and responds 500 without leaking internals.
func writeServerError(w http.ResponseWriter, r *http.Request, err error) {
	zctx.From(r.Context()).Error("request failed", zap.Error(err))
	writeError(w, http.StatusInternalServerError, "internal server error")
}

// decodeBody decodes a JSON request body into dst. Malformed JSON and type
// mismatches come back as validation errors.
func decodeBody(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if err == io.EOF {
			return validationErrorf("request body is required")
		}
		return validationErrorf("invalid request body: %s", err)
	}
	return nil
}
