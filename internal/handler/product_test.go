package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xenking/storefront-api/internal/domain/order"
	"github.com/xenking/storefront-api/internal/domain/product"
)

// --- Mock implementations ---

type mockProductRepo struct {
	byID       map[string]*product.Product
	listResult []product.Product
	lastFilter product.ListFilter
	created    []*product.Product
	createErr  error
	listErr    error
	getErr     error
}

func (m *mockProductRepo) Create(_ context.Context, p *product.Product) (string, error) {
	if m.createErr != nil {
		return "", m.createErr
	}
	m.created = append(m.created, p)
	return "68af01c2ab93d40012345678", nil
}

func (m *mockProductRepo) List(_ context.Context, f product.ListFilter) ([]product.Product, error) {
	m.lastFilter = f
	return m.listResult, m.listErr
}

func (m *mockProductRepo) GetByID(_ context.Context, id string) (*product.Product, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	if len(id) != 24 {
		return nil, product.ErrMalformedID
	}
	p, ok := m.byID[id]
	if !ok {
		return nil, product.ErrNotFound
	}
	return p, nil
}

type mockOrderRepo struct {
	created   []*order.Order
	orders    []order.Order
	createErr error
	listErr   error
}

func (m *mockOrderRepo) Create(_ context.Context, o *order.Order) (string, error) {
	if m.createErr != nil {
		return "", m.createErr
	}
	m.created = append(m.created, o)
	return "68af01c2ab93d400abcdef12", nil
}

func (m *mockOrderRepo) ListByUser(_ context.Context, userID string, _, _ int64) ([]order.Order, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []order.Order
	for _, o := range m.orders {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	return out, nil
}

// --- Helpers ---

func newTestMux(products *mockProductRepo, orders *mockOrderRepo) *http.ServeMux {
	h := New(products, order.NewService(products, orders))
	mux := http.NewServeMux()
	h.Register(mux)
	return mux
}

func doRequest(t *testing.T, mux *http.ServeMux, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func decodeInto[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

// --- Tests ---

func TestCreateProduct(t *testing.T) {
	repo := &mockProductRepo{}
	mux := newTestMux(repo, &mockOrderRepo{})

	rec := doRequest(t, mux, http.MethodPost, "/products",
		`{"name":"Blue Shirt","price":29.9,"sizes":[{"size":"L","quantity":10},{"size":"M","quantity":0}]}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	resp := decodeInto[idResponse](t, rec)
	assert.Equal(t, "68af01c2ab93d40012345678", resp.ID)

	require.Len(t, repo.created, 1)
	created := repo.created[0]
	assert.Equal(t, "Blue Shirt", created.Name)
	assert.True(t, decimal.NewFromFloat(29.9).Equal(created.Price))
	assert.Equal(t, []product.Size{{Label: "L", Quantity: 10}, {Label: "M", Quantity: 0}}, created.Sizes)
}

func TestCreateProduct_EmptySizes(t *testing.T) {
	// Sizes must be present but may be empty.
	repo := &mockProductRepo{}
	mux := newTestMux(repo, &mockOrderRepo{})

	rec := doRequest(t, mux, http.MethodPost, "/products", `{"name":"Hat","price":5,"sizes":[]}`)
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestCreateProduct_Validation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"empty body", ""},
		{"not json", "{"},
		{"missing name", `{"price":1,"sizes":[]}`},
		{"empty name", `{"name":"","price":1,"sizes":[]}`},
		{"missing price", `{"name":"x","sizes":[]}`},
		{"negative price", `{"name":"x","price":-1,"sizes":[]}`},
		{"price wrong type", `{"name":"x","price":"free","sizes":[]}`},
		{"missing sizes", `{"name":"x","price":1}`},
		{"size missing label", `{"name":"x","price":1,"sizes":[{"quantity":1}]}`},
		{"size missing quantity", `{"name":"x","price":1,"sizes":[{"size":"L"}]}`},
		{"negative size quantity", `{"name":"x","price":1,"sizes":[{"size":"L","quantity":-1}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockProductRepo{}
			mux := newTestMux(repo, &mockOrderRepo{})

			rec := doRequest(t, mux, http.MethodPost, "/products", tt.body)

			assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
			resp := decodeInto[errorBody](t, rec)
			assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
			assert.NotEmpty(t, resp.Message)
			assert.Empty(t, repo.created, "validation failures must not reach the store")
		})
	}
}

func TestListProducts(t *testing.T) {
	repo := &mockProductRepo{listResult: []product.Product{
		{
			ID:    "68af01c2ab93d40011111111",
			Name:  "Blue Shirt",
			Price: decimal.RequireFromString("29.9"),
			Sizes: []product.Size{{Label: "L", Quantity: 10}},
		},
	}}
	mux := newTestMux(repo, &mockOrderRepo{})

	rec := doRequest(t, mux, http.MethodGet, "/products", "")
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decodeInto[productListResponse](t, rec)
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "68af01c2ab93d40011111111", resp.Data[0].ID)
	assert.Equal(t, "Blue Shirt", resp.Data[0].Name)
	assert.Equal(t, 29.9, resp.Data[0].Price)

	// Defaults: limit=10, offset=0.
	assert.Equal(t, page{Next: 10, Limit: 10, Previous: 0}, resp.Page)
	assert.Equal(t, int64(10), repo.lastFilter.Limit)
	assert.Equal(t, int64(0), repo.lastFilter.Offset)

	// Size/quantity detail is omitted from the list view.
	raw := decodeInto[map[string]json.RawMessage](t, rec)
	var items []map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw["data"], &items))
	assert.NotContains(t, items[0], "sizes")
}

func TestListProducts_Filters(t *testing.T) {
	repo := &mockProductRepo{}
	mux := newTestMux(repo, &mockOrderRepo{})

	rec := doRequest(t, mux, http.MethodGet, "/products?name=shirt&size=L", "")
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, "shirt", repo.lastFilter.Name)
	assert.Equal(t, "L", repo.lastFilter.Size)
}

func TestListProducts_PaginationArithmetic(t *testing.T) {
	// next/previous are computed arithmetically, never verified against the
	// actual remaining record count: the page metadata is identical whether
	// or not more records exist.
	repo := &mockProductRepo{}
	mux := newTestMux(repo, &mockOrderRepo{})

	rec := doRequest(t, mux, http.MethodGet, "/products?limit=10&offset=20", "")
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decodeInto[productListResponse](t, rec)
	assert.Empty(t, resp.Data)
	assert.Equal(t, page{Next: 30, Limit: 10, Previous: 10}, resp.Page)
}

func TestListProducts_PreviousFlooredAtZero(t *testing.T) {
	repo := &mockProductRepo{}
	mux := newTestMux(repo, &mockOrderRepo{})

	rec := doRequest(t, mux, http.MethodGet, "/products?limit=10&offset=5", "")
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decodeInto[productListResponse](t, rec)
	assert.Equal(t, page{Next: 15, Limit: 10, Previous: 0}, resp.Page)
}

func TestListProducts_BadPagination(t *testing.T) {
	mux := newTestMux(&mockProductRepo{}, &mockOrderRepo{})

	for _, target := range []string{
		"/products?limit=abc",
		"/products?offset=abc",
		"/products?limit=-1",
		"/products?offset=-5",
	} {
		rec := doRequest(t, mux, http.MethodGet, target, "")
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code, target)
	}
}

func TestListProducts_StoreError(t *testing.T) {
	repo := &mockProductRepo{listErr: errors.New("db down")}
	mux := newTestMux(repo, &mockOrderRepo{})

	rec := doRequest(t, mux, http.MethodGet, "/products", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
