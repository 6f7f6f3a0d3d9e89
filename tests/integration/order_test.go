//go:build integration

package integration

import (
	"net/http"
	"strings"
	"testing"

	"github.com/google/uuid"
)

// uniqueUser returns a userId no other test run has used, so listings are
// deterministic.
func uniqueUser() string {
	return "it-user-" + strings.ReplaceAll(uuid.New().String(), "-", "")
}

func TestOrderRoundTrip(t *testing.T) {
	productID := createProduct(t, productPayload{
		Name:  "Integration Shoe",
		Price: 49.99,
		Sizes: []sizePayload{{Size: "M", Quantity: 5}},
	})
	user := uniqueUser()

	resp := doPost(t, "/orders", orderPayload{
		UserID: user,
		Items:  []orderItemPayload{{ProductID: productID, Qty: 2}},
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	orderID := decodeJSON[idResponse](t, resp).ID
	resp.Body.Close()

	resp = doGet(t, "/orders/"+user)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	list := decodeJSON[orderListResponse](t, resp)
	if len(list.Data) != 1 {
		t.Fatalf("expected 1 order, got %d", len(list.Data))
	}
	got := list.Data[0]
	if got.ID != orderID {
		t.Errorf("order id: got %q, want %q", got.ID, orderID)
	}
	if len(got.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(got.Items))
	}
	if got.Items[0].ProductName != "Integration Shoe" || got.Items[0].Qty != 2 {
		t.Errorf("item: got %+v", got.Items[0])
	}
}

func TestCreateOrder_MalformedProductID(t *testing.T) {
	resp := doPost(t, "/orders", orderPayload{
		UserID: uniqueUser(),
		Items:  []orderItemPayload{{ProductID: "not-an-object-id", Qty: 1}},
	})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestCreateOrder_ProductNotFound(t *testing.T) {
	user := uniqueUser()

	resp := doPost(t, "/orders", orderPayload{
		UserID: user,
		// Valid ObjectID format, but no such product.
		Items: []orderItemPayload{{ProductID: "ffffffffffffffffffffffff", Qty: 1}},
	})
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	// Nothing was persisted for the user.
	resp = doGet(t, "/orders/"+user)
	defer resp.Body.Close()
	list := decodeJSON[orderListResponse](t, resp)
	if len(list.Data) != 0 {
		t.Errorf("expected no orders, got %d", len(list.Data))
	}
}

func TestCreateOrder_AllOrNothing(t *testing.T) {
	productID := createProduct(t, productPayload{
		Name: "Integration Partial", Price: 5, Sizes: []sizePayload{},
	})
	user := uniqueUser()

	resp := doPost(t, "/orders", orderPayload{
		UserID: user,
		Items: []orderItemPayload{
			{ProductID: productID, Qty: 1},
			{ProductID: "ffffffffffffffffffffffff", Qty: 1},
		},
	})
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp = doGet(t, "/orders/"+user)
	defer resp.Body.Close()
	list := decodeJSON[orderListResponse](t, resp)
	if len(list.Data) != 0 {
		t.Errorf("no order may be persisted when any item fails, got %d", len(list.Data))
	}
}

func TestCreateOrder_InvalidQuantity(t *testing.T) {
	productID := createProduct(t, productPayload{
		Name: "Integration Qty", Price: 5, Sizes: []sizePayload{},
	})

	resp := doPost(t, "/orders", orderPayload{
		UserID: uniqueUser(),
		Items:  []orderItemPayload{{ProductID: productID, Qty: 0}},
	})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", resp.StatusCode)
	}
}

func TestListOrders_Pagination(t *testing.T) {
	resp := doGet(t, "/orders/" + uniqueUser() + "?limit=5&offset=10")
	defer resp.Body.Close()

	list := decodeJSON[orderListResponse](t, resp)
	if list.Page.Next != 15 || list.Page.Previous != 5 || list.Page.Limit != 5 {
		t.Errorf("page: got %+v, want next=15 previous=5 limit=5", list.Page)
	}
}
