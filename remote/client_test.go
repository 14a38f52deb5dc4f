package remote

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/manakirana/pos_backend/models"
	"github.com/manakirana/pos_backend/utils"
)

func newTestClient(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		http:       &http.Client{Timeout: 5 * time.Second},
		pingClient: &http.Client{Timeout: time.Second},
		limiter:    time.Tick(time.Millisecond),
	}
}

func TestPingAnyResponseIsOnline(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/health" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	if !client.Ping(context.Background()) {
		t.Fatal("expected online on a 503 response")
	}
}

func TestPingTransportFailureIsOffline(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := newTestClient(server.URL)
	if client.Ping(context.Background()) {
		t.Fatal("expected offline when the server is unreachable")
	}
}

func TestFindCustomerByPhoneNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no such customer", http.StatusNotFound)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.FindCustomerByPhone(context.Background(), "tok", "9876543210")
	if !errors.Is(err, utils.ErrorRecordNotFound) {
		t.Fatalf("expected record-not-found, got %v", err)
	}
}

func TestFindCustomerByPhone(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/users/pos/9876543210" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tok" {
			t.Errorf("unexpected auth header %q", got)
		}
		json.NewEncoder(w).Encode(models.Customer{ID: "cust-1", Phone: "9876543210"})
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	customer, err := client.FindCustomerByPhone(context.Background(), "tok", "9876543210")
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if customer.ID != "cust-1" {
		t.Fatalf("unexpected customer id %s", customer.ID)
	}
}

func TestCreateOrderSendsIdempotencyKey(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/orders/pos" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Idempotency-Key"); got != "1700000000000-abcd1234" {
			t.Errorf("unexpected idempotency key %q", got)
		}
		var payload models.OrderPayload
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("bad payload: %v", err)
		}
		if payload.CustomerRef != "cust-1" {
			t.Errorf("unexpected customer ref %q", payload.CustomerRef)
		}
		json.NewEncoder(w).Encode(CreatedOrder{ID: "order-9"})
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	payload := models.OrderPayload{
		CustomerRef:   "cust-1",
		PaymentMethod: models.PaymentMethodUPI,
		TotalPrice:    decimal.NewFromInt(250),
		OrderItems:    []models.OrderItem{{Name: "Toor Dal", Qty: 2}},
	}
	created, err := client.CreateOrder(context.Background(), "tok", "1700000000000-abcd1234", payload)
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	if created.ID != "order-9" {
		t.Fatalf("unexpected order id %s", created.ID)
	}
}

func TestCreateOrderErrorSurfacesBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "items out of stock", http.StatusUnprocessableEntity)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.CreateOrder(context.Background(), "tok", "id", models.OrderPayload{})
	if err == nil {
		t.Fatal("expected an error on 422")
	}
	if got := err.Error(); got != "pos api error 422: items out of stock" {
		t.Fatalf("unexpected error message %q", got)
	}
}

func TestAdjustStock(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || r.URL.Path != "/products/stock/p1" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var adj StockAdjustment
		if err := json.NewDecoder(r.Body).Decode(&adj); err != nil {
			t.Errorf("bad body: %v", err)
		}
		if adj.BrandID != "b1" || adj.FinancialID != "f1" || adj.NewQuantity != 7 {
			t.Errorf("unexpected adjustment %+v", adj)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	err := client.AdjustStock(context.Background(), "tok", "p1", StockAdjustment{
		BrandID: "b1", FinancialID: "f1", NewQuantity: 7,
	})
	if err != nil {
		t.Fatalf("adjust stock failed: %v", err)
	}
}

func TestListOrdersRejectsUnknownSegment(t *testing.T) {
	client := newTestClient("http://localhost:0")
	if _, err := client.ListOrders(context.Background(), "tok", "returns"); err == nil {
		t.Fatal("expected an error for an unknown segment")
	}
}

func TestUpdateOrderState(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || r.URL.Path != "/orders/pos/order-9/mark-packed" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		w.Write([]byte(`{"_id":"order-9","isPacked":true}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	raw, err := client.UpdateOrderState(context.Background(), "tok", "order-9", ActionMarkPacked)
	if err != nil {
		t.Fatalf("mark packed failed: %v", err)
	}
	if len(raw) == 0 {
		t.Fatal("expected a response body")
	}
}
