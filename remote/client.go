package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/manakirana/pos_backend/models"
	"github.com/manakirana/pos_backend/utils"
)

// Client talks to the central store API. All order and customer calls carry
// the operator's bearer token captured at sale time; catalog reads are
// unauthenticated.
type Client struct {
	baseURL    string
	http       *http.Client
	pingClient *http.Client
	limiter    <-chan time.Time
}

func NewClient() *Client {
	baseURL := strings.TrimSpace(os.Getenv("POS_API_BASE_URL"))
	if baseURL == "" {
		baseURL = "http://localhost:5000/api"
	}
	rateLimitPerMin := int64(120)
	if v := strings.TrimSpace(os.Getenv("POS_API_RATE_LIMIT_PER_MIN")); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			rateLimitPerMin = n
		}
	}
	interval := time.Minute / time.Duration(rateLimitPerMin)

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
		// The reachability probe must answer fast enough for the till
		// to fall back to queuing without a visible stall.
		pingClient: &http.Client{Timeout: 2500 * time.Millisecond},
		limiter:    time.Tick(interval),
	}
}

// Ping reports whether the central API is reachable. Any HTTP response,
// including an error status, counts as online; only transport failures
// count as offline.
func (c *Client) Ping(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return false
	}
	resp, err := c.pingClient.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return true
}

func (c *Client) do(ctx context.Context, method, path, token string, body any, headers map[string]string) ([]byte, int, error) {
	<-c.limiter
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, 0, err
		}
		reader = bytes.NewReader(encoded)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, 0, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return raw, resp.StatusCode, fmt.Errorf("pos api error %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}
	return raw, resp.StatusCode, nil
}

// FindCustomerByPhone looks a customer up by the 10-digit phone captured at
// the till. A 404 maps to utils.ErrorRecordNotFound so callers can branch
// to creation.
func (c *Client) FindCustomerByPhone(ctx context.Context, token, phone string) (models.Customer, error) {
	raw, status, err := c.do(ctx, http.MethodGet, "/users/pos/"+phone, token, nil, nil)
	if err != nil {
		if status == http.StatusNotFound {
			return models.Customer{}, utils.ErrorRecordNotFound
		}
		return models.Customer{}, err
	}
	var customer models.Customer
	if err := json.Unmarshal(raw, &customer); err != nil {
		return models.Customer{}, err
	}
	return customer, nil
}

// CreateCustomer registers a new POS customer.
func (c *Client) CreateCustomer(ctx context.Context, token string, newCustomer models.NewCustomer) (models.Customer, error) {
	raw, _, err := c.do(ctx, http.MethodPost, "/users/pos", token, newCustomer, nil)
	if err != nil {
		return models.Customer{}, err
	}
	var customer models.Customer
	if err := json.Unmarshal(raw, &customer); err != nil {
		return models.Customer{}, err
	}
	return customer, nil
}

// CreateOrder submits one queued order. The local id rides along as an
// idempotency key so a retried publish of the same sale cannot create a
// duplicate order.
func (c *Client) CreateOrder(ctx context.Context, token, localID string, payload models.OrderPayload) (CreatedOrder, error) {
	headers := map[string]string{"Idempotency-Key": localID}
	raw, _, err := c.do(ctx, http.MethodPost, "/orders/pos", token, payload, headers)
	if err != nil {
		return CreatedOrder{}, err
	}
	var created CreatedOrder
	if err := json.Unmarshal(raw, &created); err != nil {
		return CreatedOrder{}, err
	}
	return created, nil
}

// AdjustStock pushes the post-sale remaining count of one financial
// variant to the server.
func (c *Client) AdjustStock(ctx context.Context, token, productID string, adj StockAdjustment) error {
	_, _, err := c.do(ctx, http.MethodPut, "/products/stock/"+productID, token, adj, nil)
	return err
}

// FetchAllProducts pulls the full catalog.
func (c *Client) FetchAllProducts(ctx context.Context) ([]models.Product, error) {
	raw, _, err := c.do(ctx, http.MethodGet, "/products", "", nil, nil)
	if err != nil {
		return nil, err
	}
	var products []models.Product
	if err := json.Unmarshal(raw, &products); err != nil {
		return nil, err
	}
	return products, nil
}
