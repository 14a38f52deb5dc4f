package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// QueuedOrder is a sale finalized at the till but not yet confirmed by the
// central API. It lives in the local queue blob until a publish pass
// succeeds for it.
type QueuedOrder struct {
	LocalID           string       `json:"_localId"`
	QueuedAt          time.Time    `json:"queuedAt"`
	Payload           OrderPayload `json:"payload"`
	CartItemsSnapshot []CartItem   `json:"cartItems"`
	CustomerPhone     string       `json:"customerPhone,omitempty"`
	CustomerName      string       `json:"customerName,omitempty"`
	AuthToken         string       `json:"authToken,omitempty"`
}

// OrderPayload is the order-creation request body for POST /orders/pos.
// CustomerRef is blank until the publish pass resolves the customer.
type OrderPayload struct {
	ShippingAddress ShippingAddress `json:"shippingAddress"`
	PaymentMethod   PaymentMethod   `json:"paymentMethod"`
	OrderItems      []OrderItem     `json:"orderItems" binding:"required,min=1"`
	TotalPrice      decimal.Decimal `json:"totalPrice"`
	CustomerRef     string          `json:"user,omitempty"`
}

type ShippingAddress struct {
	Street     string `json:"street"`
	City       string `json:"city"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}

type OrderItem struct {
	Name        string          `json:"name"`
	Quantity    decimal.Decimal `json:"quantity"`
	Units       string          `json:"units"`
	Brand       string          `json:"brand"`
	Qty         int             `json:"qty"`
	Image       string          `json:"image"`
	Price       decimal.Decimal `json:"price"`
	ProductID   string          `json:"productId"`
	BrandID     string          `json:"brandId"`
	FinancialID string          `json:"financialId"`
}

// CartItem is one line of the cart snapshot taken at the moment of sale.
// Stock is the post-sale remaining count for the variant; it is the only
// source of truth for the stock deltas applied during publish.
type CartItem struct {
	ProductID       string          `json:"id"`
	BrandID         string          `json:"brandId"`
	FinancialID     string          `json:"financialId"`
	Name            string          `json:"item"`
	Brand           string          `json:"brand"`
	Qty             int             `json:"qty"`
	Stock           int             `json:"stock"`
	Price           decimal.Decimal `json:"dprice"`
	CatalogQuantity decimal.Decimal `json:"catalogQuantity"`
	Units           string          `json:"units"`
	Image           string          `json:"image"`
}

// NewLocalID builds a queue-unique identifier: enqueue timestamp plus a
// random suffix, so ids stay sortable by queuing order.
func NewLocalID() string {
	return fmt.Sprintf("%d-%s", time.Now().UnixMilli(), uuid.NewString()[:8])
}
