package remote

// CreatedOrder is the server's acknowledgement of an order submission.
type CreatedOrder struct {
	ID        string `json:"_id"`
	CreatedAt string `json:"createdAt,omitempty"`
}

// StockAdjustment is the body of PUT /products/stock/{productID}. The
// quantity is absolute, not a delta: the server overwrites countInStock
// with NewQuantity.
type StockAdjustment struct {
	BrandID     string `json:"brandID"`
	FinancialID string `json:"financialID"`
	NewQuantity int    `json:"newQuantity"`
}

// Fulfilment list segments exposed by the central API.
type OrderSegment string

const (
	SegmentPacking  OrderSegment = "packing"
	SegmentDispatch OrderSegment = "dispatch"
	SegmentDelivery OrderSegment = "delivery"
	SegmentAll      OrderSegment = "all"
)

// Fulfilment state transitions accepted by the central API.
type OrderAction string

const (
	ActionMarkPacked     OrderAction = "mark-packed"
	ActionMarkDispatched OrderAction = "mark-dispatched"
	ActionMarkDelivered  OrderAction = "mark-delivered"
	ActionMarkPaid       OrderAction = "mark-paid"
)
