package models

type PaymentMethod string

const (
	PaymentMethodCash PaymentMethod = "Cash"
	PaymentMethodUPI  PaymentMethod = "UPI"
)

// Remote order lifecycle states, as reported by the central API.
type OrderStatus string

const (
	OrderStatusPacking    OrderStatus = "Packing"
	OrderStatusDispatched OrderStatus = "Dispatched"
	OrderStatusDelivered  OrderStatus = "Delivered"
)
