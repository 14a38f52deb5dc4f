package models

// Customer is the central API's POS customer record, keyed by phone.
type Customer struct {
	ID              string          `json:"_id"`
	Name            string          `json:"name"`
	Phone           string          `json:"phone"`
	DeliveryAddress DeliveryAddress `json:"deliveryAddress"`
	Location        GeoLocation     `json:"location"`
}

type DeliveryAddress struct {
	Street     string `json:"street"`
	City       string `json:"city"`
	PostalCode string `json:"postalCode"`
}

type GeoLocation struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// NewCustomer is the creation body for POST /users/pos.
type NewCustomer struct {
	Name            string          `json:"name" binding:"required"`
	Phone           string          `json:"phone" binding:"required"`
	DeliveryAddress DeliveryAddress `json:"deliveryAddress"`
	Location        GeoLocation     `json:"location"`
}

// Sentinel defaults used when the cashier captured nothing but a phone
// number at sale time.
const (
	DefaultCustomerName = "NA"
	DefaultStreet       = "N/A"
	DefaultCity         = "Unknown"
	DefaultPostalCode   = "000000"
)

// WalkInCustomer fills the creation body with sentinel values for every
// field the sale did not capture.
func WalkInCustomer(name, phone string) NewCustomer {
	if name == "" {
		name = DefaultCustomerName
	}
	return NewCustomer{
		Name:  name,
		Phone: phone,
		DeliveryAddress: DeliveryAddress{
			Street:     DefaultStreet,
			City:       DefaultCity,
			PostalCode: DefaultPostalCode,
		},
		Location: GeoLocation{Latitude: 0, Longitude: 0},
	}
}
