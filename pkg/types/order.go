package types

import "time"

// OrderItemInput is one purchased line as submitted by the client.
type OrderItemInput struct {
	SKU string `json:"sku" validate:"required"`
	Qty int    `json:"qty" validate:"required,gt=0"`
}

// CreateOrderRequest is the order submission body.
type CreateOrderRequest struct {
	Items           []OrderItemInput `json:"items" validate:"required,min=1,dive"`
	ShippingAddress string           `json:"shipping_address" validate:"required"`
	ContactInfo     string           `json:"contact_info" validate:"required"`
}

// OrderItem is one confirmed line on a placed order.
type OrderItem struct {
	SKU      string `json:"sku"`
	Name     string `json:"name"`
	PriceKZT int64  `json:"price_kzt"`
	Qty      int    `json:"qty"`
	Image    string `json:"image,omitempty"`
}

// Order is the wire shape of a placed order.
type Order struct {
	ID              string      `json:"id"`
	Status          string      `json:"status"`
	TotalKZT        int64       `json:"total_kzt"`
	ShippingAddress string      `json:"shipping_address"`
	ContactInfo     string      `json:"contact_info"`
	Items           []OrderItem `json:"items"`
	CreatedAt       time.Time   `json:"created_at"`
}
