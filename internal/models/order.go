package models

import (
	"time"
)

type OrderStatus string

type PaymentStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"

	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusFailed   PaymentStatus = "failed"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

type Address struct {
	Street  string `json:"street" validate:"required"`
	City    string `json:"city" validate:"required"`
	State   string `json:"state" validate:"required"`
	ZipCode string `json:"zipCode" validate:"required"`
	Country string `json:"country" validate:"required"`
	Phone   string `json:"phone" validate:"required"`
}

// LocalOrderRecord is the client's durable view of one order. The ID is
// server-assigned when the create call returned one, otherwise a locally
// generated placeholder so the record can still be patched later.
type LocalOrderRecord struct {
	ID                string        `json:"id"`
	BuyerID           string        `json:"buyer_id"`
	SellerID          string        `json:"seller_id"`
	ProductID         string        `json:"product_id"`
	ProductName       string        `json:"product_name"`
	Quantity          int           `json:"quantity"`
	TotalAmount       float64       `json:"total_amount"`
	Status            OrderStatus   `json:"status"`
	PaymentStatus     PaymentStatus `json:"payment_status"`
	ShippingAddress   Address       `json:"shipping_address"`
	CreatedAt         time.Time     `json:"created_at"`
	EstimatedDelivery time.Time     `json:"estimated_delivery"`
}

// OrderPatch is a shallow-merge update for a cached order. Nil fields are
// left untouched.
type OrderPatch struct {
	Status        *OrderStatus   `json:"status,omitempty"`
	PaymentStatus *PaymentStatus `json:"payment_status,omitempty"`
	ID            *string        `json:"id,omitempty"` // placeholder → server id
}

// Role scopes order queries. Anything other than buyer/seller is treated as
// an admin-style "everything" view.
type Role string

const (
	RoleBuyer  Role = "buyer"
	RoleSeller Role = "seller"
)

// CreateOrderRequest is the body of the per-line-item order creation call.
// The whole struct is validated before any network I/O happens.
type CreateOrderRequest struct {
	BuyerID         string  `json:"buyerId"        validate:"required"`
	Quantity        int     `json:"quantity"       validate:"required,min=1"`
	ShippingAddress Address `json:"shippingAddress" validate:"required"`
	PaymentMethod   string  `json:"paymentMethod"  validate:"required"`
	Notes           string  `json:"notes,omitempty"`
}
