package ordering

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	// ErrOrderNotFound is returned when an order does not exist
	ErrOrderNotFound = errors.New("ordering: order not found")
	// ErrOrderHasNoItems is returned for orders without line items
	ErrOrderHasNoItems = errors.New("ordering: order has no items")
)

// OrderStatus represents the lifecycle status of a local order
type OrderStatus string

const (
	// OrderStatusNew indicates the order was placed but not paid
	OrderStatusNew OrderStatus = "NEW"
	// OrderStatusPaid indicates payment was received
	OrderStatusPaid OrderStatus = "PAID"
	// OrderStatusPreparing indicates the store accepted the order
	OrderStatusPreparing OrderStatus = "PREPARING"
	// OrderStatusReady indicates the order is ready for pickup/courier
	OrderStatusReady OrderStatus = "READY"
	// OrderStatusCompleted indicates the order was handed over
	OrderStatusCompleted OrderStatus = "COMPLETED"
	// OrderStatusCancelled indicates the order was cancelled
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

// IsValid returns true if the status is valid
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusNew, OrderStatusPaid, OrderStatusPreparing,
		OrderStatusReady, OrderStatusCompleted, OrderStatusCancelled:
		return true
	default:
		return false
	}
}

// String returns the string representation of OrderStatus
func (s OrderStatus) String() string {
	return string(s)
}

// DeliveryAddress holds the delivery destination of an order.
// Orders for pickup carry no address.
type DeliveryAddress struct {
	// Street is the street name
	Street string
	// House is the house/building number
	House string
	// Flat is the apartment/unit number
	Flat string
	// Comment is free-text courier guidance
	Comment string
}

// OrderItem represents a single line of a local order
type OrderItem struct {
	// ProductID is the local product identifier
	ProductID uuid.UUID
	// ProductName is the display name at order time
	ProductName string
	// Quantity is the ordered quantity
	Quantity decimal.Decimal
	// UnitPrice is the price per unit at order time
	UnitPrice decimal.Decimal
	// Comment is the free-text modifier note (sugar level, ice level, toppings)
	Comment string
}

// Order is the local order aggregate as seen by the sync subsystem.
// It is a read model here: order placement and status workflow live
// in the storefront, which owns all writes except sync bookkeeping.
type Order struct {
	// ID is the order identifier
	ID uuid.UUID
	// Number is the human-readable order number
	Number string
	// StoreConfigID identifies the store/terminal binding the order targets
	StoreConfigID uuid.UUID
	// Status is the local order status
	Status OrderStatus
	// CustomerName is the customer's display name (may be empty)
	CustomerName string
	// CustomerPhone is the customer's phone number (may be empty)
	CustomerPhone string
	// Comment is the order-level customer note
	Comment string
	// Items contains the order lines
	Items []OrderItem
	// Total is the order total
	Total decimal.Decimal
	// DeliveryAddress is set only for delivery orders
	DeliveryAddress *DeliveryAddress
	// ScheduledAt is set only when the customer picked a time slot
	ScheduledAt *time.Time
	// CreatedAt is when the order was placed
	CreatedAt time.Time
}

// IsDelivery returns true when the order carries a delivery address
func (o *Order) IsDelivery() bool {
	return o.DeliveryAddress != nil
}

// IsScheduled returns true when the customer picked a time slot
func (o *Order) IsScheduled() bool {
	return o.ScheduledAt != nil
}

// OrderRepository is the read port to the order store
type OrderRepository interface {
	// FindByID returns the order with the given ID, or ErrOrderNotFound
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)
}
