package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus is the fulfillment state of an order
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// Payment methods
const (
	PaymentMethodCOD = "COD"
)

// orderTransitions holds the allowed status moves. Delivered and cancelled
// are terminal; delivered is the only state that unlocks review eligibility
// and revenue aggregation.
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:    {OrderStatusProcessing, OrderStatusShipped, OrderStatusCancelled},
	OrderStatusProcessing: {OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled},
	OrderStatusShipped:    {OrderStatusDelivered},
}

// Valid reports whether s is a known status
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo reports whether the status machine allows moving to next
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Order is an immutable record of a completed checkout. Only Status is
// mutated after creation.
type Order struct {
	ID            uuid.UUID       `json:"id" db:"id"`
	UserID        uuid.UUID       `json:"user_id" db:"user_id"`
	Address       string          `json:"address" db:"address"`
	Phone         string          `json:"phone" db:"phone"`
	PaymentMethod string          `json:"payment_method" db:"payment_method"`
	TotalPrice    decimal.Decimal `json:"total_price" db:"total_price"`
	TotalQuantity int             `json:"total_quantity" db:"total_quantity"`
	Status        OrderStatus     `json:"status" db:"status"`
	OrderDate     time.Time       `json:"order_date" db:"order_date"`
	UpdatedAt     time.Time       `json:"updated_at" db:"updated_at"`
	Items         []OrderItem     `json:"items" db:"-"`
}

// OrderItem snapshots a cart line at order-creation time. Price is the unit
// price resolved at checkout, deliberately decoupled from later variant
// price changes.
type OrderItem struct {
	ID               uuid.UUID       `json:"id" db:"id"`
	OrderID          uuid.UUID       `json:"order_id" db:"order_id"`
	ProductVariantID uuid.UUID       `json:"product_variant_id" db:"product_variant_id"`
	Quantity         int             `json:"quantity" db:"quantity"`
	Price            decimal.Decimal `json:"price" db:"price"`
}

// OrderPlacedMessage is published after an order commits
type OrderPlacedMessage struct {
	OrderID uuid.UUID `json:"order_id"`
	UserID  uuid.UUID `json:"user_id"`
}
