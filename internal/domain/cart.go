package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Cart is a user's in-progress selection. At most one cart exists per user;
// TotalPrice and TotalQuantity are denormalized running totals over items.
type Cart struct {
	ID            uuid.UUID       `json:"id" db:"id"`
	UserID        uuid.UUID       `json:"user_id" db:"user_id"`
	TotalPrice    decimal.Decimal `json:"total_price" db:"total_price"`
	TotalQuantity int             `json:"total_quantity" db:"total_quantity"`
	CreatedAt     time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at" db:"updated_at"`
	Items         []CartItem      `json:"items" db:"-"`
}

// CartItem references one product variant. Price is the captured line price
// (unit price x quantity at the time of the add); checkout re-reads the live
// unit price and does not trust this value.
type CartItem struct {
	ID               uuid.UUID       `json:"id" db:"id"`
	CartID           uuid.UUID       `json:"cart_id" db:"cart_id"`
	ProductVariantID uuid.UUID       `json:"product_variant_id" db:"product_variant_id"`
	Quantity         int             `json:"quantity" db:"quantity"`
	Price            decimal.Decimal `json:"price" db:"price"`
	CreatedAt        time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at" db:"updated_at"`
}
