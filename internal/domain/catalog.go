package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Category is a top-level catalog grouping
type Category struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Slug      string    `json:"slug" db:"slug"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Tag is a sub-grouping within a category; products reference a tag
type Tag struct {
	ID         uuid.UUID `json:"id" db:"id"`
	CategoryID uuid.UUID `json:"category_id" db:"category_id"`
	Name       string    `json:"name" db:"name"`
	Slug       string    `json:"slug" db:"slug"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// Size is a sizing attribute shared across variants
type Size struct {
	ID   uuid.UUID `json:"id" db:"id"`
	Name string    `json:"name" db:"name"`
}

// Color is a color attribute shared across variants
type Color struct {
	ID   uuid.UUID `json:"id" db:"id"`
	Name string    `json:"name" db:"name"`
}

// Product represents a catalog product. Sold is mutated only by order
// placement; variants and images cascade-delete with the product.
type Product struct {
	ID         uuid.UUID       `json:"id" db:"id"`
	TagID      uuid.UUID       `json:"tag_id" db:"tag_id"`
	Name       string          `json:"name" db:"name"`
	Slug       string          `json:"slug" db:"slug"`
	Brand      string          `json:"brand" db:"brand"`
	Price      decimal.Decimal `json:"price" db:"price"`
	Discount   float64         `json:"discount" db:"discount"`
	FinalPrice decimal.Decimal `json:"final_price" db:"final_price"`
	Sold       int             `json:"sold" db:"sold"`
	Rating     float64         `json:"rating" db:"rating"`
	CreatedAt  time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at" db:"updated_at"`
}

// ProductVariant is the unit actually sold and stocked: one size/color SKU
// of a product. Quantity never goes below zero.
type ProductVariant struct {
	ID        uuid.UUID       `json:"id" db:"id"`
	ProductID uuid.UUID       `json:"product_id" db:"product_id"`
	SizeID    uuid.UUID       `json:"size_id" db:"size_id"`
	ColorID   uuid.UUID       `json:"color_id" db:"color_id"`
	Price     decimal.Decimal `json:"price" db:"price"`
	Quantity  int             `json:"quantity" db:"quantity"`
	InStock   bool            `json:"in_stock" db:"in_stock"`
	CreatedAt time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt time.Time       `json:"updated_at" db:"updated_at"`
}

// ProductImage is a hosted asset for a product in a given color
type ProductImage struct {
	ID        uuid.UUID `json:"id" db:"id"`
	ProductID uuid.UUID `json:"product_id" db:"product_id"`
	ColorID   uuid.UUID `json:"color_id" db:"color_id"`
	URL       string    `json:"url" db:"url"`
	PublicID  string    `json:"public_id" db:"public_id"`
}
