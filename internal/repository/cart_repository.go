package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"stitchmart/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrCartNotFound     = errors.New("cart not found")
	ErrCartItemNotFound = errors.New("cart item not found")
)

// CartRepository defines the interface for cart data access
type CartRepository interface {
	FindByUserID(ctx context.Context, userID uuid.UUID) (*domain.Cart, error)
	GetOrCreate(ctx context.Context, userID uuid.UUID) (*domain.Cart, error)
	UpsertItem(ctx context.Context, cartID, variantID uuid.UUID, quantity int, unitPrice decimal.Decimal) error
	RemoveItem(ctx context.Context, cartID, variantID uuid.UUID) error
	ItemQuantity(ctx context.Context, cartID, variantID uuid.UUID) (int, error)
	Delete(ctx context.Context, cartID uuid.UUID) error
}

type cartRepository struct {
	db *sql.DB
}

// NewCartRepository creates a new instance of CartRepository
func NewCartRepository(db *sql.DB) CartRepository {
	return &cartRepository{db: db}
}

// FindByUserID loads the user's cart together with its items. Returns
// ErrCartNotFound when the user has no cart yet; callers treat that as an
// empty cart.
func (r *cartRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*domain.Cart, error) {
	query := `
		SELECT id, user_id, total_price, total_quantity, created_at, updated_at
		FROM carts
		WHERE user_id = $1
	`

	cart := &domain.Cart{}
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&cart.ID,
		&cart.UserID,
		&cart.TotalPrice,
		&cart.TotalQuantity,
		&cart.CreatedAt,
		&cart.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrCartNotFound
		}
		return nil, fmt.Errorf("failed to find cart: %w", err)
	}

	items, err := r.listItems(ctx, cart.ID)
	if err != nil {
		return nil, err
	}
	cart.Items = items

	return cart, nil
}

func (r *cartRepository) listItems(ctx context.Context, cartID uuid.UUID) ([]domain.CartItem, error) {
	query := `
		SELECT id, cart_id, product_variant_id, quantity, price, created_at, updated_at
		FROM cart_items
		WHERE cart_id = $1
		ORDER BY created_at ASC
	`

	rows, err := r.db.QueryContext(ctx, query, cartID)
	if err != nil {
		return nil, fmt.Errorf("failed to list cart items: %w", err)
	}
	defer rows.Close()

	items := []domain.CartItem{}
	for rows.Next() {
		item := domain.CartItem{}
		if err := rows.Scan(
			&item.ID,
			&item.CartID,
			&item.ProductVariantID,
			&item.Quantity,
			&item.Price,
			&item.CreatedAt,
			&item.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan cart item: %w", err)
		}
		items = append(items, item)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cart items: %w", err)
	}

	return items, nil
}

// GetOrCreate returns the user's cart, creating an empty one on first use.
// The carts table has a unique constraint on user_id, so concurrent first
// adds converge on a single row.
func (r *cartRepository) GetOrCreate(ctx context.Context, userID uuid.UUID) (*domain.Cart, error) {
	query := `
		INSERT INTO carts (id, user_id, total_price, total_quantity, created_at, updated_at)
		VALUES ($1, $2, 0, 0, $3, $3)
		ON CONFLICT (user_id) DO UPDATE SET updated_at = carts.updated_at
		RETURNING id, user_id, total_price, total_quantity, created_at, updated_at
	`

	cart := &domain.Cart{}
	err := r.db.QueryRowContext(ctx, query, uuid.New(), userID, time.Now().UTC()).Scan(
		&cart.ID,
		&cart.UserID,
		&cart.TotalPrice,
		&cart.TotalQuantity,
		&cart.CreatedAt,
		&cart.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get or create cart: %w", err)
	}

	return cart, nil
}

// UpsertItem adds quantity of a variant to the cart. An existing line for the
// same variant accumulates quantity and line price; cart totals are updated
// in the same transaction.
func (r *cartRepository) UpsertItem(ctx context.Context, cartID, variantID uuid.UUID, quantity int, unitPrice decimal.Decimal) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	linePrice := unitPrice.Mul(decimal.NewFromInt(int64(quantity)))

	itemQuery := `
		INSERT INTO cart_items (id, cart_id, product_variant_id, quantity, price, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $6)
		ON CONFLICT (cart_id, product_variant_id) DO UPDATE
		SET quantity = cart_items.quantity + EXCLUDED.quantity,
		    price = cart_items.price + EXCLUDED.price,
		    updated_at = EXCLUDED.updated_at
	`

	_, err = tx.ExecContext(ctx, itemQuery, uuid.New(), cartID, variantID, quantity, linePrice, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to upsert cart item: %w", err)
	}

	totalsQuery := `
		UPDATE carts
		SET total_price = total_price + $2,
		    total_quantity = total_quantity + $3,
		    updated_at = now()
		WHERE id = $1
	`

	result, err := tx.ExecContext(ctx, totalsQuery, cartID, linePrice, quantity)
	if err != nil {
		return fmt.Errorf("failed to update cart totals: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrCartNotFound
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// RemoveItem deletes one line and subtracts its quantity and line price from
// the cart totals in a single transaction.
func (r *cartRepository) RemoveItem(ctx context.Context, cartID, variantID uuid.UUID) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var (
		quantity  int
		linePrice decimal.Decimal
	)
	err = tx.QueryRowContext(ctx,
		`DELETE FROM cart_items WHERE cart_id = $1 AND product_variant_id = $2 RETURNING quantity, price`,
		cartID, variantID,
	).Scan(&quantity, &linePrice)
	if err != nil {
		if err == sql.ErrNoRows {
			return ErrCartItemNotFound
		}
		return fmt.Errorf("failed to remove cart item: %w", err)
	}

	totalsQuery := `
		UPDATE carts
		SET total_price = total_price - $2,
		    total_quantity = total_quantity - $3,
		    updated_at = now()
		WHERE id = $1
	`

	if _, err := tx.ExecContext(ctx, totalsQuery, cartID, linePrice, quantity); err != nil {
		return fmt.Errorf("failed to update cart totals: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// ItemQuantity returns the quantity already in the cart for a variant, or 0
// when no line exists
func (r *cartRepository) ItemQuantity(ctx context.Context, cartID, variantID uuid.UUID) (int, error) {
	var quantity int
	err := r.db.QueryRowContext(ctx,
		`SELECT quantity FROM cart_items WHERE cart_id = $1 AND product_variant_id = $2`,
		cartID, variantID,
	).Scan(&quantity)
	if err != nil {
		if err == sql.ErrNoRows {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to read cart item quantity: %w", err)
	}
	return quantity, nil
}

// Delete removes the cart; items cascade at the database level
func (r *cartRepository) Delete(ctx context.Context, cartID uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM carts WHERE id = $1`, cartID)
	if err != nil {
		return fmt.Errorf("failed to delete cart: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrCartNotFound
	}

	return nil
}
