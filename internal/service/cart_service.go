package service

import (
	"context"
	"errors"
	"fmt"

	"stitchmart/internal/domain"
	"stitchmart/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrInsufficientStock = errors.New("requested quantity exceeds available stock")
	ErrInvalidQuantity   = errors.New("quantity must be positive")
)

// CartService defines the interface for cart business logic
type CartService interface {
	GetCart(ctx context.Context, userID uuid.UUID) (*domain.Cart, error)
	AddItem(ctx context.Context, userID, variantID uuid.UUID, quantity int) (*domain.Cart, error)
	RemoveItem(ctx context.Context, userID, variantID uuid.UUID) (*domain.Cart, error)
	ClearCart(ctx context.Context, userID uuid.UUID) error
}

type cartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
}

// NewCartService creates a new instance of CartService
func NewCartService(cartRepo repository.CartRepository, productRepo repository.ProductRepository) CartService {
	return &cartService{cartRepo: cartRepo, productRepo: productRepo}
}

// GetCart returns the user's cart; a user without a cart gets an empty one
// without creating a row
func (s *cartService) GetCart(ctx context.Context, userID uuid.UUID) (*domain.Cart, error) {
	cart, err := s.cartRepo.FindByUserID(ctx, userID)
	if err != nil {
		if err == repository.ErrCartNotFound {
			return &domain.Cart{
				UserID:     userID,
				TotalPrice: decimal.Zero,
				Items:      []domain.CartItem{},
			}, nil
		}
		return nil, err
	}
	return cart, nil
}

// AddItem adds quantity of a variant to the user's cart, creating the cart
// lazily. The stock check covers the cumulative cart quantity, not just the
// new addition.
func (s *cartService) AddItem(ctx context.Context, userID, variantID uuid.UUID, quantity int) (*domain.Cart, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	variant, err := s.productRepo.FindVariantByID(ctx, variantID)
	if err != nil {
		return nil, err
	}

	cart, err := s.cartRepo.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	existing, err := s.cartRepo.ItemQuantity(ctx, cart.ID, variantID)
	if err != nil {
		return nil, err
	}
	if existing+quantity > variant.Quantity {
		return nil, fmt.Errorf("%w: %d available", ErrInsufficientStock, variant.Quantity)
	}

	if err := s.cartRepo.UpsertItem(ctx, cart.ID, variantID, quantity, variant.Price); err != nil {
		return nil, err
	}

	return s.cartRepo.FindByUserID(ctx, userID)
}

// ClearCart deletes the cart row and its items outright
func (s *cartService) ClearCart(ctx context.Context, userID uuid.UUID) error {
	cart, err := s.cartRepo.FindByUserID(ctx, userID)
	if err != nil {
		return err
	}
	return s.cartRepo.Delete(ctx, cart.ID)
}

// RemoveItem drops a variant line from the cart entirely
func (s *cartService) RemoveItem(ctx context.Context, userID, variantID uuid.UUID) (*domain.Cart, error) {
	cart, err := s.cartRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := s.cartRepo.RemoveItem(ctx, cart.ID, variantID); err != nil {
		return nil, err
	}

	return s.cartRepo.FindByUserID(ctx, userID)
}
