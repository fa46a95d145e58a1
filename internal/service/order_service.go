package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"stitchmart/internal/domain"
	"stitchmart/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var (
	ErrCartEmpty          = errors.New("cart is empty")
	ErrMissingAddress     = errors.New("no shipping address available")
	ErrMissingPhone       = errors.New("no contact phone available")
	ErrNotOrderOwner      = errors.New("order belongs to another user")
	ErrInvalidStatus      = errors.New("invalid order status")
	ErrInvalidTransition  = errors.New("status transition not allowed")
	ErrPriceResolution    = errors.New("could not resolve a live price for a cart item")
	ErrUnsupportedPayment = errors.New("unsupported payment method")
)

// CheckoutInput carries the optional checkout overrides; empty fields fall
// back to the user's profile
type CheckoutInput struct {
	Address       string
	Phone         string
	PaymentMethod string
}

// OrderPublisher announces committed orders for asynchronous processing
type OrderPublisher interface {
	PublishOrderPlaced(ctx context.Context, msg domain.OrderPlacedMessage) error
}

// OrderService defines the interface for order business logic
type OrderService interface {
	Checkout(ctx context.Context, userID uuid.UUID, input CheckoutInput) (*domain.Order, error)
	GetOrder(ctx context.Context, userID uuid.UUID, isAdmin bool, orderID uuid.UUID) (*domain.Order, error)
	ListOrders(ctx context.Context, userID uuid.UUID, page, pageSize int) ([]*domain.Order, int, error)
	ListAllOrders(ctx context.Context, status *domain.OrderStatus, page, pageSize int) ([]*domain.Order, int, error)
	UpdateStatus(ctx context.Context, orderID uuid.UUID, next domain.OrderStatus) (*domain.Order, error)
	Revenue(ctx context.Context) (decimal.Decimal, int, error)
}

type orderService struct {
	orderRepo   repository.OrderRepository
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	userRepo    repository.UserRepository
	publisher   OrderPublisher
	logger      *zap.Logger
}

// NewOrderService creates a new instance of OrderService
func NewOrderService(
	orderRepo repository.OrderRepository,
	cartRepo repository.CartRepository,
	productRepo repository.ProductRepository,
	userRepo repository.UserRepository,
	publisher OrderPublisher,
	logger *zap.Logger,
) OrderService {
	return &orderService{
		orderRepo:   orderRepo,
		cartRepo:    cartRepo,
		productRepo: productRepo,
		userRepo:    userRepo,
		publisher:   publisher,
		logger:      logger,
	}
}

// Checkout converts the user's cart into a pending order. Line prices are
// re-read from the live variants, never trusted from the cart; the order
// insert, stock decrement, sold counters, and cart deletion commit in one
// transaction.
func (s *orderService) Checkout(ctx context.Context, userID uuid.UUID, input CheckoutInput) (*domain.Order, error) {
	if input.PaymentMethod == "" {
		input.PaymentMethod = domain.PaymentMethodCOD
	}
	if input.PaymentMethod != domain.PaymentMethodCOD {
		return nil, ErrUnsupportedPayment
	}

	cart, err := s.cartRepo.FindByUserID(ctx, userID)
	if err != nil {
		if err == repository.ErrCartNotFound {
			return nil, ErrCartEmpty
		}
		return nil, err
	}
	if len(cart.Items) == 0 {
		return nil, ErrCartEmpty
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	address := input.Address
	if address == "" {
		address = user.Address
	}
	if address == "" {
		return nil, ErrMissingAddress
	}

	phone := input.Phone
	if phone == "" {
		phone = user.Phone
	}
	if phone == "" {
		return nil, ErrMissingPhone
	}

	orderID := uuid.New()
	items := make([]domain.OrderItem, 0, len(cart.Items))
	totalPrice := decimal.Zero
	totalQuantity := 0

	for _, cartItem := range cart.Items {
		variant, err := s.productRepo.FindVariantByID(ctx, cartItem.ProductVariantID)
		if err != nil {
			if err == repository.ErrVariantNotFound {
				return nil, fmt.Errorf("%w: variant %s", ErrPriceResolution, cartItem.ProductVariantID)
			}
			return nil, err
		}

		linePrice := variant.Price.Mul(decimal.NewFromInt(int64(cartItem.Quantity)))
		items = append(items, domain.OrderItem{
			ID:               uuid.New(),
			OrderID:          orderID,
			ProductVariantID: variant.ID,
			Quantity:         cartItem.Quantity,
			Price:            variant.Price,
		})
		totalPrice = totalPrice.Add(linePrice)
		totalQuantity += cartItem.Quantity
	}

	order := &domain.Order{
		ID:            orderID,
		UserID:        userID,
		Address:       address,
		Phone:         phone,
		PaymentMethod: input.PaymentMethod,
		TotalPrice:    totalPrice,
		TotalQuantity: totalQuantity,
		Status:        domain.OrderStatusPending,
		OrderDate:     time.Now().UTC(),
		Items:         items,
	}

	if err := s.orderRepo.PlaceOrder(ctx, order, cart.ID); err != nil {
		return nil, err
	}

	// The order is committed; a failed publish only delays the async
	// follow-up (confirmation email), it never unwinds the order.
	if s.publisher != nil {
		msg := domain.OrderPlacedMessage{OrderID: order.ID, UserID: userID}
		if err := s.publisher.PublishOrderPlaced(ctx, msg); err != nil {
			s.logger.Error("Failed to publish order placed message",
				zap.String("order_id", order.ID.String()),
				zap.Error(err),
			)
		}
	}

	return order, nil
}

// GetOrder loads an order; non-admin callers can only see their own
func (s *orderService) GetOrder(ctx context.Context, userID uuid.UUID, isAdmin bool, orderID uuid.UUID) (*domain.Order, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if !isAdmin && order.UserID != userID {
		return nil, ErrNotOrderOwner
	}

	return order, nil
}

func (s *orderService) ListOrders(ctx context.Context, userID uuid.UUID, page, pageSize int) ([]*domain.Order, int, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return s.orderRepo.ListByUser(ctx, userID, page, pageSize)
}

func (s *orderService) ListAllOrders(ctx context.Context, status *domain.OrderStatus, page, pageSize int) ([]*domain.Order, int, error) {
	if status != nil && !status.Valid() {
		return nil, 0, ErrInvalidStatus
	}
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return s.orderRepo.ListAll(ctx, status, page, pageSize)
}

// UpdateStatus moves an order through the fulfillment state machine
func (s *orderService) UpdateStatus(ctx context.Context, orderID uuid.UUID, next domain.OrderStatus) (*domain.Order, error) {
	if !next.Valid() {
		return nil, ErrInvalidStatus
	}

	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if !order.Status.CanTransitionTo(next) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, order.Status, next)
	}

	if err := s.orderRepo.UpdateStatus(ctx, orderID, next); err != nil {
		return nil, err
	}

	order.Status = next
	return order, nil
}

// Revenue reports total delivered revenue and delivered order count
func (s *orderService) Revenue(ctx context.Context) (decimal.Decimal, int, error) {
	return s.orderRepo.Revenue(ctx)
}
