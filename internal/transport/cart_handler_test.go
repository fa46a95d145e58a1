package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"stitchmart/internal/domain"
	"stitchmart/internal/middleware"
	"stitchmart/internal/repository"
	"stitchmart/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type stubCartService struct {
	addErr error
}

func (s *stubCartService) GetCart(ctx context.Context, userID uuid.UUID) (*domain.Cart, error) {
	return &domain.Cart{UserID: userID, TotalPrice: decimal.Zero, Items: []domain.CartItem{}}, nil
}

func (s *stubCartService) AddItem(ctx context.Context, userID, variantID uuid.UUID, quantity int) (*domain.Cart, error) {
	if s.addErr != nil {
		return nil, s.addErr
	}
	return &domain.Cart{UserID: userID, TotalPrice: decimal.Zero}, nil
}

func (s *stubCartService) RemoveItem(ctx context.Context, userID, variantID uuid.UUID) (*domain.Cart, error) {
	return &domain.Cart{UserID: userID, TotalPrice: decimal.Zero}, nil
}

func (s *stubCartService) ClearCart(ctx context.Context, userID uuid.UUID) error {
	return nil
}

type stubOrderService struct {
	checkoutErr error
}

func (s *stubOrderService) Checkout(ctx context.Context, userID uuid.UUID, input service.CheckoutInput) (*domain.Order, error) {
	if s.checkoutErr != nil {
		return nil, s.checkoutErr
	}
	return &domain.Order{ID: uuid.New(), UserID: userID, Status: domain.OrderStatusPending}, nil
}

func (s *stubOrderService) GetOrder(ctx context.Context, userID uuid.UUID, isAdmin bool, orderID uuid.UUID) (*domain.Order, error) {
	return nil, nil
}

func (s *stubOrderService) ListOrders(ctx context.Context, userID uuid.UUID, page, pageSize int) ([]*domain.Order, int, error) {
	return nil, 0, nil
}

func (s *stubOrderService) ListAllOrders(ctx context.Context, status *domain.OrderStatus, page, pageSize int) ([]*domain.Order, int, error) {
	return nil, 0, nil
}

func (s *stubOrderService) UpdateStatus(ctx context.Context, orderID uuid.UUID, next domain.OrderStatus) (*domain.Order, error) {
	return nil, nil
}

func (s *stubOrderService) Revenue(ctx context.Context) (decimal.Decimal, int, error) {
	return decimal.Zero, 0, nil
}

func authedRequest(method, path string, body []byte) *http.Request {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	principal := middleware.Principal{UserID: uuid.New(), Role: domain.RoleUser}
	return req.WithContext(middleware.WithPrincipal(req.Context(), principal))
}

func TestAddItem_InsufficientStockIsBadRequest(t *testing.T) {
	handler := NewCartHandler(&stubCartService{addErr: service.ErrInsufficientStock}, zap.NewNop())

	body, _ := json.Marshal(AddCartItemRequest{
		ProductVariantID: uuid.New().String(),
		Quantity:         3,
	})
	w := httptest.NewRecorder()

	handler.AddItem(w, authedRequest(http.MethodPost, "/api/cart/items", body))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for insufficient stock, got %d", w.Code)
	}

	var response middleware.ErrorResponse
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("decode error envelope: %v", err)
	}
	if response.Error.Message == "" {
		t.Error("expected an error message in the envelope")
	}
}

func TestCheckout_InsufficientStockIsBadRequest(t *testing.T) {
	handler := NewOrderHandler(&stubOrderService{checkoutErr: repository.ErrInsufficientStock}, zap.NewNop())

	w := httptest.NewRecorder()
	handler.Checkout(w, authedRequest(http.MethodPost, "/api/orders/checkout", nil))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for insufficient stock at checkout, got %d", w.Code)
	}
}
