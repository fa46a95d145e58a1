package service

import (
	"context"
	"errors"
	"testing"

	"stitchmart/internal/repository"

	"github.com/google/uuid"
)

type reviewTestEnv struct {
	svc         ReviewService
	productRepo *mockProductRepository
	orderRepo   *mockOrderRepository
	reviewRepo  *mockReviewRepository
}

func newReviewTestEnv() *reviewTestEnv {
	productRepo := newMockProductRepository()
	orderRepo := newMockOrderRepository(productRepo, nil)
	reviewRepo := newMockReviewRepository()
	return &reviewTestEnv{
		svc:         NewReviewService(reviewRepo, orderRepo, productRepo),
		productRepo: productRepo,
		orderRepo:   orderRepo,
		reviewRepo:  reviewRepo,
	}
}

func (e *reviewTestEnv) markDelivered(userID, productID uuid.UUID) {
	e.orderRepo.delivered[userID.String()+"|"+productID.String()] = true
}

func TestCreateReview_RequiresDeliveredOrder(t *testing.T) {
	env := newReviewTestEnv()
	ctx := context.Background()
	userID := uuid.New()
	variant := seedVariant(env.productRepo, 30, 10)

	_, err := env.svc.CreateReview(ctx, userID, variant.ProductID, 4, "nice fit")
	if !errors.Is(err, ErrNotEligibleToReview) {
		t.Fatalf("expected ErrNotEligibleToReview without a delivered order, got %v", err)
	}

	env.markDelivered(userID, variant.ProductID)

	review, err := env.svc.CreateReview(ctx, userID, variant.ProductID, 4, "nice fit")
	if err != nil {
		t.Fatalf("expected review after delivery, got %v", err)
	}
	if review.Rating != 4 || review.Comment != "nice fit" {
		t.Errorf("unexpected review contents: %+v", review)
	}
	if review.UserID != userID || review.ProductID != variant.ProductID {
		t.Errorf("review not linked to user and product: %+v", review)
	}
}

func TestCreateReview_RejectsOutOfRangeRatings(t *testing.T) {
	env := newReviewTestEnv()
	ctx := context.Background()

	for _, rating := range []int{0, -1, 6, 100} {
		if _, err := env.svc.CreateReview(ctx, uuid.New(), uuid.New(), rating, ""); !errors.Is(err, ErrInvalidRating) {
			t.Errorf("rating %d: expected ErrInvalidRating, got %v", rating, err)
		}
	}
}

func TestCreateReview_UnknownProduct(t *testing.T) {
	env := newReviewTestEnv()

	_, err := env.svc.CreateReview(context.Background(), uuid.New(), uuid.New(), 3, "")
	if !errors.Is(err, repository.ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
}

func TestCreateReview_OnePerUserPerProduct(t *testing.T) {
	env := newReviewTestEnv()
	ctx := context.Background()
	userID := uuid.New()
	variant := seedVariant(env.productRepo, 30, 10)
	env.markDelivered(userID, variant.ProductID)

	if _, err := env.svc.CreateReview(ctx, userID, variant.ProductID, 5, "great"); err != nil {
		t.Fatalf("first review: %v", err)
	}
	if _, err := env.svc.CreateReview(ctx, userID, variant.ProductID, 2, "changed my mind"); !errors.Is(err, repository.ErrReviewAlreadyExists) {
		t.Fatalf("expected ErrReviewAlreadyExists, got %v", err)
	}

	// A different buyer can still review the same product
	other := uuid.New()
	env.markDelivered(other, variant.ProductID)
	if _, err := env.svc.CreateReview(ctx, other, variant.ProductID, 3, ""); err != nil {
		t.Fatalf("second user's review: %v", err)
	}
}

func TestListReviews_ScopedToProduct(t *testing.T) {
	env := newReviewTestEnv()
	ctx := context.Background()

	first := seedVariant(env.productRepo, 30, 10)
	second := seedVariant(env.productRepo, 40, 10)

	for i := 0; i < 3; i++ {
		userID := uuid.New()
		env.markDelivered(userID, first.ProductID)
		if _, err := env.svc.CreateReview(ctx, userID, first.ProductID, 5, "good"); err != nil {
			t.Fatalf("review %d: %v", i, err)
		}
	}
	otherBuyer := uuid.New()
	env.markDelivered(otherBuyer, second.ProductID)
	if _, err := env.svc.CreateReview(ctx, otherBuyer, second.ProductID, 1, "bad"); err != nil {
		t.Fatalf("other product review: %v", err)
	}

	reviews, total, err := env.svc.ListReviews(ctx, first.ProductID, 1, 20)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 3 || len(reviews) != 3 {
		t.Fatalf("expected 3 reviews for first product, got total=%d len=%d", total, len(reviews))
	}
	for _, review := range reviews {
		if review.ProductID != first.ProductID {
			t.Errorf("review %s belongs to product %s", review.ID, review.ProductID)
		}
	}
}
