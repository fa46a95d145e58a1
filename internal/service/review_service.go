package service

import (
	"context"
	"errors"
	"time"

	"stitchmart/internal/domain"
	"stitchmart/internal/repository"

	"github.com/google/uuid"
)

var (
	ErrNotEligibleToReview = errors.New("user has no delivered order containing this product")
	ErrInvalidRating       = errors.New("rating must be between 1 and 5")
)

// ReviewService defines the interface for review business logic
type ReviewService interface {
	CreateReview(ctx context.Context, userID, productID uuid.UUID, rating int, comment string) (*domain.Review, error)
	ListReviews(ctx context.Context, productID uuid.UUID, page, pageSize int) ([]*domain.Review, int, error)
}

type reviewService struct {
	reviewRepo  repository.ReviewRepository
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
}

// NewReviewService creates a new instance of ReviewService
func NewReviewService(
	reviewRepo repository.ReviewRepository,
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
) ReviewService {
	return &reviewService{
		reviewRepo:  reviewRepo,
		orderRepo:   orderRepo,
		productRepo: productRepo,
	}
}

// CreateReview records a rating for a product the user has actually received.
// Eligibility requires a delivered order containing any variant of the
// product.
func (s *reviewService) CreateReview(ctx context.Context, userID, productID uuid.UUID, rating int, comment string) (*domain.Review, error) {
	if rating < 1 || rating > 5 {
		return nil, ErrInvalidRating
	}

	if _, err := s.productRepo.FindByID(ctx, productID); err != nil {
		return nil, err
	}

	eligible, err := s.orderRepo.HasDeliveredProduct(ctx, userID, productID)
	if err != nil {
		return nil, err
	}
	if !eligible {
		return nil, ErrNotEligibleToReview
	}

	now := time.Now().UTC()
	review := &domain.Review{
		ID:        uuid.New(),
		UserID:    userID,
		ProductID: productID,
		Rating:    rating,
		Comment:   comment,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.reviewRepo.Create(ctx, review); err != nil {
		return nil, err
	}

	return review, nil
}

func (s *reviewService) ListReviews(ctx context.Context, productID uuid.UUID, page, pageSize int) ([]*domain.Review, int, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	if _, err := s.productRepo.FindByID(ctx, productID); err != nil {
		return nil, 0, err
	}

	return s.reviewRepo.ListByProduct(ctx, productID, page, pageSize)
}
