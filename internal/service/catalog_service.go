package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"stitchmart/internal/assets"
	"stitchmart/internal/domain"
	"stitchmart/internal/repository"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	productCacheTTL = 60 * time.Second

	// Appending -N to a contended slug gives up after this many tries
	maxSlugAttempts = 50
)

var (
	ErrInvalidDiscount = errors.New("discount must be between 0 and 100")
	ErrSlugExhausted   = errors.New("could not generate a unique slug")
)

// ProductDetail is a product with its variants and images
type ProductDetail struct {
	Product  *domain.Product          `json:"product"`
	Variants []*domain.ProductVariant `json:"variants"`
	Images   []*domain.ProductImage   `json:"images"`
}

// CreateProductInput carries the fields for creating a product
type CreateProductInput struct {
	TagID    uuid.UUID
	Name     string
	Brand    string
	Price    decimal.Decimal
	Discount float64
}

// UpdateProductInput carries the fields for updating a product. Name changes
// regenerate the slug.
type UpdateProductInput struct {
	TagID    uuid.UUID
	Name     string
	Brand    string
	Price    decimal.Decimal
	Discount float64
}

// CreateVariantInput carries the fields for creating a product variant
type CreateVariantInput struct {
	SizeID   uuid.UUID
	ColorID  uuid.UUID
	Price    decimal.Decimal
	Quantity int
}

// UpdateVariantInput carries the fields for updating a product variant
type UpdateVariantInput struct {
	Price    decimal.Decimal
	Quantity int
}

// ProductListParams controls product listing
type ProductListParams struct {
	TagID     *uuid.UUID
	Page      int
	PageSize  int
	SortBy    string
	SortOrder repository.SortOrder
}

// CatalogService defines the interface for catalog business logic
type CatalogService interface {
	CreateCategory(ctx context.Context, name string) (*domain.Category, error)
	ListCategories(ctx context.Context) ([]*domain.Category, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error

	CreateTag(ctx context.Context, categoryID uuid.UUID, name string) (*domain.Tag, error)
	ListTags(ctx context.Context, categoryID *uuid.UUID) ([]*domain.Tag, error)
	DeleteTag(ctx context.Context, id uuid.UUID) error

	CreateSize(ctx context.Context, name string) (*domain.Size, error)
	ListSizes(ctx context.Context) ([]*domain.Size, error)
	CreateColor(ctx context.Context, name string) (*domain.Color, error)
	ListColors(ctx context.Context) ([]*domain.Color, error)

	CreateProduct(ctx context.Context, input CreateProductInput) (*domain.Product, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, input UpdateProductInput) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error
	GetProduct(ctx context.Context, id uuid.UUID) (*ProductDetail, error)
	GetProductBySlug(ctx context.Context, productSlug string) (*ProductDetail, error)
	ListProducts(ctx context.Context, params ProductListParams) ([]*domain.Product, int, error)
	SearchProducts(ctx context.Context, query string, page, pageSize int) ([]*domain.Product, int, error)

	CreateVariant(ctx context.Context, productID uuid.UUID, input CreateVariantInput) (*domain.ProductVariant, error)
	UpdateVariant(ctx context.Context, variantID uuid.UUID, input UpdateVariantInput) (*domain.ProductVariant, error)
	DeleteVariant(ctx context.Context, variantID uuid.UUID) error

	UploadImage(ctx context.Context, productID, colorID uuid.UUID, content io.Reader) (*domain.ProductImage, error)
	DeleteImage(ctx context.Context, imageID uuid.UUID) error
}

type catalogService struct {
	productRepo   repository.ProductRepository
	categoryRepo  repository.CategoryRepository
	attributeRepo repository.AttributeRepository
	assetStore    assets.Store
	cache         *redis.Client
	logger        *zap.Logger
}

// NewCatalogService creates a new instance of CatalogService
func NewCatalogService(
	productRepo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
	attributeRepo repository.AttributeRepository,
	assetStore assets.Store,
	cache *redis.Client,
	logger *zap.Logger,
) CatalogService {
	return &catalogService{
		productRepo:   productRepo,
		categoryRepo:  categoryRepo,
		attributeRepo: attributeRepo,
		assetStore:    assetStore,
		cache:         cache,
		logger:        logger,
	}
}

// uniqueSlug slugifies name and appends -2, -3, ... until exists reports the
// candidate free
func uniqueSlug(ctx context.Context, name string, exists func(context.Context, string) (bool, error)) (string, error) {
	base := slug.Make(name)
	candidate := base

	for i := 2; i <= maxSlugAttempts; i++ {
		taken, err := exists(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("failed to check slug availability: %w", err)
		}
		if !taken {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}

	return "", ErrSlugExhausted
}

func (s *catalogService) CreateCategory(ctx context.Context, name string) (*domain.Category, error) {
	categorySlug, err := uniqueSlug(ctx, name, s.categoryRepo.CategorySlugExists)
	if err != nil {
		return nil, err
	}

	category := &domain.Category{
		ID:        uuid.New(),
		Name:      name,
		Slug:      categorySlug,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.categoryRepo.CreateCategory(ctx, category); err != nil {
		return nil, err
	}

	return category, nil
}

func (s *catalogService) ListCategories(ctx context.Context) ([]*domain.Category, error) {
	return s.categoryRepo.ListCategories(ctx)
}

func (s *catalogService) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	return s.categoryRepo.DeleteCategory(ctx, id)
}

func (s *catalogService) CreateTag(ctx context.Context, categoryID uuid.UUID, name string) (*domain.Tag, error) {
	if _, err := s.categoryRepo.FindCategoryByID(ctx, categoryID); err != nil {
		return nil, err
	}

	tagSlug, err := uniqueSlug(ctx, name, s.categoryRepo.TagSlugExists)
	if err != nil {
		return nil, err
	}

	tag := &domain.Tag{
		ID:         uuid.New(),
		CategoryID: categoryID,
		Name:       name,
		Slug:       tagSlug,
		CreatedAt:  time.Now().UTC(),
	}

	if err := s.categoryRepo.CreateTag(ctx, tag); err != nil {
		return nil, err
	}

	return tag, nil
}

func (s *catalogService) ListTags(ctx context.Context, categoryID *uuid.UUID) ([]*domain.Tag, error) {
	return s.categoryRepo.ListTags(ctx, categoryID)
}

func (s *catalogService) DeleteTag(ctx context.Context, id uuid.UUID) error {
	return s.categoryRepo.DeleteTag(ctx, id)
}

func (s *catalogService) CreateSize(ctx context.Context, name string) (*domain.Size, error) {
	size := &domain.Size{ID: uuid.New(), Name: name}
	if err := s.attributeRepo.CreateSize(ctx, size); err != nil {
		return nil, err
	}
	return size, nil
}

func (s *catalogService) ListSizes(ctx context.Context) ([]*domain.Size, error) {
	return s.attributeRepo.ListSizes(ctx)
}

func (s *catalogService) CreateColor(ctx context.Context, name string) (*domain.Color, error) {
	color := &domain.Color{ID: uuid.New(), Name: name}
	if err := s.attributeRepo.CreateColor(ctx, color); err != nil {
		return nil, err
	}
	return color, nil
}

func (s *catalogService) ListColors(ctx context.Context) ([]*domain.Color, error) {
	return s.attributeRepo.ListColors(ctx)
}

// finalPrice applies a percentage discount to price
func finalPrice(price decimal.Decimal, discount float64) decimal.Decimal {
	if discount == 0 {
		return price
	}
	factor := decimal.NewFromFloat(1 - discount/100)
	return price.Mul(factor).Round(2)
}

func (s *catalogService) CreateProduct(ctx context.Context, input CreateProductInput) (*domain.Product, error) {
	if input.Discount < 0 || input.Discount > 100 {
		return nil, ErrInvalidDiscount
	}

	if _, err := s.categoryRepo.FindTagByID(ctx, input.TagID); err != nil {
		return nil, err
	}

	productSlug, err := uniqueSlug(ctx, input.Name, s.productRepo.SlugExists)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	product := &domain.Product{
		ID:         uuid.New(),
		TagID:      input.TagID,
		Name:       input.Name,
		Slug:       productSlug,
		Brand:      input.Brand,
		Price:      input.Price,
		Discount:   input.Discount,
		FinalPrice: finalPrice(input.Price, input.Discount),
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}

	return product, nil
}

func (s *catalogService) UpdateProduct(ctx context.Context, id uuid.UUID, input UpdateProductInput) (*domain.Product, error) {
	if input.Discount < 0 || input.Discount > 100 {
		return nil, ErrInvalidDiscount
	}

	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if _, err := s.categoryRepo.FindTagByID(ctx, input.TagID); err != nil {
		return nil, err
	}

	if input.Name != product.Name {
		newSlug, err := uniqueSlug(ctx, input.Name, s.productRepo.SlugExists)
		if err != nil {
			return nil, err
		}
		product.Slug = newSlug
	}

	product.TagID = input.TagID
	product.Name = input.Name
	product.Brand = input.Brand
	product.Price = input.Price
	product.Discount = input.Discount
	product.FinalPrice = finalPrice(input.Price, input.Discount)

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}

	s.invalidateProduct(ctx, id)

	return product, nil
}

// DeleteProduct removes the product row and then its hosted images; asset
// cleanup failures are logged, not surfaced, since the catalog row is gone
func (s *catalogService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	images, err := s.productRepo.ListImages(ctx, id)
	if err != nil {
		return err
	}

	if _, err := s.productRepo.Delete(ctx, id); err != nil {
		return err
	}

	for _, image := range images {
		if err := s.assetStore.Destroy(ctx, image.PublicID); err != nil {
			s.logger.Warn("Failed to destroy product asset",
				zap.String("public_id", image.PublicID),
				zap.Error(err),
			)
		}
	}

	s.invalidateProduct(ctx, id)

	return nil
}

func productCacheKey(id uuid.UUID) string {
	return "product:" + id.String()
}

func (s *catalogService) invalidateProduct(ctx context.Context, id uuid.UUID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, productCacheKey(id)).Err(); err != nil {
		s.logger.Warn("Failed to invalidate product cache",
			zap.String("product_id", id.String()),
			zap.Error(err),
		)
	}
}

// GetProduct returns the product with variants and images, served from the
// cache when fresh
func (s *catalogService) GetProduct(ctx context.Context, id uuid.UUID) (*ProductDetail, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, productCacheKey(id)).Result()
		if err == nil {
			detail := &ProductDetail{}
			if err := json.Unmarshal([]byte(cached), detail); err == nil {
				return detail, nil
			}
		} else if err != redis.Nil {
			s.logger.Warn("Product cache read failed", zap.Error(err))
		}
	}

	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return s.assembleDetail(ctx, product)
}

func (s *catalogService) GetProductBySlug(ctx context.Context, productSlug string) (*ProductDetail, error) {
	product, err := s.productRepo.FindBySlug(ctx, productSlug)
	if err != nil {
		return nil, err
	}

	return s.assembleDetail(ctx, product)
}

func (s *catalogService) assembleDetail(ctx context.Context, product *domain.Product) (*ProductDetail, error) {
	variants, err := s.productRepo.ListVariants(ctx, product.ID)
	if err != nil {
		return nil, err
	}

	images, err := s.productRepo.ListImages(ctx, product.ID)
	if err != nil {
		return nil, err
	}

	detail := &ProductDetail{Product: product, Variants: variants, Images: images}

	if s.cache != nil {
		if payload, err := json.Marshal(detail); err == nil {
			if err := s.cache.Set(ctx, productCacheKey(product.ID), payload, productCacheTTL).Err(); err != nil {
				s.logger.Warn("Product cache write failed", zap.Error(err))
			}
		}
	}

	return detail, nil
}

func (s *catalogService) ListProducts(ctx context.Context, params ProductListParams) ([]*domain.Product, int, error) {
	if params.Page < 1 {
		params.Page = 1
	}
	if params.PageSize < 1 || params.PageSize > 100 {
		params.PageSize = 20
	}
	return s.productRepo.List(ctx, params.TagID, params.Page, params.PageSize, params.SortBy, params.SortOrder)
}

func (s *catalogService) SearchProducts(ctx context.Context, query string, page, pageSize int) ([]*domain.Product, int, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return s.productRepo.Search(ctx, query, page, pageSize)
}

func (s *catalogService) CreateVariant(ctx context.Context, productID uuid.UUID, input CreateVariantInput) (*domain.ProductVariant, error) {
	if _, err := s.productRepo.FindByID(ctx, productID); err != nil {
		return nil, err
	}
	if _, err := s.attributeRepo.FindSizeByID(ctx, input.SizeID); err != nil {
		return nil, err
	}
	if _, err := s.attributeRepo.FindColorByID(ctx, input.ColorID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	variant := &domain.ProductVariant{
		ID:        uuid.New(),
		ProductID: productID,
		SizeID:    input.SizeID,
		ColorID:   input.ColorID,
		Price:     input.Price,
		Quantity:  input.Quantity,
		InStock:   input.Quantity > 0,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.productRepo.CreateVariant(ctx, variant); err != nil {
		return nil, err
	}

	s.invalidateProduct(ctx, productID)

	return variant, nil
}

func (s *catalogService) UpdateVariant(ctx context.Context, variantID uuid.UUID, input UpdateVariantInput) (*domain.ProductVariant, error) {
	variant, err := s.productRepo.FindVariantByID(ctx, variantID)
	if err != nil {
		return nil, err
	}

	variant.Price = input.Price
	variant.Quantity = input.Quantity
	variant.InStock = input.Quantity > 0

	if err := s.productRepo.UpdateVariant(ctx, variant); err != nil {
		return nil, err
	}

	s.invalidateProduct(ctx, variant.ProductID)

	return variant, nil
}

func (s *catalogService) DeleteVariant(ctx context.Context, variantID uuid.UUID) error {
	variant, err := s.productRepo.FindVariantByID(ctx, variantID)
	if err != nil {
		return err
	}

	if err := s.productRepo.DeleteVariant(ctx, variantID); err != nil {
		return err
	}

	s.invalidateProduct(ctx, variant.ProductID)

	return nil
}

// UploadImage pushes the content to the asset store first, then records it;
// the uploaded asset is destroyed again if the database insert fails
func (s *catalogService) UploadImage(ctx context.Context, productID, colorID uuid.UUID, content io.Reader) (*domain.ProductImage, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if _, err := s.attributeRepo.FindColorByID(ctx, colorID); err != nil {
		return nil, err
	}

	publicID := fmt.Sprintf("%s-%s", product.Slug, uuid.New().String()[:8])
	asset, err := s.assetStore.Upload(ctx, content, publicID)
	if err != nil {
		return nil, err
	}

	image := &domain.ProductImage{
		ID:        uuid.New(),
		ProductID: productID,
		ColorID:   colorID,
		URL:       asset.URL,
		PublicID:  asset.PublicID,
	}

	if err := s.productRepo.CreateImage(ctx, image); err != nil {
		if destroyErr := s.assetStore.Destroy(ctx, asset.PublicID); destroyErr != nil {
			s.logger.Warn("Failed to destroy orphaned asset",
				zap.String("public_id", asset.PublicID),
				zap.Error(destroyErr),
			)
		}
		return nil, err
	}

	s.invalidateProduct(ctx, productID)

	return image, nil
}

func (s *catalogService) DeleteImage(ctx context.Context, imageID uuid.UUID) error {
	image, err := s.productRepo.DeleteImage(ctx, imageID)
	if err != nil {
		return err
	}

	if err := s.assetStore.Destroy(ctx, image.PublicID); err != nil {
		s.logger.Warn("Failed to destroy product asset",
			zap.String("public_id", image.PublicID),
			zap.Error(err),
		)
	}

	s.invalidateProduct(ctx, image.ProductID)

	return nil
}
