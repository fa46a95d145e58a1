package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"stitchmart/internal/domain"

	"github.com/google/uuid"
)

var (
	ErrProductNotFound       = errors.New("product not found")
	ErrProductAlreadyExists  = errors.New("product with this name already exists")
	ErrVariantNotFound       = errors.New("product variant not found")
	ErrVariantAlreadyExists  = errors.New("variant with this size and color already exists")
	ErrProductImageNotFound  = errors.New("product image not found")
	ErrDuplicateProductImage = errors.New("image with this public id already exists")
)

// SortOrder represents the sort direction
type SortOrder string

const (
	SortOrderAsc  SortOrder = "ASC"
	SortOrderDesc SortOrder = "DESC"
)

// ProductRepository defines the interface for catalog data access
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	Update(ctx context.Context, product *domain.Product) error
	Delete(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	FindBySlug(ctx context.Context, slug string) (*domain.Product, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	List(ctx context.Context, tagID *uuid.UUID, page, pageSize int, sortBy string, sortOrder SortOrder) ([]*domain.Product, int, error)
	Search(ctx context.Context, query string, page, pageSize int) ([]*domain.Product, int, error)
	UpdateRating(ctx context.Context, id uuid.UUID, rating float64) error

	CreateVariant(ctx context.Context, variant *domain.ProductVariant) error
	UpdateVariant(ctx context.Context, variant *domain.ProductVariant) error
	DeleteVariant(ctx context.Context, id uuid.UUID) error
	FindVariantByID(ctx context.Context, id uuid.UUID) (*domain.ProductVariant, error)
	ListVariants(ctx context.Context, productID uuid.UUID) ([]*domain.ProductVariant, error)

	CreateImage(ctx context.Context, image *domain.ProductImage) error
	ListImages(ctx context.Context, productID uuid.UUID) ([]*domain.ProductImage, error)
	DeleteImage(ctx context.Context, id uuid.UUID) (*domain.ProductImage, error)
}

type productRepository struct {
	db *sql.DB
}

// NewProductRepository creates a new instance of ProductRepository
func NewProductRepository(db *sql.DB) ProductRepository {
	return &productRepository{db: db}
}

const productColumns = `id, tag_id, name, slug, brand, price, discount, final_price, sold, rating, created_at, updated_at`

func scanProduct(row interface{ Scan(...interface{}) error }) (*domain.Product, error) {
	product := &domain.Product{}
	err := row.Scan(
		&product.ID,
		&product.TagID,
		&product.Name,
		&product.Slug,
		&product.Brand,
		&product.Price,
		&product.Discount,
		&product.FinalPrice,
		&product.Sold,
		&product.Rating,
		&product.CreatedAt,
		&product.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return product, nil
}

func (r *productRepository) Create(ctx context.Context, product *domain.Product) error {
	query := `
		INSERT INTO products (id, tag_id, name, slug, brand, price, discount, final_price, sold, rating, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		product.ID,
		product.TagID,
		product.Name,
		product.Slug,
		product.Brand,
		product.Price,
		product.Discount,
		product.FinalPrice,
		product.Sold,
		product.Rating,
		product.CreatedAt,
		product.UpdatedAt,
	)

	if err != nil {
		if isUniqueViolation(err, "") {
			return ErrProductAlreadyExists
		}
		return fmt.Errorf("failed to create product: %w", err)
	}

	return nil
}

func (r *productRepository) Update(ctx context.Context, product *domain.Product) error {
	query := `
		UPDATE products
		SET tag_id = $2, name = $3, slug = $4, brand = $5, price = $6,
		    discount = $7, final_price = $8, updated_at = now()
		WHERE id = $1
	`

	result, err := r.db.ExecContext(
		ctx,
		query,
		product.ID,
		product.TagID,
		product.Name,
		product.Slug,
		product.Brand,
		product.Price,
		product.Discount,
		product.FinalPrice,
	)

	if err != nil {
		if isUniqueViolation(err, "") {
			return ErrProductAlreadyExists
		}
		return fmt.Errorf("failed to update product: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrProductNotFound
	}

	return nil
}

// Delete removes a product and returns the deleted row. Variants and images
// cascade at the database level; callers use the returned slug to clean up
// hosted assets.
func (r *productRepository) Delete(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	query := `DELETE FROM products WHERE id = $1 RETURNING ` + productColumns

	product, err := scanProduct(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to delete product: %w", err)
	}

	return product, nil
}

func (r *productRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	product, err := scanProduct(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product by ID: %w", err)
	}

	return product, nil
}

func (r *productRepository) FindBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE slug = $1`

	product, err := scanProduct(r.db.QueryRowContext(ctx, query, slug))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product by slug: %w", err)
	}

	return product, nil
}

func (r *productRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM products WHERE slug = $1)`, slug,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check product slug: %w", err)
	}
	return exists, nil
}

// List retrieves products with optional tag filtering, pagination, and sorting
func (r *productRepository) List(ctx context.Context, tagID *uuid.UUID, page, pageSize int, sortBy string, sortOrder SortOrder) ([]*domain.Product, int, error) {
	// Validate sort field to prevent SQL injection
	validSortFields := map[string]bool{
		"name":        true,
		"final_price": true,
		"created_at":  true,
		"sold":        true,
		"rating":      true,
	}

	if !validSortFields[sortBy] {
		sortBy = "created_at"
	}
	if sortOrder != SortOrderAsc && sortOrder != SortOrderDesc {
		sortOrder = SortOrderDesc
	}

	whereClause := ""
	args := []interface{}{}
	argIndex := 1

	if tagID != nil {
		whereClause = fmt.Sprintf("WHERE tag_id = $%d", argIndex)
		args = append(args, *tagID)
		argIndex++
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM products %s", whereClause)
	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	offset := (page - 1) * pageSize
	query := fmt.Sprintf(`
		SELECT %s
		FROM products
		%s
		ORDER BY %s %s
		LIMIT $%d OFFSET $%d
	`, productColumns, whereClause, sortBy, sortOrder, argIndex, argIndex+1)

	args = append(args, pageSize, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	products := []*domain.Product{}
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, product)
	}

	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating products: %w", err)
	}

	return products, total, nil
}

// Search searches for products by name or brand with pagination
func (r *productRepository) Search(ctx context.Context, query string, page, pageSize int) ([]*domain.Product, int, error) {
	if strings.TrimSpace(query) == "" {
		return r.List(ctx, nil, page, pageSize, "created_at", SortOrderDesc)
	}

	searchPattern := "%" + query + "%"

	countQuery := `SELECT COUNT(*) FROM products WHERE name ILIKE $1 OR brand ILIKE $1`
	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, searchPattern).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count search results: %w", err)
	}

	offset := (page - 1) * pageSize
	searchQuery := `
		SELECT ` + productColumns + `
		FROM products
		WHERE name ILIKE $1 OR brand ILIKE $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.QueryContext(ctx, searchQuery, searchPattern, pageSize, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to search products: %w", err)
	}
	defer rows.Close()

	products := []*domain.Product{}
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, product)
	}

	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating search results: %w", err)
	}

	return products, total, nil
}

func (r *productRepository) UpdateRating(ctx context.Context, id uuid.UUID, rating float64) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE products SET rating = $2, updated_at = now() WHERE id = $1`, id, rating,
	)
	if err != nil {
		return fmt.Errorf("failed to update product rating: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrProductNotFound
	}

	return nil
}

const variantColumns = `id, product_id, size_id, color_id, price, quantity, in_stock, created_at, updated_at`

func scanVariant(row interface{ Scan(...interface{}) error }) (*domain.ProductVariant, error) {
	variant := &domain.ProductVariant{}
	err := row.Scan(
		&variant.ID,
		&variant.ProductID,
		&variant.SizeID,
		&variant.ColorID,
		&variant.Price,
		&variant.Quantity,
		&variant.InStock,
		&variant.CreatedAt,
		&variant.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return variant, nil
}

func (r *productRepository) CreateVariant(ctx context.Context, variant *domain.ProductVariant) error {
	query := `
		INSERT INTO product_variants (id, product_id, size_id, color_id, price, quantity, in_stock, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		variant.ID,
		variant.ProductID,
		variant.SizeID,
		variant.ColorID,
		variant.Price,
		variant.Quantity,
		variant.InStock,
		variant.CreatedAt,
		variant.UpdatedAt,
	)

	if err != nil {
		if isUniqueViolation(err, "") {
			return ErrVariantAlreadyExists
		}
		return fmt.Errorf("failed to create variant: %w", err)
	}

	return nil
}

func (r *productRepository) UpdateVariant(ctx context.Context, variant *domain.ProductVariant) error {
	query := `
		UPDATE product_variants
		SET price = $2, quantity = $3, in_stock = $4, updated_at = now()
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query, variant.ID, variant.Price, variant.Quantity, variant.InStock)
	if err != nil {
		return fmt.Errorf("failed to update variant: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrVariantNotFound
	}

	return nil
}

func (r *productRepository) DeleteVariant(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM product_variants WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete variant: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrVariantNotFound
	}

	return nil
}

func (r *productRepository) FindVariantByID(ctx context.Context, id uuid.UUID) (*domain.ProductVariant, error) {
	query := `SELECT ` + variantColumns + ` FROM product_variants WHERE id = $1`

	variant, err := scanVariant(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrVariantNotFound
		}
		return nil, fmt.Errorf("failed to find variant by ID: %w", err)
	}

	return variant, nil
}

func (r *productRepository) ListVariants(ctx context.Context, productID uuid.UUID) ([]*domain.ProductVariant, error) {
	query := `SELECT ` + variantColumns + ` FROM product_variants WHERE product_id = $1 ORDER BY created_at ASC`

	rows, err := r.db.QueryContext(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to list variants: %w", err)
	}
	defer rows.Close()

	variants := []*domain.ProductVariant{}
	for rows.Next() {
		variant, err := scanVariant(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan variant: %w", err)
		}
		variants = append(variants, variant)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating variants: %w", err)
	}

	return variants, nil
}

func (r *productRepository) CreateImage(ctx context.Context, image *domain.ProductImage) error {
	query := `
		INSERT INTO product_images (id, product_id, color_id, url, public_id)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.db.ExecContext(ctx, query, image.ID, image.ProductID, image.ColorID, image.URL, image.PublicID)
	if err != nil {
		if isUniqueViolation(err, "") {
			return ErrDuplicateProductImage
		}
		return fmt.Errorf("failed to create product image: %w", err)
	}

	return nil
}

func (r *productRepository) ListImages(ctx context.Context, productID uuid.UUID) ([]*domain.ProductImage, error) {
	query := `SELECT id, product_id, color_id, url, public_id FROM product_images WHERE product_id = $1`

	rows, err := r.db.QueryContext(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to list product images: %w", err)
	}
	defer rows.Close()

	images := []*domain.ProductImage{}
	for rows.Next() {
		image := &domain.ProductImage{}
		if err := rows.Scan(&image.ID, &image.ProductID, &image.ColorID, &image.URL, &image.PublicID); err != nil {
			return nil, fmt.Errorf("failed to scan product image: %w", err)
		}
		images = append(images, image)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating product images: %w", err)
	}

	return images, nil
}

func (r *productRepository) DeleteImage(ctx context.Context, id uuid.UUID) (*domain.ProductImage, error) {
	query := `DELETE FROM product_images WHERE id = $1 RETURNING id, product_id, color_id, url, public_id`

	image := &domain.ProductImage{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&image.ID, &image.ProductID, &image.ColorID, &image.URL, &image.PublicID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrProductImageNotFound
		}
		return nil, fmt.Errorf("failed to delete product image: %w", err)
	}

	return image, nil
}
