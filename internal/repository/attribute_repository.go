package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"stitchmart/internal/domain"

	"github.com/google/uuid"
)

var (
	ErrSizeNotFound           = errors.New("size not found")
	ErrColorNotFound          = errors.New("color not found")
	ErrAttributeAlreadyExists = errors.New("attribute with this name already exists")
)

// AttributeRepository manages the size and color attribute tables
type AttributeRepository interface {
	CreateSize(ctx context.Context, size *domain.Size) error
	ListSizes(ctx context.Context) ([]*domain.Size, error)
	FindSizeByID(ctx context.Context, id uuid.UUID) (*domain.Size, error)

	CreateColor(ctx context.Context, color *domain.Color) error
	ListColors(ctx context.Context) ([]*domain.Color, error)
	FindColorByID(ctx context.Context, id uuid.UUID) (*domain.Color, error)
}

type attributeRepository struct {
	db *sql.DB
}

// NewAttributeRepository creates a new instance of AttributeRepository
func NewAttributeRepository(db *sql.DB) AttributeRepository {
	return &attributeRepository{db: db}
}

func (r *attributeRepository) CreateSize(ctx context.Context, size *domain.Size) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO sizes (id, name) VALUES ($1, $2)`, size.ID, size.Name)
	if err != nil {
		if isUniqueViolation(err, "") {
			return ErrAttributeAlreadyExists
		}
		return fmt.Errorf("failed to create size: %w", err)
	}
	return nil
}

func (r *attributeRepository) ListSizes(ctx context.Context) ([]*domain.Size, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name FROM sizes ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list sizes: %w", err)
	}
	defer rows.Close()

	sizes := []*domain.Size{}
	for rows.Next() {
		size := &domain.Size{}
		if err := rows.Scan(&size.ID, &size.Name); err != nil {
			return nil, fmt.Errorf("failed to scan size: %w", err)
		}
		sizes = append(sizes, size)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sizes: %w", err)
	}

	return sizes, nil
}

func (r *attributeRepository) FindSizeByID(ctx context.Context, id uuid.UUID) (*domain.Size, error) {
	size := &domain.Size{}
	err := r.db.QueryRowContext(ctx, `SELECT id, name FROM sizes WHERE id = $1`, id).Scan(&size.ID, &size.Name)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrSizeNotFound
		}
		return nil, fmt.Errorf("failed to find size by ID: %w", err)
	}
	return size, nil
}

func (r *attributeRepository) CreateColor(ctx context.Context, color *domain.Color) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO colors (id, name) VALUES ($1, $2)`, color.ID, color.Name)
	if err != nil {
		if isUniqueViolation(err, "") {
			return ErrAttributeAlreadyExists
		}
		return fmt.Errorf("failed to create color: %w", err)
	}
	return nil
}

func (r *attributeRepository) ListColors(ctx context.Context) ([]*domain.Color, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name FROM colors ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list colors: %w", err)
	}
	defer rows.Close()

	colors := []*domain.Color{}
	for rows.Next() {
		color := &domain.Color{}
		if err := rows.Scan(&color.ID, &color.Name); err != nil {
			return nil, fmt.Errorf("failed to scan color: %w", err)
		}
		colors = append(colors, color)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating colors: %w", err)
	}

	return colors, nil
}

func (r *attributeRepository) FindColorByID(ctx context.Context, id uuid.UUID) (*domain.Color, error) {
	color := &domain.Color{}
	err := r.db.QueryRowContext(ctx, `SELECT id, name FROM colors WHERE id = $1`, id).Scan(&color.ID, &color.Name)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrColorNotFound
		}
		return nil, fmt.Errorf("failed to find color by ID: %w", err)
	}
	return color, nil
}
