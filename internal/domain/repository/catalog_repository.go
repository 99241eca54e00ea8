// Package repository defines the interfaces for the persistence layer.
package repository

import (
	"context"
	"errors"

	"github.com/AnthonyArce/Tienda/internal/domain/entity"
)

// Domain-specific errors for catalog persistence.
var (
	// ErrProductNotFound is returned when a product is not found.
	ErrProductNotFound = errors.New("product not found")
	// ErrBrandNotFound is returned when a brand is not found.
	ErrBrandNotFound = errors.New("brand not found")
	// ErrCategoryNotFound is returned when a category is not found.
	ErrCategoryNotFound = errors.New("category not found")
)

// ProductRepository defines the standard operations for product persistence.
type ProductRepository interface {
	// List returns one page of products matching the optional name search,
	// together with the total number of matches.
	List(ctx context.Context, pageIndex, pageSize int, search string) ([]*entity.Product, int64, error)

	// FindByID retrieves a single product with its brand and category loaded.
	FindByID(ctx context.Context, id int64) (*entity.Product, error)

	// Create persists a new product.
	Create(ctx context.Context, product *entity.Product) error

	// Update modifies an existing product.
	Update(ctx context.Context, product *entity.Product) error

	// Delete removes a product by ID.
	Delete(ctx context.Context, id int64) error
}

// BrandRepository defines the standard operations for brand persistence.
type BrandRepository interface {
	List(ctx context.Context) ([]*entity.Brand, error)
	FindByID(ctx context.Context, id int64) (*entity.Brand, error)
	Create(ctx context.Context, brand *entity.Brand) error
}

// CategoryRepository defines the standard operations for category persistence.
type CategoryRepository interface {
	List(ctx context.Context) ([]*entity.Category, error)
	FindByID(ctx context.Context, id int64) (*entity.Category, error)
	Create(ctx context.Context, category *entity.Category) error
}
