package usecase

import "context"

const (
	defaultPageIndex = 1
	defaultPageSize  = 10
	maxPageSize      = 50
)

// ListParams are the pagination and search inputs for catalog listings.
type ListParams struct {
	PageIndex int    `query:"pageIndex"`
	PageSize  int    `query:"pageSize"`
	Search    string `query:"search"`
}

// Normalize clamps pagination values to sane bounds.
func (p *ListParams) Normalize() {
	if p.PageIndex <= 0 {
		p.PageIndex = defaultPageIndex
	}
	if p.PageSize <= 0 {
		p.PageSize = defaultPageSize
	}
	if p.PageSize > maxPageSize {
		p.PageSize = maxPageSize
	}
}

// Pager is one page of results together with paging metadata.
type Pager[T any] struct {
	PageIndex  int    `json:"pageIndex"`
	PageSize   int    `json:"pageSize"`
	Total      int64  `json:"total"`
	TotalPages int    `json:"totalPages"`
	Search     string `json:"search,omitempty"`
	Items      []T    `json:"items"`
}

// NewPager assembles a result page.
func NewPager[T any](items []T, total int64, pageIndex, pageSize int, search string) *Pager[T] {
	totalPages := int(total) / pageSize
	if int(total)%pageSize != 0 {
		totalPages++
	}

	return &Pager[T]{
		PageIndex:  pageIndex,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
		Search:     search,
		Items:      items,
	}
}

// ProductInput carries the fields to create or update a product.
type ProductInput struct {
	Name       string  `json:"name" validate:"required"`
	Price      float64 `json:"price" validate:"gte=0"`
	Stock      int     `json:"stock" validate:"gte=0"`
	BrandID    int64   `json:"brandId" validate:"required"`
	CategoryID int64   `json:"categoryId" validate:"required"`
}

// ProductOutput is the flattened product view returned to clients.
type ProductOutput struct {
	ID         int64   `json:"id"`
	Name       string  `json:"name"`
	Price      float64 `json:"price"`
	Stock      int     `json:"stock"`
	BrandID    int64   `json:"brandId"`
	Brand      string  `json:"brand,omitempty"`
	CategoryID int64   `json:"categoryId"`
	Category   string  `json:"category,omitempty"`
}

// BrandInput carries the fields to create a brand.
type BrandInput struct {
	Name string `json:"name" validate:"required"`
}

// BrandOutput is the brand view returned to clients.
type BrandOutput struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// CategoryInput carries the fields to create a category.
type CategoryInput struct {
	Name string `json:"name" validate:"required"`
}

// CategoryOutput is the category view returned to clients.
type CategoryOutput struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// CatalogUsecase exposes the product, brand and category operations.
type CatalogUsecase interface {
	// ListProducts returns one page of products matching the optional search.
	ListProducts(ctx context.Context, params *ListParams) (*Pager[*ProductOutput], error)

	// GetProduct retrieves a single product by ID.
	GetProduct(ctx context.Context, id int64) (*ProductOutput, error)

	// CreateProduct persists a new product. Brand and category must exist.
	CreateProduct(ctx context.Context, input *ProductInput) (*ProductOutput, error)

	// UpdateProduct modifies an existing product.
	UpdateProduct(ctx context.Context, id int64, input *ProductInput) (*ProductOutput, error)

	// DeleteProduct removes a product by ID.
	DeleteProduct(ctx context.Context, id int64) error

	// ListBrands returns all brands.
	ListBrands(ctx context.Context) ([]*BrandOutput, error)

	// CreateBrand persists a new brand.
	CreateBrand(ctx context.Context, input *BrandInput) (*BrandOutput, error)

	// ListCategories returns all categories.
	ListCategories(ctx context.Context) ([]*CategoryOutput, error)

	// CreateCategory persists a new category.
	CreateCategory(ctx context.Context, input *CategoryInput) (*CategoryOutput, error)
}
