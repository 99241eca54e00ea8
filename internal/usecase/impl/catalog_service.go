package impl

import (
	"context"
	"log/slog"

	deliverycontext "github.com/AnthonyArce/Tienda/internal/delivery/context"
	"github.com/AnthonyArce/Tienda/internal/domain/entity"
	domainerrors "github.com/AnthonyArce/Tienda/internal/domain/errors"
	"github.com/AnthonyArce/Tienda/internal/domain/repository"
	"github.com/AnthonyArce/Tienda/internal/usecase"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// catalogService implements the CatalogUsecase interface.
type catalogService struct {
	txManager    repository.TransactionManager
	productRepo  repository.ProductRepository
	brandRepo    repository.BrandRepository
	categoryRepo repository.CategoryRepository
	logger       *slog.Logger
}

// CatalogServiceParams holds dependencies for catalogService, injected by Fx.
type CatalogServiceParams struct {
	fx.In

	TxManager    repository.TransactionManager
	ProductRepo  repository.ProductRepository
	BrandRepo    repository.BrandRepository
	CategoryRepo repository.CategoryRepository
	Logger       *slog.Logger
}

// NewCatalogService is the constructor for catalogService.
func NewCatalogService(params CatalogServiceParams) usecase.CatalogUsecase {
	return &catalogService{
		txManager:    params.TxManager,
		productRepo:  params.ProductRepo,
		brandRepo:    params.BrandRepo,
		categoryRepo: params.CategoryRepo,
		logger:       params.Logger,
	}
}

func (srv *catalogService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// ListProducts returns one page of products matching the optional search.
func (srv *catalogService) ListProducts(ctx context.Context, params *usecase.ListParams) (*usecase.Pager[*usecase.ProductOutput], error) {
	params.Normalize()

	products, total, err := srv.productRepo.List(ctx, params.PageIndex, params.PageSize, params.Search)
	if err != nil {
		srv.log(ctx).Error("Failed to list products", slog.Any("error", err))

		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to list products")
	}

	outputs := make([]*usecase.ProductOutput, 0, len(products))
	for _, product := range products {
		outputs = append(outputs, toProductOutput(product))
	}

	return usecase.NewPager(outputs, total, params.PageIndex, params.PageSize, params.Search), nil
}

// GetProduct retrieves a single product by ID.
func (srv *catalogService) GetProduct(ctx context.Context, id int64) (*usecase.ProductOutput, error) {
	product, err := srv.productRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, domainerrors.ErrProductNotFound.WrapMessage("product lookup failed")
		}

		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to find product")
	}

	return toProductOutput(product), nil
}

// CreateProduct persists a new product after checking its brand and category exist.
func (srv *catalogService) CreateProduct(ctx context.Context, input *usecase.ProductInput) (*usecase.ProductOutput, error) {
	srv.log(ctx).Info("Creating product", slog.String("name", input.Name))

	var out *usecase.ProductOutput

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		product := &entity.Product{
			Name:       input.Name,
			Price:      input.Price,
			Stock:      input.Stock,
			BrandID:    input.BrandID,
			CategoryID: input.CategoryID,
		}

		if err := srv.resolveReferences(ctx, repoFactory, product); err != nil {
			return err
		}

		if err := repoFactory.ProductRepo().Create(ctx, product); err != nil {
			return errors.Wrap(err, "failed to create product")
		}

		out = toProductOutput(product)

		return nil
	})
	if err != nil {
		srv.log(ctx).Warn("Product creation failed", slog.String("name", input.Name), slog.Any("error", err))

		return nil, asCatalogError(err, "product creation failed")
	}

	return out, nil
}

// UpdateProduct modifies an existing product.
func (srv *catalogService) UpdateProduct(ctx context.Context, id int64, input *usecase.ProductInput) (*usecase.ProductOutput, error) {
	srv.log(ctx).Info("Updating product", slog.Int64("id", id))

	var out *usecase.ProductOutput

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		productRepo := repoFactory.ProductRepo()

		product, err := productRepo.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrProductNotFound) {
				return domainerrors.ErrProductNotFound.WrapMessage("product lookup failed during update")
			}

			return errors.Wrap(err, "failed to find product for update")
		}

		product.Name = input.Name
		product.Price = input.Price
		product.Stock = input.Stock
		product.BrandID = input.BrandID
		product.CategoryID = input.CategoryID

		if err := srv.resolveReferences(ctx, repoFactory, product); err != nil {
			return err
		}

		if err := productRepo.Update(ctx, product); err != nil {
			return errors.Wrap(err, "failed to update product")
		}

		out = toProductOutput(product)

		return nil
	})
	if err != nil {
		srv.log(ctx).Warn("Product update failed", slog.Int64("id", id), slog.Any("error", err))

		return nil, asCatalogError(err, "product update failed")
	}

	return out, nil
}

// DeleteProduct removes a product by ID.
func (srv *catalogService) DeleteProduct(ctx context.Context, id int64) error {
	srv.log(ctx).Info("Deleting product", slog.Int64("id", id))

	if err := srv.productRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return domainerrors.ErrProductNotFound.WrapMessage("product lookup failed during delete")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to delete product")
	}

	return nil
}

// ListBrands returns all brands.
func (srv *catalogService) ListBrands(ctx context.Context) ([]*usecase.BrandOutput, error) {
	brands, err := srv.brandRepo.List(ctx)
	if err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to list brands")
	}

	outputs := make([]*usecase.BrandOutput, 0, len(brands))
	for _, brand := range brands {
		outputs = append(outputs, &usecase.BrandOutput{ID: brand.ID, Name: brand.Name})
	}

	return outputs, nil
}

// CreateBrand persists a new brand.
func (srv *catalogService) CreateBrand(ctx context.Context, input *usecase.BrandInput) (*usecase.BrandOutput, error) {
	brand := &entity.Brand{Name: input.Name}

	if err := srv.brandRepo.Create(ctx, brand); err != nil {
		return nil, asCatalogError(err, "brand creation failed")
	}

	return &usecase.BrandOutput{ID: brand.ID, Name: brand.Name}, nil
}

// ListCategories returns all categories.
func (srv *catalogService) ListCategories(ctx context.Context) ([]*usecase.CategoryOutput, error) {
	categories, err := srv.categoryRepo.List(ctx)
	if err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to list categories")
	}

	outputs := make([]*usecase.CategoryOutput, 0, len(categories))
	for _, category := range categories {
		outputs = append(outputs, &usecase.CategoryOutput{ID: category.ID, Name: category.Name})
	}

	return outputs, nil
}

// CreateCategory persists a new category.
func (srv *catalogService) CreateCategory(ctx context.Context, input *usecase.CategoryInput) (*usecase.CategoryOutput, error) {
	category := &entity.Category{Name: input.Name}

	if err := srv.categoryRepo.Create(ctx, category); err != nil {
		return nil, asCatalogError(err, "category creation failed")
	}

	return &usecase.CategoryOutput{ID: category.ID, Name: category.Name}, nil
}

// resolveReferences loads the brand and category rows the product points at,
// turning missing references into typed domain errors.
func (srv *catalogService) resolveReferences(ctx context.Context, repoFactory repository.RepositoryFactory, product *entity.Product) error {
	brand, err := repoFactory.BrandRepo().FindByID(ctx, product.BrandID)
	if err != nil {
		if errors.Is(err, repository.ErrBrandNotFound) {
			return domainerrors.ErrBrandNotFound.WrapMessage("brand reference does not exist")
		}

		return errors.Wrap(err, "failed to find brand")
	}
	product.Brand = brand

	category, err := repoFactory.CategoryRepo().FindByID(ctx, product.CategoryID)
	if err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return domainerrors.ErrCategoryNotFound.WrapMessage("category reference does not exist")
		}

		return errors.Wrap(err, "failed to find category")
	}
	product.Category = category

	return nil
}

func toProductOutput(product *entity.Product) *usecase.ProductOutput {
	out := &usecase.ProductOutput{
		ID:         product.ID,
		Name:       product.Name,
		Price:      product.Price,
		Stock:      product.Stock,
		BrandID:    product.BrandID,
		CategoryID: product.CategoryID,
	}
	if product.Brand != nil {
		out.Brand = product.Brand.Name
	}
	if product.Category != nil {
		out.Category = product.Category.Name
	}

	return out
}

// asCatalogError mirrors the auth service boundary rule: typed domain errors
// pass through, everything else becomes a generic persistence failure.
func asCatalogError(err error, details string) error {
	var appErr domainerrors.AppError
	if errors.As(err, &appErr) {
		return err
	}

	return domainerrors.NewDatabaseExecuteError(err, details)
}
