package catalog

import (
	"context"

	"github.com/angelmondragon/warehouse-console/internal/forms"
	"github.com/angelmondragon/warehouse-console/internal/resource"
	"github.com/angelmondragon/warehouse-console/pkg/enums"
	"github.com/angelmondragon/warehouse-console/pkg/models"
)

// Service manages the reference data purchases and transfers point at.
type Service interface {
	ListProducts(ctx context.Context, filters ProductFilters) (ProductList, error)
	GetProduct(ctx context.Context, id int64) (ProductView, error)
	CreateProduct(ctx context.Context, input forms.ProductInput) (models.Product, error)
	UpdateProduct(ctx context.Context, id int64, input forms.ProductInput) (models.Product, error)
	DeleteProduct(ctx context.Context, id int64) error

	ListCategories(ctx context.Context, filters SearchFilters) ([]models.Category, error)
	GetCategory(ctx context.Context, id int64) (models.Category, error)
	CreateCategory(ctx context.Context, input forms.CategoryInput) (models.Category, error)
	UpdateCategory(ctx context.Context, id int64, input forms.CategoryInput) (models.Category, error)
	DeleteCategory(ctx context.Context, id int64) error

	ListSuppliers(ctx context.Context, filters SearchFilters) ([]models.Supplier, error)
	GetSupplier(ctx context.Context, id int64) (models.Supplier, error)
	CreateSupplier(ctx context.Context, input forms.SupplierInput) (models.Supplier, error)
	UpdateSupplier(ctx context.Context, id int64, input forms.SupplierInput) (models.Supplier, error)
	DeleteSupplier(ctx context.Context, id int64) error
}

// ProductView is a product with its derived stock badge.
type ProductView struct {
	models.Product
	StockStatus enums.StockStatus `json:"stock_status"`
	StockLabel  string            `json:"stock_label"`
}

type service struct {
	deps resource.Deps
}

func NewService(deps resource.Deps) (Service, error) {
	if err := deps.Validate(); err != nil {
		return nil, err
	}
	svc := &service{deps: deps}
	deps.Registry.Register(svc.productsQuery())
	deps.Registry.Register(svc.categoriesQuery())
	deps.Registry.Register(svc.suppliersQuery())
	return svc, nil
}

const (
	productsPath   = "/products"
	categoriesPath = "/categories"
	suppliersPath  = "/suppliers"
)

func (s *service) productsQuery() resource.Query {
	return resource.GetQuery(s.deps.Client, resource.KeyProducts, productsPath)
}

func (s *service) categoriesQuery() resource.Query {
	return resource.GetQuery(s.deps.Client, resource.KeyCategories, categoriesPath)
}

func (s *service) suppliersQuery() resource.Query {
	return resource.GetQuery(s.deps.Client, resource.KeySuppliers, suppliersPath)
}
