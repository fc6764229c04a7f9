package catalog

import (
	"context"
	"fmt"

	"github.com/angelmondragon/warehouse-console/internal/derived"
	"github.com/angelmondragon/warehouse-console/internal/forms"
	"github.com/angelmondragon/warehouse-console/internal/resource"
	"github.com/angelmondragon/warehouse-console/pkg/models"
	"github.com/angelmondragon/warehouse-console/pkg/querycache"
)

// Product writes change stock counters, so the dashboard goes stale with them.
var productDependents = []querycache.Key{resource.KeyProducts, resource.KeyDashboard}

func NewProductView(p models.Product) ProductView {
	status := derived.StockStatus(p.StockLevel)
	return ProductView{Product: p, StockStatus: status, StockLabel: status.Label()}
}

func (s *service) ListProducts(ctx context.Context, filters ProductFilters) (ProductList, error) {
	products, err := resource.Read[[]models.Product](ctx, s.deps, s.productsQuery())
	if err != nil {
		return ProductList{}, err
	}
	views := make([]ProductView, 0, len(products))
	for _, p := range products {
		views = append(views, NewProductView(p))
	}
	return ProductList{
		Items:   FilterProducts(views, filters),
		Summary: derived.SummarizeStock(products),
	}, nil
}

func (s *service) GetProduct(ctx context.Context, id int64) (ProductView, error) {
	p, err := resource.Detail[models.Product](ctx, s.deps, resource.KeyProducts, productsPath, id)
	if err != nil {
		return ProductView{}, err
	}
	return NewProductView(p), nil
}

func (s *service) CreateProduct(ctx context.Context, input forms.ProductInput) (models.Product, error) {
	var created models.Product
	err := s.deps.Mutator.Run(ctx, resource.Mutation{
		Action: "create product",
		Input:  input,
		Do: func(ctx context.Context, data any) error {
			return s.deps.Client.Post(ctx, productsPath, data, &created)
		},
		Invalidates: productDependents,
		Success:     resource.Notice{Title: "Success", Description: "Product added successfully"},
	})
	return created, err
}

func (s *service) UpdateProduct(ctx context.Context, id int64, input forms.ProductInput) (models.Product, error) {
	var updated models.Product
	if err := resource.RequireID(id); err != nil {
		return updated, err
	}
	err := s.deps.Mutator.Run(ctx, resource.Mutation{
		Action: "update product",
		Input:  input,
		Do: func(ctx context.Context, data any) error {
			return s.deps.Client.Put(ctx, fmt.Sprintf("%s/%d", productsPath, id), data, &updated)
		},
		Invalidates: productDependents,
		Success:     resource.Notice{Title: "Success", Description: "Product updated successfully."},
	})
	return updated, err
}

func (s *service) DeleteProduct(ctx context.Context, id int64) error {
	if err := resource.RequireID(id); err != nil {
		return err
	}
	return s.deps.Mutator.Run(ctx, resource.Mutation{
		Action: "delete product",
		Do: func(ctx context.Context, _ any) error {
			return s.deps.Client.Delete(ctx, fmt.Sprintf("%s/%d", productsPath, id), nil)
		},
		Removes:     []querycache.Key{resource.DetailKey(resource.KeyProducts, id)},
		Invalidates: productDependents,
		Success:     resource.Notice{Title: "Deleted", Description: fmt.Sprintf("Product #%d deleted", id)},
	})
}
