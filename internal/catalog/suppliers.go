package catalog

import (
	"context"
	"fmt"

	"github.com/angelmondragon/warehouse-console/internal/forms"
	"github.com/angelmondragon/warehouse-console/internal/resource"
	"github.com/angelmondragon/warehouse-console/pkg/models"
	"github.com/angelmondragon/warehouse-console/pkg/querycache"
)

// Purchases embed the supplier and the dashboard ranks supplier spending.
var supplierDependents = []querycache.Key{resource.KeySuppliers, resource.KeyPurchases, resource.KeyDashboard}

func (s *service) ListSuppliers(ctx context.Context, filters SearchFilters) ([]models.Supplier, error) {
	suppliers, err := resource.Read[[]models.Supplier](ctx, s.deps, s.suppliersQuery())
	if err != nil {
		return nil, err
	}
	return FilterSuppliers(suppliers, filters), nil
}

func (s *service) GetSupplier(ctx context.Context, id int64) (models.Supplier, error) {
	return resource.Detail[models.Supplier](ctx, s.deps, resource.KeySuppliers, suppliersPath, id)
}

func (s *service) CreateSupplier(ctx context.Context, input forms.SupplierInput) (models.Supplier, error) {
	var created models.Supplier
	err := s.deps.Mutator.Run(ctx, resource.Mutation{
		Action: "create supplier",
		Input:  input,
		Do: func(ctx context.Context, data any) error {
			return s.deps.Client.Post(ctx, suppliersPath, data, &created)
		},
		Invalidates: supplierDependents,
		Success:     resource.Notice{Title: "Success", Description: "Supplier added successfully"},
	})
	return created, err
}

func (s *service) UpdateSupplier(ctx context.Context, id int64, input forms.SupplierInput) (models.Supplier, error) {
	var updated models.Supplier
	if err := resource.RequireID(id); err != nil {
		return updated, err
	}
	err := s.deps.Mutator.Run(ctx, resource.Mutation{
		Action: "update supplier",
		Input:  input,
		Do: func(ctx context.Context, data any) error {
			return s.deps.Client.Put(ctx, fmt.Sprintf("%s/%d", suppliersPath, id), data, &updated)
		},
		Invalidates: supplierDependents,
		Success:     resource.Notice{Title: "Success", Description: "Supplier updated successfully"},
	})
	return updated, err
}

func (s *service) DeleteSupplier(ctx context.Context, id int64) error {
	if err := resource.RequireID(id); err != nil {
		return err
	}
	return s.deps.Mutator.Run(ctx, resource.Mutation{
		Action: "delete supplier",
		Do: func(ctx context.Context, _ any) error {
			return s.deps.Client.Delete(ctx, fmt.Sprintf("%s/%d", suppliersPath, id), nil)
		},
		Removes:     []querycache.Key{resource.DetailKey(resource.KeySuppliers, id)},
		Invalidates: supplierDependents,
		Success:     resource.Notice{Title: "Supplier Deleted", Description: fmt.Sprintf("Supplier #%d deleted", id)},
	})
}
