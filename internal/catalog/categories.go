package catalog

import (
	"context"
	"fmt"

	"github.com/angelmondragon/warehouse-console/internal/forms"
	"github.com/angelmondragon/warehouse-console/internal/resource"
	"github.com/angelmondragon/warehouse-console/pkg/models"
	"github.com/angelmondragon/warehouse-console/pkg/querycache"
)

// Products embed their category, so a rename must reach product lists too.
var categoryDependents = []querycache.Key{resource.KeyCategories, resource.KeyProducts}

func (s *service) ListCategories(ctx context.Context, filters SearchFilters) ([]models.Category, error) {
	categories, err := resource.Read[[]models.Category](ctx, s.deps, s.categoriesQuery())
	if err != nil {
		return nil, err
	}
	return FilterCategories(categories, filters), nil
}

func (s *service) GetCategory(ctx context.Context, id int64) (models.Category, error) {
	return resource.Detail[models.Category](ctx, s.deps, resource.KeyCategories, categoriesPath, id)
}

func (s *service) CreateCategory(ctx context.Context, input forms.CategoryInput) (models.Category, error) {
	var created models.Category
	err := s.deps.Mutator.Run(ctx, resource.Mutation{
		Action: "create category",
		Input:  input,
		Do: func(ctx context.Context, data any) error {
			return s.deps.Client.Post(ctx, categoriesPath, data, &created)
		},
		Invalidates: categoryDependents,
		Success:     resource.Notice{Title: "Success!", Description: "Category added successfully!"},
	})
	return created, err
}

func (s *service) UpdateCategory(ctx context.Context, id int64, input forms.CategoryInput) (models.Category, error) {
	var updated models.Category
	if err := resource.RequireID(id); err != nil {
		return updated, err
	}
	err := s.deps.Mutator.Run(ctx, resource.Mutation{
		Action: "update category",
		Input:  input,
		Do: func(ctx context.Context, data any) error {
			return s.deps.Client.Put(ctx, fmt.Sprintf("%s/%d", categoriesPath, id), data, &updated)
		},
		Invalidates: categoryDependents,
		Success:     resource.Notice{Title: "Success", Description: "Category updated successfully."},
	})
	return updated, err
}

func (s *service) DeleteCategory(ctx context.Context, id int64) error {
	if err := resource.RequireID(id); err != nil {
		return err
	}
	return s.deps.Mutator.Run(ctx, resource.Mutation{
		Action: "delete category",
		Do: func(ctx context.Context, _ any) error {
			return s.deps.Client.Delete(ctx, fmt.Sprintf("%s/%d", categoriesPath, id), nil)
		},
		Removes:     []querycache.Key{resource.DetailKey(resource.KeyCategories, id)},
		Invalidates: categoryDependents,
		Success:     resource.Notice{Title: "Category Deleted", Description: fmt.Sprintf("Category #%d deleted", id)},
	})
}
