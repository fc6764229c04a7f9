package purchases

import (
	"context"
	"fmt"

	"github.com/angelmondragon/warehouse-console/internal/derived"
	"github.com/angelmondragon/warehouse-console/internal/forms"
	"github.com/angelmondragon/warehouse-console/internal/resource"
	pkgerrors "github.com/angelmondragon/warehouse-console/pkg/errors"
	"github.com/angelmondragon/warehouse-console/pkg/models"
	"github.com/angelmondragon/warehouse-console/pkg/querycache"
)

const (
	purchasesPath = "/purchases"
	itemsPath     = "/purchase_items"
)

// Purchases move stock and feed the dashboard totals.
var dependents = []querycache.Key{resource.KeyPurchases, resource.KeyProducts, resource.KeyDashboard}

type Service interface {
	List(ctx context.Context) ([]View, error)
	Get(ctx context.Context, id int64) (View, error)
	// CreateWithItems posts the purchase and then each line in order. The
	// first failing step stops the sequence with a *StepError; records
	// created before it are left in place.
	CreateWithItems(ctx context.Context, input forms.PurchaseInput) (View, error)
	Update(ctx context.Context, id int64, input forms.PurchaseUpdateInput) (models.Purchase, error)
	Delete(ctx context.Context, id int64) error
	UpdateItem(ctx context.Context, itemID int64, input forms.PurchaseItemInput) (models.PurchaseItem, error)
	DeleteItem(ctx context.Context, purchaseID, itemID int64) error
}

type service struct {
	deps resource.Deps
}

func NewService(deps resource.Deps) (Service, error) {
	if err := deps.Validate(); err != nil {
		return nil, err
	}
	svc := &service{deps: deps}
	deps.Registry.Register(svc.listQuery())
	return svc, nil
}

func (s *service) listQuery() resource.Query {
	return resource.GetQuery(s.deps.Client, resource.KeyPurchases, purchasesPath)
}

func (s *service) List(ctx context.Context) ([]View, error) {
	purchases, err := resource.Read[[]models.Purchase](ctx, s.deps, s.listQuery())
	if err != nil {
		return nil, err
	}
	now := s.deps.Clock()
	views := make([]View, 0, len(purchases))
	for _, p := range purchases {
		views = append(views, NewView(p, now))
	}
	return views, nil
}

func (s *service) Get(ctx context.Context, id int64) (View, error) {
	p, err := s.load(ctx, id)
	if err != nil {
		return View{}, err
	}
	return NewView(p, s.deps.Clock()), nil
}

func (s *service) load(ctx context.Context, id int64) (models.Purchase, error) {
	return resource.Detail[models.Purchase](ctx, s.deps, resource.KeyPurchases, purchasesPath, id)
}

// editable refuses changes to purchases past the edit window. The backend
// enforces the same rule; this only saves the round trip.
func (s *service) editable(id int64) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		p, err := s.load(ctx, id)
		if err != nil {
			return err
		}
		if !derived.IsEditable(p.PurchaseDate.Time, s.deps.Clock()) {
			return pkgerrors.New(pkgerrors.CodeForbidden, "Cannot edit a purchase older than 30 days.")
		}
		return nil
	}
}

func (s *service) Update(ctx context.Context, id int64, input forms.PurchaseUpdateInput) (models.Purchase, error) {
	var updated models.Purchase
	if err := resource.RequireID(id); err != nil {
		return updated, err
	}
	err := s.deps.Mutator.Run(ctx, resource.Mutation{
		Action: "update purchase",
		Input:  input,
		Guard:  s.editable(id),
		Do: func(ctx context.Context, data any) error {
			return s.deps.Client.Put(ctx, fmt.Sprintf("%s/%d", purchasesPath, id), data, &updated)
		},
		Invalidates: dependents,
		Success: resource.Notice{
			Title:       "Purchase updated",
			Description: fmt.Sprintf("Purchase #%d updated successfully", id),
		},
	})
	return updated, err
}

func (s *service) Delete(ctx context.Context, id int64) error {
	if err := resource.RequireID(id); err != nil {
		return err
	}
	return s.deps.Mutator.Run(ctx, resource.Mutation{
		Action: "delete purchase",
		Guard:  s.editable(id),
		Do: func(ctx context.Context, _ any) error {
			return s.deps.Client.Delete(ctx, fmt.Sprintf("%s/%d", purchasesPath, id), nil)
		},
		Removes:     []querycache.Key{resource.DetailKey(resource.KeyPurchases, id)},
		Invalidates: dependents,
		Success:     resource.Notice{Title: "Deleted", Description: fmt.Sprintf("Purchase #%d deleted", id)},
	})
}

func (s *service) UpdateItem(ctx context.Context, itemID int64, input forms.PurchaseItemInput) (models.PurchaseItem, error) {
	var updated models.PurchaseItem
	if err := resource.RequireID(itemID); err != nil {
		return updated, err
	}
	err := s.deps.Mutator.Run(ctx, resource.Mutation{
		Action: "update purchase item",
		Input:  input,
		Guard: func(ctx context.Context) error {
			if err := resource.RequireID(input.PurchaseID); err != nil {
				return err
			}
			return s.editable(input.PurchaseID)(ctx)
		},
		Do: func(ctx context.Context, data any) error {
			return s.deps.Client.Put(ctx, fmt.Sprintf("%s/%d", itemsPath, itemID), data, &updated)
		},
		Invalidates: dependents,
		Success:     resource.Notice{Title: "Success", Description: "Item updated successfully."},
	})
	return updated, err
}

func (s *service) DeleteItem(ctx context.Context, purchaseID, itemID int64) error {
	if err := resource.RequireID(itemID); err != nil {
		return err
	}
	return s.deps.Mutator.Run(ctx, resource.Mutation{
		Action: "delete purchase item",
		Guard:  s.editable(purchaseID),
		Do: func(ctx context.Context, _ any) error {
			return s.deps.Client.Delete(ctx, fmt.Sprintf("%s/%d", itemsPath, itemID), nil)
		},
		Invalidates: dependents,
		Success:     resource.Notice{Title: "Item removed", Description: fmt.Sprintf("Item %d removed successfully", itemID)},
	})
}
