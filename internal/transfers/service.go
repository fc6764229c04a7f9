package transfers

import (
	"context"
	"fmt"
	"time"

	"github.com/angelmondragon/warehouse-console/internal/derived"
	"github.com/angelmondragon/warehouse-console/internal/forms"
	"github.com/angelmondragon/warehouse-console/internal/resource"
	pkgerrors "github.com/angelmondragon/warehouse-console/pkg/errors"
	"github.com/angelmondragon/warehouse-console/pkg/models"
	"github.com/angelmondragon/warehouse-console/pkg/querycache"
)

const (
	transfersPath = "/stock_transfers"
	itemsPath     = "/stock_transfer_items"
)

var dependents = []querycache.Key{resource.KeyStockTransfers, resource.KeyProducts, resource.KeyDashboard}

type Service interface {
	List(ctx context.Context) ([]View, error)
	Get(ctx context.Context, id int64) (View, error)
	Create(ctx context.Context, input forms.StockTransferInput) (View, error)
	Update(ctx context.Context, id int64, input forms.TransferUpdateInput) (models.StockTransfer, error)
	Delete(ctx context.Context, id int64) error
	UpdateItem(ctx context.Context, itemID int64, input forms.TransferItemInput) (models.TransferItem, error)
	DeleteItem(ctx context.Context, transferID, itemID int64) error
}

// View adds the derived labels shown in the transfers table.
type View struct {
	models.StockTransfer
	Label         string `json:"label"`
	TotalQuantity int    `json:"total_quantity"`
	Editable      bool   `json:"editable"`
}

func NewView(t models.StockTransfer, now time.Time) View {
	total := 0
	for _, item := range t.Items {
		total += item.Quantity
	}
	return View{
		StockTransfer: t,
		Label:         derived.TransferLabel(t.TransferType),
		TotalQuantity: total,
		Editable:      derived.IsEditable(t.Date.Time, now),
	}
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
	return resource.GetQuery(s.deps.Client, resource.KeyStockTransfers, transfersPath)
}

func (s *service) List(ctx context.Context) ([]View, error) {
	transfers, err := resource.Read[[]models.StockTransfer](ctx, s.deps, s.listQuery())
	if err != nil {
		return nil, err
	}
	now := s.deps.Clock()
	views := make([]View, 0, len(transfers))
	for _, t := range transfers {
		views = append(views, NewView(t, now))
	}
	return views, nil
}

func (s *service) Get(ctx context.Context, id int64) (View, error) {
	t, err := s.load(ctx, id)
	if err != nil {
		return View{}, err
	}
	return NewView(t, s.deps.Clock()), nil
}

func (s *service) load(ctx context.Context, id int64) (models.StockTransfer, error) {
	return resource.Detail[models.StockTransfer](ctx, s.deps, resource.KeyStockTransfers, transfersPath, id)
}

func (s *service) editable(id int64) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		if err := resource.RequireID(id); err != nil {
			return err
		}
		t, err := s.load(ctx, id)
		if err != nil {
			return err
		}
		if !derived.IsEditable(t.Date.Time, s.deps.Clock()) {
			return pkgerrors.New(pkgerrors.CodeForbidden, "Cannot edit a transfer older than 30 days.")
		}
		return nil
	}
}

// Create sends the transfer with its lines in one request.
func (s *service) Create(ctx context.Context, input forms.StockTransferInput) (View, error) {
	var created models.StockTransfer
	err := s.deps.Mutator.Run(ctx, resource.Mutation{
		Action: "create stock transfer",
		Input:  input,
		Do: func(ctx context.Context, data any) error {
			in := data.(forms.StockTransferInput)
			if in.Date == nil || in.Date.IsZero() {
				date := models.NewTimestamp(s.deps.Clock().UTC())
				in.Date = &date
			}
			return s.deps.Client.Post(ctx, transfersPath, in, &created)
		},
		Invalidates: dependents,
		Success:     resource.Notice{Title: "Transfer created", Description: "The stock transfer has been added successfully."},
	})
	if err != nil {
		return View{}, err
	}
	return NewView(created, s.deps.Clock()), nil
}

func (s *service) Update(ctx context.Context, id int64, input forms.TransferUpdateInput) (models.StockTransfer, error) {
	var updated models.StockTransfer
	if err := resource.RequireID(id); err != nil {
		return updated, err
	}
	err := s.deps.Mutator.Run(ctx, resource.Mutation{
		Action: "update stock transfer",
		Input:  input,
		Guard:  s.editable(id),
		Do: func(ctx context.Context, data any) error {
			return s.deps.Client.Put(ctx, fmt.Sprintf("%s/%d", transfersPath, id), data, &updated)
		},
		Invalidates: dependents,
		Success: resource.Notice{
			Title:       "Stock transfer updated",
			Description: fmt.Sprintf("Transfer #%d updated successfully", id),
		},
	})
	return updated, err
}

func (s *service) Delete(ctx context.Context, id int64) error {
	if err := resource.RequireID(id); err != nil {
		return err
	}
	return s.deps.Mutator.Run(ctx, resource.Mutation{
		Action: "delete stock transfer",
		Guard:  s.editable(id),
		Do: func(ctx context.Context, _ any) error {
			return s.deps.Client.Delete(ctx, fmt.Sprintf("%s/%d", transfersPath, id), nil)
		},
		Removes:     []querycache.Key{resource.DetailKey(resource.KeyStockTransfers, id)},
		Invalidates: dependents,
		Success:     resource.Notice{Title: "Deleted", Description: fmt.Sprintf("Stock transfer #%d deleted", id)},
	})
}

func (s *service) UpdateItem(ctx context.Context, itemID int64, input forms.TransferItemInput) (models.TransferItem, error) {
	var updated models.TransferItem
	if err := resource.RequireID(itemID); err != nil {
		return updated, err
	}
	err := s.deps.Mutator.Run(ctx, resource.Mutation{
		Action: "update stock transfer item",
		Input:  input,
		Guard:  s.editable(input.StockTransferID),
		Do: func(ctx context.Context, data any) error {
			return s.deps.Client.Put(ctx, fmt.Sprintf("%s/%d", itemsPath, itemID), data, &updated)
		},
		Invalidates: dependents,
		Success:     resource.Notice{Title: "Success", Description: "Item updated successfully."},
	})
	return updated, err
}

func (s *service) DeleteItem(ctx context.Context, transferID, itemID int64) error {
	if err := resource.RequireID(itemID); err != nil {
		return err
	}
	return s.deps.Mutator.Run(ctx, resource.Mutation{
		Action: "delete stock transfer item",
		Guard:  s.editable(transferID),
		Do: func(ctx context.Context, _ any) error {
			return s.deps.Client.Delete(ctx, fmt.Sprintf("%s/%d", itemsPath, itemID), nil)
		},
		Invalidates: dependents,
		Success:     resource.Notice{Title: "Item removed", Description: fmt.Sprintf("Item %d removed successfully", itemID)},
	})
}
