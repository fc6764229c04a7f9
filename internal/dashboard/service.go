package dashboard

import (
	"context"
	"time"

	"github.com/angelmondragon/warehouse-console/internal/catalog"
	"github.com/angelmondragon/warehouse-console/internal/derived"
	"github.com/angelmondragon/warehouse-console/internal/resource"
	"github.com/angelmondragon/warehouse-console/pkg/models"
	"github.com/shopspring/decimal"
)

const (
	summaryPath   = "/dashboard/summary"
	movementsPath = "/dashboard/movements"

	// highlightLimit caps the inventory status card.
	highlightLimit = 5
)

type Service interface {
	Summary(ctx context.Context) (SummaryView, error)
	Movements(ctx context.Context) ([]MovementView, error)
}

type SummaryView struct {
	TotalItems         int    `json:"total_items"`
	TotalStock         int    `json:"total_stock"`
	LowStockCount      int    `json:"low_stock_count"`
	OutOfStockCount    int    `json:"out_of_stock_count"`
	InventoryValue     string `json:"inventory_value"`
	TotalPurchaseValue string `json:"total_purchase_value"`

	// StockHighlights lists low stock items first, then in-stock ones.
	StockHighlights  []catalog.ProductView `json:"stock_highlights"`
	OutOfStockItems  []catalog.ProductView `json:"out_of_stock_items"`
	RecentPurchases  []ActivityView        `json:"recent_purchases"`
	RecentTransfers  []ActivityView        `json:"recent_transfers"`
	SupplierSpending []SpendingView        `json:"supplier_spending_trends"`
}

// ActivityView is one line of the recent activity cards.
type ActivityView struct {
	ID      int64  `json:"id"`
	Notes   string `json:"notes"`
	Label   string `json:"label,omitempty"`
	Amount  string `json:"amount,omitempty"`
	TimeAgo string `json:"time_ago,omitempty"`
}

type SpendingView struct {
	Rank         int             `json:"rank"`
	SupplierID   int64           `json:"supplier_id"`
	SupplierName string          `json:"supplier_name"`
	TotalSpent   decimal.Decimal `json:"total_spent"`
	TotalLabel   string          `json:"total_label"`
}

type MovementView struct {
	models.DashboardMovement
	SourceOrDestination string `json:"source_or_destination"`
	Notes               string `json:"notes"`
	TimeAgo             string `json:"time_ago,omitempty"`
}

type service struct {
	deps resource.Deps
}

func NewService(deps resource.Deps) (Service, error) {
	if err := deps.Validate(); err != nil {
		return nil, err
	}
	svc := &service{deps: deps}
	deps.Registry.Register(svc.summaryQuery())
	deps.Registry.Register(svc.movementsQuery())
	return svc, nil
}

func (s *service) summaryQuery() resource.Query {
	return resource.GetQuery(s.deps.Client, resource.KeyDashboardSummary, summaryPath)
}

func (s *service) movementsQuery() resource.Query {
	return resource.GetQuery(s.deps.Client, resource.KeyDashboardMovements, movementsPath)
}

func (s *service) Summary(ctx context.Context) (SummaryView, error) {
	summary, err := resource.Read[models.DashboardSummary](ctx, s.deps, s.summaryQuery())
	if err != nil {
		return SummaryView{}, err
	}
	return NewSummaryView(summary, s.deps.Clock()), nil
}

func NewSummaryView(summary models.DashboardSummary, now time.Time) SummaryView {
	view := SummaryView{
		TotalItems:         summary.TotalItems,
		TotalStock:         summary.TotalStock,
		LowStockCount:      summary.LowStockCount,
		OutOfStockCount:    summary.OutOfStockCount,
		InventoryValue:     derived.FormatCurrency(summary.InventoryValue),
		TotalPurchaseValue: derived.FormatCurrency(summary.TotalPurchaseValue),
		StockHighlights:    []catalog.ProductView{},
		OutOfStockItems:    make([]catalog.ProductView, 0, len(summary.OutOfStockItems)),
		RecentPurchases:    make([]ActivityView, 0, len(summary.RecentPurchases)),
		RecentTransfers:    make([]ActivityView, 0, len(summary.RecentTransfers)),
		SupplierSpending:   make([]SpendingView, 0, len(summary.SupplierSpendingTrends)),
	}

	for _, p := range append(append([]models.Product(nil), summary.LowStockItems...), summary.InStockItems...) {
		if len(view.StockHighlights) == highlightLimit {
			break
		}
		view.StockHighlights = append(view.StockHighlights, catalog.NewProductView(p))
	}
	for _, p := range summary.OutOfStockItems {
		view.OutOfStockItems = append(view.OutOfStockItems, catalog.NewProductView(p))
	}
	for _, p := range summary.RecentPurchases {
		view.RecentPurchases = append(view.RecentPurchases, ActivityView{
			ID:      p.ID,
			Notes:   notesOr(p.Notes, "No notes"),
			Amount:  derived.FormatCurrency(derived.DisplayTotal(p)),
			TimeAgo: timeAgo(p.PurchaseDate, now),
		})
	}
	for _, t := range summary.RecentTransfers {
		view.RecentTransfers = append(view.RecentTransfers, ActivityView{
			ID:      t.ID,
			Notes:   notesOr(t.Notes, "No notes"),
			Label:   derived.TransferLabel(t.TransferType),
			TimeAgo: timeAgo(t.Date, now),
		})
	}
	for i, spend := range summary.SupplierSpendingTrends {
		view.SupplierSpending = append(view.SupplierSpending, SpendingView{
			Rank:         i + 1,
			SupplierID:   spend.SupplierID,
			SupplierName: spend.SupplierName,
			TotalSpent:   spend.TotalSpent,
			TotalLabel:   derived.FormatCurrency(spend.TotalSpent),
		})
	}
	return view
}

func (s *service) Movements(ctx context.Context) ([]MovementView, error) {
	movements, err := resource.Read[[]models.DashboardMovement](ctx, s.deps, s.movementsQuery())
	if err != nil {
		return nil, err
	}
	now := s.deps.Clock()
	views := make([]MovementView, 0, len(movements))
	for _, m := range movements {
		views = append(views, MovementView{
			DashboardMovement:   m,
			SourceOrDestination: notesOr(m.SourceOrDestination, "-"),
			Notes:               notesOr(m.Notes, "-"),
			TimeAgo:             timeAgo(m.Date, now),
		})
	}
	return views, nil
}

func notesOr(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

// timeAgo leaves undated and future records unlabelled.
func timeAgo(ts models.Timestamp, now time.Time) string {
	if ts.IsZero() {
		return ""
	}
	label, err := derived.FormatTimeAgo(ts.Time, now)
	if err != nil {
		return ""
	}
	return label
}
