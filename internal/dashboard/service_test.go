package dashboard

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/angelmondragon/warehouse-console/internal/resource"
	"github.com/angelmondragon/warehouse-console/internal/resource/resourcetest"
	"github.com/angelmondragon/warehouse-console/pkg/enums"
	"github.com/angelmondragon/warehouse-console/pkg/querycache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestService(t *testing.T, backend *resourcetest.Backend) (Service, *resourcetest.Env) {
	t.Helper()
	env := resourcetest.New(t, backend, now)
	svc, err := NewService(env.Deps)
	require.NoError(t, err)
	return svc, env
}

func product(id, level int) map[string]any {
	return map[string]any{"id": id, "name": "p", "sku": "s", "stock_level": level}
}

func TestSummaryView(t *testing.T) {
	backend := resourcetest.NewBackend()
	backend.JSON(http.MethodGet, "/dashboard/summary", http.StatusOK, map[string]any{
		"total_items":          9,
		"total_stock":          120,
		"low_stock_count":      4,
		"out_of_stock_count":   1,
		"inventory_value":      "1234.5",
		"total_purchase_value": 10000,
		"low_stock_items":      []map[string]any{product(1, 0), product(2, 3), product(3, 5)},
		"in_stock_items":       []map[string]any{product(4, 10), product(5, 11), product(6, 12)},
		"out_of_stock_items":   []map[string]any{product(1, 0)},
		"recent_purchases": []map[string]any{
			{"id": 1, "purchase_date": now.Add(-5 * time.Hour).Format(time.RFC3339), "total_cost": 0,
				"items": []map[string]any{{"quantity": 2, "unit_cost": "25"}}},
		},
		"recent_transfers": []map[string]any{
			{"id": 2, "transfer_type": "IN", "notes": "returns", "date": now.Add(-30 * time.Minute).Format(time.RFC3339)},
		},
		"supplier_spending_trends": []map[string]any{
			{"supplier_id": 7, "supplier_name": "Acme", "total_spent": "5000"},
			{"supplier_id": 8, "supplier_name": "Bolt", "total_spent": "2500.75"},
		},
	})
	svc, _ := newTestService(t, backend)

	view, err := svc.Summary(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 9, view.TotalItems)
	assert.Equal(t, "KES 1,234.50", view.InventoryValue)
	assert.Equal(t, "KES 10,000.00", view.TotalPurchaseValue)

	require.Len(t, view.StockHighlights, 5)
	assert.Equal(t, enums.StockStatusOutOfStock, view.StockHighlights[0].StockStatus)
	assert.Equal(t, enums.StockStatusLowStock, view.StockHighlights[2].StockStatus)
	assert.Equal(t, enums.StockStatusInStock, view.StockHighlights[3].StockStatus)

	require.Len(t, view.RecentPurchases, 1)
	assert.Equal(t, "No notes", view.RecentPurchases[0].Notes)
	assert.Equal(t, "KES 50.00", view.RecentPurchases[0].Amount)
	assert.Equal(t, "5 hours ago", view.RecentPurchases[0].TimeAgo)

	require.Len(t, view.RecentTransfers, 1)
	assert.Equal(t, "Transfer In", view.RecentTransfers[0].Label)
	assert.Equal(t, "Just now", view.RecentTransfers[0].TimeAgo)

	require.Len(t, view.SupplierSpending, 2)
	assert.Equal(t, 2, view.SupplierSpending[1].Rank)
	assert.Equal(t, "KES 2,500.75", view.SupplierSpending[1].TotalLabel)
}

func TestMovementsFillsPlaceholders(t *testing.T) {
	backend := resourcetest.NewBackend()
	backend.JSON(http.MethodGet, "/dashboard/movements", http.StatusOK, []map[string]any{
		{"id": 1, "type": "purchase", "quantity": 4, "date": now.Add(-49 * time.Hour).Format(time.RFC3339), "source_or_destination": "Acme"},
		{"id": 2, "type": "transfer", "quantity": 1, "date": now.Add(2 * time.Hour).Format(time.RFC3339)},
	})
	svc, _ := newTestService(t, backend)

	views, err := svc.Movements(context.Background())
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, "Acme", views[0].SourceOrDestination)
	assert.Equal(t, "-", views[0].Notes)
	assert.Equal(t, "2 days ago", views[0].TimeAgo)
	assert.Equal(t, "-", views[1].SourceOrDestination)
	assert.Empty(t, views[1].TimeAgo, "future dates are left unlabelled")
}

func TestSummaryRefetchedAfterDashboardInvalidation(t *testing.T) {
	backend := resourcetest.NewBackend()
	backend.JSON(http.MethodGet, "/dashboard/summary", http.StatusOK, map[string]any{"total_items": 1})
	backend.JSON(http.MethodPost, "/noop", http.StatusOK, map[string]any{})
	svc, env := newTestService(t, backend)

	_, err := svc.Summary(context.Background())
	require.NoError(t, err)

	err = env.Deps.Mutator.Run(context.Background(), resource.Mutation{
		Action: "noop",
		Do: func(ctx context.Context, _ any) error {
			return env.Deps.Client.Post(ctx, "/noop", map[string]any{}, nil)
		},
		Invalidates: []querycache.Key{resource.KeyDashboard},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, backend.Count(http.MethodGet, "/dashboard/summary"))
	assert.Zero(t, backend.Count(http.MethodGet, "/dashboard/movements"), "uncached queries are not refetched")
}
