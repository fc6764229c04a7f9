package resource

import (
	"context"
	"fmt"
	"time"

	"github.com/angelmondragon/warehouse-console/pkg/apiclient"
	pkgerrors "github.com/angelmondragon/warehouse-console/pkg/errors"
	"github.com/angelmondragon/warehouse-console/pkg/querycache"
)

// Cache keys shared across entity services. Mutations invalidate by prefix,
// so KeyPurchases also covers KeyPurchases + id.
var (
	KeyProducts           = querycache.K("products")
	KeyCategories         = querycache.K("categories")
	KeySuppliers          = querycache.K("suppliers")
	KeyPurchases          = querycache.K("purchases")
	KeyStockTransfers     = querycache.K("stock_transfers")
	KeyBusinessLocations  = querycache.K("business_locations")
	KeyMovements          = querycache.K("movements")
	KeyDashboard          = querycache.K("dashboard")
	KeyDashboardSummary   = querycache.K("dashboard", "summary")
	KeyDashboardMovements = querycache.K("dashboard", "movements")
)

// DetailKey is the cache key of a single record under a list key.
func DetailKey(list querycache.Key, id int64) querycache.Key {
	return querycache.K(append(append([]string(nil), list...), fmt.Sprint(id))...)
}

// Deps bundles what every entity service needs.
type Deps struct {
	Client   *apiclient.Client
	Cache    *querycache.Cache
	Mutator  *Mutator
	Registry *Registry
	Now      func() time.Time
}

func (d Deps) Validate() error {
	switch {
	case d.Client == nil:
		return fmt.Errorf("api client required")
	case d.Cache == nil:
		return fmt.Errorf("cache required")
	case d.Mutator == nil:
		return fmt.Errorf("mutator required")
	case d.Registry == nil:
		return fmt.Errorf("registry required")
	}
	return nil
}

func (d Deps) Clock() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

// Read serves q through the cache and decodes the result.
func Read[T any](ctx context.Context, d Deps, q Query) (T, error) {
	return querycache.ReadJSON[T](ctx, d.Cache, q.Key, q.Fetch)
}

// Detail reads one record at path, cached under DetailKey(list, id).
func Detail[T any](ctx context.Context, d Deps, list querycache.Key, path string, id int64) (T, error) {
	if err := RequireID(id); err != nil {
		var zero T
		return zero, err
	}
	return Read[T](ctx, d, GetQuery(d.Client, DetailKey(list, id), fmt.Sprintf("%s/%d", path, id)))
}

// RequireID rejects ids that cannot name a stored record.
func RequireID(id int64) error {
	if id <= 0 {
		return pkgerrors.Newf(pkgerrors.CodeValidation, "invalid id %d", id).WithDetails(map[string]string{"id": "must be a positive integer"})
	}
	return nil
}
