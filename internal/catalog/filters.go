package catalog

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/angelmondragon/warehouse-console/internal/derived"
	"github.com/angelmondragon/warehouse-console/pkg/enums"
	"github.com/angelmondragon/warehouse-console/pkg/models"
)

// ProductSortField names the inventory columns a list can be ordered by.
type ProductSortField string

const (
	SortByName       ProductSortField = "name"
	SortBySKU        ProductSortField = "sku"
	SortByStockLevel ProductSortField = "stock_level"
)

func ParseProductSortField(value string) (ProductSortField, error) {
	switch field := ProductSortField(strings.ToLower(strings.TrimSpace(value))); field {
	case SortByName, SortBySKU, SortByStockLevel:
		return field, nil
	}
	return "", fmt.Errorf("invalid sort field %q", value)
}

// ProductFilters narrows the inventory list. The zero value keeps every
// product ordered by name.
type ProductFilters struct {
	Query       string
	CategoryID  *int64
	StockStatus *enums.StockStatus
	SortBy      ProductSortField
	Desc        bool
}

// SearchFilters is the free-text search shared by the reference-data lists.
type SearchFilters struct {
	Query string
}

// ProductList carries the filtered products plus counters for the whole
// inventory, so the counters do not move while the user narrows the list.
type ProductList struct {
	Items   []ProductView        `json:"items"`
	Summary derived.StockSummary `json:"summary"`
}

// FilterProducts matches the search term against name and SKU, then orders
// the survivors. Equal sort keys keep their backend order.
func FilterProducts(views []ProductView, f ProductFilters) []ProductView {
	out := make([]ProductView, 0, len(views))
	for _, v := range views {
		if !derived.MatchesSearch(f.Query, v.Name, v.SKU) {
			continue
		}
		if f.CategoryID != nil && !inCategory(v.Product, *f.CategoryID) {
			continue
		}
		if f.StockStatus != nil && v.StockStatus != *f.StockStatus {
			continue
		}
		out = append(out, v)
	}

	compare := productComparator(f.SortBy)
	slices.SortStableFunc(out, func(a, b ProductView) int {
		if f.Desc {
			return compare(b, a)
		}
		return compare(a, b)
	})
	return out
}

func productComparator(field ProductSortField) func(a, b ProductView) int {
	switch field {
	case SortBySKU:
		return func(a, b ProductView) int {
			return cmp.Compare(strings.ToLower(a.SKU), strings.ToLower(b.SKU))
		}
	case SortByStockLevel:
		return func(a, b ProductView) int {
			return cmp.Compare(a.StockLevel, b.StockLevel)
		}
	default:
		return func(a, b ProductView) int {
			return cmp.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
		}
	}
}

func inCategory(p models.Product, id int64) bool {
	if p.Category != nil {
		return p.Category.ID == id
	}
	return p.CategoryID == id
}

func FilterCategories(categories []models.Category, f SearchFilters) []models.Category {
	out := make([]models.Category, 0, len(categories))
	for _, c := range categories {
		if derived.MatchesSearch(f.Query, c.Name) {
			out = append(out, c)
		}
	}
	return out
}

// FilterSuppliers searches name and address.
func FilterSuppliers(suppliers []models.Supplier, f SearchFilters) []models.Supplier {
	out := make([]models.Supplier, 0, len(suppliers))
	for _, s := range suppliers {
		if derived.MatchesSearch(f.Query, s.Name, s.Address) {
			out = append(out, s)
		}
	}
	return out
}
