package controllers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/angelmondragon/warehouse-console/internal/catalog"
	"github.com/angelmondragon/warehouse-console/pkg/enums"
	pkgerrors "github.com/angelmondragon/warehouse-console/pkg/errors"
)

func searchQuery(r *http.Request) string {
	return strings.TrimSpace(r.URL.Query().Get("q"))
}

func buildProductFilters(r *http.Request) (catalog.ProductFilters, error) {
	query := r.URL.Query()
	filters := catalog.ProductFilters{Query: searchQuery(r)}

	if raw := strings.TrimSpace(query.Get("category_id")); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			return filters, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid category_id %q", raw))
		}
		filters.CategoryID = &id
	}

	if raw := strings.TrimSpace(query.Get("stock_status")); raw != "" {
		status, err := enums.ParseStockStatus(raw)
		if err != nil {
			return filters, pkgerrors.Wrap(pkgerrors.CodeValidation, err, fmt.Sprintf("invalid stock_status %q", raw))
		}
		filters.StockStatus = &status
	}

	if raw := strings.TrimSpace(query.Get("sort")); raw != "" {
		field, err := catalog.ParseProductSortField(raw)
		if err != nil {
			return filters, pkgerrors.Wrap(pkgerrors.CodeValidation, err, fmt.Sprintf("invalid sort %q", raw))
		}
		filters.SortBy = field
	}

	switch raw := strings.ToLower(strings.TrimSpace(query.Get("order"))); raw {
	case "", "asc":
	case "desc":
		filters.Desc = true
	default:
		return filters, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid order %q", raw))
	}
	return filters, nil
}
