package derived

import (
	"github.com/angelmondragon/warehouse-console/pkg/enums"
	"github.com/angelmondragon/warehouse-console/pkg/models"
)

// LowStockThreshold is the highest level still reported as low stock.
const LowStockThreshold = 5

func StockStatus(level int) enums.StockStatus {
	switch {
	case level <= 0:
		return enums.StockStatusOutOfStock
	case level <= LowStockThreshold:
		return enums.StockStatusLowStock
	default:
		return enums.StockStatusInStock
	}
}

// StockSummary mirrors the counters on the dashboard summary.
type StockSummary struct {
	TotalItems      int `json:"total_items"`
	TotalStock      int `json:"total_stock"`
	LowStockCount   int `json:"low_stock_count"`
	OutOfStockCount int `json:"out_of_stock_count"`
	InStockCount    int `json:"in_stock_count"`
}

// SummarizeStock counts products the way the backend summary does: low stock
// includes items that are out of stock.
func SummarizeStock(products []models.Product) StockSummary {
	summary := StockSummary{TotalItems: len(products)}
	for _, p := range products {
		summary.TotalStock += p.StockLevel
		if p.StockLevel <= LowStockThreshold {
			summary.LowStockCount++
		}
		if p.StockLevel == 0 {
			summary.OutOfStockCount++
		}
		if StockStatus(p.StockLevel) == enums.StockStatusInStock {
			summary.InStockCount++
		}
	}
	return summary
}
