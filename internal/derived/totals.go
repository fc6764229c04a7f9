package derived

import (
	"github.com/angelmondragon/warehouse-console/pkg/models"
	"github.com/shopspring/decimal"
)

const moneyPlaces = 2

// LineSubtotal is quantity × unit cost rounded to cents.
func LineSubtotal(quantity int, unitCost decimal.Decimal) decimal.Decimal {
	return unitCost.Mul(decimal.NewFromInt(int64(quantity))).Round(moneyPlaces)
}

// TotalCost sums the rounded line subtotals.
func TotalCost(items []models.PurchaseItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(LineSubtotal(item.Quantity, item.UnitCost))
	}
	return total.Round(moneyPlaces)
}

// DisplayTotal prefers the server's total_cost only when it is present and
// positive. A server total of exactly zero is treated as missing and replaced
// by the computed sum.
func DisplayTotal(purchase models.Purchase) decimal.Decimal {
	if purchase.TotalCost.Valid && purchase.TotalCost.Decimal.IsPositive() {
		return purchase.TotalCost.Decimal
	}
	return TotalCost(purchase.Items)
}
