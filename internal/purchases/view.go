package purchases

import (
	"time"

	"github.com/angelmondragon/warehouse-console/internal/derived"
	"github.com/angelmondragon/warehouse-console/pkg/models"
	"github.com/shopspring/decimal"
)

// View is a purchase as the console shows it. Items shadows the embedded
// field so each line carries its subtotal.
type View struct {
	models.Purchase
	Items        []LineView      `json:"items"`
	DisplayTotal decimal.Decimal `json:"display_total"`
	TotalLabel   string          `json:"total_label"`
	Editable     bool            `json:"editable"`
}

type LineView struct {
	models.PurchaseItem
	Subtotal decimal.Decimal `json:"subtotal"`
}

func NewView(p models.Purchase, now time.Time) View {
	total := derived.DisplayTotal(p)
	lines := make([]LineView, 0, len(p.Items))
	for _, item := range p.Items {
		lines = append(lines, LineView{
			PurchaseItem: item,
			Subtotal:     derived.LineSubtotal(item.Quantity, item.UnitCost),
		})
	}
	return View{
		Purchase:     p,
		Items:        lines,
		DisplayTotal: total,
		TotalLabel:   derived.FormatCurrency(total),
		Editable:     derived.IsEditable(p.PurchaseDate.Time, now),
	}
}
