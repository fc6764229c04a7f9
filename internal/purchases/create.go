package purchases

import (
	"context"
	"fmt"

	"github.com/angelmondragon/warehouse-console/internal/derived"
	"github.com/angelmondragon/warehouse-console/internal/forms"
	"github.com/angelmondragon/warehouse-console/internal/resource"
	"github.com/angelmondragon/warehouse-console/pkg/models"
	"github.com/shopspring/decimal"
)

// StepError reports which step of CreateWithItems failed. PurchaseID is zero
// when the purchase itself could not be created.
type StepError struct {
	Step       string
	PurchaseID int64
	Err        error
}

func (e *StepError) Error() string {
	if e.PurchaseID == 0 {
		return fmt.Sprintf("create purchase: %s: %v", e.Step, e.Err)
	}
	return fmt.Sprintf("create purchase #%d: %s: %v", e.PurchaseID, e.Step, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// Describe shows the failing step's own error, as a single notice.
func (e *StepError) Describe() string {
	return resource.Describe(e.Err)
}

// ErrorDetails names the failing step for API error envelopes.
func (e *StepError) ErrorDetails() any {
	details := map[string]any{"step": e.Step}
	if e.PurchaseID != 0 {
		details["purchase_id"] = e.PurchaseID
	}
	return details
}

type purchaseBody struct {
	SupplierID   int64            `json:"supplier_id"`
	PurchaseDate models.Timestamp `json:"purchase_date"`
	Notes        string           `json:"notes,omitempty"`
	TotalCost    decimal.Decimal  `json:"total_cost"`
}

func (s *service) CreateWithItems(ctx context.Context, input forms.PurchaseInput) (View, error) {
	var (
		created models.Purchase
		items   []models.PurchaseItem
	)
	err := s.deps.Mutator.Run(ctx, resource.Mutation{
		Action: "create purchase",
		Input:  input,
		Do: func(ctx context.Context, data any) error {
			in := data.(forms.PurchaseInput)
			if err := s.deps.Client.Post(ctx, purchasesPath, s.body(in), &created); err != nil {
				return &StepError{Step: "purchase", Err: err}
			}
			for i, line := range in.Items {
				var item models.PurchaseItem
				body := forms.PurchaseItemInput{
					PurchaseID: created.ID,
					ProductID:  line.ProductID,
					Quantity:   line.Quantity,
					UnitCost:   line.UnitCost,
				}
				if err := s.deps.Client.Post(ctx, itemsPath, body, &item); err != nil {
					// The purchase exists now even though the sequence stopped.
					s.deps.Mutator.Invalidate(ctx, dependents...)
					return &StepError{Step: fmt.Sprintf("item %d", i+1), PurchaseID: created.ID, Err: err}
				}
				items = append(items, item)
			}
			return nil
		},
		Invalidates: dependents,
		Success:     resource.Notice{Title: "Success", Description: "Purchase added successfully"},
	})
	if err != nil {
		return View{}, err
	}
	created.Items = items
	return NewView(created, s.deps.Clock()), nil
}

// body fills in the date and, when the form left it out, the total.
func (s *service) body(in forms.PurchaseInput) purchaseBody {
	date := s.deps.Clock().UTC()
	if in.PurchaseDate != nil && !in.PurchaseDate.IsZero() {
		date = in.PurchaseDate.Time
	}
	total := derived.TotalCost(lineItems(in.Items))
	if in.TotalCost != nil {
		total = *in.TotalCost
	}
	return purchaseBody{
		SupplierID:   in.SupplierID,
		PurchaseDate: models.NewTimestamp(date),
		Notes:        in.Notes,
		TotalCost:    total,
	}
}

func lineItems(lines []forms.PurchaseLineInput) []models.PurchaseItem {
	items := make([]models.PurchaseItem, 0, len(lines))
	for _, line := range lines {
		items = append(items, models.PurchaseItem{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			UnitCost:  line.UnitCost,
		})
	}
	return items
}
