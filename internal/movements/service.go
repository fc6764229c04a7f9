package movements

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/angelmondragon/warehouse-console/internal/derived"
	"github.com/angelmondragon/warehouse-console/internal/forms"
	"github.com/angelmondragon/warehouse-console/internal/resource"
	"github.com/angelmondragon/warehouse-console/pkg/models"
	"github.com/angelmondragon/warehouse-console/pkg/querycache"
	"golang.org/x/sync/errgroup"
)

const movementsPath = "/movements"

var dependents = []querycache.Key{resource.KeyMovements, resource.KeyProducts, resource.KeyDashboard}

type Service interface {
	List(ctx context.Context) ([]View, error)
	Create(ctx context.Context, input forms.MovementInput) (models.Movement, error)
}

// View resolves the product and business a movement refers to.
type View struct {
	models.Movement
	TypeLabel    string `json:"type_label"`
	ProductName  string `json:"product_name"`
	BusinessName string `json:"business_name"`

	// TimeAgo is empty for undated movements and dates after now.
	TimeAgo string `json:"time_ago,omitempty"`
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
	return resource.GetQuery(s.deps.Client, resource.KeyMovements, movementsPath)
}

func (s *service) List(ctx context.Context) ([]View, error) {
	var (
		movements []models.Movement
		products  []models.Product
		locations []models.BusinessLocation
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		movements, err = resource.Read[[]models.Movement](gctx, s.deps, s.listQuery())
		return err
	})
	g.Go(func() (err error) {
		products, err = resource.Read[[]models.Product](gctx, s.deps, resource.GetQuery(s.deps.Client, resource.KeyProducts, "/products"))
		return err
	})
	g.Go(func() (err error) {
		locations, err = resource.Read[[]models.BusinessLocation](gctx, s.deps, resource.GetQuery(s.deps.Client, resource.KeyBusinessLocations, "/business_locations"))
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	productNames := make(map[int64]string, len(products))
	for _, p := range products {
		productNames[p.ID] = fmt.Sprintf("%s (%s)", p.Name, p.SKU)
	}
	locationNames := make(map[int64]string, len(locations))
	for _, l := range locations {
		locationNames[l.ID] = l.Name
	}

	now := s.deps.Clock()
	views := make([]View, 0, len(movements))
	for _, m := range movements {
		views = append(views, newView(m, productNames, locationNames, now))
	}
	SortNewestFirst(views)
	return views, nil
}

// SortNewestFirst orders by movement date, latest first. Undated movements
// sink to the end and ties keep their backend order.
func SortNewestFirst(views []View) {
	slices.SortStableFunc(views, func(a, b View) int {
		return b.MovementDate.Time.Compare(a.MovementDate.Time)
	})
}

func newView(m models.Movement, products, locations map[int64]string, now time.Time) View {
	view := View{
		Movement:     m,
		TypeLabel:    m.Type.Label(),
		ProductName:  "Unknown Item",
		BusinessName: "N/A",
	}
	if name, ok := products[m.ProductID]; ok {
		view.ProductName = name
	}
	if m.BusinessID != nil {
		view.BusinessName = "Unknown Business"
		if name, ok := locations[*m.BusinessID]; ok && name != "" {
			view.BusinessName = name
		}
	}
	if !m.MovementDate.IsZero() {
		if label, err := derived.FormatTimeAgo(m.MovementDate.Time, now); err == nil {
			view.TimeAgo = label
		}
	}
	return view
}

func (s *service) Create(ctx context.Context, input forms.MovementInput) (models.Movement, error) {
	var created models.Movement
	err := s.deps.Mutator.Run(ctx, resource.Mutation{
		Action: "record movement",
		Input:  input,
		Do: func(ctx context.Context, data any) error {
			in := data.(forms.MovementInput)
			if in.MovementDate == nil || in.MovementDate.IsZero() {
				date := models.NewTimestamp(s.deps.Clock().UTC())
				in.MovementDate = &date
			}
			return s.deps.Client.Post(ctx, movementsPath, in, &created)
		},
		Invalidates: dependents,
		Success:     resource.Notice{Title: "Success", Description: "Movement recorded successfully"},
	})
	return created, err
}
