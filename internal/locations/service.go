package locations

import (
	"context"
	"fmt"

	"github.com/angelmondragon/warehouse-console/internal/derived"
	"github.com/angelmondragon/warehouse-console/internal/forms"
	"github.com/angelmondragon/warehouse-console/internal/resource"
	pkgerrors "github.com/angelmondragon/warehouse-console/pkg/errors"
	"github.com/angelmondragon/warehouse-console/pkg/models"
	"github.com/angelmondragon/warehouse-console/pkg/querycache"
)

const locationsPath = "/business_locations"

// Transfers and movements both display the location name.
var dependents = []querycache.Key{resource.KeyBusinessLocations, resource.KeyStockTransfers, resource.KeyMovements}

// Service manages business locations. Locations are never removed: a
// location is deactivated first and then marked deleted.
type Service interface {
	List(ctx context.Context, filters Filters) ([]models.BusinessLocation, error)
	Get(ctx context.Context, id int64) (models.BusinessLocation, error)
	Create(ctx context.Context, input forms.BusinessLocationInput) (models.BusinessLocation, error)
	Update(ctx context.Context, id int64, input forms.BusinessLocationInput) (models.BusinessLocation, error)
	ToggleActive(ctx context.Context, id int64) (models.ToggleActiveResponse, error)
	SoftDelete(ctx context.Context, id int64) (models.SoftDeleteResponse, error)
}

// Filters searches location name and address.
type Filters struct {
	Query string
}

func Filter(list []models.BusinessLocation, f Filters) []models.BusinessLocation {
	out := make([]models.BusinessLocation, 0, len(list))
	for _, l := range list {
		if derived.MatchesSearch(f.Query, l.Name, l.Address) {
			out = append(out, l)
		}
	}
	return out
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
	return resource.GetQuery(s.deps.Client, resource.KeyBusinessLocations, locationsPath)
}

func (s *service) List(ctx context.Context, filters Filters) ([]models.BusinessLocation, error) {
	list, err := resource.Read[[]models.BusinessLocation](ctx, s.deps, s.listQuery())
	if err != nil {
		return nil, err
	}
	return Filter(list, filters), nil
}

func (s *service) Get(ctx context.Context, id int64) (models.BusinessLocation, error) {
	return resource.Detail[models.BusinessLocation](ctx, s.deps, resource.KeyBusinessLocations, locationsPath, id)
}

func (s *service) Create(ctx context.Context, input forms.BusinessLocationInput) (models.BusinessLocation, error) {
	var created models.BusinessLocation
	err := s.deps.Mutator.Run(ctx, resource.Mutation{
		Action: "create business location",
		Input:  input,
		Do: func(ctx context.Context, data any) error {
			return s.deps.Client.Post(ctx, locationsPath, data, &created)
		},
		Invalidates: dependents,
		Success:     resource.Notice{Title: "Success", Description: "Business added successfully"},
	})
	return created, err
}

func (s *service) Update(ctx context.Context, id int64, input forms.BusinessLocationInput) (models.BusinessLocation, error) {
	var updated models.BusinessLocation
	if err := resource.RequireID(id); err != nil {
		return updated, err
	}
	err := s.deps.Mutator.Run(ctx, resource.Mutation{
		Action: "update business location",
		Input:  input,
		Do: func(ctx context.Context, data any) error {
			return s.deps.Client.Put(ctx, fmt.Sprintf("%s/%d", locationsPath, id), data, &updated)
		},
		Invalidates: dependents,
		Success:     resource.Notice{Title: "Success", Description: "Business updated successfully"},
	})
	return updated, err
}

func (s *service) ToggleActive(ctx context.Context, id int64) (models.ToggleActiveResponse, error) {
	var resp models.ToggleActiveResponse
	if err := resource.RequireID(id); err != nil {
		return resp, err
	}
	err := s.deps.Mutator.Run(ctx, resource.Mutation{
		Action: "toggle business location",
		Do: func(ctx context.Context, _ any) error {
			return s.deps.Client.Patch(ctx, fmt.Sprintf("%s/%d/toggle_active", locationsPath, id), nil, &resp)
		},
		Invalidates: dependents,
		SuccessFunc: func() resource.Notice {
			state := "inactive"
			if resp.IsActive {
				state = "active"
			}
			return resource.Notice{Title: "Success", Description: fmt.Sprintf("Business #%d is now %s", id, state)}
		},
	})
	return resp, err
}

// SoftDelete is only allowed for locations that are inactive and not
// already deleted; anything else is refused before a request is made.
func (s *service) SoftDelete(ctx context.Context, id int64) (models.SoftDeleteResponse, error) {
	var resp models.SoftDeleteResponse
	if err := resource.RequireID(id); err != nil {
		return resp, err
	}
	err := s.deps.Mutator.Run(ctx, resource.Mutation{
		Action: "soft delete business location",
		Guard: func(ctx context.Context) error {
			location, err := s.Get(ctx, id)
			if err != nil {
				return err
			}
			return deletable(location)
		},
		Do: func(ctx context.Context, _ any) error {
			return s.deps.Client.Patch(ctx, fmt.Sprintf("%s/%d/delete", locationsPath, id), nil, &resp)
		},
		Invalidates: dependents,
		Success: resource.Notice{
			Title:       "Business Deleted",
			Description: fmt.Sprintf("Business #%d has been marked as deleted.", id),
		},
	})
	return resp, err
}

func deletable(location models.BusinessLocation) error {
	if location.Deletable() {
		return nil
	}
	msg := "Deactivate the business before deleting it."
	if location.IsDeleted {
		msg = "Business has already been deleted."
	}
	return pkgerrors.New(pkgerrors.CodeStateConflict, msg).WithDetails(map[string]bool{
		"is_active":  location.IsActive,
		"is_deleted": location.IsDeleted,
	})
}
