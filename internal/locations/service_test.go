package locations

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/angelmondragon/warehouse-console/internal/forms"
	"github.com/angelmondragon/warehouse-console/internal/resource/resourcetest"
	"github.com/angelmondragon/warehouse-console/pkg/enums"
	pkgerrors "github.com/angelmondragon/warehouse-console/pkg/errors"
	"github.com/angelmondragon/warehouse-console/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T, backend *resourcetest.Backend) (Service, *resourcetest.Env) {
	t.Helper()
	env := resourcetest.New(t, backend, time.Time{})
	svc, err := NewService(env.Deps)
	require.NoError(t, err)
	return svc, env
}

func TestSoftDeleteGuard(t *testing.T) {
	cases := []struct {
		name     string
		active   bool
		deleted  bool
		allowed  bool
		contains string
	}{
		{name: "inactive", active: false, deleted: false, allowed: true},
		{name: "active", active: true, deleted: false, contains: "Deactivate"},
		{name: "already deleted", active: false, deleted: true, contains: "already been deleted"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			backend := resourcetest.NewBackend()
			backend.JSON(http.MethodGet, "/business_locations/4", http.StatusOK, map[string]any{
				"id": 4, "name": "Downtown", "is_active": tc.active, "is_deleted": tc.deleted,
			})
			backend.JSON(http.MethodPatch, "/business_locations/4/delete", http.StatusOK, map[string]any{
				"message": "Business location #4 has been deleted.", "is_deleted": true,
			})
			svc, env := newTestService(t, backend)

			resp, err := svc.SoftDelete(context.Background(), 4)
			if tc.allowed {
				require.NoError(t, err)
				assert.True(t, resp.IsDeleted)
				assert.Equal(t, 1, backend.Count(http.MethodPatch, "/business_locations/4/delete"))
				return
			}
			require.Error(t, err)
			assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeStateConflict))
			assert.Contains(t, err.Error(), tc.contains)
			assert.Zero(t, backend.Count(http.MethodPatch, "/business_locations/4/delete"))
			notices := env.Notices.All()
			require.Len(t, notices, 1)
			assert.Equal(t, enums.NoticeVariantDestructive, notices[0].Variant)
		})
	}
}

func TestToggleActiveNoticeReflectsNewState(t *testing.T) {
	backend := resourcetest.NewBackend()
	backend.JSON(http.MethodPatch, "/business_locations/4/toggle_active", http.StatusOK, map[string]any{
		"message":   "Business location #4 has been deactivated.",
		"is_active": false,
		"location":  map[string]any{"id": 4, "name": "Downtown", "is_active": false},
	})
	svc, env := newTestService(t, backend)

	resp, err := svc.ToggleActive(context.Background(), 4)
	require.NoError(t, err)
	assert.False(t, resp.IsActive)
	assert.Equal(t, "Downtown", resp.Location.Name)

	notices := env.Notices.All()
	require.Len(t, notices, 1)
	assert.Equal(t, "Business #4 is now inactive", notices[0].Description)
}

func TestToggleThenDeleteSeesFreshState(t *testing.T) {
	backend := resourcetest.NewBackend()
	active := true
	backend.Handle(http.MethodGet, "/business_locations/4", func(w http.ResponseWriter, _ *http.Request) {
		writeLocation(w, models.BusinessLocation{ID: 4, Name: "Downtown", IsActive: active})
	})
	backend.Handle(http.MethodPatch, "/business_locations/4/toggle_active", func(w http.ResponseWriter, _ *http.Request) {
		active = !active
		writeLocation(w, models.ToggleActiveResponse{IsActive: active})
	})
	backend.JSON(http.MethodPatch, "/business_locations/4/delete", http.StatusOK, map[string]any{"is_deleted": true})
	svc, _ := newTestService(t, backend)

	_, err := svc.SoftDelete(context.Background(), 4)
	require.Error(t, err, "active location cannot be deleted")

	_, err = svc.ToggleActive(context.Background(), 4)
	require.NoError(t, err)

	_, err = svc.SoftDelete(context.Background(), 4)
	require.NoError(t, err, "toggle must invalidate the cached detail")
	assert.Equal(t, 2, backend.Count(http.MethodGet, "/business_locations/4"))
}

func TestCreateDefaultsActive(t *testing.T) {
	backend := resourcetest.NewBackend()
	backend.JSON(http.MethodPost, "/business_locations", http.StatusCreated, map[string]any{"id": 1, "name": "Kiosk", "is_active": true})
	svc, _ := newTestService(t, backend)

	_, err := svc.Create(context.Background(), forms.BusinessLocationInput{Name: "Kiosk", Address: "Moi Avenue 12"})
	require.NoError(t, err)
	requests := backend.Requests()
	require.Len(t, requests, 1)
	assert.Equal(t, true, requests[0].Body["is_active"])
}

func TestCreateRejectsShortAddress(t *testing.T) {
	backend := resourcetest.NewBackend()
	svc, _ := newTestService(t, backend)

	_, err := svc.Create(context.Background(), forms.BusinessLocationInput{Name: "Kiosk", Address: "Moi"})
	require.Error(t, err)
	details, ok := pkgerrors.As(err).Details().(map[string]string)
	require.True(t, ok)
	assert.Equal(t, "Address must be at least 5 characters", details["address"])
	assert.Empty(t, backend.Requests())
}

func TestListSearchesNameAndAddress(t *testing.T) {
	backend := resourcetest.NewBackend()
	backend.JSON(http.MethodGet, "/business_locations", http.StatusOK, []map[string]any{
		{"id": 1, "name": "Downtown", "address": "Moi Avenue", "is_active": true},
		{"id": 2, "name": "Airport Kiosk", "is_active": true},
		{"id": 3, "name": "Westlands", "address": "Downtown Annex", "is_active": false},
	})
	svc, _ := newTestService(t, backend)

	list, err := svc.List(context.Background(), Filters{Query: "downtown"})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, int64(1), list[0].ID)
	assert.Equal(t, int64(3), list[1].ID)

	all, err := svc.List(context.Background(), Filters{})
	require.NoError(t, err)
	assert.Len(t, all, 3)
}
