package controllers

import (
	"net/http"

	"github.com/angelmondragon/warehouse-console/api/responses"
	"github.com/angelmondragon/warehouse-console/internal/forms"
	"github.com/angelmondragon/warehouse-console/internal/locations"
	"github.com/angelmondragon/warehouse-console/pkg/logger"
)

func ListLocations(svc locations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "business location")
			return
		}
		list, err := svc.List(r.Context(), locations.Filters{Query: searchQuery(r)})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

func GetLocation(svc locations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "business location")
			return
		}
		id, ok := pathID(w, r, logg, "id")
		if !ok {
			return
		}
		location, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, location)
	}
}

func CreateLocation(svc locations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "business location")
			return
		}
		var input forms.BusinessLocationInput
		if !decodeBody(w, r, logg, &input) {
			return
		}
		location, err := svc.Create(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteMutation(r.Context(), w, http.StatusCreated, location)
	}
}

func UpdateLocation(svc locations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "business location")
			return
		}
		id, ok := pathID(w, r, logg, "id")
		if !ok {
			return
		}
		var input forms.BusinessLocationInput
		if !decodeBody(w, r, logg, &input) {
			return
		}
		location, err := svc.Update(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteMutation(r.Context(), w, http.StatusOK, location)
	}
}

// ToggleLocationActive flips the active flag on the backend.
func ToggleLocationActive(svc locations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "business location")
			return
		}
		id, ok := pathID(w, r, logg, "id")
		if !ok {
			return
		}
		result, err := svc.ToggleActive(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteMutation(r.Context(), w, http.StatusOK, result)
	}
}

// SoftDeleteLocation only succeeds for inactive locations.
func SoftDeleteLocation(svc locations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "business location")
			return
		}
		id, ok := pathID(w, r, logg, "id")
		if !ok {
			return
		}
		result, err := svc.SoftDelete(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteMutation(r.Context(), w, http.StatusOK, result)
	}
}
