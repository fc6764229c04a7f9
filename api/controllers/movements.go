package controllers

import (
	"net/http"

	"github.com/angelmondragon/warehouse-console/api/responses"
	"github.com/angelmondragon/warehouse-console/internal/forms"
	"github.com/angelmondragon/warehouse-console/internal/movements"
	"github.com/angelmondragon/warehouse-console/pkg/logger"
)

func ListMovements(svc movements.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "movement")
			return
		}
		list, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

func CreateMovement(svc movements.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "movement")
			return
		}
		var input forms.MovementInput
		if !decodeBody(w, r, logg, &input) {
			return
		}
		movement, err := svc.Create(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteMutation(r.Context(), w, http.StatusCreated, movement)
	}
}
