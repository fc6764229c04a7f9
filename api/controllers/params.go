package controllers

import (
	"net/http"

	"github.com/angelmondragon/warehouse-console/api/responses"
	"github.com/angelmondragon/warehouse-console/api/validators"
	pkgerrors "github.com/angelmondragon/warehouse-console/pkg/errors"
	"github.com/angelmondragon/warehouse-console/pkg/logger"
)

// pathID reads a numeric URL parameter, writing the error response itself
// when the value is unusable.
func pathID(w http.ResponseWriter, r *http.Request, logg *logger.Logger, name string) (int64, bool) {
	id, err := validators.ParseIDParam(r, name)
	if err != nil {
		responses.WriteError(r.Context(), logg, w, err)
		return 0, false
	}
	return id, true
}

// decodeBody writes the error response itself on a malformed body.
func decodeBody(w http.ResponseWriter, r *http.Request, logg *logger.Logger, dest any) bool {
	if err := validators.DecodeJSONBody(r, dest); err != nil {
		responses.WriteError(r.Context(), logg, w, err)
		return false
	}
	return true
}

func unavailable(w http.ResponseWriter, r *http.Request, logg *logger.Logger, name string) {
	responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, name+" service unavailable"))
}
