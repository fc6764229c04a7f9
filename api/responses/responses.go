package responses

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/angelmondragon/warehouse-console/internal/resource"
	"github.com/angelmondragon/warehouse-console/pkg/apiclient"
	pkgerrors "github.com/angelmondragon/warehouse-console/pkg/errors"
	"github.com/angelmondragon/warehouse-console/pkg/logger"
	"github.com/angelmondragon/warehouse-console/pkg/types"
)

func WriteSuccess(w http.ResponseWriter, data any) {
	WriteSuccessStatus(w, http.StatusOK, data)
}

func WriteSuccessStatus(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, types.SuccessEnvelope{Data: data})
}

// WriteMutation writes data along with the notices collected on ctx.
func WriteMutation(ctx context.Context, w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, types.SuccessEnvelope{Data: data, Notices: notices(ctx)})
}

// WriteError maps err onto the error envelope. Backend rejections keep their
// upstream status and "<status>: <message>" text.
func WriteError(ctx context.Context, logg *logger.Logger, w http.ResponseWriter, err error) {
	if err == nil {
		err = errors.New("unknown error")
	}

	status, payload := errorPayload(err)
	payload.Notices = notices(ctx)

	if logg != nil {
		dump := pkgerrors.Dump(err)
		fields := map[string]any{
			"error":       dump.TopMessage,
			"error_code":  payload.Error.Code,
			"error_chain": dump.Chain,
			"status":      status,
		}
		if upstream, ok := apiclient.AsStatusError(err); ok {
			fields["upstream_status"] = upstream.Status
		}
		ctx = logg.WithFields(ctx, fields)
		if status >= http.StatusInternalServerError {
			logg.Error(ctx, "request.error", err)
		} else {
			logg.Warn(ctx, "request.rejected")
		}
	}

	writeJSON(w, status, payload)
}

func errorPayload(err error) (int, types.ErrorEnvelope) {
	// Local checks (validation, edit window, state guards) are typed and
	// take precedence over an upstream status further down the chain.
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() == pkgerrors.CodeDependency {
		if upstream, ok := apiclient.AsStatusError(err); ok {
			return upstream.Status, types.ErrorEnvelope{Error: types.APIError{
				Code:    string(codeForStatus(upstream.Status)),
				Message: resource.Describe(err),
				Details: detailsOf(err),
			}}
		}
	}
	if typed == nil {
		typed = pkgerrors.Wrap(pkgerrors.CodeInternal, err, "unexpected error")
	}

	meta := pkgerrors.MetadataFor(typed.Code())
	msg := meta.PublicMessage
	switch typed.Code() {
	case pkgerrors.CodeValidation,
		pkgerrors.CodeForbidden,
		pkgerrors.CodeNotFound,
		pkgerrors.CodeConflict,
		pkgerrors.CodeStateConflict:
		if m := typed.Message(); m != "" {
			msg = m
		}
	case pkgerrors.CodeDependency:
		msg = resource.Describe(err)
	}

	payload := types.ErrorEnvelope{Error: types.APIError{Code: string(typed.Code()), Message: msg}}
	if meta.DetailsAllowed && typed.Code() != pkgerrors.CodeDependency {
		if details := typed.Details(); details != nil {
			payload.Error.Details = details
		}
	}
	return meta.HTTPStatus, payload
}

type detailer interface {
	ErrorDetails() any
}

// detailsOf surfaces extra context carried by wrappers such as the purchase
// step error.
func detailsOf(err error) any {
	var d detailer
	if errors.As(err, &d) {
		return d.ErrorDetails()
	}
	return nil
}

func codeForStatus(status int) pkgerrors.Code {
	switch {
	case status == http.StatusBadRequest:
		return pkgerrors.CodeValidation
	case status == http.StatusForbidden:
		return pkgerrors.CodeForbidden
	case status == http.StatusNotFound:
		return pkgerrors.CodeNotFound
	case status == http.StatusConflict:
		return pkgerrors.CodeConflict
	case status == http.StatusUnprocessableEntity:
		return pkgerrors.CodeStateConflict
	case status >= http.StatusInternalServerError:
		return pkgerrors.CodeDependency
	}
	return pkgerrors.CodeValidation
}

func notices(ctx context.Context) any {
	list := resource.CollectorFrom(ctx).Notices()
	if len(list) == 0 {
		return nil
	}
	return list
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf(`{"level":"error","msg":"failed to encode response","err":"%v"}`, err)
	}
}
