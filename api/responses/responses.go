package responses

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	pkgerrors "github.com/mandlimart/mandlimart-backend/pkg/errors"
	"github.com/mandlimart/mandlimart-backend/pkg/logger"
	"github.com/mandlimart/mandlimart-backend/pkg/types"
)

func WriteSuccess(w http.ResponseWriter, data any) {
	WriteSuccessStatus(w, http.StatusOK, data)
}

func WriteSuccessStatus(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, types.SuccessEnvelope{Data: data})
}

func WriteError(ctx context.Context, logg *logger.Logger, w http.ResponseWriter, err error) {
	typed, payload := publicError(err)
	logError(ctx, logg, err, typed)
	writeJSON(w, pkgerrors.MetadataFor(typed.Code()).HTTPStatus, types.ErrorEnvelope{Error: payload})
}

// WritePartial answers a request whose primary effect was committed while a follow-up step failed.
// The body carries both the committed resource and the outstanding error.
func WritePartial(ctx context.Context, logg *logger.Logger, w http.ResponseWriter, data any, err error) {
	typed, payload := publicError(err)
	logError(ctx, logg, err, typed)
	writeJSON(w, pkgerrors.MetadataFor(typed.Code()).HTTPStatus, types.PartialEnvelope{Data: data, Error: payload})
}

func publicError(err error) (*pkgerrors.Error, types.APIError) {
	if err == nil {
		err = errors.New("unknown error")
	}
	typed := pkgerrors.As(err)
	if typed == nil {
		typed = pkgerrors.Wrap(pkgerrors.CodeInternal, err, "unexpected error")
	}

	meta := pkgerrors.MetadataFor(typed.Code())
	msg := meta.PublicMessage
	switch typed.Code() {
	case pkgerrors.CodeValidation,
		pkgerrors.CodeUnauthorized,
		pkgerrors.CodeForbidden,
		pkgerrors.CodeNotFound,
		pkgerrors.CodeConflict,
		pkgerrors.CodeStateConflict,
		pkgerrors.CodeIdempotency,
		pkgerrors.CodeRateLimit,
		pkgerrors.CodePartialCommit:
		if m := typed.Message(); m != "" {
			msg = m
		}
	}

	payload := types.APIError{Code: string(typed.Code()), Message: msg}
	if meta.DetailsAllowed {
		payload.Details = typed.Details()
	}
	return typed, payload
}

func logError(ctx context.Context, logg *logger.Logger, err error, typed *pkgerrors.Error) {
	if logg == nil || err == nil {
		return
	}
	ctx = logg.WithFields(ctx, pkgerrors.Dump(err).Fields())
	if pkgerrors.MetadataFor(typed.Code()).HTTPStatus < http.StatusInternalServerError {
		logg.Warn(ctx, "request.error: "+err.Error())
		return
	}
	logg.Error(ctx, "request.error", err)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
