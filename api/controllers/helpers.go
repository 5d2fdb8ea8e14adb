package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/mandlimart/mandlimart-backend/api/middleware"
	pkgerrors "github.com/mandlimart/mandlimart-backend/pkg/errors"
)

func callerID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(middleware.UserIDFromContext(r.Context()))
	if err != nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	return id, nil
}

func uuidParam(r *http.Request, name string) (uuid.UUID, error) {
	raw := strings.TrimSpace(chi.URLParam(r, name))
	if raw == "" {
		return uuid.Nil, pkgerrors.Validation(name+" is required", pkgerrors.FieldErrors{name: "is required"})
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Validation("invalid "+name, pkgerrors.FieldErrors{name: "must be a uuid"})
	}
	return id, nil
}

// uuidList parses a comma separated id list; blanks are skipped.
func uuidList(raw, field string) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := uuid.Parse(part)
		if err != nil {
			return nil, pkgerrors.Validation("invalid "+field, pkgerrors.FieldErrors{field: "must be comma separated uuids"})
		}
		ids = append(ids, id)
	}
	return ids, nil
}
