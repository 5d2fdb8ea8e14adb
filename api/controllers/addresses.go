package controllers

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/mandlimart/mandlimart-backend/api/responses"
	"github.com/mandlimart/mandlimart-backend/api/validators"
	"github.com/mandlimart/mandlimart-backend/internal/address"
	pkgerrors "github.com/mandlimart/mandlimart-backend/pkg/errors"
	"github.com/mandlimart/mandlimart-backend/pkg/logger"
)

type locationOptions interface {
	Options(ctx context.Context, level address.Level, filter address.LocationFilter) ([]string, error)
}

var locationLevels = map[string]address.Level{
	"countries": address.LevelCountry,
	"states":    address.LevelState,
	"cities":    address.LevelCity,
	"streets":   address.LevelStreet,
	"pincodes":  address.LevelPincode,
}

func AddressList(svc address.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := callerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		items, err := svc.ListAddresses(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, items)
	}
}

func AddressCreate(svc address.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := callerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var body address.AddressInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		created, err := svc.AddAddress(r.Context(), userID, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, created)
	}
}

// LocationOptions lists one level of the location hierarchy, e.g.
// GET /locations/cities?country=India&state=Karnataka.
func LocationOptions(svc locationOptions, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		level, ok := locationLevels[strings.ToLower(chi.URLParam(r, "level"))]
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "unknown location level"))
			return
		}
		q := r.URL.Query()
		values, err := svc.Options(r.Context(), level, address.LocationFilter{
			Country: q.Get("country"),
			State:   q.Get("state"),
			City:    q.Get("city"),
			Street:  q.Get("street"),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, values)
	}
}
