package controllers

import (
	"net/http"

	"github.com/mandlimart/mandlimart-backend/api/responses"
	"github.com/mandlimart/mandlimart-backend/api/validators"
	"github.com/mandlimart/mandlimart-backend/internal/checkout"
	pkgerrors "github.com/mandlimart/mandlimart-backend/pkg/errors"
	"github.com/mandlimart/mandlimart-backend/pkg/logger"
)

// CheckoutPlaceOrder answers 201 with the order, or 207 with the order and a PARTIAL_COMMIT
// error when the cart lines could not be removed afterwards.
func CheckoutPlaceOrder(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := callerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var body checkout.PlaceOrderInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		order, err := svc.PlaceOrder(r.Context(), userID, body)
		if err != nil {
			if order != nil && pkgerrors.HasCode(err, pkgerrors.CodePartialCommit) {
				responses.WritePartial(r.Context(), logg, w, order, err)
				return
			}
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}
