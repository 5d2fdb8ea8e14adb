package orders

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/mandlimart/mandlimart-backend/api/middleware"
	"github.com/mandlimart/mandlimart-backend/api/responses"
	"github.com/mandlimart/mandlimart-backend/api/validators"
	internalorders "github.com/mandlimart/mandlimart-backend/internal/orders"
	pkgerrors "github.com/mandlimart/mandlimart-backend/pkg/errors"
	"github.com/mandlimart/mandlimart-backend/pkg/logger"
	"github.com/mandlimart/mandlimart-backend/pkg/pagination"
)

// List returns the caller's orders newest first. ?limit=0 uses the configured default.
func List(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := callerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		limit, err := validators.ParseQueryInt(r, "limit", 0, 0, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		page, err := svc.List(r.Context(), userID, pagination.Params{
			Limit:  limit,
			Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}

func Detail(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, orderID, err := callerAndOrder(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		order, err := svc.Get(r.Context(), userID, orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

// Receipt renders the order snapshot as plain text (default) or HTML with ?format=html.
func Receipt(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		format := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("format")))
		if format != "" && format != "text" && format != "html" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Validation("unsupported receipt format", pkgerrors.FieldErrors{"format": "must be text or html"}))
			return
		}
		userID, orderID, err := callerAndOrder(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		order, err := svc.Get(r.Context(), userID, orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if format == "html" {
			body, err := internalorders.RenderReceiptHTML(*order)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "render receipt"))
				return
			}
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			_, _ = w.Write([]byte(body))
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte(internalorders.RenderReceipt(*order)))
	}
}

// RetryCartCleanup re-attempts removing the cart lines an order consumed.
func RetryCartCleanup(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, orderID, err := callerAndOrder(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		order, err := svc.RetryCartCleanup(r.Context(), userID, orderID)
		if err != nil {
			if order != nil && pkgerrors.HasCode(err, pkgerrors.CodePartialCommit) {
				responses.WritePartial(r.Context(), logg, w, order, err)
				return
			}
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

// AdminUpdateStatus moves an order through the fulfillment state machine.
func AdminUpdateStatus(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := orderParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var body internalorders.UpdateStatusRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		ctx := r.Context()
		if logg != nil {
			ctx = logg.WithOrderID(ctx, orderID.String())
		}
		order, err := svc.UpdateStatus(ctx, orderID, body.Status)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		if logg != nil {
			logg.Info(logg.WithField(ctx, "status", string(order.Status)), "order status updated")
		}
		responses.WriteSuccess(w, order)
	}
}

func callerID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(middleware.UserIDFromContext(r.Context()))
	if err != nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	return id, nil
}

func orderParam(r *http.Request) (uuid.UUID, error) {
	raw := strings.TrimSpace(chi.URLParam(r, "orderId"))
	if raw == "" {
		return uuid.Nil, pkgerrors.Validation("order id is required", pkgerrors.FieldErrors{"orderId": "is required"})
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Validation("invalid order id", pkgerrors.FieldErrors{"orderId": "must be a uuid"})
	}
	return id, nil
}

func callerAndOrder(r *http.Request) (uuid.UUID, uuid.UUID, error) {
	userID, err := callerID(r)
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	orderID, err := orderParam(r)
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	return userID, orderID, nil
}
