package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/mandlimart/mandlimart-backend/internal/checkout"
	"github.com/mandlimart/mandlimart-backend/internal/orders"
	pkgerrors "github.com/mandlimart/mandlimart-backend/pkg/errors"
)

type stubCheckout struct {
	order *orders.OrderDTO
	err   error
	input checkout.PlaceOrderInput
}

func (s *stubCheckout) PlaceOrder(ctx context.Context, userID uuid.UUID, input checkout.PlaceOrderInput) (*orders.OrderDTO, error) {
	s.input = input
	return s.order, s.err
}

func checkoutRequest(t *testing.T, lineID, addressID uuid.UUID) *http.Request {
	t.Helper()
	body := `{"line_ids":["` + lineID.String() + `"],"address_id":"` + addressID.String() + `"}`
	return asUser(httptest.NewRequest(http.MethodPost, "/api/v1/checkout", strings.NewReader(body)), uuid.New())
}

func TestCheckoutPlaceOrderCreated(t *testing.T) {
	lineID, addressID := uuid.New(), uuid.New()
	svc := &stubCheckout{order: &orders.OrderDTO{ID: uuid.New()}}
	resp := httptest.NewRecorder()
	CheckoutPlaceOrder(svc, nil).ServeHTTP(resp, checkoutRequest(t, lineID, addressID))
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}
	if len(svc.input.LineIDs) != 1 || svc.input.LineIDs[0] != lineID || svc.input.AddressID != addressID {
		t.Fatalf("unexpected input %+v", svc.input)
	}
}

func TestCheckoutPlaceOrderPartialCommit(t *testing.T) {
	order := &orders.OrderDTO{ID: uuid.New()}
	svc := &stubCheckout{
		order: order,
		err: pkgerrors.Wrap(pkgerrors.CodePartialCommit, errors.New("delete failed"), "order placed but cart cleanup failed").
			WithDetails(orders.CleanupPending{OrderID: order.ID}),
	}
	resp := httptest.NewRecorder()
	CheckoutPlaceOrder(svc, nil).ServeHTTP(resp, checkoutRequest(t, uuid.New(), uuid.New()))
	if resp.Code != http.StatusMultiStatus {
		t.Fatalf("expected 207 got %d", resp.Code)
	}

	var envelope struct {
		Data  orders.OrderDTO `json:"data"`
		Error struct {
			Code    string `json:"code"`
			Details struct {
				OrderID uuid.UUID `json:"order_id"`
			} `json:"details"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if envelope.Data.ID != order.ID || envelope.Error.Details.OrderID != order.ID {
		t.Fatalf("unexpected partial body %+v", envelope)
	}
	if envelope.Error.Code != string(pkgerrors.CodePartialCommit) {
		t.Fatalf("unexpected code %q", envelope.Error.Code)
	}
}

func TestCheckoutPlaceOrderValidationFailure(t *testing.T) {
	svc := &stubCheckout{err: pkgerrors.Validation("checkout selection incomplete", pkgerrors.FieldErrors{"line_ids": "select at least one cart item"})}
	resp := httptest.NewRecorder()
	CheckoutPlaceOrder(svc, nil).ServeHTTP(resp, checkoutRequest(t, uuid.New(), uuid.New()))
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}
