package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mandlimart/mandlimart-backend/internal/cart"
)

type stubCartService struct {
	lines   []cart.LineDTO
	added   *cart.AddItemInput
	removed uuid.UUID
}

func (s *stubCartService) AddItem(ctx context.Context, userID uuid.UUID, input cart.AddItemInput) (*cart.LineDTO, error) {
	s.added = &input
	return &cart.LineDTO{ID: uuid.New(), Quantity: input.Quantity}, nil
}

func (s *stubCartService) RemoveItem(ctx context.Context, userID, lineID uuid.UUID) error {
	s.removed = lineID
	return nil
}

func (s *stubCartService) ListItems(ctx context.Context, userID uuid.UUID) ([]cart.LineDTO, error) {
	return s.lines, nil
}

func TestCartListSubtotalOfSelection(t *testing.T) {
	rice := cart.LineDTO{ID: uuid.New(), UnitPrice: decimal.RequireFromString("50"), Quantity: 2}
	dal := cart.LineDTO{ID: uuid.New(), UnitPrice: decimal.RequireFromString("20"), Quantity: 1}
	svc := &stubCartService{lines: []cart.LineDTO{rice, dal}}

	req := asUser(httptest.NewRequest(http.MethodGet, "/api/v1/cart?selected="+rice.ID.String(), nil), uuid.New())
	resp := httptest.NewRecorder()
	CartList(svc, nil).ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}

	var envelope struct {
		Data cart.ListResponse `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(envelope.Data.Items) != 2 {
		t.Fatalf("expected 2 lines got %d", len(envelope.Data.Items))
	}
	if !envelope.Data.Subtotal.Equal(decimal.RequireFromString("100")) {
		t.Fatalf("unexpected subtotal %s", envelope.Data.Subtotal)
	}
}

func TestCartListRejectsBadSelection(t *testing.T) {
	req := asUser(httptest.NewRequest(http.MethodGet, "/api/v1/cart?selected=abc", nil), uuid.New())
	resp := httptest.NewRecorder()
	CartList(&stubCartService{}, nil).ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestCartAddItemValidatesQuantity(t *testing.T) {
	svc := &stubCartService{}
	body := `{"product_id":"` + uuid.NewString() + `","quantity":0}`
	req := asUser(httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", strings.NewReader(body)), uuid.New())
	resp := httptest.NewRecorder()
	CartAddItem(svc, nil).ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
	if svc.added != nil {
		t.Fatal("service should not be called for invalid input")
	}
}

func TestCartAddAndRemove(t *testing.T) {
	svc := &stubCartService{}
	body := `{"product_id":"` + uuid.NewString() + `","quantity":3}`
	req := asUser(httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", strings.NewReader(body)), uuid.New())
	resp := httptest.NewRecorder()
	CartAddItem(svc, nil).ServeHTTP(resp, req)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}
	if svc.added == nil || svc.added.Quantity != 3 {
		t.Fatalf("unexpected add input %+v", svc.added)
	}

	lineID := uuid.New()
	req = withURLParam(asUser(httptest.NewRequest(http.MethodDelete, "/", nil), uuid.New()), "lineId", lineID.String())
	resp = httptest.NewRecorder()
	CartRemoveItem(svc, nil).ServeHTTP(resp, req)
	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected 204 got %d", resp.Code)
	}
	if svc.removed != lineID {
		t.Fatalf("unexpected removed line %s", svc.removed)
	}
}
