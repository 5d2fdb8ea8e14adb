package orders

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/shopspring/decimal"

	"github.com/mandlimart/mandlimart-backend/api/middleware"
	internalorders "github.com/mandlimart/mandlimart-backend/internal/orders"
	"github.com/mandlimart/mandlimart-backend/pkg/config"
	"github.com/mandlimart/mandlimart-backend/pkg/enums"
	pkgerrors "github.com/mandlimart/mandlimart-backend/pkg/errors"
	"github.com/mandlimart/mandlimart-backend/pkg/pagination"
	"github.com/mandlimart/mandlimart-backend/pkg/types"
)

type stubOrderService struct {
	list      func(ctx context.Context, userID uuid.UUID, params pagination.Params) (*pagination.Page[internalorders.OrderDTO], error)
	get       func(ctx context.Context, userID, orderID uuid.UUID) (*internalorders.OrderDTO, error)
	update    func(ctx context.Context, orderID uuid.UUID, raw string) (*internalorders.OrderDTO, error)
	retry     func(ctx context.Context, userID, orderID uuid.UUID) (*internalorders.OrderDTO, error)
	subscribe func(ctx context.Context, userID uuid.UUID) (internalorders.Feed, error)
}

func (s *stubOrderService) List(ctx context.Context, userID uuid.UUID, params pagination.Params) (*pagination.Page[internalorders.OrderDTO], error) {
	return s.list(ctx, userID, params)
}

func (s *stubOrderService) Get(ctx context.Context, userID, orderID uuid.UUID) (*internalorders.OrderDTO, error) {
	return s.get(ctx, userID, orderID)
}

func (s *stubOrderService) UpdateStatus(ctx context.Context, orderID uuid.UUID, raw string) (*internalorders.OrderDTO, error) {
	return s.update(ctx, orderID, raw)
}

func (s *stubOrderService) RetryCartCleanup(ctx context.Context, userID, orderID uuid.UUID) (*internalorders.OrderDTO, error) {
	return s.retry(ctx, userID, orderID)
}

func (s *stubOrderService) Subscribe(ctx context.Context, userID uuid.UUID) (internalorders.Feed, error) {
	return s.subscribe(ctx, userID)
}

type chanFeed struct {
	ch     chan []byte
	once   sync.Once
	closed chan struct{}
}

func newChanFeed() *chanFeed {
	return &chanFeed{ch: make(chan []byte, 4), closed: make(chan struct{})}
}

func (f *chanFeed) Messages() <-chan []byte { return f.ch }

func (f *chanFeed) Close() error {
	f.once.Do(func() { close(f.closed) })
	return nil
}

func sampleOrder(userID uuid.UUID) *internalorders.OrderDTO {
	return &internalorders.OrderDTO{
		ID:     uuid.New(),
		UserID: userID,
		Items: types.OrderItemSnapshots{
			{ItemID: uuid.New(), Name: "Basmati Rice 5kg", Price: decimal.RequireFromString("499.00"), Quantity: 2},
		},
		PaymentMethod: enums.PaymentMethodCOD,
		TotalPrice:    decimal.RequireFromString("998.00"),
		Status:        enums.OrderStatusPending,
		StatusView:    internalorders.ViewForStatus(string(enums.OrderStatusPending)),
		CreatedAt:     time.Date(2025, 3, 4, 10, 30, 0, 0, time.UTC),
	}
}

func withOrderParam(req *http.Request, orderID string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("orderId", orderID)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func asUser(req *http.Request, userID uuid.UUID) *http.Request {
	return req.WithContext(middleware.WithUserID(req.Context(), userID.String()))
}

func TestListPassesLimitAndCursor(t *testing.T) {
	userID := uuid.New()
	svc := &stubOrderService{
		list: func(ctx context.Context, incoming uuid.UUID, params pagination.Params) (*pagination.Page[internalorders.OrderDTO], error) {
			if incoming != userID {
				t.Fatalf("unexpected user %s", incoming)
			}
			if params.Limit != 5 || params.Cursor != "abc" {
				t.Fatalf("unexpected params %+v", params)
			}
			return &pagination.Page[internalorders.OrderDTO]{Items: []internalorders.OrderDTO{*sampleOrder(userID)}, NextCursor: "next"}, nil
		},
	}

	req := asUser(httptest.NewRequest(http.MethodGet, "/api/v1/orders?limit=5&cursor=abc", nil), userID)
	resp := httptest.NewRecorder()
	List(svc, nil).ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}

	var envelope struct {
		Data pagination.Page[internalorders.OrderDTO] `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(envelope.Data.Items) != 1 || envelope.Data.NextCursor != "next" {
		t.Fatalf("unexpected page %+v", envelope.Data)
	}
}

func TestListRejectsOversizedLimit(t *testing.T) {
	userID := uuid.New()
	svc := &stubOrderService{}
	req := asUser(httptest.NewRequest(http.MethodGet, "/api/v1/orders?limit=500", nil), userID)
	resp := httptest.NewRecorder()
	List(svc, nil).ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestListRequiresCaller(t *testing.T) {
	resp := httptest.NewRecorder()
	List(&stubOrderService{}, nil).ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil))
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestDetailNotFound(t *testing.T) {
	userID := uuid.New()
	svc := &stubOrderService{
		get: func(ctx context.Context, _, _ uuid.UUID) (*internalorders.OrderDTO, error) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		},
	}
	req := withOrderParam(asUser(httptest.NewRequest(http.MethodGet, "/", nil), userID), uuid.NewString())
	resp := httptest.NewRecorder()
	Detail(svc, nil).ServeHTTP(resp, req)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
}

func TestDetailRejectsBadOrderID(t *testing.T) {
	req := withOrderParam(asUser(httptest.NewRequest(http.MethodGet, "/", nil), uuid.New()), "nope")
	resp := httptest.NewRecorder()
	Detail(&stubOrderService{}, nil).ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestReceiptFormats(t *testing.T) {
	userID := uuid.New()
	order := sampleOrder(userID)
	svc := &stubOrderService{
		get: func(ctx context.Context, _, _ uuid.UUID) (*internalorders.OrderDTO, error) {
			return order, nil
		},
	}

	cases := []struct {
		query       string
		contentType string
		contains    string
	}{
		{"", "text/plain; charset=utf-8", "Order ID: " + order.ID.String()},
		{"?format=html", "text/html; charset=utf-8", "<html"},
	}
	for _, tc := range cases {
		req := withOrderParam(asUser(httptest.NewRequest(http.MethodGet, "/receipt"+tc.query, nil), userID), order.ID.String())
		resp := httptest.NewRecorder()
		Receipt(svc, nil).ServeHTTP(resp, req)
		if resp.Code != http.StatusOK {
			t.Fatalf("format %q: expected 200 got %d", tc.query, resp.Code)
		}
		if got := resp.Header().Get("Content-Type"); got != tc.contentType {
			t.Fatalf("format %q: unexpected content type %q", tc.query, got)
		}
		if !strings.Contains(resp.Body.String(), tc.contains) {
			t.Fatalf("format %q: body missing %q", tc.query, tc.contains)
		}
	}
}

func TestReceiptRejectsUnknownFormat(t *testing.T) {
	req := withOrderParam(asUser(httptest.NewRequest(http.MethodGet, "/receipt?format=pdf", nil), uuid.New()), uuid.NewString())
	resp := httptest.NewRecorder()
	Receipt(&stubOrderService{}, nil).ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestRetryCartCleanupPartial(t *testing.T) {
	userID := uuid.New()
	order := sampleOrder(userID)
	svc := &stubOrderService{
		retry: func(ctx context.Context, _, _ uuid.UUID) (*internalorders.OrderDTO, error) {
			return order, pkgerrors.Wrap(pkgerrors.CodePartialCommit, errors.New("db down"), "order placed but cart cleanup failed")
		},
	}
	req := withOrderParam(asUser(httptest.NewRequest(http.MethodPost, "/", nil), userID), order.ID.String())
	resp := httptest.NewRecorder()
	RetryCartCleanup(svc, nil).ServeHTTP(resp, req)
	if resp.Code != http.StatusMultiStatus {
		t.Fatalf("expected 207 got %d", resp.Code)
	}

	var envelope struct {
		Data  internalorders.OrderDTO `json:"data"`
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if envelope.Data.ID != order.ID {
		t.Fatalf("expected order in partial body")
	}
	if envelope.Error.Code != string(pkgerrors.CodePartialCommit) {
		t.Fatalf("unexpected error code %q", envelope.Error.Code)
	}
}

func TestRetryCartCleanupSuccess(t *testing.T) {
	userID := uuid.New()
	order := sampleOrder(userID)
	order.CartCleared = true
	svc := &stubOrderService{
		retry: func(ctx context.Context, _, _ uuid.UUID) (*internalorders.OrderDTO, error) { return order, nil },
	}
	req := withOrderParam(asUser(httptest.NewRequest(http.MethodPost, "/", nil), userID), order.ID.String())
	resp := httptest.NewRecorder()
	RetryCartCleanup(svc, nil).ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestAdminUpdateStatus(t *testing.T) {
	order := sampleOrder(uuid.New())
	svc := &stubOrderService{
		update: func(ctx context.Context, orderID uuid.UUID, raw string) (*internalorders.OrderDTO, error) {
			if orderID != order.ID {
				t.Fatalf("unexpected order %s", orderID)
			}
			if raw != "Shipped" {
				t.Fatalf("unexpected status %q", raw)
			}
			updated := *order
			updated.Status = enums.OrderStatusShipped
			return &updated, nil
		},
	}
	req := withOrderParam(httptest.NewRequest(http.MethodPatch, "/", strings.NewReader(`{"status":"Shipped"}`)), order.ID.String())
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	AdminUpdateStatus(svc, nil).ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestAdminUpdateStatusConflict(t *testing.T) {
	svc := &stubOrderService{
		update: func(ctx context.Context, _ uuid.UUID, _ string) (*internalorders.OrderDTO, error) {
			return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "order already delivered")
		},
	}
	req := withOrderParam(httptest.NewRequest(http.MethodPatch, "/", strings.NewReader(`{"status":"Pending"}`)), uuid.NewString())
	resp := httptest.NewRecorder()
	AdminUpdateStatus(svc, nil).ServeHTTP(resp, req)
	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d", resp.Code)
	}
}

func TestStreamForwardsFeedFrames(t *testing.T) {
	userID := uuid.New()
	feed := newChanFeed()
	svc := &stubOrderService{
		subscribe: func(ctx context.Context, incoming uuid.UUID) (internalorders.Feed, error) {
			if incoming != userID {
				t.Fatalf("unexpected user %s", incoming)
			}
			return feed, nil
		},
	}
	handler := Stream(StreamParams{Service: svc, Realtime: config.RealtimeConfig{PingPeriod: time.Second, WriteTimeout: time.Second}})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handler.ServeHTTP(w, asUser(r, userID))
	}))
	defer server.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(server.URL, "http"), nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	feed.ch <- []byte(`{"type":"order.updated"}`)

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	kind, payload, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if kind != websocket.TextMessage || string(payload) != `{"type":"order.updated"}` {
		t.Fatalf("unexpected frame %d %s", kind, payload)
	}
	_ = conn.Close()

	select {
	case <-feed.closed:
	case <-time.After(2 * time.Second):
		t.Fatal("expected feed to be closed after client disconnect")
	}
}

func TestStreamSubscribeFailureIsServiceUnavailable(t *testing.T) {
	svc := &stubOrderService{
		subscribe: func(ctx context.Context, _ uuid.UUID) (internalorders.Feed, error) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, errors.New("redis down"), "order stream unavailable")
		},
	}
	req := asUser(httptest.NewRequest(http.MethodGet, "/api/v1/orders/stream", nil), uuid.New())
	resp := httptest.NewRecorder()
	Stream(StreamParams{Service: svc}).ServeHTTP(resp, req)
	if resp.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 got %d", resp.Code)
	}
}

func TestOriginChecker(t *testing.T) {
	check := originChecker([]string{"https://mandlimart.in/"})
	cases := map[string]bool{
		"":                      true,
		"https://mandlimart.in": true,
		"https://evil.example":  false,
	}
	for origin, want := range cases {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if origin != "" {
			req.Header.Set("Origin", origin)
		}
		if got := check(req); got != want {
			t.Fatalf("origin %q: got %v want %v", origin, got, want)
		}
	}
}
