package storefront

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

func TestWatchOrdersDeliversEventsAndCloses(t *testing.T) {
	orderID := uuid.New()
	serverDone := make(chan struct{})
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/orders/stream" || r.Header.Get("Authorization") != "Bearer access-1" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer close(serverDone)
		defer conn.Close()
		_ = conn.WriteJSON(OrderEvent{Type: EventOrderUpdated, Order: Order{ID: orderID, Status: "Shipped"}})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	defer srv.Close()

	client, err := New(Config{
		BaseURL: srv.URL,
		Session: NewSession(&SessionState{AccessToken: "access-1"}),
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	watch, err := client.WatchOrders(context.Background())
	if err != nil {
		t.Fatalf("WatchOrders: %v", err)
	}

	select {
	case event := <-watch.Events():
		if event.Order.ID != orderID || event.Order.Status != "Shipped" {
			t.Fatalf("unexpected event %+v", event)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
	}

	if err := watch.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	_ = watch.Close()

	select {
	case <-serverDone:
	case <-time.After(2 * time.Second):
		t.Fatal("server side never saw the close")
	}
	for range watch.Events() {
	}
	if watch.Err() != nil {
		t.Fatalf("unexpected stream error %v", watch.Err())
	}
}

func TestWatchOrdersClosesOnContextCancel(t *testing.T) {
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	defer srv.Close()

	client, _ := New(Config{BaseURL: srv.URL, Session: NewSession(&SessionState{AccessToken: "t"})})
	ctx, cancel := context.WithCancel(context.Background())
	watch, err := client.WatchOrders(ctx)
	if err != nil {
		t.Fatalf("WatchOrders: %v", err)
	}
	cancel()

	select {
	case _, ok := <-watch.Events():
		if ok {
			t.Fatal("expected events channel to close")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("watch did not close after cancel")
	}
}

func TestWatchOrdersRequiresSession(t *testing.T) {
	client, _ := New(Config{BaseURL: "http://localhost:1"})
	if _, err := client.WatchOrders(context.Background()); err == nil {
		t.Fatal("expected error without session")
	}
}

func TestWatchOrdersHandshakeRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()
	client, _ := New(Config{BaseURL: srv.URL, Session: NewSession(&SessionState{AccessToken: "t"})})
	if _, err := client.WatchOrders(context.Background()); err == nil {
		t.Fatal("expected handshake error")
	}
}
