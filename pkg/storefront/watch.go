package storefront

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const watchEventBuffer = 16

// OrderWatch is a live subscription to the caller's order updates. Events is closed when the
// stream ends; Close tears it down and may be called more than once.
type OrderWatch struct {
	conn   *websocket.Conn
	events chan OrderEvent
	done   chan struct{}

	closeOnce sync.Once
	mu        sync.Mutex
	err       error
}

// WatchOrders opens the order stream. Cancelling ctx closes the watch.
func (c *Client) WatchOrders(ctx context.Context) (*OrderWatch, error) {
	token := c.session.AccessToken()
	if token == "" {
		return nil, errors.New("sign in before watching orders")
	}

	target := c.baseURL.JoinPath("/api/v1/orders/stream")
	switch target.Scheme {
	case "https":
		target.Scheme = "wss"
	default:
		target.Scheme = "ws"
	}
	header := http.Header{}
	header.Set("Authorization", "Bearer "+token)
	header.Set("User-Agent", c.userAgent)

	conn, resp, err := c.dialer.DialContext(ctx, target.String(), header)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("order stream handshake: %d: %w", resp.StatusCode, err)
		}
		return nil, fmt.Errorf("order stream handshake: %w", err)
	}

	w := &OrderWatch{
		conn:   conn,
		events: make(chan OrderEvent, watchEventBuffer),
		done:   make(chan struct{}),
	}
	go w.read()
	go func() {
		select {
		case <-ctx.Done():
			w.Close()
		case <-w.done:
		}
	}()
	return w, nil
}

func (w *OrderWatch) Events() <-chan OrderEvent {
	return w.events
}

// Err returns the error that ended the stream, if it ended abnormally.
func (w *OrderWatch) Err() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.err
}

func (w *OrderWatch) Close() error {
	var err error
	w.closeOnce.Do(func() {
		close(w.done)
		msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
		_ = w.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
		err = w.conn.Close()
	})
	return err
}

func (w *OrderWatch) read() {
	defer close(w.events)
	for {
		_, data, err := w.conn.ReadMessage()
		if err != nil {
			select {
			case <-w.done:
			default:
				if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					w.setErr(err)
				}
				_ = w.Close()
			}
			return
		}
		var event OrderEvent
		if err := json.Unmarshal(data, &event); err != nil {
			continue
		}
		select {
		case w.events <- event:
		case <-w.done:
			return
		}
	}
}

func (w *OrderWatch) setErr(err error) {
	w.mu.Lock()
	w.err = err
	w.mu.Unlock()
}
