package orders

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/mandlimart/mandlimart-backend/api/responses"
	internalorders "github.com/mandlimart/mandlimart-backend/internal/orders"
	"github.com/mandlimart/mandlimart-backend/pkg/config"
	"github.com/mandlimart/mandlimart-backend/pkg/logger"
	"github.com/mandlimart/mandlimart-backend/pkg/metrics"
)

const (
	streamReadLimit      = 512
	defaultPingPeriod    = 30 * time.Second
	defaultStreamTimeout = 10 * time.Second
)

// StreamParams configures the order status websocket.
type StreamParams struct {
	Service        internalorders.Service
	Realtime       config.RealtimeConfig
	AllowedOrigins []string
	Metrics        *metrics.CheckoutMetrics
	Logger         *logger.Logger
}

// Stream upgrades to a websocket and forwards every order.updated frame for the caller until
// the client disconnects or the request ends. The Redis subscription is released on every exit path.
func Stream(params StreamParams) http.HandlerFunc {
	logg := params.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	ping := params.Realtime.PingPeriod
	if ping <= 0 {
		ping = defaultPingPeriod
	}
	writeTimeout := params.Realtime.WriteTimeout
	if writeTimeout <= 0 {
		writeTimeout = defaultStreamTimeout
	}
	upgrader := websocket.Upgrader{
		ReadBufferSize:  params.Realtime.ReadBufferSize,
		WriteBufferSize: params.Realtime.WriteBufferSize,
		CheckOrigin:     originChecker(params.AllowedOrigins),
	}

	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := callerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		feed, err := params.Service.Subscribe(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		defer feed.Close()

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logg.Warn(r.Context(), "order stream upgrade failed: "+err.Error())
			return
		}
		defer conn.Close()
		defer params.Metrics.StreamOpened()()

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()
		go drainClient(conn, ping, cancel)

		ticker := time.NewTicker(ping)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				_ = conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeTimeout))
				return
			case <-ticker.C:
				if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeTimeout)); err != nil {
					return
				}
			case msg, ok := <-feed.Messages():
				if !ok {
					return
				}
				_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
				if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
					logg.Debug(ctx, "order stream write failed: "+err.Error())
					return
				}
			}
		}
	}
}

// drainClient consumes inbound frames so control messages are processed, and cancels once the
// peer goes away or stops answering pings.
func drainClient(conn *websocket.Conn, ping time.Duration, cancel context.CancelFunc) {
	defer cancel()
	conn.SetReadLimit(streamReadLimit)
	_ = conn.SetReadDeadline(time.Now().Add(2 * ping))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(2 * ping))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func originChecker(allowed []string) func(*http.Request) bool {
	if len(allowed) == 0 {
		return func(*http.Request) bool { return true }
	}
	set := make(map[string]struct{}, len(allowed))
	for _, origin := range allowed {
		set[strings.TrimRight(strings.ToLower(origin), "/")] = struct{}{}
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		_, ok := set[strings.TrimRight(strings.ToLower(origin), "/")]
		return ok
	}
}
