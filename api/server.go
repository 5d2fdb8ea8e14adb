package api

import (
	"net/http"
	"time"

	"github.com/mandlimart/mandlimart-backend/pkg/config"
)

const (
	readHeaderTimeout = 10 * time.Second
	idleTimeout       = 120 * time.Second
)

// NewServer wraps handler in an http.Server bound to the configured port. Write timeouts are
// left unset so order streams can stay open; the stream handler applies its own deadlines.
func NewServer(cfg config.AppConfig, port string, handler http.Handler) *http.Server {
	if port == "" {
		port = cfg.Port
	}
	return &http.Server{
		Addr:              ":" + port,
		Handler:           handler,
		ReadHeaderTimeout: readHeaderTimeout,
		IdleTimeout:       idleTimeout,
	}
}
