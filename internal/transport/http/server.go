// Package httptransport builds the gym manager's HTTP server with the
// timeouts cmd/api configures.
package httptransport

import (
	"net/http"
	"time"
)

// ServerConfig carries the listen address and connection timeouts.
type ServerConfig struct {
	Address      string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// NewServer wraps the handler in an *http.Server ready for ListenAndServe.
func NewServer(cfg ServerConfig, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:         cfg.Address,
		Handler:      handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}
}
