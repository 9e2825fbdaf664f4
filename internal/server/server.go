// Package server wraps the HTTP listener lifecycle.
package server

import (
	"context"
	"errors"
	"net/http"
)

// HTTPServer runs the API on a plain HTTP listener.
type HTTPServer struct {
	server *http.Server
}

// NewHTTPServer creates a server for the given address and handler.
func NewHTTPServer(addr string, handler http.Handler) *HTTPServer {
	return &HTTPServer{
		server: &http.Server{
			Addr:    addr,
			Handler: handler,
		},
	}
}

// Start blocks serving requests until the server is stopped.
func (s *HTTPServer) Start() error {
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop drains in-flight requests until the context expires.
func (s *HTTPServer) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// Address returns the listen address.
func (s *HTTPServer) Address() string {
	return s.server.Addr
}
