// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 FitForge Contributors

package api

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/samber/oops"
)

// ServerConfig holds the API listener settings.
type ServerConfig struct {
	// Addr is the listen address in "host:port" format.
	Addr        string
	ReadTimeout time.Duration
	// TLSCert and TLSKey enable HTTPS when both are set.
	TLSCert string
	TLSKey  string
}

// Server serves the HTTP API.
type Server struct {
	cfg        ServerConfig
	router     *gin.Engine
	listener   net.Listener
	httpServer *http.Server
	running    atomic.Bool
}

// NewServer creates a new API server around an assembled router.
func NewServer(cfg ServerConfig, router *gin.Engine) *Server {
	return &Server{cfg: cfg, router: router}
}

// Start begins serving the API.
// It returns an error channel that will receive any errors from the HTTP
// server after it starts. The channel is closed when the server stops
// gracefully. Callers should monitor this channel to detect server failures.
func (s *Server) Start() (<-chan error, error) {
	if !s.running.CompareAndSwap(false, true) {
		return nil, oops.Errorf("api server already running")
	}

	listener, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		s.running.Store(false)
		return nil, oops.With("addr", s.cfg.Addr).Wrap(err)
	}
	s.listener = listener

	httpSrv := &http.Server{
		Handler:           s.router,
		ReadTimeout:       s.cfg.ReadTimeout,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.httpServer = httpSrv

	errCh := make(chan error, 1)

	go func() {
		defer close(errCh)
		var serveErr error
		if s.cfg.TLSCert != "" && s.cfg.TLSKey != "" {
			serveErr = httpSrv.ServeTLS(listener, s.cfg.TLSCert, s.cfg.TLSKey)
		} else {
			serveErr = httpSrv.Serve(listener)
		}
		if serveErr != nil && serveErr != http.ErrServerClosed {
			slog.Error("api server error", "error", serveErr)
			errCh <- serveErr
		}
	}()

	slog.Info("api server started", "addr", listener.Addr().String(), "tls", s.cfg.TLSCert != "")
	return errCh, nil
}

// Stop gracefully shuts down the API server, waiting for in-flight
// requests up to the context deadline.
func (s *Server) Stop(ctx context.Context) error {
	if !s.running.CompareAndSwap(true, false) {
		return nil
	}

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			s.running.Store(true)
			return oops.With("operation", "shutdown_api_server").Wrap(err)
		}
	}

	slog.Info("api server stopped")
	return nil
}

// Addr returns the address the server is listening on.
// Returns empty string if not running.
func (s *Server) Addr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return ""
}
