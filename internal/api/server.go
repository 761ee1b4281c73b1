package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/amterp/tally/internal/logging"
)

// Server wraps the HTTP server for the web frontend.
type Server struct {
	httpServer *http.Server
	watcher    *ConfigWatcher
	wsHub      *WebSocketHub
}

// NewServer creates a server for handler on port. If watcher is non-nil, config
// edits are applied to the handler and pushed to connected clients.
func NewServer(handler *Handler, port int, watcher *ConfigWatcher) *Server {
	mux := http.NewServeMux()

	wsHub := NewWebSocketHub(handler)
	mux.HandleFunc("GET /api/v1/ws", wsHub.ServeWS)
	handler.AddListener(wsHub)
	handler.RegisterRoutes(mux)

	if watcher != nil {
		watcher.Subscribe(handler)
		watcher.Subscribe(wsHub)
	}

	return &Server{
		httpServer: &http.Server{
			Addr:        fmt.Sprintf(":%d", port),
			Handler:     Logging(Cors(mux)),
			ReadTimeout: 15 * time.Second,
			// No WriteTimeout: it would cut off long-lived websocket connections.
		},
		watcher: watcher,
		wsHub:   wsHub,
	}
}

// Start begins listening for HTTP requests. Blocks until shutdown.
func (s *Server) Start() error {
	log := logging.Component("server")
	if s.watcher != nil {
		if err := s.watcher.Start(); err != nil {
			log.Warn().Err(err).Msg("config hot-reload disabled")
		}
	}

	err := s.httpServer.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	log := logging.Component("server")
	if s.watcher != nil {
		if err := s.watcher.Stop(); err != nil {
			log.Warn().Err(err).Msg("failed to stop config watcher")
		}
	}

	return s.httpServer.Shutdown(ctx)
}

// Addr returns the address the server is listening on.
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// Hub returns the websocket hub.
func (s *Server) Hub() *WebSocketHub {
	return s.wsHub
}
