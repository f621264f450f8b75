package http

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"tvheap/internal/txn"
	"tvheap/internal/visibility"

	"github.com/go-chi/chi/v5"
)

const (
	contentTypeJSON        = "application/json"
	defaultHTTPPort        = "8080"
	defaultShutdownTimeout = time.Second * 5
)

type iVisibilityStats interface {
	Snapshot() visibility.StatsSnapshot
}

type iTxnRegistry interface {
	InProgress() []txn.Xid
	NextXid() txn.Xid
}

// Server exposes the node's introspection surface: health, visibility
// decision counters and the in-progress transaction set. It carries no
// storage operations; the access method has no wire protocol of its own.
type Server struct {
	stats      iVisibilityStats
	txns       iTxnRegistry
	httpServer *http.Server
	URL        string
	addr       string
}

// NewServer creates a new server instance
func NewServer(stats iVisibilityStats, txns iTxnRegistry, port string) *Server {
	if port == "" {
		port = defaultHTTPPort
	}
	return &Server{
		stats: stats,
		txns:  txns,
		URL:   "http://localhost:" + port,
		addr:  ":" + port,
	}
}

// Start starts the server
func (s *Server) Start() error {
	if err := s.startHTTPServer(); err != nil {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}
	return nil
}

// Stop stops the server
func (s *Server) Stop() error {
	if s.httpServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), defaultShutdownTimeout)
		defer cancel()

		if err := s.httpServer.Shutdown(ctx); err != nil {
			return fmt.Errorf("failed to shutdown HTTP server: %w", err)
		}
	}
	return nil
}

// createRouter builds chi router
func (s *Server) createRouter() http.Handler {
	r := chi.NewRouter()

	r.Get("/health", s.handleHealth)
	r.Get("/debug/visibility", s.handleVisibilityStats)
	r.Get("/debug/txns", s.handleTxns)

	return r
}

func (s *Server) startHTTPServer() error {
	s.httpServer = &http.Server{
		Addr:              s.addr,
		Handler:           s.createRouter(),
		ReadHeaderTimeout: time.Second,
	}

	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server error", "error", err)
		}
	}()

	slog.Info("HTTP server started", "addr", s.URL)
	return nil
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Warn("Error encoding response", "error", err)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, NewOKResponse())
}

func (s *Server) handleVisibilityStats(w http.ResponseWriter, r *http.Request) {
	if s.stats == nil {
		s.writeJSON(w, http.StatusServiceUnavailable, NewErrorResponse("Stats not available"))
		return
	}
	s.writeJSON(w, http.StatusOK, NewDataResponse(s.stats.Snapshot()))
}

type txnsPayload struct {
	NextXid    uint64   `json:"next_xid"`
	InProgress []uint64 `json:"in_progress"`
}

func (s *Server) handleTxns(w http.ResponseWriter, r *http.Request) {
	if s.txns == nil {
		s.writeJSON(w, http.StatusServiceUnavailable, NewErrorResponse("Registry not available"))
		return
	}

	payload := txnsPayload{NextXid: uint64(s.txns.NextXid())}
	for _, x := range s.txns.InProgress() {
		payload.InProgress = append(payload.InProgress, uint64(x))
	}
	s.writeJSON(w, http.StatusOK, NewDataResponse(payload))
}
