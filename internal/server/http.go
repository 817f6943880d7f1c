// Package server exposes the chat service over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/NamanSoni18/Finmate-Backend/internal/chat"
	"github.com/NamanSoni18/Finmate-Backend/internal/logger"
	"github.com/oklog/ulid/v2"
)

// HTTPServer serves the chat API.
type HTTPServer struct {
	service *chat.Service
	router  *CommandRouter
	server  *http.Server
}

func NewHTTPServer(port int, readTimeout, writeTimeout time.Duration, service *chat.Service) *HTTPServer {
	mux := http.NewServeMux()
	s := &HTTPServer{
		service: service,
		router:  NewCommandRouter(),
		server: &http.Server{
			Addr:         fmt.Sprintf(":%d", port),
			Handler:      mux,
			ReadTimeout:  readTimeout,
			WriteTimeout: writeTimeout,
		},
	}

	mux.HandleFunc("/api/chat", s.handleChat)
	mux.HandleFunc("/api/health", s.handleHealth)
	return s
}

// Start starts the HTTP server in a goroutine.
func (s *HTTPServer) Start() {
	go func() {
		slog.Info("starting HTTP server", "addr", s.server.Addr)
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("HTTP server failed", "error", err)
		}
	}()
}

// Stop stops the HTTP server gracefully.
func (s *HTTPServer) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// Handler returns the underlying mux, mainly for tests.
func (s *HTTPServer) Handler() http.Handler {
	return s.server.Handler
}

type chatRequest struct {
	SessionID string `json:"sessionId"`
	Message   string `json:"message"`
}

func (s *HTTPServer) handleChat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Message == "" {
		http.Error(w, "Missing required field: message", http.StatusBadRequest)
		return
	}

	ctx := logger.WithTraceID(r.Context(), ulid.Make().String())
	message := s.router.Rewrite(req.Message)
	result := s.service.HandleTurn(ctx, req.SessionID, message)
	slog.DebugContext(ctx, "chat turn served", "intent", result.Intent)

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(result); err != nil {
		slog.Error("failed to encode chat response", "error", err)
	}
}

func (s *HTTPServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
