// Package server exposes a TapCounter over HTTP and WebSocket.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/brianly1003/relaykit/internal/adapters/journal"
	"github.com/brianly1003/relaykit/internal/domain"
	"github.com/brianly1003/relaykit/internal/domain/events"
	"github.com/brianly1003/relaykit/internal/server/websocket"
	"github.com/brianly1003/relaykit/internal/viewmodel"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"
)

// HistoryStore is the part of the journal the server reads.
type HistoryStore interface {
	History(name string, limit int) ([]journal.Entry, error)
}

// Server serves one counter.
type Server struct {
	addr         string
	name         string
	counter      *viewmodel.TapCounter
	history      HistoryStore
	historyLimit int

	hub        *websocket.Hub
	router     http.Handler
	httpServer *http.Server
	startTime  time.Time
}

// New creates a server for counter, published under name. history may be nil,
// in which case the history endpoint reports the journal as disabled.
func New(host string, port int, name string, counter *viewmodel.TapCounter, history HistoryStore, historyLimit int) *Server {
	s := &Server{
		addr:         fmt.Sprintf("%s:%d", host, port),
		name:         name,
		counter:      counter,
		history:      history,
		historyLimit: historyLimit,
		startTime:    time.Now(),
	}
	s.hub = websocket.NewHub(name, counter.Changes(), s.handleCommand)
	s.router = s.routes()
	return s
}

func (s *Server) routes() http.Handler {
	router := mux.NewRouter()

	router.HandleFunc("/health", s.handleHealth).Methods("GET")

	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/counter", s.handleGetCounter).Methods("GET")
	api.HandleFunc("/counter", s.handleSetCounter).Methods("PUT")
	api.HandleFunc("/counter/tap", s.handleTap).Methods("POST")
	api.HandleFunc("/counter/history", s.handleHistory).Methods("GET")

	router.Handle("/ws", s.hub)

	return corsMiddleware(router)
}

// Handler returns the HTTP handler, for embedding or tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Hub returns the WebSocket hub.
func (s *Server) Hub() *websocket.Hub {
	return s.hub
}

// Addr returns the listen address.
func (s *Server) Addr() string {
	return s.addr
}

// Start starts listening in the background.
func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:        s.addr,
		Handler:     s.router,
		ReadTimeout: 30 * time.Second,
		// No WriteTimeout: it would cut long-lived WebSocket connections.
		IdleTimeout: 120 * time.Second,
	}

	s.hub.Start()

	log.Info().Str("addr", s.addr).Str("stream", s.name).Msg("server starting")

	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("HTTP server error")
		}
	}()

	return nil
}

// Stop disconnects every client and shuts the listener down.
func (s *Server) Stop(ctx context.Context) error {
	log.Info().Msg("server stopping")
	s.hub.Stop()
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

type valueResponse struct {
	Stream string `json:"stream"`
	Value  int    `json:"value"`
}

type setRequest struct {
	Value *int `json:"value"`
}

type historyResponse struct {
	Stream  string          `json:"stream"`
	Entries []journal.Entry `json:"entries"`
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// handleHealth handles GET /health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"status":         "ok",
		"service":        "relaykit",
		"clients":        s.hub.ClientCount(),
		"uptime_seconds": int64(time.Since(s.startTime).Seconds()),
		"timestamp":      time.Now().Unix(),
	})
}

// handleGetCounter handles GET /api/counter
func (s *Server) handleGetCounter(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, valueResponse{Stream: s.name, Value: s.counter.Value()})
}

// handleSetCounter handles PUT /api/counter
func (s *Server) handleSetCounter(w http.ResponseWriter, r *http.Request) {
	var req setRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, domain.ErrCodeInvalidPayload, "invalid JSON body")
		return
	}
	if req.Value == nil {
		respondError(w, http.StatusBadRequest, domain.ErrCodeInvalidValue, "value is required")
		return
	}

	s.counter.Set(*req.Value)
	respondJSON(w, http.StatusOK, valueResponse{Stream: s.name, Value: *req.Value})
}

// handleTap handles POST /api/counter/tap
func (s *Server) handleTap(w http.ResponseWriter, r *http.Request) {
	v := s.counter.Tap()
	respondJSON(w, http.StatusOK, valueResponse{Stream: s.name, Value: v})
}

// handleHistory handles GET /api/counter/history?limit=n
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		respondError(w, http.StatusNotFound, domain.ErrCodeJournalDisabled, domain.ErrJournalDisabled.Error())
		return
	}

	limit := s.historyLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			respondError(w, http.StatusBadRequest, domain.ErrCodeInvalidValue, "limit must be a positive integer")
			return
		}
		limit = min(n, s.historyLimit)
	}

	entries, err := s.history.History(s.name, limit)
	if err != nil {
		log.Error().Err(err).Msg("failed to read history")
		respondError(w, http.StatusInternalServerError, domain.ErrCodeInternalError, "failed to read history")
		return
	}

	respondJSON(w, http.StatusOK, historyResponse{Stream: s.name, Entries: entries})
}

// clientCommand is a message a WebSocket client sends.
type clientCommand struct {
	Command   string `json:"command"`
	Value     *int   `json:"value,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

// handleCommand applies tap and set commands from WebSocket clients. The
// resulting value reaches every client through its subscription.
func (s *Server) handleCommand(clientID string, message []byte) {
	var cmd clientCommand
	if err := json.Unmarshal(message, &cmd); err != nil {
		s.replyError(clientID, domain.ErrCodeInvalidPayload, "invalid JSON command", "")
		return
	}

	switch strings.ToLower(cmd.Command) {
	case "tap":
		s.counter.Tap()
	case "set":
		if cmd.Value == nil {
			s.replyError(clientID, domain.ErrCodeInvalidValue, "value is required", cmd.RequestID)
			return
		}
		s.counter.Set(*cmd.Value)
	default:
		s.replyError(clientID, domain.ErrCodeInvalidPayload,
			fmt.Sprintf("unknown command %q", cmd.Command), cmd.RequestID)
		return
	}

	log.Debug().Str("client_id", clientID).Str("command", cmd.Command).Msg("command applied")
}

func (s *Server) replyError(clientID, code, message, requestID string) {
	data, err := events.NewErrorEvent(code, message, requestID).ToJSON()
	if err != nil {
		log.Warn().Err(err).Msg("failed to serialize error event")
		return
	}
	if err := s.hub.SendTo(clientID, data); err != nil {
		log.Debug().Err(err).Str("client_id", clientID).Msg("could not reply to client")
	}
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error().Err(err).Msg("failed to encode JSON response")
	}
}

// respondError sends an error response
func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, errorResponse{Error: message, Code: code})
}

// corsMiddleware adds CORS headers
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if strings.Contains(origin, "localhost") || strings.Contains(origin, "127.0.0.1") {
			w.Header().Set("Access-Control-Allow-Origin", origin)
		} else {
			w.Header().Set("Access-Control-Allow-Origin", "*")
		}

		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		w.Header().Set("Access-Control-Max-Age", "3600")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}
