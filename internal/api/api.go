package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/ndrandal/price-simulator/internal/format"
	"github.com/ndrandal/price-simulator/internal/session"
	"github.com/ndrandal/price-simulator/internal/simulation"
)

// Server provides REST API endpoints for the simulator.
type Server struct {
	ctrl      *simulation.Controller
	mgr       *session.Manager
	printer   *format.Formatter
	seed      int64
	sessionID string
	startAt   time.Time
}

// NewServer creates a new API server. mgr may be nil when no websocket
// feed is attached.
func NewServer(ctrl *simulation.Controller, mgr *session.Manager, f *format.Formatter, seed int64) *Server {
	if f == nil {
		f = format.New(format.DefaultTag)
	}
	return &Server{
		ctrl:      ctrl,
		mgr:       mgr,
		printer:   f,
		seed:      seed,
		sessionID: uuid.NewString(),
		startAt:   time.Now(),
	}
}

// SessionID identifies this simulation session for its lifetime.
func (s *Server) SessionID() string {
	return s.sessionID
}

// Register attaches API routes to the given mux.
func (s *Server) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/state", s.handleState)
	mux.HandleFunc("PUT /api/price", s.handleSetPrice)
	mux.HandleFunc("GET /api/events", s.handleEvents)
	mux.HandleFunc("GET /api/events/history", s.handleHistory)
	mux.HandleFunc("POST /api/events/random", s.handleRandomEvent)
	mux.HandleFunc("POST /api/events/{id}", s.handleApplyEvent)
	mux.HandleFunc("POST /api/reset", s.handleReset)
	mux.HandleFunc("GET /api/maximization", s.handleMaximization)
	mux.HandleFunc("GET /api/curve", s.handleCurve)
	mux.HandleFunc("GET /api/stats", s.handleStats)
	mux.HandleFunc("GET /health", s.handleHealth)
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// parseFloatParam parses a float query parameter with a default value.
func parseFloatParam(r *http.Request, key string, def float64) (float64, error) {
	v := r.URL.Query().Get(key)
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q", key, v)
	}
	return f, nil
}
