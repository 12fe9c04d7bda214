// Package server provides the HTTP surface of the gesture driving app:
// session history, the camera preview stream, and live control telemetry.
package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/ayusman/gesturedrive/internal/capture"
	"github.com/ayusman/gesturedrive/internal/server/api"
	"github.com/ayusman/gesturedrive/internal/sim"
	"github.com/ayusman/gesturedrive/internal/store"
)

// Config holds the server configuration.
type Config struct {
	StaticDir string
	Store     *store.Store
	// Frames is the driving loop's latest-frame buffer, backing the
	// MJPEG preview stream.
	Frames *capture.FrameBuffer
}

// Server is the HTTP server. The telemetry hub is created with the
// server; the driving loop pushes control states into it.
type Server struct {
	config    Config
	mux       *http.ServeMux
	telemetry *TelemetryHub
	start     time.Time
}

// New creates a new Server with the given configuration.
func New(config Config) *Server {
	s := &Server{
		config:    config,
		mux:       http.NewServeMux(),
		telemetry: NewTelemetryHub(),
		start:     time.Now(),
	}
	s.setupRoutes()
	return s
}

// Telemetry returns the hub the driving loop publishes into.
func (s *Server) Telemetry() *TelemetryHub {
	return s.telemetry
}

// setupRoutes configures all HTTP routes for the server.
func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/api/health", s.handleHealth)
	s.mux.HandleFunc("/api/modes", s.handleModes)
	s.mux.Handle("/api/telemetry", s.telemetry)

	if s.config.Store != nil {
		sessionsHandler := api.NewSessionsHandler(s.config.Store)
		s.mux.Handle("/api/sessions", sessionsHandler)
		s.mux.Handle("/api/sessions/", sessionsHandler)
	}

	if s.config.Frames != nil {
		s.mux.Handle("/api/stream", NewStreamHandler(s.config.Frames))
	}

	if s.config.StaticDir != "" {
		fs := http.FileServer(http.Dir(s.config.StaticDir))
		s.mux.Handle("/", fs)
	}
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// handleHealth handles GET requests to /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	response := map[string]interface{}{
		"status": "ok",
		"uptime": time.Since(s.start).String(),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

// handleModes lists the game mode presets for the UI's mode picker.
func (s *Server) handleModes(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	type modeResponse struct {
		ID               string  `json:"id"`
		Name             string  `json:"name"`
		Description      string  `json:"description"`
		ScoreMultiplier  float64 `json:"score_multiplier"`
		TimeLimitSeconds float64 `json:"time_limit_seconds,omitempty"`
	}

	var modes []modeResponse
	for _, m := range sim.Modes() {
		modes = append(modes, modeResponse{
			ID:               m.ID,
			Name:             m.Name,
			Description:      m.Description,
			ScoreMultiplier:  m.ScoreMultiplier,
			TimeLimitSeconds: m.TimeLimit.Seconds(),
		})
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]any{"modes": modes}); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

// ListenAndServe starts the HTTP server on the given address.
func (s *Server) ListenAndServe(addr string) error {
	return http.ListenAndServe(addr, s)
}
