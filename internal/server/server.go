// Package server provides the HTTP server for pingpoint.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/ayusman/pingpoint/internal/app"
	"github.com/ayusman/pingpoint/internal/hook"
	"github.com/ayusman/pingpoint/internal/server/api"
	"github.com/ayusman/pingpoint/internal/store"
)

// Config holds the server configuration. Routes whose collaborator is nil
// are not registered.
type Config struct {
	StaticDir string
	Store     *store.Store
	Session   *app.Session
	Hooks     *hook.Manager
	// Context bounds sessions started over HTTP.
	Context context.Context
}

// Server represents the HTTP server for pingpoint.
type Server struct {
	config Config
	mux    *http.ServeMux
	start  time.Time
	events *EventsHandler
	unsub  func()
}

// New creates a new Server with the given configuration.
func New(config Config) *Server {
	if config.Context == nil {
		config.Context = context.Background()
	}
	s := &Server{
		config: config,
		mux:    http.NewServeMux(),
		start:  time.Now(),
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes for the server.
func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/api/health", s.handleHealth)

	if s.config.Session != nil {
		sessionHandler := api.NewSessionHandler(s.config.Context, s.config.Session)
		for _, path := range []string{"/api/status", "/api/session/start", "/api/session/stop", "/api/calibration", "/api/settings"} {
			s.mux.Handle(path, sessionHandler)
		}

		s.events = NewEventsHandler()
		s.unsub = s.config.Session.Subscribe(s.events.Publish)
		s.mux.Handle("/api/events", s.events)
	}

	if s.config.Store != nil {
		s.mux.Handle("/api/detections", api.NewDetectionHandler(s.config.Store))

		bindingHandler := api.NewBindingHandler(s.config.Store, s.config.Hooks)
		s.mux.Handle("/api/bindings", bindingHandler)
		s.mux.Handle("/api/bindings/", bindingHandler)
	}

	if s.config.Hooks != nil {
		s.mux.Handle("/api/hooks", api.NewHookHandler(s.config.Hooks))
	}

	// Serve static files if StaticDir is configured
	if s.config.StaticDir != "" {
		fs := http.FileServer(http.Dir(s.config.StaticDir))
		s.mux.Handle("/", fs)
	}
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// Close detaches the server from the session's points.
func (s *Server) Close() {
	if s.unsub != nil {
		s.unsub()
		s.unsub = nil
	}
}

// handleHealth handles GET requests to /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	uptime := time.Since(s.start)

	response := map[string]interface{}{
		"status": "ok",
		"uptime": uptime.String(),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

// ListenAndServe starts the HTTP server on the given address.
func (s *Server) ListenAndServe(addr string) error {
	return http.ListenAndServe(addr, s)
}
