package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"secsentry/internal/auth"
	"secsentry/internal/config"
	"secsentry/internal/events"
	"secsentry/internal/store"
	"secsentry/internal/websocket"
)

// Server represents the HTTP server
type Server struct {
	router *mux.Router
	server *http.Server
}

// App bundles everything the HTTP handlers need.
type App struct {
	Config    *config.Config
	Sessions  *SessionManager
	Archive   *store.Archive
	Events    *events.Producer
	WSManager *websocket.Manager
	Auth      *auth.Service
}

// NewServer creates a new HTTP server
func NewServer(port int) *Server {
	router := mux.NewRouter()

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return &Server{
		router: router,
		server: server,
	}
}

// Start starts the server and blocks until it stops or ctx is cancelled.
func Start(ctx context.Context, app *App) error {
	port := app.Config.ServerPort
	server := NewServer(port)

	rateLimiter := NewRateLimiter(time.Minute, 100)
	server.router.Use(corsMiddleware)
	server.router.Use(securityHeadersMiddleware)
	server.router.Use(rateLimitMiddleware(rateLimiter))
	server.router.Use(validationMiddleware)

	setupRoutes(server.router, app)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.server.Shutdown(shutdownCtx); err != nil {
			log.Printf("⚠️  Server shutdown error: %v", err)
		}
	}()

	log.Printf("🌐 Starting SecSentry server on port %d...", port)
	log.Printf("📊 API endpoints available on http://localhost:%d/api/v1/", port)
	log.Printf("🔗 WebSocket available on ws://localhost:%d/ws", port)

	err := server.server.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// setupRoutes configures all the HTTP routes
func setupRoutes(router *mux.Router, app *App) {
	api := router.PathPrefix("/api/v1").Subrouter()

	// WebSocket endpoint for live assessment updates
	router.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		app.WSManager.HandleConnection(w, r)
	})

	// Health check
	router.HandleFunc("/health", handleHealth).Methods("GET")

	// protect wraps mutating handlers with JWT auth when auth is enabled.
	protect := func(h http.HandlerFunc) http.HandlerFunc {
		if app.Config.Auth.Enable {
			return app.Auth.Middleware(h)
		}
		return h
	}

	// Authentication routes
	if app.Config.Auth.Enable {
		api.HandleFunc("/auth/register", func(w http.ResponseWriter, r *http.Request) {
			handleRegister(w, r, app)
		}).Methods("POST")
		api.HandleFunc("/auth/logout", func(w http.ResponseWriter, r *http.Request) {
			handleLogout(w, r, app)
		}).Methods("POST")
	}

	// Session routes
	api.HandleFunc("/sessions", protect(func(w http.ResponseWriter, r *http.Request) {
		handleCreateSession(w, r, app)
	})).Methods("POST")

	api.HandleFunc("/sessions/{id}/turns", protect(func(w http.ResponseWriter, r *http.Request) {
		handleProcessTurn(w, r, app)
	})).Methods("POST")

	api.HandleFunc("/sessions/{id}/assessment", func(w http.ResponseWriter, r *http.Request) {
		handleGetAssessment(w, r, app)
	}).Methods("GET")

	api.HandleFunc("/sessions/{id}/report", func(w http.ResponseWriter, r *http.Request) {
		handleGetReport(w, r, app)
	}).Methods("GET")

	api.HandleFunc("/sessions/{id}", protect(func(w http.ResponseWriter, r *http.Request) {
		handleDeleteSession(w, r, app)
	})).Methods("DELETE")

	// Semantic search over archived responses
	api.HandleFunc("/search", func(w http.ResponseWriter, r *http.Request) {
		handleSearch(w, r, app)
	}).Methods("GET")

	// System metrics endpoint
	api.HandleFunc("/metrics", func(w http.ResponseWriter, r *http.Request) {
		handleSystemMetrics(w, r, app)
	}).Methods("GET")
}

// handleHealth returns health check status
func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy","timestamp":"` + time.Now().Format(time.RFC3339) + `","version":"1.0.0"}`))
}
