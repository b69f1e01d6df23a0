package rest

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/fstr21/sportsmcp/internal/logger"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
)

// Server represents the REST API server
type Server struct {
	port    string
	server  *http.Server
	router  *mux.Router
	handler *Handler
	logger  zerolog.Logger
}

// NewServer wires routes and middleware. ws, when non-nil, is mounted at
// /ws/boxscores.
func NewServer(port string, handler *Handler, ws http.Handler, log zerolog.Logger) *Server {
	log = logger.Component(log, "rest")
	router := NewRouter(handler, ws, log)

	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"*"},
		ExposedHeaders: []string{"X-Request-ID"},
	})

	return &Server{
		port:    port,
		router:  router,
		handler: handler,
		logger:  log,
		server: &http.Server{
			Addr:              fmt.Sprintf(":%s", port),
			Handler:           c.Handler(router),
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// NewRouter builds the route table.
func NewRouter(handler *Handler, ws http.Handler, logger zerolog.Logger) *mux.Router {
	router := mux.NewRouter()

	// Apply middleware
	router.Use(RecoveryMiddleware(logger))
	router.Use(RequestIDMiddleware(logger))

	// Health check
	router.HandleFunc("/health", handler.HealthCheck).Methods(http.MethodGet)

	if ws != nil {
		router.Handle("/ws/boxscores", ws)
	}

	// API v1 routes
	api := router.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/leagues", handler.GetLeagues).Methods(http.MethodGet)
	if handler.live != nil {
		api.HandleFunc("/live", handler.GetLive).Methods(http.MethodGet)
	}
	api.HandleFunc("/{league}/scoreboard", handler.GetScoreboard).Methods(http.MethodGet)
	api.HandleFunc("/{league}/games/{eventID}/boxscore", handler.GetBoxscore).Methods(http.MethodGet)

	return router
}

// Handler returns the root HTTP handler, including CORS.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Start starts the REST API server
func (s *Server) Start() error {
	s.logger.Info().Str("addr", s.server.Addr).Msg("REST server listening")
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
