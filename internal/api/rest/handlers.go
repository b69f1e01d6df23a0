package rest

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/fstr21/sportsmcp/internal/boxscore"
	"github.com/fstr21/sportsmcp/internal/mcp"
	"github.com/fstr21/sportsmcp/internal/service"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

// BoxscoreService is the subset of service.Boxscores the handlers use.
type BoxscoreService interface {
	Summary(ctx context.Context, league, eventID string) (boxscore.Result, error)
	Scoreboard(ctx context.Context, league, date string) (*service.Scoreboard, error)
	LeagueKeys() []string
}

// HealthChecker reports the state of an optional dependency such as Redis.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// LiveStatus reports the state of live polling and push clients.
type LiveStatus func() map[string]interface{}

// Handler contains dependencies for HTTP handlers
type Handler struct {
	boxscores BoxscoreService
	health    map[string]HealthChecker
	live      LiveStatus
}

// NewHandler creates a new handler. deps are named dependencies reported by
// /health.
func NewHandler(boxscores BoxscoreService, deps map[string]HealthChecker) *Handler {
	return &Handler{boxscores: boxscores, health: deps}
}

// WithLive enables GET /api/v1/live.
func (h *Handler) WithLive(status LiveStatus) *Handler {
	h.live = status
	return h
}

// HealthCheck handles health check requests
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	status := http.StatusOK
	checks := make(map[string]string, len(h.health))
	for name, dep := range h.health {
		if dep == nil {
			continue
		}
		if err := dep.HealthCheck(r.Context()); err != nil {
			checks[name] = err.Error()
			status = http.StatusServiceUnavailable
			continue
		}
		checks[name] = "ok"
	}

	state := "healthy"
	if status != http.StatusOK {
		state = "degraded"
	}
	respondJSON(w, status, map[string]interface{}{
		"status":  state,
		"service": "sportsmcp",
		"checks":  checks,
	})
}

// GetLeagues lists the configured league keys.
func (h *Handler) GetLeagues(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"leagues": h.boxscores.LeagueKeys(),
	})
}

// GetLive reports the poller configuration, tracked games and the number of
// WebSocket clients.
func (h *Handler) GetLive(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.live())
}

// GetScoreboard returns one day's events for a league (?date=YYYYMMDD).
func (h *Handler) GetScoreboard(w http.ResponseWriter, r *http.Request) {
	league := mux.Vars(r)["league"]
	date := r.URL.Query().Get("date")

	sb, err := h.boxscores.Scoreboard(r.Context(), league, date)
	if err != nil {
		h.respondServiceError(w, r, "Failed to fetch scoreboard", err)
		return
	}

	respondJSON(w, http.StatusOK, sb)
}

// GetBoxscore returns a normalized boxscore, optionally narrowed with ?team=.
// ?format=text renders plain-text tables instead of JSON.
func (h *Handler) GetBoxscore(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	league, eventID := vars["league"], vars["eventID"]

	res, err := h.boxscores.Summary(r.Context(), league, eventID)
	if err != nil {
		h.respondServiceError(w, r, "Failed to fetch boxscore", err)
		return
	}

	res = boxscore.FilterTeam(res, r.URL.Query().Get("team"))

	if strings.EqualFold(r.URL.Query().Get("format"), "text") {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		if err := boxscore.Render(w, res); err != nil {
			zerolog.Ctx(r.Context()).Error().Err(err).Msg("render failed")
		}
		return
	}

	respondJSON(w, http.StatusOK, boxscore.AsMap(res, nil))
}

// respondServiceError maps service failures onto HTTP statuses. Normalizer
// sentinels keep the plain {"error": reason} body.
func (h *Handler) respondServiceError(w http.ResponseWriter, r *http.Request, message string, err error) {
	zerolog.Ctx(r.Context()).Warn().Err(err).Msg(message)

	if errors.Is(err, boxscore.ErrInvalidEnvelope) || errors.Is(err, boxscore.ErrNoBoxscore) {
		respondJSON(w, http.StatusUnprocessableEntity, boxscore.AsMap(nil, err))
		return
	}
	respondError(w, StatusFor(err), message, err)
}

// StatusFor picks the HTTP status for a service error.
func StatusFor(err error) int {
	var (
		rpcErr  *mcp.RPCError
		httpErr *mcp.HTTPError
		srvErr  *mcp.ServerError
		toolErr *service.ToolError
	)
	switch {
	case errors.Is(err, service.ErrUnknownLeague):
		return http.StatusNotFound
	case errors.Is(err, service.ErrBadDate):
		return http.StatusBadRequest
	case errors.Is(err, boxscore.ErrInvalidEnvelope), errors.Is(err, boxscore.ErrNoBoxscore):
		return http.StatusUnprocessableEntity
	case errors.As(err, &rpcErr), errors.As(err, &toolErr):
		return http.StatusFailedDependency
	case errors.As(err, &srvErr):
		if srvErr.Timeout() {
			return http.StatusGatewayTimeout
		}
		return http.StatusBadGateway
	case errors.As(err, &httpErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// respondJSON writes a JSON response
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError writes an error response
func respondError(w http.ResponseWriter, status int, message string, err error) {
	response := map[string]interface{}{
		"error":  message,
		"status": status,
	}
	if err != nil {
		response["details"] = err.Error()
	}

	respondJSON(w, status, response)
}
