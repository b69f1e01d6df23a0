package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fstr21/sportsmcp/internal/boxscore"
	"github.com/fstr21/sportsmcp/internal/config"
	"github.com/fstr21/sportsmcp/internal/logger"
	"github.com/fstr21/sportsmcp/internal/mcp"
	"github.com/rs/zerolog"
)

var (
	ErrUnknownLeague = errors.New("unknown league")
	ErrBadDate       = errors.New("invalid date (use YYYYMMDD)")
)

// ToolError is an ok:false reply from a tool that does not feed a normalizer.
type ToolError struct {
	Tool    string
	Message string
}

func (e *ToolError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s failed", e.Tool)
	}
	return fmt.Sprintf("%s failed: %s", e.Tool, e.Message)
}

// Leagues resolves league keys; *config.Config implements it.
type Leagues interface {
	Lookup(key string) (config.League, bool)
	LeagueKeys() []string
}

// Boxscores fetches game summaries over MCP and normalizes them.
type Boxscores struct {
	caller    mcp.Caller
	serverURL string
	leagues   Leagues
	registry  *boxscore.Registry
	logger    zerolog.Logger
}

// NewBoxscores builds the service from configuration.
func NewBoxscores(caller mcp.Caller, cfg *config.Config, logger zerolog.Logger) *Boxscores {
	return New(caller, cfg.MCPURL, cfg, boxscore.DefaultRegistry(cfg.CategoryAliases), logger)
}

func New(caller mcp.Caller, serverURL string, leagues Leagues, registry *boxscore.Registry, log zerolog.Logger) *Boxscores {
	return &Boxscores{
		caller:    caller,
		serverURL: serverURL,
		leagues:   leagues,
		registry:  registry,
		logger:    logger.Component(log, "boxscores"),
	}
}

// League resolves a league key.
func (s *Boxscores) League(key string) (config.League, error) {
	l, ok := s.leagues.Lookup(key)
	if !ok {
		return config.League{}, fmt.Errorf("%w %q (known: %s)", ErrUnknownLeague, key, strings.Join(s.leagues.LeagueKeys(), ", "))
	}
	return l, nil
}

// LeagueKeys lists the configured leagues.
func (s *Boxscores) LeagueKeys() []string {
	return s.leagues.LeagueKeys()
}

// Summary fetches and normalizes one game's boxscore. Transport and protocol
// failures come back as mcp errors; data-shape failures as the boxscore
// sentinels, unwrapped so their text is the user-facing reason.
func (s *Boxscores) Summary(ctx context.Context, leagueKey, eventID string) (boxscore.Result, error) {
	league, err := s.League(leagueKey)
	if err != nil {
		return nil, err
	}
	normalizer, ok := s.registry.Lookup(league.Normalizer)
	if !ok {
		return nil, fmt.Errorf("%w %q: no %q normalizer", ErrUnknownLeague, league.Key, league.Normalizer)
	}

	start := time.Now()
	res, err := s.caller.Call(ctx, s.serverURL, league.SummaryTool, summaryArgs(league, eventID))
	if err != nil {
		return nil, fmt.Errorf("fetching %s game %s: %w", league.Key, eventID, err)
	}
	if !res.OK {
		s.logger.Warn().Str("league", league.Key).Str("event_id", eventID).Str("tool_error", res.Error).Msg("summary tool reported failure")
	}

	normalized, err := normalizer.Normalize(boxscore.Decode(res.Envelope()))
	if err != nil {
		return nil, err
	}
	s.logger.Debug().
		Str("league", league.Key).
		Str("path", league.Path()).
		Str("event_id", eventID).
		Strs("teams", normalized.Teams()).
		Dur("elapsed", time.Since(start)).
		Msg("boxscore normalized")
	return normalized, nil
}

func summaryArgs(league config.League, eventID string) map[string]any {
	return map[string]any{
		"sport":    league.Sport,
		"league":   league.League,
		"event_id": eventID,
	}
}

// Scoreboard lists one day's events. An empty date means the provider's
// current day.
func (s *Boxscores) Scoreboard(ctx context.Context, leagueKey, date string) (*Scoreboard, error) {
	league, err := s.League(leagueKey)
	if err != nil {
		return nil, err
	}
	if date != "" {
		if _, err := time.Parse("20060102", date); err != nil {
			return nil, fmt.Errorf("%w: %q", ErrBadDate, date)
		}
	}

	args := map[string]any{"sport": league.Sport, "league": league.League}
	if date != "" {
		args["dates"] = date
	}
	res, err := s.caller.Call(ctx, s.serverURL, league.ScoreboardTool, args)
	if err != nil {
		return nil, fmt.Errorf("fetching %s scoreboard: %w", league.Key, err)
	}
	if !res.OK {
		return nil, &ToolError{Tool: league.ScoreboardTool, Message: res.Error}
	}

	return &Scoreboard{
		League: league.Key,
		Date:   date,
		Events: ParseEvents(res.Data),
		Data:   res.Data,
	}, nil
}
