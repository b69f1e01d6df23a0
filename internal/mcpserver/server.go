// Package mcpserver exposes normalized boxscores as MCP tools so LLM clients
// receive flat records instead of raw ESPN summaries.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/fstr21/sportsmcp/internal/boxscore"
	"github.com/fstr21/sportsmcp/internal/config"
	"github.com/fstr21/sportsmcp/internal/logger"
	"github.com/fstr21/sportsmcp/internal/service"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog"
)

const (
	serverName    = "sportsmcp"
	serverVersion = "0.1.0"
)

// Service is the boxscore surface the tools call.
type Service interface {
	League(key string) (config.League, error)
	LeagueKeys() []string
	Summary(ctx context.Context, league, eventID string) (boxscore.Result, error)
	Scoreboard(ctx context.Context, league, date string) (*service.Scoreboard, error)
}

// BoxscoreArgs is the input schema for normalized_boxscore.
type BoxscoreArgs struct {
	League  string `json:"league" jsonschema:"league key, e.g. nba, nhl, epl"`
	EventID string `json:"event_id" jsonschema:"ESPN event id"`
	Team    string `json:"team,omitempty" jsonschema:"optional team name, abbreviation or nickname to filter by"`
}

// ScoreboardArgs is the input schema for scoreboard.
type ScoreboardArgs struct {
	League string `json:"league" jsonschema:"league key, e.g. nba, nhl, epl"`
	Date   string `json:"date,omitempty" jsonschema:"optional date as YYYYMMDD, defaults to today"`
}

// ListLeaguesArgs is the input schema for list_leagues (no parameters).
type ListLeaguesArgs struct{}

// LeagueInfo is one entry of list_leagues.
type LeagueInfo struct {
	Key        string `json:"key"`
	Sport      string `json:"sport"`
	League     string `json:"league"`
	Normalizer string `json:"normalizer"`
	Path       string `json:"path"`
}

// Tools holds the tool handlers.
type Tools struct {
	svc    Service
	logger zerolog.Logger
}

func NewTools(svc Service, log zerolog.Logger) *Tools {
	return &Tools{svc: svc, logger: logger.Component(log, "mcpserver")}
}

// NewServer registers every tool on a fresh MCP server.
func NewServer(tools *Tools) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{Name: serverName, Version: serverVersion}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "normalized_boxscore",
		Description: "Per-player and per-team boxscore records for one game, flattened by sport",
	}, tools.Boxscore)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "scoreboard",
		Description: "Games for a league on a date, with event ids for normalized_boxscore",
	}, tools.Scoreboard)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_leagues",
		Description: "Configured league keys and the normalizer each uses",
	}, tools.ListLeagues)

	return server
}

// Handler serves the tools over streamable HTTP.
func Handler(server *mcp.Server) http.Handler {
	return mcp.NewStreamableHTTPHandler(func(r *http.Request) *mcp.Server {
		return server
	}, &mcp.StreamableHTTPOptions{JSONResponse: true})
}

func (t *Tools) Boxscore(ctx context.Context, req *mcp.CallToolRequest, args BoxscoreArgs) (*mcp.CallToolResult, any, error) {
	if args.League == "" || args.EventID == "" {
		return toolError(fmt.Errorf("league and event_id are required")), nil, nil
	}
	res, err := t.svc.Summary(ctx, args.League, args.EventID)
	if err != nil {
		t.logger.Warn().Err(err).Str("league", args.League).Str("event_id", args.EventID).Msg("normalized_boxscore failed")
		return toolError(err), nil, nil
	}
	res = boxscore.FilterTeam(res, args.Team)
	return toolJSON(map[string]any{
		"league":     args.League,
		"event_id":   args.EventID,
		"sport":      res.Sport(),
		"teams":      res.Teams(),
		"categories": res.Categories(),
	})
}

func (t *Tools) Scoreboard(ctx context.Context, req *mcp.CallToolRequest, args ScoreboardArgs) (*mcp.CallToolResult, any, error) {
	if args.League == "" {
		return toolError(fmt.Errorf("league is required")), nil, nil
	}
	sb, err := t.svc.Scoreboard(ctx, args.League, args.Date)
	if err != nil {
		return toolError(err), nil, nil
	}
	return toolJSON(map[string]any{
		"league": sb.League,
		"date":   sb.Date,
		"events": sb.Events,
	})
}

func (t *Tools) ListLeagues(ctx context.Context, req *mcp.CallToolRequest, args ListLeaguesArgs) (*mcp.CallToolResult, any, error) {
	keys := t.svc.LeagueKeys()
	out := make([]LeagueInfo, 0, len(keys))
	for _, key := range keys {
		l, err := t.svc.League(key)
		if err != nil {
			continue
		}
		out = append(out, LeagueInfo{Key: l.Key, Sport: l.Sport, League: l.League, Normalizer: l.Normalizer, Path: l.Path()})
	}
	return toolJSON(map[string]any{"leagues": out})
}

func toolJSON(v any) (*mcp.CallToolResult, any, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return toolError(err), nil, nil
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(b)},
		},
	}, nil, nil
}

func toolError(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{
			&mcp.TextContent{Text: fmt.Sprintf("error: %v", err)},
		},
	}
}
