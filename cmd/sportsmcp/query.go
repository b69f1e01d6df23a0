package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/fstr21/sportsmcp/internal/boxscore"
	"github.com/fstr21/sportsmcp/internal/config"
	"github.com/fstr21/sportsmcp/internal/logger"
	"github.com/fstr21/sportsmcp/internal/mcp"
	"github.com/fstr21/sportsmcp/internal/service"
	"github.com/spf13/cobra"
)

// newService builds the boxscore service for one-shot commands. Logs go to
// stderr so stdout stays machine-readable.
func newService() (*service.Boxscores, error) {
	level := os.Getenv("LOG_LEVEL")
	if level == "" {
		level = "warn"
	}
	log := logger.Parse(level).Output(os.Stderr)
	cfg, err := config.Load(log)
	if err != nil {
		return nil, err
	}
	client := mcp.NewClient(mcp.WithTimeout(cfg.MCPTimeout), mcp.WithLogger(log))
	return service.NewBoxscores(client, cfg, log), nil
}

func summaryCmd() *cobra.Command {
	var (
		team   string
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "summary <league> <eventID>",
		Short: "Fetch and normalize one game's boxscore",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newService()
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			return runSummary(ctx, svc, cmd.OutOrStdout(), args[0], args[1], team, asJSON)
		},
	}
	cmd.Flags().StringVar(&team, "team", "", "Only show this team (name, abbreviation or nickname)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the category map as JSON")
	return cmd
}

type summaryService interface {
	Summary(ctx context.Context, league, eventID string) (boxscore.Result, error)
}

func runSummary(ctx context.Context, svc summaryService, w io.Writer, league, eventID, team string, asJSON bool) error {
	res, err := svc.Summary(ctx, league, eventID)
	if asJSON {
		if encErr := writeJSON(w, boxscore.AsMap(boxscore.FilterTeam(res, team), err)); encErr != nil {
			return encErr
		}
		return err
	}
	if err != nil {
		return err
	}

	res = boxscore.FilterTeam(res, team)
	for _, line := range boxscore.Leaders(res) {
		fmt.Fprintln(w, line)
	}
	return boxscore.Render(w, res)
}

func scoreboardCmd() *cobra.Command {
	var date string
	cmd := &cobra.Command{
		Use:   "scoreboard <league>",
		Short: "List a league's games and event IDs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newService()
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			sb, err := svc.Scoreboard(ctx, args[0], date)
			if err != nil {
				return err
			}
			printScoreboard(cmd.OutOrStdout(), sb)
			return nil
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "Date as YYYYMMDD (default today)")
	return cmd
}

func printScoreboard(w io.Writer, sb *service.Scoreboard) {
	if len(sb.Events) == 0 {
		fmt.Fprintln(w, "No games found.")
		return
	}
	for _, ev := range sb.Events {
		name := ev.ShortName
		if name == "" {
			name = ev.Name
		}
		score := ""
		if ev.Status != service.StatusScheduled {
			score = fmt.Sprintf("%s-%s", ev.Away.Score, ev.Home.Score)
		}
		fmt.Fprintf(w, "%-12s %-24s %-7s %s\n", ev.ID, name, score, ev.Detail)
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
