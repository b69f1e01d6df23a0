package boxscore

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
)

// Render writes res as plain-text tables, one section per category.
func Render(w io.Writer, res Result) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	switch r := res.(type) {
	case *NBAResult:
		section(tw, "PLAYERS", len(r.Players))
		fmt.Fprintln(tw, "TEAM\tPLAYER\tMIN\tPTS\tREB\tAST\tFG\t3P\tFT\tSTL\tBLK\tTO\tPF\t+/-")
		for _, p := range r.Players {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%d\t%s\t%s\t%s\t%d\t%d\t%d\t%d\t%s\n",
				p.Team, p.Name, p.Minutes, p.Points, p.Rebounds, p.Assists,
				p.FieldGoals, p.ThreePointers, p.FreeThrows, p.Steals, p.Blocks, p.Turnovers, p.Fouls, p.PlusMinus)
		}
		section(tw, "TEAM STATS", len(r.TeamStats))
		fmt.Fprintln(tw, "TEAM\tPTS\tREB\tAST\tFG\t3P\tFT\tSTL\tBLK\tTO\tPF")
		for _, t := range r.TeamStats {
			fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%s\t%s\t%s\t%d\t%d\t%d\t%d\n",
				t.Team, t.Points, t.Rebounds, t.Assists, t.FieldGoals, t.ThreePointers, t.FreeThrows,
				t.Steals, t.Blocks, t.Turnovers, t.Fouls)
		}
	case *NHLResult:
		section(tw, "SKATERS", len(r.Skaters))
		fmt.Fprintln(tw, "TEAM\tPLAYER\tG\tA\tPTS\t+/-\tS\tHT\tBS\tPIM\tTOI")
		for _, s := range r.Skaters {
			fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\t%+d\t%d\t%d\t%d\t%d\t%s\n",
				s.Team, s.Name, s.Goals, s.Assists, s.Points, s.PlusMinus, s.Shots, s.Hits, s.BlockedShots, s.PIM, s.TimeOnIce)
		}
		section(tw, "GOALIES", len(r.Goalies))
		fmt.Fprintln(tw, "TEAM\tPLAYER\tSV\tSA\tGA\tSV%\tTOI")
		for _, g := range r.Goalies {
			fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\t%s\t%s\n",
				g.Team, g.Name, g.Saves, g.ShotsAgainst, g.GoalsAgainst, g.SavePct, g.TimeOnIce)
		}
	case *SoccerResult:
		section(tw, "PLAYERS", len(r.Players))
		fmt.Fprintln(tw, "TEAM\tPLAYER\tMIN\tG\tA\tSH\tST\tFC\tYC\tRC")
		for _, p := range r.Players {
			fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\t%d\t%d\t%d\t%d\t%d\n",
				p.Team, p.Name, p.Minutes, p.Goals, p.Assists, p.Shots, p.ShotsOnTarget, p.Fouls, p.YellowCards, p.RedCards)
		}
		section(tw, "GOALKEEPERS", len(r.Goalkeepers))
		fmt.Fprintln(tw, "TEAM\tPLAYER\tMIN\tSV\tGA\tYC\tRC")
		for _, g := range r.Goalkeepers {
			fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\t%d\t%d\n",
				g.Team, g.Name, g.Minutes, g.Saves, g.GoalsConceded, g.YellowCards, g.RedCards)
		}
	default:
		return fmt.Errorf("render: unsupported result %T", res)
	}

	return tw.Flush()
}

func section(w io.Writer, title string, n int) {
	fmt.Fprintf(w, "\n%s (%d)\n", title, n)
}

// Leaders returns a one-line-per-team summary of each team's top performer,
// used by chat replies where full tables do not fit.
func Leaders(res Result) []string {
	var lines []string
	switch r := res.(type) {
	case *NBAResult:
		for _, team := range r.Teams() {
			var best *NBAPlayer
			for i := range r.Players {
				p := &r.Players[i]
				if p.Team == team && (best == nil || p.Points > best.Points) {
					best = p
				}
			}
			if best != nil {
				lines = append(lines, fmt.Sprintf("%s: %s %d PTS, %d REB, %d AST", team, best.Name, best.Points, best.Rebounds, best.Assists))
			}
		}
	case *NHLResult:
		for _, team := range r.Teams() {
			var best *NHLSkater
			for i := range r.Skaters {
				s := &r.Skaters[i]
				if s.Team == team && (best == nil || s.Points > best.Points) {
					best = s
				}
			}
			if best != nil {
				lines = append(lines, fmt.Sprintf("%s: %s %dG %dA", team, best.Name, best.Goals, best.Assists))
			}
		}
	case *SoccerResult:
		for _, team := range r.Teams() {
			var scorers []string
			for _, p := range r.Players {
				if p.Team == team && p.Goals > 0 {
					scorers = append(scorers, fmt.Sprintf("%s (%d)", p.Name, p.Goals))
				}
			}
			if len(scorers) > 0 {
				lines = append(lines, fmt.Sprintf("%s: %s", team, strings.Join(scorers, ", ")))
			}
		}
	}
	return lines
}
