package boxscore

// NBA stat labels. Each field accepts a few header spellings seen across
// ESPN payload versions.
var (
	nbaMinutes   = []string{"MIN", "MINUTES"}
	nbaFG        = []string{"FG", "FGM-A"}
	nba3PT       = []string{"3PT", "3P", "3PM-A"}
	nbaFT        = []string{"FT", "FTM-A"}
	nbaRebounds  = []string{"REB", "TREB"}
	nbaAssists   = []string{"AST"}
	nbaSteals    = []string{"STL"}
	nbaBlocks    = []string{"BLK"}
	nbaTurnovers = []string{"TO", "TOV"}
	nbaFouls     = []string{"PF"}
	nbaPlusMinus = []string{"+/-", "PM", "PLUSMINUS"}
	nbaPoints    = []string{"PTS", "POINTS"}
)

// Column layouts used only when a group carries no headers. A row of any
// other width is left unattributed (counting stats 0, display stats "N/A").
var (
	nbaLayout = layoutIndex(
		"MIN", "FG", "3PT", "FT", "OREB", "DREB", "REB", "AST", "STL", "BLK", "TO", "PF", "PTS",
	)
	nbaLayoutPlusMinus = layoutIndex(
		"MIN", "FG", "3PT", "FT", "OREB", "DREB", "REB", "AST", "STL", "BLK", "TO", "PF", "+/-", "PTS",
	)
)

func layoutIndex(labels ...string) map[string]int {
	index := make(map[string]int, len(labels))
	for i, l := range labels {
		index[l] = i
	}
	return index
}

// NBAPlayer is one player's normalized basketball line.
type NBAPlayer struct {
	Team          string `json:"team"`
	Name          string `json:"name"`
	Starter       bool   `json:"starter"`
	Minutes       string `json:"min"`
	Points        int    `json:"pts"`
	Rebounds      int    `json:"reb"`
	Assists       int    `json:"ast"`
	FieldGoals    string `json:"fg"`
	ThreePointers string `json:"3p"`
	FreeThrows    string `json:"ft"`
	Steals        int    `json:"stl"`
	Blocks        int    `json:"blk"`
	Turnovers     int    `json:"to"`
	Fouls         int    `json:"pf"`
	PlusMinus     string `json:"plus_minus"`
}

// NBATeam is one team's aggregate line.
type NBATeam struct {
	Team          string `json:"team"`
	Points        int    `json:"pts"`
	Rebounds      int    `json:"reb"`
	Assists       int    `json:"ast"`
	FieldGoals    string `json:"fg"`
	ThreePointers string `json:"3p"`
	FreeThrows    string `json:"ft"`
	Steals        int    `json:"stl"`
	Blocks        int    `json:"blk"`
	Turnovers     int    `json:"to"`
	Fouls         int    `json:"pf"`
}

// NBAResult holds the "players" and "team_stats" categories.
type NBAResult struct {
	Players   []NBAPlayer `json:"players"`
	TeamStats []NBATeam   `json:"team_stats"`
}

func (r *NBAResult) Sport() string { return SportNBA }

func (r *NBAResult) Categories() map[string]any {
	return map[string]any{
		CategoryPlayers:   r.Players,
		CategoryTeamStats: r.TeamStats,
	}
}

func (r *NBAResult) Teams() []string {
	var order teamOrder
	for _, p := range r.Players {
		order.add(p.Team)
	}
	for _, t := range r.TeamStats {
		order.add(t.Team)
	}
	return order.names
}

func (r *NBAResult) Filter(keep func(team string) bool) Result {
	return &NBAResult{
		Players:   filterRecords(r.Players, func(p NBAPlayer) string { return p.Team }, keep),
		TeamStats: filterRecords(r.TeamStats, func(t NBATeam) string { return t.Team }, keep),
	}
}

// NBA normalizes basketball boxscores.
type NBA struct{}

func NewNBA() *NBA { return &NBA{} }

func (n *NBA) Sport() string { return SportNBA }

func (n *NBA) Categories() []string {
	return []string{CategoryPlayers, CategoryTeamStats}
}

func (n *NBA) Normalize(env *Envelope) (Result, error) {
	bs, err := unwrap(env)
	if err != nil {
		return nil, err
	}

	res := &NBAResult{
		Players:   []NBAPlayer{},
		TeamStats: []NBATeam{},
	}

	for _, teamBox := range bs.Players {
		team := teamBox.Team.Display()
		var teamLine *NBATeam

		for _, group := range teamBox.Statistics {
			headers := group.headers()

			var played []statLookup
			for _, athlete := range group.Athletes {
				if athlete.DidNotPlay || len(athlete.Stats) == 0 {
					continue
				}
				stats := statLookup{index: nbaIndex(headers, athlete.Stats), row: athlete.Stats}
				res.Players = append(res.Players, nbaPlayer(team, athlete, stats))
				played = append(played, stats)
			}

			if teamLine == nil {
				teamLine = nbaTeamLine(team, headers, group.Totals, played)
			}
		}

		if teamLine != nil {
			res.TeamStats = append(res.TeamStats, *teamLine)
		}
	}

	return res, nil
}

// nbaIndex maps labels to columns, falling back to a known layout when the
// group has no headers.
func nbaIndex(headers, row StatRow) map[string]int {
	if len(headers) > 0 {
		return labelIndex(headers)
	}
	switch len(row) {
	case len(nbaLayout):
		return nbaLayout
	case len(nbaLayoutPlusMinus):
		return nbaLayoutPlusMinus
	}
	return nil
}

func nbaPlayer(team string, athlete AthleteRow, stats statLookup) NBAPlayer {
	return NBAPlayer{
		Team:          team,
		Name:          athlete.Athlete.Name(),
		Starter:       athlete.Starter,
		Minutes:       stats.display(nbaMinutes...),
		Points:        stats.count(nbaPoints...),
		Rebounds:      stats.count(nbaRebounds...),
		Assists:       stats.count(nbaAssists...),
		FieldGoals:    stats.display(nbaFG...),
		ThreePointers: stats.display(nba3PT...),
		FreeThrows:    stats.display(nbaFT...),
		Steals:        stats.count(nbaSteals...),
		Blocks:        stats.count(nbaBlocks...),
		Turnovers:     stats.count(nbaTurnovers...),
		Fouls:         stats.count(nbaFouls...),
		PlusMinus:     stats.display(nbaPlusMinus...),
	}
}

// nbaTeamLine reads the totals row, or sums the played rows when the group
// has no totals. It returns nil when neither is available.
func nbaTeamLine(team string, headers, totals StatRow, played []statLookup) *NBATeam {
	if hasValues(totals) {
		stats := statLookup{index: nbaIndex(headers, totals), row: totals}
		return &NBATeam{
			Team:          team,
			Points:        stats.count(nbaPoints...),
			Rebounds:      stats.count(nbaRebounds...),
			Assists:       stats.count(nbaAssists...),
			FieldGoals:    stats.display(nbaFG...),
			ThreePointers: stats.display(nba3PT...),
			FreeThrows:    stats.display(nbaFT...),
			Steals:        stats.count(nbaSteals...),
			Blocks:        stats.count(nbaBlocks...),
			Turnovers:     stats.count(nbaTurnovers...),
			Fouls:         stats.count(nbaFouls...),
		}
	}

	if len(played) == 0 {
		return nil
	}
	return sumNBATeam(team, played)
}

func sumNBATeam(team string, played []statLookup) *NBATeam {
	line := &NBATeam{Team: team}
	var fg, three, ft shotTotal
	for _, stats := range played {
		line.Points += stats.count(nbaPoints...)
		line.Rebounds += stats.count(nbaRebounds...)
		line.Assists += stats.count(nbaAssists...)
		line.Steals += stats.count(nbaSteals...)
		line.Blocks += stats.count(nbaBlocks...)
		line.Turnovers += stats.count(nbaTurnovers...)
		line.Fouls += stats.count(nbaFouls...)
		fg.add(stats, nbaFG)
		three.add(stats, nba3PT)
		ft.add(stats, nbaFT)
	}
	line.FieldGoals = fg.String()
	line.ThreePointers = three.String()
	line.FreeThrows = ft.String()
	return line
}

type shotTotal struct {
	made, attempted int
	seen            bool
}

func (s *shotTotal) add(stats statLookup, labels []string) {
	v, ok := stats.get(labels...)
	if !ok {
		return
	}
	made, attempted := ParseMadeAttempted(v.String())
	s.made += made
	s.attempted += attempted
	s.seen = true
}

func (s shotTotal) String() string {
	if !s.seen {
		return notAvailable
	}
	return formatMadeAttempted(s.made, s.attempted)
}

func hasValues(row StatRow) bool {
	for _, v := range row {
		if v.String() != "" {
			return true
		}
	}
	return false
}
