package boxscore

var (
	nhlGoals        = []string{"G", "GOALS"}
	nhlAssists      = []string{"A", "ASSISTS"}
	nhlPoints       = []string{"PTS", "P", "POINTS"}
	nhlPlusMinus    = []string{"+/-", "PM"}
	nhlShots        = []string{"S", "SOG", "SHOTS"}
	nhlHits         = []string{"HT", "HITS"}
	nhlBlocked      = []string{"BS", "BLK"}
	nhlPIM          = []string{"PIM"}
	nhlTOI          = []string{"TOI"}
	nhlSaves        = []string{"SV", "SAVES"}
	nhlShotsAgainst = []string{"SA"}
	nhlGoalsAgainst = []string{"GA"}
	nhlSavePct      = []string{"SV%", "SVPCT"}
)

// NHLSkater is one skater's normalized hockey line.
type NHLSkater struct {
	Team         string `json:"team"`
	Name         string `json:"name"`
	Goals        int    `json:"goals"`
	Assists      int    `json:"assists"`
	Points       int    `json:"points"`
	PlusMinus    int    `json:"plus_minus"`
	Shots        int    `json:"shots"`
	Hits         int    `json:"hits"`
	BlockedShots int    `json:"blocked_shots"`
	PIM          int    `json:"pim"`
	TimeOnIce    string `json:"toi"`
}

// NHLGoalie is one goaltender's normalized line.
type NHLGoalie struct {
	Team         string `json:"team"`
	Name         string `json:"name"`
	Saves        int    `json:"saves"`
	ShotsAgainst int    `json:"shots_against"`
	GoalsAgainst int    `json:"goals_against"`
	SavePct      string `json:"save_pct"`
	TimeOnIce    string `json:"toi"`
}

// NHLResult holds the "skaters" and "goalies" categories.
type NHLResult struct {
	Skaters []NHLSkater `json:"skaters"`
	Goalies []NHLGoalie `json:"goalies"`
}

func (r *NHLResult) Sport() string { return SportNHL }

func (r *NHLResult) Categories() map[string]any {
	return map[string]any{
		CategorySkaters: r.Skaters,
		CategoryGoalies: r.Goalies,
	}
}

func (r *NHLResult) Teams() []string {
	var order teamOrder
	for _, s := range r.Skaters {
		order.add(s.Team)
	}
	for _, g := range r.Goalies {
		order.add(g.Team)
	}
	return order.names
}

func (r *NHLResult) Filter(keep func(team string) bool) Result {
	return &NHLResult{
		Skaters: filterRecords(r.Skaters, func(s NHLSkater) string { return s.Team }, keep),
		Goalies: filterRecords(r.Goalies, func(g NHLGoalie) string { return g.Team }, keep),
	}
}

// NHL normalizes hockey boxscores. Stat groups are routed to skaters or
// goalies through its category table; groups matching neither are ignored.
type NHL struct {
	categories *CategoryTable
}

// NewNHL uses table for group selection, or the default table when nil.
func NewNHL(table *CategoryTable) *NHL {
	if table == nil {
		table = DefaultHockeyCategories()
	}
	return &NHL{categories: table}
}

func (n *NHL) Sport() string { return SportNHL }

func (n *NHL) Categories() []string {
	return []string{CategorySkaters, CategoryGoalies}
}

func (n *NHL) Normalize(env *Envelope) (Result, error) {
	bs, err := unwrap(env)
	if err != nil {
		return nil, err
	}

	res := &NHLResult{
		Skaters: []NHLSkater{},
		Goalies: []NHLGoalie{},
	}

	for _, teamBox := range bs.Players {
		team := teamBox.Team.Display()
		for _, group := range teamBox.Statistics {
			category, ok := n.categories.Match(group.Name)
			if !ok {
				continue
			}
			index := labelIndex(group.headers())

			for _, athlete := range group.Athletes {
				if len(athlete.Stats) == 0 {
					continue
				}
				stats := statLookup{index: index, row: athlete.Stats}
				switch category {
				case CategorySkaters:
					res.Skaters = append(res.Skaters, nhlSkater(team, athlete, stats))
				case CategoryGoalies:
					res.Goalies = append(res.Goalies, nhlGoalie(team, athlete, stats))
				}
			}
		}
	}

	return res, nil
}

func nhlSkater(team string, athlete AthleteRow, stats statLookup) NHLSkater {
	s := NHLSkater{
		Team:         team,
		Name:         athlete.Athlete.Name(),
		Goals:        stats.count(nhlGoals...),
		Assists:      stats.count(nhlAssists...),
		PlusMinus:    stats.count(nhlPlusMinus...),
		Shots:        stats.count(nhlShots...),
		Hits:         stats.count(nhlHits...),
		BlockedShots: stats.count(nhlBlocked...),
		PIM:          stats.count(nhlPIM...),
		TimeOnIce:    stats.display(nhlTOI...),
	}
	// ESPN skater rows usually omit points.
	if stats.has(nhlPoints...) {
		s.Points = stats.count(nhlPoints...)
	} else {
		s.Points = s.Goals + s.Assists
	}
	return s
}

func nhlGoalie(team string, athlete AthleteRow, stats statLookup) NHLGoalie {
	return NHLGoalie{
		Team:         team,
		Name:         athlete.Athlete.Name(),
		Saves:        stats.count(nhlSaves...),
		ShotsAgainst: stats.count(nhlShotsAgainst...),
		GoalsAgainst: stats.count(nhlGoalsAgainst...),
		SavePct:      stats.display(nhlSavePct...),
		TimeOnIce:    stats.display(nhlTOI...),
	}
}
