package boxscore

// minSoccerStats is the shortest stat row kept for soccer players.
const minSoccerStats = 3

var (
	soccerMinutes       = []string{"MIN", "MINS", "MINUTES"}
	soccerGoals         = []string{"G", "GLS", "GOALS"}
	soccerAssists       = []string{"A", "AST", "ASSISTS"}
	soccerShots         = []string{"SH", "SHOTS"}
	soccerShotsOnTarget = []string{"ST", "SOT", "SOG"}
	soccerFouls         = []string{"FC", "FOULS"}
	soccerYellowCards   = []string{"YC", "YELLOW"}
	soccerRedCards      = []string{"RC", "RED"}
	soccerSaves         = []string{"SV", "SAVES"}
	soccerGoalsConceded = []string{"GA", "GC", "CONCEDED"}
)

// SoccerPlayer is one outfield player's normalized line.
type SoccerPlayer struct {
	Team          string `json:"team"`
	Name          string `json:"name"`
	Minutes       int    `json:"minutes"`
	Goals         int    `json:"goals"`
	Assists       int    `json:"assists"`
	Shots         int    `json:"shots"`
	ShotsOnTarget int    `json:"shots_on_target"`
	Fouls         int    `json:"fouls"`
	YellowCards   int    `json:"yellow_cards"`
	RedCards      int    `json:"red_cards"`
}

// SoccerGoalkeeper is one goalkeeper's normalized line.
type SoccerGoalkeeper struct {
	Team          string `json:"team"`
	Name          string `json:"name"`
	Minutes       int    `json:"minutes"`
	Saves         int    `json:"saves"`
	GoalsConceded int    `json:"goals_conceded"`
	YellowCards   int    `json:"yellow_cards"`
	RedCards      int    `json:"red_cards"`
}

// SoccerResult holds the "players" and "goalkeepers" categories.
type SoccerResult struct {
	Players     []SoccerPlayer     `json:"players"`
	Goalkeepers []SoccerGoalkeeper `json:"goalkeepers"`
}

func (r *SoccerResult) Sport() string { return SportSoccer }

func (r *SoccerResult) Categories() map[string]any {
	return map[string]any{
		CategoryPlayers:     r.Players,
		CategoryGoalkeepers: r.Goalkeepers,
	}
}

func (r *SoccerResult) Teams() []string {
	var order teamOrder
	for _, p := range r.Players {
		order.add(p.Team)
	}
	for _, g := range r.Goalkeepers {
		order.add(g.Team)
	}
	return order.names
}

func (r *SoccerResult) Filter(keep func(team string) bool) Result {
	return &SoccerResult{
		Players:     filterRecords(r.Players, func(p SoccerPlayer) string { return p.Team }, keep),
		Goalkeepers: filterRecords(r.Goalkeepers, func(g SoccerGoalkeeper) string { return g.Team }, keep),
	}
}

// Soccer normalizes football boxscores.
type Soccer struct {
	categories *CategoryTable
}

// NewSoccer uses table for group selection, or the default table when nil.
func NewSoccer(table *CategoryTable) *Soccer {
	if table == nil {
		table = DefaultSoccerCategories()
	}
	return &Soccer{categories: table}
}

func (s *Soccer) Sport() string { return SportSoccer }

func (s *Soccer) Categories() []string {
	return []string{CategoryPlayers, CategoryGoalkeepers}
}

func (s *Soccer) Normalize(env *Envelope) (Result, error) {
	bs, err := unwrap(env)
	if err != nil {
		return nil, err
	}

	res := &SoccerResult{
		Players:     []SoccerPlayer{},
		Goalkeepers: []SoccerGoalkeeper{},
	}

	for _, teamBox := range bs.Players {
		team := teamBox.Team.Display()
		for _, group := range teamBox.Statistics {
			category, ok := s.categories.Match(group.Name)
			if !ok {
				continue
			}
			index := labelIndex(group.headers())

			for _, athlete := range group.Athletes {
				if len(athlete.Stats) < minSoccerStats {
					continue
				}
				stats := statLookup{index: index, row: athlete.Stats}
				switch category {
				case CategoryPlayers:
					res.Players = append(res.Players, soccerPlayer(team, athlete, stats))
				case CategoryGoalkeepers:
					res.Goalkeepers = append(res.Goalkeepers, soccerGoalkeeper(team, athlete, stats))
				}
			}
		}
	}

	return res, nil
}

func soccerPlayer(team string, athlete AthleteRow, stats statLookup) SoccerPlayer {
	return SoccerPlayer{
		Team:          team,
		Name:          athlete.Athlete.Name(),
		Minutes:       stats.count(soccerMinutes...),
		Goals:         stats.count(soccerGoals...),
		Assists:       stats.count(soccerAssists...),
		Shots:         stats.count(soccerShots...),
		ShotsOnTarget: stats.count(soccerShotsOnTarget...),
		Fouls:         stats.count(soccerFouls...),
		YellowCards:   stats.count(soccerYellowCards...),
		RedCards:      stats.count(soccerRedCards...),
	}
}

func soccerGoalkeeper(team string, athlete AthleteRow, stats statLookup) SoccerGoalkeeper {
	return SoccerGoalkeeper{
		Team:          team,
		Name:          athlete.Athlete.Name(),
		Minutes:       stats.count(soccerMinutes...),
		Saves:         stats.count(soccerSaves...),
		GoalsConceded: stats.count(soccerGoalsConceded...),
		YellowCards:   stats.count(soccerYellowCards...),
		RedCards:      stats.count(soccerRedCards...),
	}
}
