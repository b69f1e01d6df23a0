package boxscore

import "strings"

// teamVariants maps common abbreviations to the names that identify them.
var teamVariants = map[string][]string{
	// NBA
	"LAL": {"Lakers", "Los Angeles Lakers", "LA Lakers"},
	"LAC": {"Clippers", "Los Angeles Clippers", "LA Clippers"},
	"GSW": {"Warriors", "Golden State Warriors", "GS Warriors"},
	"BKN": {"Nets", "Brooklyn Nets"},
	"NYK": {"Knicks", "New York Knicks", "NY Knicks"},
	"PHX": {"Suns", "Phoenix Suns"},
	"SAS": {"Spurs", "San Antonio Spurs", "SA Spurs"},
	"BOS": {"Celtics", "Boston Celtics"},
	// NHL
	"NYR": {"Rangers", "New York Rangers"},
	"NYI": {"Islanders", "New York Islanders"},
	"TOR": {"Maple Leafs", "Toronto Maple Leafs"},
	"VGK": {"Golden Knights", "Vegas Golden Knights"},
	// Soccer
	"MUN": {"Manchester United", "Man United", "Man Utd"},
	"MCI": {"Manchester City", "Man City"},
	"TOT": {"Tottenham", "Hotspur"},
}

// MatchTeam reports whether a user query identifies a team name: exact
// case-insensitive match, substring either way, or a known abbreviation.
func MatchTeam(query, team string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	t := strings.ToLower(strings.TrimSpace(team))
	if q == "" || t == "" {
		return false
	}
	if q == t || strings.Contains(t, q) || strings.Contains(q, t) {
		return true
	}

	for abbr, variants := range teamVariants {
		if !strings.EqualFold(abbr, q) && !strings.EqualFold(abbr, t) {
			continue
		}
		for _, variant := range variants {
			v := strings.ToLower(variant)
			if strings.Contains(t, v) || strings.Contains(q, v) {
				return true
			}
		}
	}
	return false
}

// FilterTeam restricts a result to records of the team matching query.
// An empty query returns res unchanged.
func FilterTeam(res Result, query string) Result {
	if res == nil || strings.TrimSpace(query) == "" {
		return res
	}
	return res.Filter(func(team string) bool { return MatchTeam(query, team) })
}
