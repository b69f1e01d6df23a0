package boxscore

import (
	"sort"
	"strings"
)

// CategoryTable maps canonical category names to the upstream names that
// select them. Matching is case-insensitive and ignores surrounding space.
// A table is immutable once built; With returns an extended copy.
type CategoryTable struct {
	aliases map[string][]string
	byAlias map[string]string
}

// NewCategoryTable builds a table from canonical -> aliases. The canonical
// name always matches itself.
func NewCategoryTable(aliases map[string][]string) *CategoryTable {
	t := &CategoryTable{
		aliases: make(map[string][]string, len(aliases)),
		byAlias: make(map[string]string),
	}
	for _, canonical := range sortedKeys(aliases) {
		t.add(canonical, aliases[canonical]...)
	}
	return t
}

func (t *CategoryTable) add(canonical string, aliases ...string) {
	canonical = strings.TrimSpace(canonical)
	if canonical == "" {
		return
	}
	for _, alias := range append([]string{canonical}, aliases...) {
		key := foldCategory(alias)
		if key == "" {
			continue
		}
		// First canonical to claim an alias keeps it.
		if _, taken := t.byAlias[key]; taken {
			continue
		}
		t.byAlias[key] = canonical
		t.aliases[canonical] = append(t.aliases[canonical], key)
	}
}

// With returns a copy of the table extended with extra aliases. Unknown
// canonical names add new categories.
func (t *CategoryTable) With(extra map[string][]string) *CategoryTable {
	out := NewCategoryTable(t.aliases)
	for _, canonical := range sortedKeys(extra) {
		out.add(canonical, extra[canonical]...)
	}
	return out
}

// Match resolves an upstream category name to its canonical category.
func (t *CategoryTable) Match(name string) (string, bool) {
	if t == nil {
		return "", false
	}
	canonical, ok := t.byAlias[foldCategory(name)]
	return canonical, ok
}

func foldCategory(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}

func sortedKeys(m map[string][]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Canonical category names.
const (
	CategoryPlayers     = "players"
	CategoryTeamStats   = "team_stats"
	CategorySkaters     = "skaters"
	CategoryGoalies     = "goalies"
	CategoryGoalkeepers = "goalkeepers"
)

// DefaultHockeyCategories selects skater and goalie groups in NHL boxscores.
func DefaultHockeyCategories() *CategoryTable {
	return NewCategoryTable(map[string][]string{
		CategorySkaters: {"forwards", "defense", "defenses", "defensemen", "players"},
		CategoryGoalies: {"goalie", "goaltending", "goaltenders", "goalkeepers"},
	})
}

// DefaultSoccerCategories selects outfield and goalkeeper groups in soccer boxscores.
func DefaultSoccerCategories() *CategoryTable {
	return NewCategoryTable(map[string][]string{
		CategoryPlayers:     {"outfield", "field players", "outfield players"},
		CategoryGoalkeepers: {"keepers", "goalies", "goalkeeping"},
	})
}
