// Package boxscore turns MCP game-summary envelopes into flat, per-sport
// player and team records. Every function here is pure: no I/O, no shared
// mutable state, safe to call from any goroutine.
package boxscore

import (
	"errors"
	"sort"
	"strings"
)

// Whole-call failures. Their messages are the user-facing reasons.
var (
	ErrInvalidEnvelope = errors.New("Invalid MCP response data")
	ErrNoBoxscore      = errors.New("No boxscore data available")
)

// Normalizer converts one league's summary envelope into records.
type Normalizer interface {
	// Sport returns the normalizer key ("nba", "nhl", "soccer").
	Sport() string
	// Categories lists the category keys every successful Result carries.
	Categories() []string
	// Normalize never fails on per-record defects; only ErrInvalidEnvelope
	// and ErrNoBoxscore are returned.
	Normalize(env *Envelope) (Result, error)
}

// Result is a normalized boxscore for one sport.
type Result interface {
	Sport() string
	// Categories returns category -> records, the wire shape callers render.
	Categories() map[string]any
	// Teams lists the distinct team names in first-seen order.
	Teams() []string
	// Filter returns a copy keeping only records whose team satisfies keep.
	Filter(keep func(team string) bool) Result
}

// AsMap renders a normalize outcome in the {category: [...]} or
// {"error": reason} wire shape.
func AsMap(res Result, err error) map[string]any {
	if err != nil {
		return map[string]any{"error": err.Error()}
	}
	if res == nil {
		return map[string]any{"error": ErrInvalidEnvelope.Error()}
	}
	return res.Categories()
}

// unwrap applies the two whole-call checks in order.
func unwrap(env *Envelope) (*Boxscore, error) {
	if env == nil || !env.OK {
		return nil, ErrInvalidEnvelope
	}
	bs, ok := env.boxscore()
	if !ok {
		return nil, ErrNoBoxscore
	}
	return bs, nil
}

// statLookup resolves cells of one stat row by header label.
type statLookup struct {
	index map[string]int
	row   StatRow
}

// labelIndex maps upper-cased header labels to their column. The first
// occurrence of a label wins.
func labelIndex(headers StatRow) map[string]int {
	index := make(map[string]int, len(headers))
	for i, h := range headers {
		label := strings.ToUpper(strings.TrimSpace(h.String()))
		if label == "" {
			continue
		}
		if _, seen := index[label]; !seen {
			index[label] = i
		}
	}
	return index
}

func (s statLookup) get(labels ...string) (StatValue, bool) {
	for _, label := range labels {
		if idx, ok := s.index[label]; ok && idx < len(s.row) {
			return s.row[idx], true
		}
	}
	return StatValue{}, false
}

// count returns a counting stat, 0 when missing or malformed.
func (s statLookup) count(labels ...string) int {
	v, ok := s.get(labels...)
	if !ok {
		return 0
	}
	return SafeInt(v)
}

// display returns a display-only stat, "N/A" when missing or blank.
func (s statLookup) display(labels ...string) string {
	v, ok := s.get(labels...)
	if !ok {
		return notAvailable
	}
	if text := strings.TrimSpace(v.String()); text != "" {
		return text
	}
	return notAvailable
}

func (s statLookup) has(labels ...string) bool {
	_, ok := s.get(labels...)
	return ok
}

// Registry holds one normalizer per sport.
type Registry struct {
	bySport map[string]Normalizer
}

// NewRegistry registers the given normalizers by their sport key.
func NewRegistry(normalizers ...Normalizer) *Registry {
	r := &Registry{bySport: make(map[string]Normalizer, len(normalizers))}
	for _, n := range normalizers {
		r.bySport[strings.ToLower(n.Sport())] = n
	}
	return r
}

// DefaultRegistry returns NBA, NHL and soccer normalizers with the built-in
// category tables extended by aliases (sport -> canonical -> aliases).
func DefaultRegistry(aliases map[string]map[string][]string) *Registry {
	return NewRegistry(
		NewNBA(),
		NewNHL(DefaultHockeyCategories().With(aliases[SportNHL])),
		NewSoccer(DefaultSoccerCategories().With(aliases[SportSoccer])),
	)
}

// Lookup returns the normalizer for sport.
func (r *Registry) Lookup(sport string) (Normalizer, bool) {
	n, ok := r.bySport[strings.ToLower(strings.TrimSpace(sport))]
	return n, ok
}

// Sports lists the registered sport keys in sorted order.
func (r *Registry) Sports() []string {
	out := make([]string, 0, len(r.bySport))
	for k := range r.bySport {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Sport keys.
const (
	SportNBA    = "nba"
	SportNHL    = "nhl"
	SportSoccer = "soccer"
)

// teamOrder collects distinct team names in first-seen order.
type teamOrder struct {
	seen  map[string]bool
	names []string
}

func (t *teamOrder) add(name string) {
	if t.seen == nil {
		t.seen = make(map[string]bool)
	}
	if !t.seen[name] {
		t.seen[name] = true
		t.names = append(t.names, name)
	}
}

func filterRecords[T any](records []T, team func(T) string, keep func(string) bool) []T {
	out := make([]T, 0, len(records))
	for _, r := range records {
		if keep(team(r)) {
			out = append(out, r)
		}
	}
	return out
}
