package service

import (
	"encoding/json"
	"errors"
	"strconv"
	"time"
)

// Scoreboard is one league-day of events.
type Scoreboard struct {
	League string          `json:"league"`
	Date   string          `json:"date,omitempty"`
	Events []Event         `json:"events"`
	Data   json.RawMessage `json:"data,omitempty"`
}

// Event is the summary line of one game.
type Event struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	ShortName string    `json:"short_name"`
	Start     time.Time `json:"start,omitzero"`
	Status    string    `json:"status"`
	Detail    string    `json:"detail,omitempty"`
	Home      Side      `json:"home"`
	Away      Side      `json:"away"`
}

// Side is one competitor of an event.
type Side struct {
	Team         string `json:"team"`
	Abbreviation string `json:"abbreviation"`
	Score        string `json:"score"`
}

// Game states.
const (
	StatusScheduled = "scheduled"
	StatusLive      = "live"
	StatusFinal     = "final"
)

type scoreboardData struct {
	Events     []espnEvent `json:"events"`
	Scoreboard struct {
		Events []espnEvent `json:"events"`
	} `json:"scoreboard"`
}

type espnEvent struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	ShortName string `json:"shortName"`
	Date      string `json:"date"`
	Status    struct {
		Type struct {
			State       string `json:"state"`
			Completed   bool   `json:"completed"`
			ShortDetail string `json:"shortDetail"`
		} `json:"type"`
	} `json:"status"`
	Competitions []struct {
		Competitors []struct {
			HomeAway string          `json:"homeAway"`
			Score    json.RawMessage `json:"score"`
			Team     struct {
				DisplayName  string `json:"displayName"`
				Abbreviation string `json:"abbreviation"`
			} `json:"team"`
		} `json:"competitors"`
	} `json:"competitions"`
}

// ParseEvents extracts events from scoreboard data shaped either
// {"events": [...]} or {"scoreboard": {"events": [...]}}. Events without an
// id are skipped.
func ParseEvents(data []byte) []Event {
	var sb scoreboardData
	if err := json.Unmarshal(data, &sb); err != nil {
		var typeErr *json.UnmarshalTypeError
		if !errors.As(err, &typeErr) {
			return []Event{}
		}
	}
	raw := sb.Events
	if len(raw) == 0 {
		raw = sb.Scoreboard.Events
	}

	events := make([]Event, 0, len(raw))
	for _, e := range raw {
		if e.ID == "" {
			continue
		}
		ev := Event{
			ID:        e.ID,
			Name:      e.Name,
			ShortName: e.ShortName,
			Start:     parseEventTime(e.Date),
			Status:    gameStatus(e.Status.Type.State, e.Status.Type.Completed),
			Detail:    e.Status.Type.ShortDetail,
		}
		if len(e.Competitions) > 0 {
			for _, c := range e.Competitions[0].Competitors {
				side := Side{Team: c.Team.DisplayName, Abbreviation: c.Team.Abbreviation, Score: scoreText(c.Score)}
				switch c.HomeAway {
				case "home":
					ev.Home = side
				case "away":
					ev.Away = side
				}
			}
		}
		events = append(events, ev)
	}
	return events
}

// ESPN sometimes omits seconds: "2025-11-15T01:00Z".
func parseEventTime(s string) time.Time {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t
	}
	if t, err := time.Parse("2006-01-02T15:04Z", s); err == nil {
		return t
	}
	return time.Time{}
}

func gameStatus(state string, completed bool) string {
	if completed {
		return StatusFinal
	}
	switch state {
	case "in":
		return StatusLive
	case "post":
		return StatusFinal
	default:
		return StatusScheduled
	}
}

func scoreText(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return ""
}
