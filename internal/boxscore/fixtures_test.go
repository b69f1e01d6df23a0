package boxscore

import (
	"encoding/json"
	"testing"
)

var nbaLabels = []any{"MIN", "FG", "3PT", "FT", "OREB", "DREB", "REB", "AST", "STL", "BLK", "TO", "PF", "PTS"}

// envelopeJSON wraps a boxscore in the MCP summary envelope.
func envelopeJSON(t *testing.T, boxscore any) []byte {
	t.Helper()
	raw, err := json.Marshal(map[string]any{
		"ok": true,
		"data": map[string]any{
			"summary": map[string]any{
				"boxscore": boxscore,
			},
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	return raw
}

func decodeEnvelope(t *testing.T, boxscore any) *Envelope {
	t.Helper()
	env := Decode(envelopeJSON(t, boxscore))
	if env == nil {
		t.Fatal("Decode returned nil for a valid envelope")
	}
	return env
}

func teamEntry(team any, groups ...any) map[string]any {
	return map[string]any{"team": team, "statistics": groups}
}

func statGroup(name string, labels []any, athletes ...any) map[string]any {
	g := map[string]any{"name": name, "athletes": athletes}
	if labels != nil {
		g["labels"] = labels
	}
	return g
}

func athleteEntry(name string, stats ...any) map[string]any {
	return map[string]any{
		"athlete": map[string]any{"displayName": name},
		"stats":   stats,
	}
}

func boxscoreOf(teams ...any) map[string]any {
	return map[string]any{"players": teams}
}

// categoryKeys marshals a result and returns its top-level keys.
func categoryKeys(t *testing.T, res Result) map[string]json.RawMessage {
	t.Helper()
	raw, err := json.Marshal(res.Categories())
	if err != nil {
		t.Fatal(err)
	}
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(raw, &keys); err != nil {
		t.Fatal(err)
	}
	return keys
}
