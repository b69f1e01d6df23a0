package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
)

func TestParse(t *testing.T) {
	tests := map[string]zerolog.Level{
		"debug": zerolog.DebugLevel,
		"warn":  zerolog.WarnLevel,
		"":      zerolog.InfoLevel,
		"loud":  zerolog.InfoLevel,
	}
	for name, want := range tests {
		if got := Parse(name).GetLevel(); got != want {
			t.Errorf("Parse(%q) level=%v want %v", name, got, want)
		}
	}
}

func TestComponent(t *testing.T) {
	var buf bytes.Buffer
	log := Component(newLogger(&buf, zerolog.InfoLevel), "poller")
	log.Info().Msg("tick")
	log.Debug().Msg("hidden")

	var event map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &event); err != nil {
		t.Fatalf("expected a single JSON event, got %q: %v", buf.String(), err)
	}
	if event["component"] != "poller" || event["message"] != "tick" {
		t.Errorf("event=%v", event)
	}
}
