package publisher

import (
	"context"
	"testing"
	"time"
)

func TestStreamName(t *testing.T) {
	if got := StreamName("nhl"); got != "boxscore.normalized.nhl" {
		t.Errorf("StreamName=%q", got)
	}
}

func TestFields(t *testing.T) {
	at := time.Unix(1700000000, 0)
	got := Fields("401585601", []byte(`{"players":[]}`), at)
	if got["event_id"] != "401585601" || got["data"] != `{"players":[]}` || got["timestamp"] != int64(1700000000) {
		t.Errorf("fields=%v", got)
	}
}

func TestNop(t *testing.T) {
	var p Publisher = Nop{}
	if err := p.PublishBoxscore(context.Background(), "nba", "1", nil); err != nil {
		t.Fatal(err)
	}
}
