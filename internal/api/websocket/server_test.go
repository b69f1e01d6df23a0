package websocket

import (
	"errors"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

type fakeTracker struct {
	mu      sync.Mutex
	tracked map[string]bool
}

func (f *fakeTracker) Track(league, eventID string) error {
	if league == "cricket" {
		return errors.New("unknown league")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tracked[league+"/"+eventID] = true
	return nil
}

func (f *fakeTracker) Untrack(league, eventID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.tracked, league+"/"+eventID)
}

func (f *fakeTracker) has(key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.tracked[key]
}

func dial(t *testing.T, srv *Server) *websocket.Conn {
	t.Helper()
	ts := httptest.NewServer(srv)
	t.Cleanup(ts.Close)

	url := "ws" + strings.TrimPrefix(ts.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	return conn
}

func TestTrackAndBroadcast(t *testing.T) {
	tracker := &fakeTracker{tracked: map[string]bool{}}
	srv := NewServer(tracker, zerolog.Nop())
	srv.Start()
	defer srv.Stop()

	conn := dial(t, srv)

	if err := conn.WriteJSON(Command{Action: "track", League: "nba", EventID: "401585601"}); err != nil {
		t.Fatal(err)
	}
	var ack Reply
	if err := conn.ReadJSON(&ack); err != nil {
		t.Fatal(err)
	}
	if ack.Type != "ack" || ack.EventID != "401585601" {
		t.Errorf("ack=%+v", ack)
	}
	if !tracker.has("nba/401585601") {
		t.Error("game not tracked")
	}

	if err := srv.PublishBoxscore("nba", "401585601", map[string]any{"players": []any{}}); err != nil {
		t.Fatal(err)
	}
	var update Update
	if err := conn.ReadJSON(&update); err != nil {
		t.Fatal(err)
	}
	if update.Type != "boxscore" || update.League != "nba" || update.Data["players"] == nil {
		t.Errorf("update=%+v", update)
	}
	if n := srv.ClientCount(); n != 1 {
		t.Errorf("clients=%d", n)
	}

	conn.WriteJSON(Command{Action: "untrack", League: "nba", EventID: "401585601"})
	if err := conn.ReadJSON(&ack); err != nil {
		t.Fatal(err)
	}
	if tracker.has("nba/401585601") {
		t.Error("game still tracked")
	}
}

func TestCommandErrors(t *testing.T) {
	tracker := &fakeTracker{tracked: map[string]bool{}}
	srv := NewServer(tracker, zerolog.Nop())
	srv.Start()
	defer srv.Stop()

	conn := dial(t, srv)
	tests := []struct {
		send string
		want string
	}{
		{`not json`, "invalid command"},
		{`{"action":"track","league":"nba"}`, "league and event_id are required"},
		{`{"action":"watch","league":"nba","event_id":"1"}`, "unknown action watch"},
		{`{"action":"track","league":"cricket","event_id":"1"}`, "unknown league"},
	}
	for _, tt := range tests {
		if err := conn.WriteMessage(websocket.TextMessage, []byte(tt.send)); err != nil {
			t.Fatal(err)
		}
		var reply Reply
		if err := conn.ReadJSON(&reply); err != nil {
			t.Fatal(err)
		}
		if reply.Type != "error" || reply.Error != tt.want {
			t.Errorf("send %s: reply=%+v", tt.send, reply)
		}
	}
}

func TestHubStopIsIdempotent(t *testing.T) {
	h := NewHub()
	go h.Run()
	h.Stop()
	h.Stop()
	h.Broadcast([]byte("x"))
}
