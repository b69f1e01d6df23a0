package bot

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/fstr21/sportsmcp/internal/boxscore"
	"github.com/fstr21/sportsmcp/internal/service"
)

type fakeService struct {
	result     boxscore.Result
	err        error
	scoreboard *service.Scoreboard
	gotLeague  string
	gotEvent   string
	gotDate    string
}

func (f *fakeService) Summary(_ context.Context, league, eventID string) (boxscore.Result, error) {
	f.gotLeague, f.gotEvent = league, eventID
	return f.result, f.err
}

func (f *fakeService) Scoreboard(_ context.Context, league, date string) (*service.Scoreboard, error) {
	f.gotLeague, f.gotDate = league, date
	return f.scoreboard, f.err
}

func (f *fakeService) LeagueKeys() []string { return []string{"nba", "nhl"} }

func lakersCeltics() *boxscore.NBAResult {
	return &boxscore.NBAResult{
		Players: []boxscore.NBAPlayer{
			{Team: "Los Angeles Lakers", Name: "LeBron James", Points: 25, Rebounds: 8, Assists: 10},
			{Team: "Boston Celtics", Name: "Jayson Tatum", Points: 30},
		},
		TeamStats: []boxscore.NBATeam{},
	}
}

func TestHandleBoxscore(t *testing.T) {
	svc := &fakeService{result: lakersCeltics()}
	c := NewCommands(svc, time.Second)

	reply := c.Handle(context.Background(), "/boxscore nba 401585601 lakers")
	if svc.gotLeague != "nba" || svc.gotEvent != "401585601" {
		t.Errorf("called with %s %s", svc.gotLeague, svc.gotEvent)
	}
	if !strings.Contains(reply, "Los Angeles Lakers: LeBron James 25 PTS") {
		t.Errorf("reply missing leader line:\n%s", reply)
	}
	if strings.Contains(reply, "Tatum") {
		t.Errorf("team filter not applied:\n%s", reply)
	}
	if !strings.Contains(reply, "<pre>") || !strings.HasSuffix(reply, "</pre>") {
		t.Errorf("table not wrapped in <pre>:\n%s", reply)
	}
}

func TestHandleBoxscoreErrorPrintsReason(t *testing.T) {
	c := NewCommands(&fakeService{err: boxscore.ErrNoBoxscore}, time.Second)
	if got := c.Handle(context.Background(), "/boxscore@SportsBot nhl 1"); got != "Error: No boxscore data available" {
		t.Errorf("reply=%q", got)
	}
}

func TestHandleScores(t *testing.T) {
	svc := &fakeService{scoreboard: &service.Scoreboard{Events: []service.Event{
		{ID: "1", ShortName: "BOS @ LAL", Status: service.StatusLive, Detail: "Q3 5:12", Home: service.Side{Score: "88"}, Away: service.Side{Score: "80"}},
		{ID: "2", Name: "Later Game", Status: service.StatusScheduled},
	}}}
	c := NewCommands(svc, time.Second)

	reply := c.Handle(context.Background(), "/scores nba 20250114")
	if svc.gotDate != "20250114" {
		t.Errorf("date=%q", svc.gotDate)
	}
	want := "BOS @ LAL  80-88  Q3 5:12  <code>1</code>\nLater Game  <code>2</code>"
	if reply != want {
		t.Errorf("reply=%q\nwant %q", reply, want)
	}

	svc.scoreboard = &service.Scoreboard{}
	if got := c.Handle(context.Background(), "/scores nba"); got != "No games found." {
		t.Errorf("empty reply=%q", got)
	}
}

func TestHandleMisc(t *testing.T) {
	c := NewCommands(&fakeService{err: errors.New("x")}, time.Second)
	tests := map[string]string{
		"hello":        "",
		"":             "",
		"/boxscore":    "Usage: /boxscore &lt;league&gt; &lt;eventID&gt; [team]",
		"/scores":      "Usage: /scores &lt;league&gt; [YYYYMMDD]",
		"/unknown arg": "Unknown command. Use /help to see available commands.",
	}
	for in, want := range tests {
		if got := c.Handle(context.Background(), in); got != want {
			t.Errorf("Handle(%q)=%q want %q", in, got, want)
		}
	}
	if help := c.Handle(context.Background(), "/help"); !strings.Contains(help, "Leagues: nba, nhl") {
		t.Errorf("help=%q", help)
	}
}

func TestTruncate(t *testing.T) {
	tests := map[string]string{
		"entities":   "<pre>" + strings.Repeat("a &amp; b ", 1000) + "</pre>",
		"multi-byte": "<pre>" + strings.Repeat("Dončić ", 1000) + "</pre>",
	}
	for name, in := range tests {
		t.Run(name, func(t *testing.T) {
			// Shift the cut point across every byte of a rune and the tag.
			for pad := 0; pad < 8; pad++ {
				got := truncate(strings.Repeat("x", pad) + in)
				if len(got) > maxMessageLen {
					t.Fatalf("pad=%d len=%d", pad, len(got))
				}
				if !utf8.ValidString(got) {
					t.Fatalf("pad=%d: reply is not valid UTF-8", pad)
				}
				if !strings.HasSuffix(got, "…</pre>") {
					t.Fatalf("pad=%d: suffix=%q", pad, got[len(got)-10:])
				}
			}
		})
	}
	if truncate("short") != "short" {
		t.Error("short text changed")
	}
}

func TestTruncateDoesNotSplitTag(t *testing.T) {
	// The limit falls inside the opening <pre> tag.
	in := strings.Repeat("b", maxMessageLen-len("\n…</pre>")-2) + "<pre>" + strings.Repeat("c", 100) + "</pre>"
	got := truncate(in)
	if strings.Contains(got, "<") {
		t.Errorf("partial tag left in reply: %q", got[len(got)-10:])
	}
	if !utf8.ValidString(got) || len(got) > maxMessageLen {
		t.Errorf("len=%d", len(got))
	}
}

func TestAllowed(t *testing.T) {
	if !Allowed(nil, 5) {
		t.Error("empty list should allow everyone")
	}
	if Allowed([]int64{1, 2}, 5) || !Allowed([]int64{1, 5}, 5) {
		t.Error("allow-list not applied")
	}
}
