package service

import (
	"context"
	"errors"
	"testing"

	"github.com/fstr21/sportsmcp/internal/boxscore"
	"github.com/fstr21/sportsmcp/internal/config"
	"github.com/fstr21/sportsmcp/internal/mcp"
	"github.com/fstr21/sportsmcp/internal/mcp/mcptest"
	"github.com/rs/zerolog"
)

const nbaSummary = `{"ok": true, "data": {"summary": {"boxscore": {"players": [
  {"team": {"displayName": "Los Angeles Lakers"}, "statistics": [{
    "labels": ["MIN","FG","3PT","FT","OREB","DREB","REB","AST","STL","BLK","TO","PF","+/-","PTS"],
    "athletes": [
      {"athlete": {"displayName": "LeBron James"}, "starter": true,
       "stats": ["38","10-18","2-5","3-4","1","7","8","10","1","1","3","2","+7","25"]}
    ]}]},
  {"team": {"displayName": "Boston Celtics"}, "statistics": [{
    "labels": ["MIN","FG","3PT","FT","OREB","DREB","REB","AST","STL","BLK","TO","PF","+/-","PTS"],
    "athletes": [
      {"athlete": {"displayName": "Jayson Tatum"}, "starter": true,
       "stats": ["40","11-22","4-9","4-4","0","9","9","4","1","0","2","3","-7","30"]}
    ]}]}
]}}}}`

func newService(stub *mcptest.Stub) *Boxscores {
	cfg := config.Default()
	cfg.MCPURL = "http://mcp.test"
	return NewBoxscores(stub, cfg, zerolog.Nop())
}

func TestSummary(t *testing.T) {
	stub := mcptest.NewStub().Reply(config.DefaultSummaryTool, nbaSummary)
	svc := newService(stub)

	res, err := svc.Summary(context.Background(), "NBA", "401585601")
	if err != nil {
		t.Fatal(err)
	}
	nba, ok := res.(*boxscore.NBAResult)
	if !ok {
		t.Fatalf("result type %T", res)
	}
	if len(nba.Players) != 2 || nba.Players[0].Points != 25 || nba.Players[1].Name != "Jayson Tatum" {
		t.Errorf("players=%+v", nba.Players)
	}
	if len(nba.TeamStats) != 2 || nba.TeamStats[1].Points != 30 {
		t.Errorf("team stats=%+v", nba.TeamStats)
	}

	calls := stub.Calls()
	if len(calls) != 1 {
		t.Fatalf("calls=%d", len(calls))
	}
	args := calls[0].Arguments
	if calls[0].URL != "http://mcp.test" || args["sport"] != "basketball" || args["league"] != "nba" || args["event_id"] != "401585601" {
		t.Errorf("call=%+v", calls[0])
	}
}

func TestSummaryErrors(t *testing.T) {
	transport := &mcp.ServerError{URL: "http://mcp.test", Err: errors.New("connection refused")}
	tests := []struct {
		name  string
		stub  *mcptest.Stub
		check func(error) bool
	}{
		{"Transport", mcptest.NewStub().Fail(config.DefaultSummaryTool, transport), func(err error) bool {
			var srvErr *mcp.ServerError
			return errors.As(err, &srvErr)
		}},
		{"ToolFailure", mcptest.NewStub().Reply(config.DefaultSummaryTool, `{"ok": false, "error": "event not found"}`), func(err error) bool {
			return err == boxscore.ErrInvalidEnvelope
		}},
		{"NoBoxscore", mcptest.NewStub().Reply(config.DefaultSummaryTool, `{"ok": true, "data": {"summary": {}}}`), func(err error) bool {
			return err == boxscore.ErrNoBoxscore
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newService(tt.stub).Summary(context.Background(), "nba", "1")
			if !tt.check(err) {
				t.Errorf("err=%T %v", err, err)
			}
		})
	}
}

func TestSummaryUnknownLeague(t *testing.T) {
	stub := mcptest.NewStub()
	_, err := newService(stub).Summary(context.Background(), "cricket", "1")
	if !errors.Is(err, ErrUnknownLeague) {
		t.Errorf("err=%v", err)
	}
	if len(stub.Calls()) != 0 {
		t.Error("unknown league should not reach the server")
	}
}

func TestSummaryRoutesSoccerLeagues(t *testing.T) {
	stub := mcptest.NewStub().Reply(config.DefaultSummaryTool, `{"ok": true, "data": {"summary": {"boxscore": {"players": []}}}}`)
	res, err := newService(stub).Summary(context.Background(), "epl", "704279")
	if err != nil {
		t.Fatal(err)
	}
	if res.Sport() != boxscore.SportSoccer {
		t.Errorf("sport=%s", res.Sport())
	}
	if got := stub.Calls()[0].Arguments["league"]; got != "eng.1" {
		t.Errorf("league arg=%v", got)
	}
}

func TestScoreboard(t *testing.T) {
	stub := mcptest.NewStub().Reply(config.DefaultScoreboardTool, `{"ok": true, "data": {"events": [
	  {"id": "401585601", "name": "Boston Celtics at Los Angeles Lakers", "shortName": "BOS @ LAL",
	   "date": "2025-01-15T03:30Z",
	   "status": {"type": {"state": "in", "completed": false, "shortDetail": "Q3 5:12"}},
	   "competitions": [{"competitors": [
	     {"homeAway": "home", "score": "88", "team": {"displayName": "Los Angeles Lakers", "abbreviation": "LAL"}},
	     {"homeAway": "away", "score": 80, "team": {"displayName": "Boston Celtics", "abbreviation": "BOS"}}
	   ]}]},
	  {"name": "no id"}
	]}}`)
	sb, err := newService(stub).Scoreboard(context.Background(), "nba", "20250114")
	if err != nil {
		t.Fatal(err)
	}
	if len(sb.Events) != 1 {
		t.Fatalf("events=%+v", sb.Events)
	}
	ev := sb.Events[0]
	if ev.Status != StatusLive || ev.Detail != "Q3 5:12" || ev.Home.Score != "88" || ev.Away.Score != "80" || ev.Away.Abbreviation != "BOS" {
		t.Errorf("event=%+v", ev)
	}
	if ev.Start.IsZero() {
		t.Error("start time not parsed")
	}
	if got := stub.Calls()[0].Arguments["dates"]; got != "20250114" {
		t.Errorf("dates arg=%v", got)
	}
}

func TestScoreboardErrors(t *testing.T) {
	svc := newService(mcptest.NewStub().Reply(config.DefaultScoreboardTool, `{"ok": false, "error": "rate limited"}`))

	if _, err := svc.Scoreboard(context.Background(), "nba", "2025-01-14"); !errors.Is(err, ErrBadDate) {
		t.Errorf("bad date err=%v", err)
	}
	_, err := svc.Scoreboard(context.Background(), "nba", "")
	var toolErr *ToolError
	if !errors.As(err, &toolErr) || toolErr.Message != "rate limited" {
		t.Errorf("err=%v", err)
	}
}

func TestParseEventsNestedAndMalformed(t *testing.T) {
	nested := ParseEvents([]byte(`{"scoreboard": {"events": [{"id": "1", "status": {"type": {"completed": true}}}]}}`))
	if len(nested) != 1 || nested[0].Status != StatusFinal {
		t.Errorf("nested=%+v", nested)
	}
	for _, raw := range []string{``, `null`, `"text"`, `{"events": "nope"}`} {
		if got := ParseEvents([]byte(raw)); len(got) != 0 {
			t.Errorf("ParseEvents(%q)=%+v", raw, got)
		}
	}
}
