package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/fstr21/sportsmcp/internal/boxscore"
	"github.com/fstr21/sportsmcp/internal/service"
)

type stubSummary struct {
	res boxscore.Result
	err error
}

func (s stubSummary) Summary(context.Context, string, string) (boxscore.Result, error) {
	return s.res, s.err
}

func soccerResult() *boxscore.SoccerResult {
	return &boxscore.SoccerResult{
		Players: []boxscore.SoccerPlayer{
			{Team: "Arsenal", Name: "Saka", Goals: 2},
			{Team: "Chelsea", Name: "Palmer", Goals: 1},
		},
		Goalkeepers: []boxscore.SoccerGoalkeeper{},
	}
}

func TestRunSummaryText(t *testing.T) {
	var out bytes.Buffer
	if err := runSummary(context.Background(), stubSummary{res: soccerResult()}, &out, "epl", "1", "arsenal", false); err != nil {
		t.Fatal(err)
	}
	got := out.String()
	if !strings.HasPrefix(got, "Arsenal: Saka (2)\n") {
		t.Errorf("output=%q", got)
	}
	if strings.Contains(got, "Palmer") {
		t.Errorf("team filter not applied:\n%s", got)
	}
}

func TestRunSummaryJSONError(t *testing.T) {
	var out bytes.Buffer
	err := runSummary(context.Background(), stubSummary{err: boxscore.ErrInvalidEnvelope}, &out, "epl", "1", "", true)
	if !errors.Is(err, boxscore.ErrInvalidEnvelope) {
		t.Errorf("err=%v", err)
	}
	var body map[string]string
	if err := json.Unmarshal(out.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body["error"] != "Invalid MCP response data" {
		t.Errorf("body=%v", body)
	}
}

func TestRunSummaryJSON(t *testing.T) {
	var out bytes.Buffer
	if err := runSummary(context.Background(), stubSummary{res: soccerResult()}, &out, "epl", "1", "", true); err != nil {
		t.Fatal(err)
	}
	var body map[string][]json.RawMessage
	if err := json.Unmarshal(out.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if len(body["players"]) != 2 {
		t.Errorf("players=%d", len(body["players"]))
	}
	if _, ok := body["goalkeepers"]; !ok {
		t.Error("goalkeepers category missing")
	}
}

func TestPrintScoreboard(t *testing.T) {
	var out bytes.Buffer
	printScoreboard(&out, &service.Scoreboard{})
	if out.String() != "No games found.\n" {
		t.Errorf("empty=%q", out.String())
	}

	out.Reset()
	printScoreboard(&out, &service.Scoreboard{Events: []service.Event{
		{ID: "401", ShortName: "BOS @ LAL", Status: service.StatusFinal, Detail: "Final", Home: service.Side{Score: "110"}, Away: service.Side{Score: "99"}},
	}})
	got := out.String()
	if !strings.Contains(got, "401") || !strings.Contains(got, "99-110") || !strings.Contains(got, "Final") {
		t.Errorf("output=%q", got)
	}
}
