package boxscore

import (
	"encoding/json"
	"testing"
)

func TestDecodeRejectsBlankInput(t *testing.T) {
	for _, raw := range []string{"", "   ", "null", " null\n", "{oops"} {
		if env := Decode([]byte(raw)); env != nil {
			t.Errorf("Decode(%q) = %+v, want nil", raw, env)
		}
	}
}

func TestDecodeToleratesWrongTypes(t *testing.T) {
	env := Decode([]byte(`{"ok": true, "error": 5, "data": {"summary": {"boxscore": {"players": []}}}}`))
	if env == nil {
		t.Fatal("Decode returned nil")
	}
	if !env.OK || env.Error != "" {
		t.Errorf("env = %+v", env)
	}
	if _, ok := env.boxscore(); !ok {
		t.Error("boxscore should be present")
	}
}

func TestTeamRef(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{`"Boston Celtics"`, "Boston Celtics"},
		{`{"displayName": "Boston Celtics", "abbreviation": "BOS"}`, "Boston Celtics"},
		{`{"displayName": "", "name": "Celtics"}`, "Celtics"},
		{`{"abbreviation": "BOS"}`, "BOS"},
		{`{"displayName": 7}`, "Unknown"},
		{`42`, "Unknown"},
		{`null`, "Unknown"},
	}
	for _, tt := range tests {
		var ref TeamRef
		if err := json.Unmarshal([]byte(tt.raw), &ref); err != nil {
			t.Fatalf("Unmarshal(%s): %v", tt.raw, err)
		}
		if got := ref.Display(); got != tt.want {
			t.Errorf("Display(%s) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestStatRowKeepsPositions(t *testing.T) {
	var row StatRow
	if err := json.Unmarshal([]byte(`["38:45", {"x": 1}, 12, null, true]`), &row); err != nil {
		t.Fatal(err)
	}
	if len(row) != 5 {
		t.Fatalf("len=%d want 5", len(row))
	}
	want := []string{"38:45", "", "12", "", "true"}
	for i, w := range want {
		if got := row[i].String(); got != w {
			t.Errorf("row[%d] = %q, want %q", i, got, w)
		}
	}

	if err := json.Unmarshal([]byte(`"1,2,3"`), &row); err != nil {
		t.Fatal(err)
	}
	if row != nil {
		t.Errorf("non-array row = %v, want nil", row)
	}
}

func TestAthleteName(t *testing.T) {
	if got := (Athlete{ShortName: "L. James", FullName: "LeBron James"}).Name(); got != "L. James" {
		t.Errorf("Name() = %q", got)
	}
	if got := (Athlete{DisplayName: "  "}).Name(); got != "Unknown" {
		t.Errorf("blank Name() = %q", got)
	}
}
