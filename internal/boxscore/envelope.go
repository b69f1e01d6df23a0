package boxscore

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
)

// Envelope is the {"ok": ..., "data": ...} wrapper every MCP summary tool returns.
// Decoding is lenient: a value of the wrong JSON type anywhere below the
// envelope leaves that field at its zero value instead of failing the decode.
type Envelope struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
	Data  struct {
		Summary struct {
			Boxscore json.RawMessage `json:"boxscore"`
		} `json:"summary"`
	} `json:"data"`
}

// Decode parses a raw tool result. It returns nil for empty, null or
// syntactically invalid input, which normalizers treat as an invalid envelope.
func Decode(raw []byte) *Envelope {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}

	var env Envelope
	if !decodeLenient(trimmed, &env) {
		return nil
	}
	return &env
}

// boxscore returns the decoded boxscore, or false when it is missing, null,
// not an object, or an object without any keys.
func (e *Envelope) boxscore() (*Boxscore, bool) {
	raw := bytes.TrimSpace(e.Data.Summary.Boxscore)
	if len(raw) == 0 {
		return nil, false
	}

	var keys map[string]json.RawMessage
	if err := json.Unmarshal(raw, &keys); err != nil || len(keys) == 0 {
		return nil, false
	}

	var bs Boxscore
	decodeLenient(raw, &bs)
	return &bs, true
}

// Boxscore is the ESPN-style boxscore object.
type Boxscore struct {
	Players list[TeamBox] `json:"players"`
}

// TeamBox groups one team's statistic categories.
type TeamBox struct {
	Team       TeamRef         `json:"team"`
	Statistics list[StatGroup] `json:"statistics"`
}

// StatGroup is one statistic category ("skaters", "goalies", ...) with its
// ordered headers, per-athlete rows and optional team totals row.
type StatGroup struct {
	Name     string           `json:"name"`
	Labels   StatRow          `json:"labels"`
	Names    StatRow          `json:"names"`
	Totals   StatRow          `json:"totals"`
	Athletes list[AthleteRow] `json:"athletes"`
}

// headers prefers labels and falls back to names.
func (g StatGroup) headers() StatRow {
	if len(g.Labels) > 0 {
		return g.Labels
	}
	return g.Names
}

// AthleteRow is one player's stat line within a category.
type AthleteRow struct {
	Athlete    Athlete `json:"athlete"`
	Stats      StatRow `json:"stats"`
	Starter    bool    `json:"starter"`
	DidNotPlay bool    `json:"didNotPlay"`
}

// Athlete carries the name fields ESPN attaches to a stat row.
type Athlete struct {
	DisplayName string `json:"displayName"`
	ShortName   string `json:"shortName"`
	FullName    string `json:"fullName"`
}

// Name returns the first non-blank name, or "Unknown".
func (a Athlete) Name() string {
	return fallbackString(a.DisplayName, a.ShortName, a.FullName, unknown)
}

// TeamRef accepts either a team object or a bare team name string.
type TeamRef struct {
	DisplayName      string `json:"displayName"`
	Name             string `json:"name"`
	ShortDisplayName string `json:"shortDisplayName"`
	Abbreviation     string `json:"abbreviation"`
}

func (t *TeamRef) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*t = TeamRef{DisplayName: s}
		return nil
	}

	type plain TeamRef
	var p plain
	if decodeLenient(b, &p) {
		*t = TeamRef(p)
	}
	return nil
}

// Display returns the best available team name, or "Unknown".
func (t TeamRef) Display() string {
	return fallbackString(t.DisplayName, t.Name, t.ShortDisplayName, t.Abbreviation, unknown)
}

// StatValue is one cell of a stat row: a string, a number, a bool or null.
type StatValue struct {
	v any
}

func (s *StatValue) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return nil
	}
	switch v.(type) {
	case string, float64, bool:
		s.v = v
	}
	return nil
}

func (s StatValue) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.v)
}

// Value returns the underlying decoded value (string, float64, bool or nil).
func (s StatValue) Value() any {
	return s.v
}

// String returns the display text of the cell; empty for null.
func (s StatValue) String() string {
	switch v := s.v.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return ""
	}
}

// Str wraps a string as a StatValue.
func Str(s string) StatValue { return StatValue{v: s} }

// Num wraps a number as a StatValue.
func Num(f float64) StatValue { return StatValue{v: f} }

// StatRow is an ordered list of cells. Positions are preserved even when a
// cell cannot be decoded, so headers and values stay aligned.
type StatRow []StatValue

func (r *StatRow) UnmarshalJSON(b []byte) error {
	var raws []json.RawMessage
	if err := json.Unmarshal(b, &raws); err != nil {
		*r = nil
		return nil
	}
	row := make(StatRow, len(raws))
	for i, raw := range raws {
		_ = row[i].UnmarshalJSON(raw)
	}
	*r = row
	return nil
}

// list decodes a JSON array element by element, keeping whatever decodes and
// treating a non-array value as empty.
type list[T any] []T

func (l *list[T]) UnmarshalJSON(b []byte) error {
	var raws []json.RawMessage
	if err := json.Unmarshal(b, &raws); err != nil {
		*l = nil
		return nil
	}
	out := make([]T, 0, len(raws))
	for _, raw := range raws {
		var v T
		if decodeLenient(raw, &v) {
			out = append(out, v)
		}
	}
	*l = out
	return nil
}

// decodeLenient unmarshals raw into v, tolerating type mismatches (the
// mismatched field keeps its zero value). It reports false only for input
// that is not valid JSON.
func decodeLenient(raw []byte, v any) bool {
	err := json.Unmarshal(raw, v)
	if err == nil {
		return true
	}
	var typeErr *json.UnmarshalTypeError
	return errors.As(err, &typeErr)
}

const (
	unknown      = "Unknown"
	notAvailable = "N/A"
)

func fallbackString(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
