package mcp

import (
	"bytes"
	"encoding/json"
)

// Result is the JSON-RPC result of a tools/call: the tool's own
// {"ok", "data", "error"} envelope. Raw keeps the result exactly as received.
type Result struct {
	OK    bool            `json:"ok"`
	Data  json.RawMessage `json:"data,omitempty"`
	Error string          `json:"error,omitempty"`
	Raw   json.RawMessage `json:"-"`
}

type envelopeFields struct {
	OK    *bool           `json:"ok"`
	Data  json.RawMessage `json:"data"`
	Error json.RawMessage `json:"error"`
}

// toolContent is the standard MCP CallToolResult shape. Servers that follow
// it carry the tool envelope as JSON text in the first text block.
type toolContent struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	StructuredContent json.RawMessage `json:"structuredContent"`
	IsError           bool            `json:"isError"`
}

// ParseResult interprets a JSON-RPC result. It accepts the bare tool envelope
// and the MCP CallToolResult form carrying the envelope as structured or text
// content.
func ParseResult(raw json.RawMessage) *Result {
	res := &Result{Raw: raw}
	fields, ok := decodeFields(raw)
	if !ok {
		fields, ok = unwrapContent(raw)
	}
	if !ok {
		return res
	}

	if fields.OK != nil {
		res.OK = *fields.OK
	}
	res.Data = fields.Data
	res.Error = errorText(fields.Error)
	return res
}

// decodeFields reports whether raw is an object carrying an "ok" flag.
func decodeFields(raw []byte) (envelopeFields, bool) {
	var f envelopeFields
	if err := json.Unmarshal(raw, &f); err != nil || f.OK == nil {
		return envelopeFields{}, false
	}
	return f, true
}

func unwrapContent(raw []byte) (envelopeFields, bool) {
	var tc toolContent
	if err := json.Unmarshal(raw, &tc); err != nil {
		return envelopeFields{}, false
	}
	if f, ok := decodeFields(tc.StructuredContent); ok {
		return f, true
	}
	for _, block := range tc.Content {
		if block.Type != "text" {
			continue
		}
		if f, ok := decodeFields([]byte(block.Text)); ok {
			return f, true
		}
		if tc.IsError {
			msg, _ := json.Marshal(block.Text)
			ok := false
			return envelopeFields{OK: &ok, Error: msg}, true
		}
	}
	return envelopeFields{}, false
}

func errorText(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}

// Envelope re-encodes the tool envelope for boxscore.Decode.
func (r *Result) Envelope() []byte {
	if r == nil {
		return nil
	}
	b, err := json.Marshal(r)
	if err != nil {
		return nil
	}
	return b
}
