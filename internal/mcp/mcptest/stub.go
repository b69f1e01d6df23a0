// Package mcptest provides an in-memory mcp.Caller for tests.
package mcptest

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/fstr21/sportsmcp/internal/mcp"
)

// Call records one invocation.
type Call struct {
	URL       string
	Tool      string
	Arguments map[string]any
}

// Stub answers tool calls from a table keyed by tool name.
type Stub struct {
	mu      sync.Mutex
	replies map[string]reply
	calls   []Call
}

type reply struct {
	raw json.RawMessage
	err error
}

func NewStub() *Stub {
	return &Stub{replies: map[string]reply{}}
}

// Reply makes tool return the JSON-RPC result raw.
func (s *Stub) Reply(tool, raw string) *Stub {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.replies[tool] = reply{raw: json.RawMessage(raw)}
	return s
}

// Fail makes tool return err.
func (s *Stub) Fail(tool string, err error) *Stub {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.replies[tool] = reply{err: err}
	return s
}

// Calls returns the invocations so far.
func (s *Stub) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Call(nil), s.calls...)
}

func (s *Stub) Call(ctx context.Context, serverURL, tool string, arguments map[string]any) (*mcp.Result, error) {
	s.mu.Lock()
	s.calls = append(s.calls, Call{URL: serverURL, Tool: tool, Arguments: arguments})
	r, ok := s.replies[tool]
	s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, &mcp.ServerError{URL: serverURL, Err: err}
	}
	if !ok {
		return nil, &mcp.RPCError{Code: -32601, Message: "unknown tool " + tool}
	}
	if r.err != nil {
		return nil, r.err
	}
	return mcp.ParseResult(r.raw), nil
}
