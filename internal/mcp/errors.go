package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/valyala/fasthttp"
)

// ServerError means the server could not be reached or its reply could not be
// read: connection failures, timeouts and undecodable bodies.
type ServerError struct {
	URL string
	Err error
}

func (e *ServerError) Error() string {
	if e.Timeout() {
		return fmt.Sprintf("MCP server timed out: %s: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("MCP server unreachable: %s: %v", e.URL, e.Err)
}

func (e *ServerError) Unwrap() error { return e.Err }

// Timeout reports whether the call ran out of time.
func (e *ServerError) Timeout() bool {
	if errors.Is(e.Err, fasthttp.ErrTimeout) ||
		errors.Is(e.Err, fasthttp.ErrDialTimeout) ||
		errors.Is(e.Err, context.DeadlineExceeded) {
		return true
	}
	var t interface{ Timeout() bool }
	return errors.As(e.Err, &t) && t.Timeout()
}

// HTTPError is a reply with status 400 or above.
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	body := e.Body
	if len(body) > bodyExcerpt {
		body = body[:bodyExcerpt]
	}
	return fmt.Sprintf("MCP server returned HTTP %d: %s", e.StatusCode, body)
}

// RPCError is a JSON-RPC error member: the server was reached but the tool
// call failed.
type RPCError struct {
	Code    int
	Message string
	Data    json.RawMessage
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("MCP error %d: %s", e.Code, e.Message)
}
