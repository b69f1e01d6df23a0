// Package mcp calls tools on a remote MCP server over JSON-RPC 2.0.
package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/fstr21/sportsmcp/internal/logger"
	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"
)

// Per-call timeout classes. Simple data lookups answer quickly while
// analysis-style tools may run for minutes.
const (
	LookupTimeout   = 15 * time.Second
	DefaultTimeout  = 30 * time.Second
	AnalysisTimeout = 180 * time.Second
)

const bodyExcerpt = 200

// Caller performs one tools/call round trip. *Client implements it; caches
// and tests substitute their own.
type Caller interface {
	Call(ctx context.Context, serverURL, tool string, arguments map[string]any) (*Result, error)
}

// Client is a stateless JSON-RPC client. A zero timeout means DefaultTimeout.
type Client struct {
	http    *fasthttp.Client
	timeout time.Duration
	logger  zerolog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the per-call timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithLogger attaches a logger for request tracing.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Client) {
		c.logger = logger.Component(log, "mcp-client")
	}
}

// WithHTTPClient replaces the underlying fasthttp client.
func WithHTTPClient(hc *fasthttp.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// NewClient creates a client with DefaultTimeout.
func NewClient(opts ...Option) *Client {
	c := &Client{
		http: &fasthttp.Client{
			MaxConnsPerHost:     64,
			MaxIdleConnDuration: time.Minute,
		},
		timeout: DefaultTimeout,
		logger:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Timeout returns the configured per-call timeout.
func (c *Client) Timeout() time.Duration {
	return c.timeout
}

type request struct {
	JSONRPC string `json:"jsonrpc"`
	Method  string `json:"method"`
	ID      int    `json:"id"`
	Params  params `json:"params"`
}

type params struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments"`
}

type response struct {
	Result json.RawMessage `json:"result"`
	Error  *struct {
		Code    int             `json:"code"`
		Message string          `json:"message"`
		Data    json.RawMessage `json:"data"`
	} `json:"error"`
}

// Call invokes tool on serverURL and returns the JSON-RPC result. The call is
// bounded by the client timeout or the context deadline, whichever is first.
func (c *Client) Call(ctx context.Context, serverURL, tool string, arguments map[string]any) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, &ServerError{URL: serverURL, Err: err}
	}
	if arguments == nil {
		arguments = map[string]any{}
	}

	payload, err := json.Marshal(request{
		JSONRPC: "2.0",
		Method:  "tools/call",
		ID:      1,
		Params:  params{Name: tool, Arguments: arguments},
	})
	if err != nil {
		return nil, fmt.Errorf("encoding %s arguments: %w", tool, err)
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(serverURL)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	req.Header.Set("Accept", "application/json")
	req.SetBody(payload)

	deadline := time.Now().Add(c.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}

	start := time.Now()
	if err := c.http.DoDeadline(req, resp, deadline); err != nil {
		c.logger.Warn().Err(err).Str("tool", tool).Dur("elapsed", time.Since(start)).Msg("tool call failed")
		return nil, &ServerError{URL: serverURL, Err: err}
	}

	status := resp.StatusCode()
	body := append([]byte(nil), resp.Body()...)
	c.logger.Debug().
		Str("tool", tool).
		Int("status", status).
		Int("bytes", len(body)).
		Dur("elapsed", time.Since(start)).
		Msg("tool call completed")

	if status >= fasthttp.StatusBadRequest {
		return nil, &HTTPError{StatusCode: status, Body: string(body)}
	}

	var rpc response
	if err := json.Unmarshal(body, &rpc); err != nil {
		return nil, &ServerError{
			URL: serverURL,
			Err: fmt.Errorf("decoding response: %w (body: %s)", err, excerpt(body)),
		}
	}
	if rpc.Error != nil {
		return nil, &RPCError{Code: rpc.Error.Code, Message: rpc.Error.Message, Data: rpc.Error.Data}
	}
	if len(bytes.TrimSpace(rpc.Result)) == 0 {
		return nil, &ServerError{
			URL: serverURL,
			Err: fmt.Errorf("response has neither result nor error (body: %s)", excerpt(body)),
		}
	}

	return ParseResult(rpc.Result), nil
}

func excerpt(body []byte) string {
	return string(body[:min(len(body), bodyExcerpt)])
}
