package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func newServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func TestCallSendsEnvelope(t *testing.T) {
	var got map[string]any
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method=%s want POST", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("content-type=%q", ct)
		}
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &got); err != nil {
			t.Errorf("request body: %v", err)
		}
		io.WriteString(w, `{"jsonrpc":"2.0","id":1,"result":{"ok":true,"data":{"summary":{"boxscore":{}}}}}`)
	})

	res, err := NewClient().Call(context.Background(), srv.URL, "getGameSummary", map[string]any{"event_id": "401585601"})
	if err != nil {
		t.Fatalf("Call: %v", err)
	}
	if !res.OK {
		t.Error("OK=false")
	}
	if string(res.Data) != `{"summary":{"boxscore":{}}}` {
		t.Errorf("Data=%s", res.Data)
	}

	if got["jsonrpc"] != "2.0" || got["method"] != "tools/call" || got["id"] != float64(1) {
		t.Errorf("envelope=%v", got)
	}
	params, _ := got["params"].(map[string]any)
	if params["name"] != "getGameSummary" {
		t.Errorf("params.name=%v", params["name"])
	}
	args, _ := params["arguments"].(map[string]any)
	if args["event_id"] != "401585601" {
		t.Errorf("params.arguments=%v", args)
	}
}

func TestCallNilArgumentsSendsObject(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		if !strings.Contains(string(body), `"arguments":{}`) {
			t.Errorf("body=%s", body)
		}
		io.WriteString(w, `{"jsonrpc":"2.0","id":1,"result":{"ok":true}}`)
	})
	if _, err := NewClient().Call(context.Background(), srv.URL, "listLeagues", nil); err != nil {
		t.Fatal(err)
	}
}

func TestCallErrors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		check   func(t *testing.T, err error)
	}{
		{
			name: "HTTPStatus",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
				io.WriteString(w, "upstream exploded")
			},
			check: func(t *testing.T, err error) {
				var httpErr *HTTPError
				if !errors.As(err, &httpErr) {
					t.Fatalf("err=%T %v, want *HTTPError", err, err)
				}
				if httpErr.StatusCode != http.StatusBadGateway || httpErr.Body != "upstream exploded" {
					t.Errorf("httpErr=%+v", httpErr)
				}
			},
		},
		{
			name: "RPCError",
			handler: func(w http.ResponseWriter, r *http.Request) {
				io.WriteString(w, `{"jsonrpc":"2.0","id":1,"error":{"code":-32601,"message":"unknown tool","data":{"tool":"x"}}}`)
			},
			check: func(t *testing.T, err error) {
				var rpcErr *RPCError
				if !errors.As(err, &rpcErr) {
					t.Fatalf("err=%T %v, want *RPCError", err, err)
				}
				if rpcErr.Code != -32601 || rpcErr.Message != "unknown tool" || string(rpcErr.Data) != `{"tool":"x"}` {
					t.Errorf("rpcErr=%+v", rpcErr)
				}
			},
		},
		{
			name: "BadJSON",
			handler: func(w http.ResponseWriter, r *http.Request) {
				io.WriteString(w, "<html>nope</html>")
			},
			check: func(t *testing.T, err error) {
				var srvErr *ServerError
				if !errors.As(err, &srvErr) {
					t.Fatalf("err=%T %v, want *ServerError", err, err)
				}
				if srvErr.Timeout() {
					t.Error("decode failure reported as timeout")
				}
				if !strings.Contains(err.Error(), "<html>") {
					t.Errorf("error should carry body excerpt: %v", err)
				}
			},
		},
		{
			name: "NoResult",
			handler: func(w http.ResponseWriter, r *http.Request) {
				io.WriteString(w, `{"jsonrpc":"2.0","id":1}`)
			},
			check: func(t *testing.T, err error) {
				var srvErr *ServerError
				if !errors.As(err, &srvErr) {
					t.Fatalf("err=%T %v, want *ServerError", err, err)
				}
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newServer(t, tt.handler)
			res, err := NewClient().Call(context.Background(), srv.URL, "tool", nil)
			if res != nil {
				t.Errorf("res=%+v, want nil on error", res)
			}
			tt.check(t, err)
		})
	}
}

func TestCallTimeout(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
		}
	})

	start := time.Now()
	_, err := NewClient(WithTimeout(50*time.Millisecond)).Call(context.Background(), srv.URL, "slow", nil)
	var srvErr *ServerError
	if !errors.As(err, &srvErr) {
		t.Fatalf("err=%T %v, want *ServerError", err, err)
	}
	if !srvErr.Timeout() {
		t.Errorf("Timeout()=false for %v", err)
	}
	if elapsed := time.Since(start); elapsed > 900*time.Millisecond {
		t.Errorf("call took %v, timeout not applied", elapsed)
	}
}

func TestCallContextDeadlineShortensTimeout(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
		}
	})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := NewClient(WithTimeout(AnalysisTimeout)).Call(ctx, srv.URL, "slow", nil)
	var srvErr *ServerError
	if !errors.As(err, &srvErr) || !srvErr.Timeout() {
		t.Fatalf("err=%v, want timeout *ServerError", err)
	}
}

func TestCallUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewClient(WithTimeout(time.Second)).Call(context.Background(), url, "tool", nil)
	var srvErr *ServerError
	if !errors.As(err, &srvErr) {
		t.Fatalf("err=%T %v, want *ServerError", err, err)
	}
	if srvErr.URL != url {
		t.Errorf("URL=%q", srvErr.URL)
	}
}

func TestCallCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewClient().Call(ctx, "http://127.0.0.1:1", "tool", nil)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err=%v, want context.Canceled", err)
	}
}

func TestWithTimeoutIgnoresNonPositive(t *testing.T) {
	if got := NewClient(WithTimeout(0)).Timeout(); got != DefaultTimeout {
		t.Errorf("Timeout()=%v", got)
	}
	if got := NewClient(WithTimeout(LookupTimeout)).Timeout(); got != LookupTimeout {
		t.Errorf("Timeout()=%v", got)
	}
}
