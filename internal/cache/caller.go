package cache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/fstr21/sportsmcp/internal/logger"
	"github.com/fstr21/sportsmcp/internal/mcp"
	"github.com/rs/zerolog"
)

// CachedCaller serves repeated tool calls from a Store. Only successful
// (ok:true) results are stored. Store failures are logged and the call goes
// to the wrapped Caller.
type CachedCaller struct {
	next   mcp.Caller
	store  Store
	ttl    time.Duration
	logger zerolog.Logger
}

// NewCachedCaller wraps next. A non-positive ttl disables caching.
func NewCachedCaller(next mcp.Caller, store Store, ttl time.Duration, log zerolog.Logger) *CachedCaller {
	return &CachedCaller{
		next:   next,
		store:  store,
		ttl:    ttl,
		logger: logger.Component(log, "cache"),
	}
}

// Key returns "mcp:<tool>:<sha1 of the server URL and JSON arguments>".
// encoding/json sorts map keys, so equal argument maps give equal keys.
func Key(serverURL, tool string, arguments map[string]any) (string, error) {
	if arguments == nil {
		arguments = map[string]any{}
	}
	b, err := json.Marshal(arguments)
	if err != nil {
		return "", err
	}
	h := sha1.New()
	h.Write([]byte(serverURL))
	h.Write([]byte{0})
	h.Write(b)
	sum := h.Sum(nil)
	return fmt.Sprintf("mcp:%s:%s", tool, hex.EncodeToString(sum[:])), nil
}

func (c *CachedCaller) Call(ctx context.Context, serverURL, tool string, arguments map[string]any) (*mcp.Result, error) {
	if c.store == nil || c.ttl <= 0 {
		return c.next.Call(ctx, serverURL, tool, arguments)
	}

	key, err := Key(serverURL, tool, arguments)
	if err != nil {
		return c.next.Call(ctx, serverURL, tool, arguments)
	}

	if cached, err := c.store.Get(ctx, key); err == nil {
		var res mcp.Result
		if err := json.Unmarshal(cached, &res); err == nil {
			res.Raw = cached
			c.logger.Debug().Str("key", key).Msg("cache hit")
			return &res, nil
		}
		c.logger.Warn().Str("key", key).Msg("discarding undecodable cache entry")
		if err := c.store.Delete(ctx, key); err != nil {
			c.logger.Warn().Err(err).Str("key", key).Msg("cache delete failed")
		}
	} else if !errors.Is(err, ErrMiss) {
		c.logger.Warn().Err(err).Str("key", key).Msg("cache read failed")
	}

	res, err := c.next.Call(ctx, serverURL, tool, arguments)
	if err != nil || !res.OK {
		return res, err
	}

	if err := c.store.Set(ctx, key, res.Envelope(), c.ttl); err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("cache write failed")
	}
	return res, nil
}
