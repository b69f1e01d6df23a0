package fx

import (
	"context"
	"time"

	"github.com/fstr21/sportsmcp/internal/api/rest"
	"github.com/fstr21/sportsmcp/internal/api/websocket"
	"github.com/fstr21/sportsmcp/internal/bot"
	"github.com/fstr21/sportsmcp/internal/cache"
	"github.com/fstr21/sportsmcp/internal/config"
	"github.com/fstr21/sportsmcp/internal/logger"
	"github.com/fstr21/sportsmcp/internal/mcp"
	"github.com/fstr21/sportsmcp/internal/mcpserver"
	"github.com/fstr21/sportsmcp/internal/publisher"
	"github.com/fstr21/sportsmcp/internal/scheduler"
	"github.com/fstr21/sportsmcp/internal/service"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

const (
	redisAttempts   = 5
	redisRetryDelay = 2 * time.Second
)

// ApplyLogLevel raises the global level to the configured one.
func ApplyLogLevel(cfg *config.Config) {
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil && cfg.LogLevel != "" {
		zerolog.SetGlobalLevel(lvl)
	}
}

func ProvideMCPClient(cfg *config.Config, log zerolog.Logger) *mcp.Client {
	return mcp.NewClient(mcp.WithTimeout(cfg.MCPTimeout), mcp.WithLogger(log))
}

// ProvideRedis connects when REDIS_URL is set. Redis is optional: a nil
// cache disables result caching and stream publishing.
func ProvideRedis(lc fx.Lifecycle, cfg *config.Config, log zerolog.Logger) *cache.RedisCache {
	if cfg.RedisURL == "" {
		log.Info().Msg("REDIS_URL not set, caching and stream publishing disabled")
		return nil
	}

	var (
		rc  *cache.RedisCache
		err error
	)
	for i := 0; i < redisAttempts; i++ {
		rc, err = cache.NewRedisCache(cfg.RedisURL)
		if err == nil {
			break
		}
		log.Warn().Err(err).Int("attempt", i+1).Int("max_attempts", redisAttempts).Msg("redis connection failed")
		if i < redisAttempts-1 {
			time.Sleep(redisRetryDelay)
		}
	}
	if err != nil {
		log.Error().Err(err).Msg("continuing without redis")
		return nil
	}

	log.Info().Msg("connected to redis")
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return rc.Close()
		},
	})
	return rc
}

// ProvideCaller wraps the MCP client in the Redis cache when available.
func ProvideCaller(client *mcp.Client, rc *cache.RedisCache, cfg *config.Config, log zerolog.Logger) mcp.Caller {
	if rc == nil {
		return client
	}
	return cache.NewCachedCaller(client, rc, cfg.CacheTTL, log)
}

func ProvideService(caller mcp.Caller, cfg *config.Config, log zerolog.Logger) *service.Boxscores {
	return service.NewBoxscores(caller, cfg, log)
}

// ProvidePoller builds the live poller with the Redis stream sink when
// Redis is connected.
func ProvidePoller(svc *service.Boxscores, rc *cache.RedisCache, cfg *config.Config, log zerolog.Logger) *scheduler.Poller {
	var sinks []scheduler.Sink
	if rc != nil {
		sinks = append(sinks, publisher.NewRedisStreamPublisher(rc.Client()))
	}
	return scheduler.NewPoller(svc, scheduler.ConfigFrom(cfg), log, sinks...)
}

// ProvideWebSocket builds the WebSocket server and subscribes it to the
// poller.
func ProvideWebSocket(poller *scheduler.Poller, log zerolog.Logger) *websocket.Server {
	ws := websocket.NewServer(poller, log)
	poller.AddSink(scheduler.SinkFunc(func(_ context.Context, league, eventID string, categories map[string]any) error {
		return ws.PublishBoxscore(league, eventID, categories)
	}))
	return ws
}

func ProvideRESTServer(cfg *config.Config, svc *service.Boxscores, poller *scheduler.Poller, ws *websocket.Server, rc *cache.RedisCache, log zerolog.Logger) *rest.Server {
	deps := map[string]rest.HealthChecker{}
	if rc != nil {
		deps["redis"] = rc
	}
	handler := rest.NewHandler(svc, deps).WithLive(func() map[string]interface{} {
		status := poller.Status()
		status["ws_clients"] = ws.ClientCount()
		return status
	})
	return rest.NewServer(cfg.RESTPort, handler, ws, log)
}

func ProvideBotCommands(svc *service.Boxscores, cfg *config.Config) *bot.Commands {
	return bot.NewCommands(svc, cfg.MCPTimeout)
}

func ProvideBot(cfg *config.Config, commands *bot.Commands, log zerolog.Logger) (*bot.Bot, error) {
	return bot.New(bot.Config{
		Token:          cfg.TelegramToken,
		AllowedUserIDs: cfg.TelegramAllowedUsers,
	}, commands, log)
}

func ProvideMCPServer(svc *service.Boxscores, log zerolog.Logger) *mcpserver.Tools {
	return mcpserver.NewTools(svc, log)
}

// Core is shared by every long-running command.
var Core = fx.Options(
	fx.Provide(logger.New),
	fx.Provide(config.Load),
	fx.Invoke(ApplyLogLevel),
	// mcp
	fx.Provide(ProvideMCPClient),
	fx.Provide(ProvideRedis),
	fx.Provide(ProvideCaller),
	// svc
	fx.Provide(ProvideService),
)

// Serve adds the REST, WebSocket and polling stack.
var Serve = fx.Options(
	Core,
	fx.Provide(ProvidePoller),
	fx.Provide(ProvideWebSocket),
	fx.Provide(ProvideRESTServer),
)

// Bot adds the Telegram front-end.
var Bot = fx.Options(
	Core,
	fx.Provide(ProvideBotCommands),
	fx.Provide(ProvideBot),
)

// MCPServer adds the MCP tool server.
var MCPServer = fx.Options(
	Core,
	fx.Provide(ProvideMCPServer),
)
