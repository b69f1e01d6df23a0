package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/fstr21/sportsmcp/internal/api/rest"
	"github.com/fstr21/sportsmcp/internal/api/websocket"
	"github.com/fstr21/sportsmcp/internal/bot"
	"github.com/fstr21/sportsmcp/internal/config"
	fxmodules "github.com/fstr21/sportsmcp/internal/fx"
	"github.com/fstr21/sportsmcp/internal/mcpserver"
	"github.com/fstr21/sportsmcp/internal/scheduler"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
)

const shutdownTimeout = 10 * time.Second

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the REST API, WebSocket feed and live poller",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApp(fxmodules.Serve, fx.Invoke(runServer))
		},
	}
}

func botCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "bot",
		Short: "Run the Telegram bot",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApp(fxmodules.Bot, fx.Invoke(runBot))
		},
	}
}

func mcpServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp-serve",
		Short: "Expose normalized boxscores as MCP tools over streamable HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApp(fxmodules.MCPServer, fx.Invoke(runMCPServer))
		},
	}
}

// runApp blocks until SIGINT/SIGTERM and reports startup failures.
func runApp(opts ...fx.Option) error {
	app := fx.New(opts...)
	if err := app.Err(); err != nil {
		return err
	}
	app.Run()
	return nil
}

func runServer(
	lc fx.Lifecycle,
	srv *rest.Server,
	ws *websocket.Server,
	poller *scheduler.Poller,
	logger zerolog.Logger,
) {
	pollCtx, cancelPoll := context.WithCancel(context.Background())

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ws.Start()
			go poller.Start(pollCtx)
			go func() {
				if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Fatal().Err(err).Msg("server failed")
				}
			}()
			logger.Info().Str("version", serviceVersion).Msg("sportsmcp started")
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info().Msg("shutting down server")
			cancelPoll()
			ws.Stop()

			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Error().Err(err).Msg("server shutdown failed")
				return err
			}
			logger.Info().Msg("server stopped gracefully")
			return nil
		},
	})
}

func runBot(lc fx.Lifecycle, b *bot.Bot, logger zerolog.Logger) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				defer close(done)
				if err := b.Run(ctx); err != nil {
					logger.Error().Err(err).Msg("bot stopped")
				}
			}()
			return nil
		},
		OnStop: func(stopCtx context.Context) error {
			cancel()
			select {
			case <-done:
			case <-stopCtx.Done():
			}
			return nil
		},
	})
}

func runMCPServer(lc fx.Lifecycle, tools *mcpserver.Tools, cfg *config.Config, logger zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/mcp", mcpserver.Handler(mcpserver.NewServer(tools)))
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	srv := &http.Server{
		Addr:              cfg.MCPServerAddr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				logger.Info().Str("addr", srv.Addr).Str("path", "/mcp").Msg("MCP tool server listening")
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Fatal().Err(err).Msg("MCP tool server failed")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})
}
