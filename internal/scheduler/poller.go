package scheduler

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/fstr21/sportsmcp/internal/boxscore"
	"github.com/fstr21/sportsmcp/internal/config"
	"github.com/fstr21/sportsmcp/internal/logger"
	"github.com/fstr21/sportsmcp/internal/service"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Config holds poller configuration
type Config struct {
	PollInterval time.Duration // Default: 30s
	Concurrency  int           // Default: 4
	MaxRetries   int           // Default: 2
	RetryDelay   time.Duration // Default: 2s
	// MaxFailures consecutive failed polls drop a game. Default: 5
	MaxFailures int
}

// DefaultConfig returns default poller configuration
func DefaultConfig() Config {
	return Config{
		PollInterval: 30 * time.Second,
		Concurrency:  4,
		MaxRetries:   2,
		RetryDelay:   2 * time.Second,
		MaxFailures:  5,
	}
}

// ConfigFrom takes the polling settings from the application config.
func ConfigFrom(cfg *config.Config) Config {
	c := DefaultConfig()
	if cfg.PollInterval > 0 {
		c.PollInterval = cfg.PollInterval
	}
	if cfg.PollConcurrency > 0 {
		c.Concurrency = cfg.PollConcurrency
	}
	if cfg.MaxRetries >= 0 {
		c.MaxRetries = cfg.MaxRetries
	}
	if cfg.RetryDelay > 0 {
		c.RetryDelay = cfg.RetryDelay
	}
	return c
}

// Fetcher is the service surface the poller drives.
type Fetcher interface {
	League(key string) (config.League, error)
	Summary(ctx context.Context, league, eventID string) (boxscore.Result, error)
}

// Sink receives boxscores that changed since the previous poll.
type Sink interface {
	PublishBoxscore(ctx context.Context, league, eventID string, categories map[string]any) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, league, eventID string, categories map[string]any) error

func (f SinkFunc) PublishBoxscore(ctx context.Context, league, eventID string, categories map[string]any) error {
	return f(ctx, league, eventID, categories)
}

// Game identifies a tracked game.
type Game struct {
	League  string `json:"league"`
	EventID string `json:"event_id"`
}

type tracked struct {
	hash     string
	failures int
}

// Poller refreshes tracked games on an interval and forwards changed
// boxscores to its sinks.
type Poller struct {
	fetcher Fetcher
	sinks   []Sink
	config  Config
	logger  zerolog.Logger

	mu    sync.Mutex
	games map[Game]*tracked

	cancel context.CancelFunc
}

// NewPoller creates a poller. Zero config fields take their defaults.
func NewPoller(fetcher Fetcher, cfg Config, log zerolog.Logger, sinks ...Sink) *Poller {
	def := DefaultConfig()
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = def.PollInterval
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = def.Concurrency
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.MaxFailures <= 0 {
		cfg.MaxFailures = def.MaxFailures
	}
	return &Poller{
		fetcher: fetcher,
		sinks:   sinks,
		config:  cfg,
		logger:  logger.Component(log, "poller"),
		games:   make(map[Game]*tracked),
	}
}

// AddSink registers another receiver of changed boxscores.
func (p *Poller) AddSink(s Sink) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sinks = append(p.sinks, s)
}

// Track starts following a game. The league key must be configured.
func (p *Poller) Track(league, eventID string) error {
	l, err := p.fetcher.League(league)
	if err != nil {
		return err
	}
	g := Game{League: l.Key, EventID: eventID}

	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.games[g]; !ok {
		p.games[g] = &tracked{}
		p.logger.Info().Str("league", g.League).Str("event_id", eventID).Msg("tracking game")
	}
	return nil
}

// Untrack stops following a game.
func (p *Poller) Untrack(league, eventID string) {
	key := league
	if l, err := p.fetcher.League(league); err == nil {
		key = l.Key
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.games, Game{League: key, EventID: eventID})
}

// Tracked lists tracked games sorted by league then event.
func (p *Poller) Tracked() []Game {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Game, 0, len(p.games))
	for g := range p.games {
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].League != out[j].League {
			return out[i].League < out[j].League
		}
		return out[i].EventID < out[j].EventID
	})
	return out
}

// Start polls until ctx is canceled or Stop is called.
func (p *Poller) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	p.mu.Lock()
	p.cancel = cancel
	p.mu.Unlock()

	p.logger.Info().
		Dur("interval", p.config.PollInterval).
		Int("concurrency", p.config.Concurrency).
		Int("max_retries", p.config.MaxRetries).
		Msg("live polling started")

	ticker := time.NewTicker(p.config.PollInterval)
	defer ticker.Stop()

	// Run immediately on start
	p.PollOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			p.logger.Info().Msg("live polling stopped")
			return
		case <-ticker.C:
			p.PollOnce(ctx)
		}
	}
}

// Stop ends a running Start loop.
func (p *Poller) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cancel != nil {
		p.cancel()
	}
}

// PollOnce refreshes every tracked game once. It returns how many games
// changed. Per-game failures are logged, not returned.
func (p *Poller) PollOnce(ctx context.Context) int {
	games := p.Tracked()
	if len(games) == 0 {
		return 0
	}

	var (
		mu      sync.Mutex
		changed int
	)
	g := new(errgroup.Group)
	g.SetLimit(p.config.Concurrency)
	for _, game := range games {
		g.Go(func() error {
			if p.refresh(ctx, game) {
				mu.Lock()
				changed++
				mu.Unlock()
			}
			return nil
		})
	}
	g.Wait()

	if changed > 0 {
		p.logger.Info().Int("changed", changed).Int("tracked", len(games)).Msg("published boxscore updates")
	}
	return changed
}

func (p *Poller) refresh(ctx context.Context, game Game) bool {
	log := p.logger.With().Str("league", game.League).Str("event_id", game.EventID).Logger()

	res, err := p.fetchWithRetry(ctx, game, log)
	if err != nil {
		p.recordFailure(game, err, log)
		return false
	}

	categories := res.Categories()
	hash, err := digest(categories)
	if err != nil {
		log.Error().Err(err).Msg("hashing boxscore")
		return false
	}

	p.mu.Lock()
	state, ok := p.games[game]
	if !ok {
		// Untracked while in flight.
		p.mu.Unlock()
		return false
	}
	state.failures = 0
	if state.hash == hash {
		p.mu.Unlock()
		return false
	}
	state.hash = hash
	sinks := append([]Sink(nil), p.sinks...)
	p.mu.Unlock()

	for _, s := range sinks {
		if err := s.PublishBoxscore(ctx, game.League, game.EventID, categories); err != nil {
			log.Warn().Err(err).Msg("failed to publish boxscore")
		}
	}
	return true
}

// fetchWithRetry retries transport and protocol failures. Data-shape errors
// and unknown leagues are final.
func (p *Poller) fetchWithRetry(ctx context.Context, game Game, log zerolog.Logger) (boxscore.Result, error) {
	var (
		res boxscore.Result
		err error
	)
	for attempt := 0; attempt <= p.config.MaxRetries; attempt++ {
		res, err = p.fetcher.Summary(ctx, game.League, game.EventID)
		if err == nil || !retryable(err) {
			return res, err
		}

		log.Warn().Err(err).Int("attempt", attempt+1).Int("max_attempts", p.config.MaxRetries+1).Msg("polling attempt failed")
		if attempt < p.config.MaxRetries {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(p.config.RetryDelay):
			}
		}
	}
	return nil, err
}

func retryable(err error) bool {
	return !errors.Is(err, boxscore.ErrInvalidEnvelope) &&
		!errors.Is(err, boxscore.ErrNoBoxscore) &&
		!errors.Is(err, service.ErrUnknownLeague) &&
		!errors.Is(err, context.Canceled)
}

func (p *Poller) recordFailure(game Game, err error, log zerolog.Logger) {
	p.mu.Lock()
	defer p.mu.Unlock()
	state, ok := p.games[game]
	if !ok {
		return
	}
	state.failures++
	if state.failures >= p.config.MaxFailures {
		delete(p.games, game)
		log.Error().Err(err).Int("failures", state.failures).Msg("too many consecutive failures, untracking game")
		return
	}
	log.Warn().Err(err).Int("failures", state.failures).Msg("poll failed")
}

// Status reports the poller settings and tracked games.
func (p *Poller) Status() map[string]interface{} {
	return map[string]interface{}{
		"poll_interval": p.config.PollInterval.String(),
		"concurrency":   p.config.Concurrency,
		"max_retries":   p.config.MaxRetries,
		"tracked":       p.Tracked(),
	}
}

func digest(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:]), nil
}
