package config

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

// Config holds runtime settings. Precedence is defaults, then the optional
// YAML file named by SPORTSMCP_CONFIG, then environment variables.
type Config struct {
	MCPURL     string
	MCPTimeout time.Duration

	RedisURL string
	CacheTTL time.Duration

	RESTPort string

	PollInterval    time.Duration
	PollConcurrency int
	MaxRetries      int
	RetryDelay      time.Duration

	TelegramToken        string
	TelegramAllowedUsers []int64

	MCPServerAddr string
	LogLevel      string

	Leagues         map[string]League
	CategoryAliases map[string]map[string][]string
}

// League maps a short key ("nba", "epl") to its ESPN path, its normalizer and
// the MCP tools that serve it.
type League struct {
	Key            string `yaml:"-"`
	Sport          string `yaml:"sport"`
	League         string `yaml:"league"`
	Normalizer     string `yaml:"normalizer"`
	SummaryTool    string `yaml:"summary_tool"`
	ScoreboardTool string `yaml:"scoreboard_tool"`
}

// Path is the ESPN "<sport>/<league>" segment.
func (l League) Path() string {
	return l.Sport + "/" + l.League
}

const (
	DefaultSummaryTool    = "getGameSummary"
	DefaultScoreboardTool = "getScoreboard"
)

// DefaultLeagues is the built-in league table.
func DefaultLeagues() map[string]League {
	leagues := map[string]League{
		"nba":        {Sport: "basketball", League: "nba", Normalizer: "nba"},
		"wnba":       {Sport: "basketball", League: "wnba", Normalizer: "nba"},
		"nhl":        {Sport: "hockey", League: "nhl", Normalizer: "nhl"},
		"epl":        {Sport: "soccer", League: "eng.1", Normalizer: "soccer"},
		"laliga":     {Sport: "soccer", League: "esp.1", Normalizer: "soccer"},
		"bundesliga": {Sport: "soccer", League: "ger.1", Normalizer: "soccer"},
		"seriea":     {Sport: "soccer", League: "ita.1", Normalizer: "soccer"},
		"ligue1":     {Sport: "soccer", League: "fra.1", Normalizer: "soccer"},
		"mls":        {Sport: "soccer", League: "usa.1", Normalizer: "soccer"},
		"ucl":        {Sport: "soccer", League: "uefa.champions", Normalizer: "soccer"},
	}
	for key, l := range leagues {
		leagues[key] = l.withDefaults(key)
	}
	return leagues
}

func (l League) withDefaults(key string) League {
	l.Key = key
	if l.SummaryTool == "" {
		l.SummaryTool = DefaultSummaryTool
	}
	if l.ScoreboardTool == "" {
		l.ScoreboardTool = DefaultScoreboardTool
	}
	if l.Normalizer == "" {
		l.Normalizer = l.Sport
	}
	return l
}

// Lookup finds a league by key, ignoring case.
func (c *Config) Lookup(key string) (League, bool) {
	l, ok := c.Leagues[strings.ToLower(strings.TrimSpace(key))]
	return l, ok
}

// LeagueKeys lists configured league keys in sorted order.
func (c *Config) LeagueKeys() []string {
	keys := make([]string, 0, len(c.Leagues))
	for k := range c.Leagues {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		MCPURL:          "http://localhost:8000/mcp",
		MCPTimeout:      30 * time.Second,
		CacheTTL:        30 * time.Second,
		RESTPort:        "8080",
		PollInterval:    30 * time.Second,
		PollConcurrency: 4,
		MaxRetries:      2,
		RetryDelay:      2 * time.Second,
		MCPServerAddr:   ":8090",
		LogLevel:        "info",
		Leagues:         DefaultLeagues(),
	}
}

// Load reads .env (if present), the YAML overlay and the environment.
func Load(logger zerolog.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Debug().Msg(".env file not found, using environment variables or defaults")
	}

	cfg := Default()
	if path := os.Getenv("SPORTSMCP_CONFIG"); path != "" {
		if err := cfg.applyFile(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if cfg.MCPURL == "" {
		return nil, fmt.Errorf("MCP_URL is required")
	}

	logger.Info().
		Str("mcp_url", cfg.MCPURL).
		Dur("mcp_timeout", cfg.MCPTimeout).
		Bool("redis", cfg.RedisURL != "").
		Str("rest_port", cfg.RESTPort).
		Dur("poll_interval", cfg.PollInterval).
		Strs("leagues", cfg.LeagueKeys()).
		Msg("configuration loaded")

	return cfg, nil
}

func (c *Config) applyEnv() error {
	c.MCPURL = getEnv("MCP_URL", c.MCPURL)
	c.RedisURL = getEnv("REDIS_URL", c.RedisURL)
	c.RESTPort = getEnv("REST_PORT", c.RESTPort)
	c.TelegramToken = getEnv("TELEGRAM_BOT_TOKEN", c.TelegramToken)
	c.MCPServerAddr = getEnv("MCP_SERVER_ADDR", c.MCPServerAddr)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)

	var err error
	if c.MCPTimeout, err = getDuration("MCP_TIMEOUT", c.MCPTimeout); err != nil {
		return err
	}
	if c.CacheTTL, err = getDuration("CACHE_TTL", c.CacheTTL); err != nil {
		return err
	}
	if c.PollInterval, err = getDuration("POLL_INTERVAL", c.PollInterval); err != nil {
		return err
	}
	if c.RetryDelay, err = getDuration("RETRY_DELAY", c.RetryDelay); err != nil {
		return err
	}
	if c.PollConcurrency, err = getInt("POLL_CONCURRENCY", c.PollConcurrency); err != nil {
		return err
	}
	if c.MaxRetries, err = getInt("MAX_RETRIES", c.MaxRetries); err != nil {
		return err
	}
	if v := os.Getenv("TELEGRAM_ALLOWED_USERS"); v != "" {
		c.TelegramAllowedUsers = ParseUserIDs(v)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		// Bare numbers are seconds.
		secs, convErr := strconv.Atoi(v)
		if convErr != nil {
			return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
		}
		d = time.Duration(secs) * time.Second
	}
	return d, nil
}

func getInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return n, nil
}

// ParseUserIDs parses a comma-separated ID list, skipping malformed entries.
func ParseUserIDs(s string) []int64 {
	var ids []int64
	for _, part := range strings.Split(s, ",") {
		id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err == nil {
			ids = append(ids, id)
		}
	}
	return ids
}
