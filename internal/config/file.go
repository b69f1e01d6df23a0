package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// File is the YAML overlay. Zero values leave the defaults in place.
type File struct {
	MCP struct {
		URL     string        `yaml:"url"`
		Timeout time.Duration `yaml:"timeout"`
	} `yaml:"mcp"`
	Redis struct {
		URL      string        `yaml:"url"`
		CacheTTL time.Duration `yaml:"cache_ttl"`
	} `yaml:"redis"`
	Poll struct {
		Interval    time.Duration `yaml:"interval"`
		Concurrency int           `yaml:"concurrency"`
		MaxRetries  *int          `yaml:"max_retries"`
		RetryDelay  time.Duration `yaml:"retry_delay"`
	} `yaml:"poll"`
	Telegram struct {
		AllowedUsers []int64 `yaml:"allowed_users"`
	} `yaml:"telegram"`
	RESTPort      string `yaml:"rest_port"`
	MCPServerAddr string `yaml:"mcp_server_addr"`
	LogLevel      string `yaml:"log_level"`

	// Leagues adds or replaces entries of the built-in league table.
	Leagues map[string]League `yaml:"leagues"`
	// CategoryAliases is sport -> canonical category -> extra group names.
	CategoryAliases map[string]map[string][]string `yaml:"category_aliases"`
}

// LoadFile reads and parses a YAML overlay.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return &f, nil
}

func (c *Config) applyFile(path string) error {
	f, err := LoadFile(path)
	if err != nil {
		return err
	}
	return c.apply(f)
}

func (c *Config) apply(f *File) error {
	setString(&c.MCPURL, f.MCP.URL)
	setDuration(&c.MCPTimeout, f.MCP.Timeout)
	setString(&c.RedisURL, f.Redis.URL)
	setDuration(&c.CacheTTL, f.Redis.CacheTTL)
	setDuration(&c.PollInterval, f.Poll.Interval)
	setDuration(&c.RetryDelay, f.Poll.RetryDelay)
	if f.Poll.Concurrency > 0 {
		c.PollConcurrency = f.Poll.Concurrency
	}
	if f.Poll.MaxRetries != nil {
		c.MaxRetries = *f.Poll.MaxRetries
	}
	if len(f.Telegram.AllowedUsers) > 0 {
		c.TelegramAllowedUsers = f.Telegram.AllowedUsers
	}
	setString(&c.RESTPort, f.RESTPort)
	setString(&c.MCPServerAddr, f.MCPServerAddr)
	setString(&c.LogLevel, f.LogLevel)

	for key, l := range f.Leagues {
		key = strings.ToLower(strings.TrimSpace(key))
		if l.Sport == "" || l.League == "" {
			return fmt.Errorf("league %q: sport and league are required", key)
		}
		c.Leagues[key] = l.withDefaults(key)
	}
	if len(f.CategoryAliases) > 0 {
		c.CategoryAliases = f.CategoryAliases
	}
	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setDuration(dst *time.Duration, v time.Duration) {
	if v > 0 {
		*dst = v
	}
}
