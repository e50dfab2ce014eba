// Package config loads the service configuration from YAML with environment
// overrides for credentials.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Defaults applied when the file leaves a field unset.
const (
	DefaultCommandPrefix          = "?"
	DefaultHTTPAddr               = ":8080"
	DefaultRedisPrefix            = "questions:config:"
	DefaultResponseTimeoutSeconds = 1800
	DefaultSettleSeconds          = 1
)

// Config is the whole service configuration.
type Config struct {
	Gateway GatewayConfig `yaml:"gateway"`
	Redis   RedisConfig   `yaml:"redis"`
	Bot     BotConfig     `yaml:"bot"`
	HTTP    HTTPConfig    `yaml:"http"`

	// Scope is the config-store key this deployment reads and writes.
	// Typically the guild ID.
	Scope string `yaml:"scope"`

	CommandPrefix string   `yaml:"command_prefix"`
	Moderators    []string `yaml:"moderators"`
	LogLevel      string   `yaml:"log_level"`

	ResponseTimeoutSeconds int `yaml:"response_timeout_seconds"`
	SettleSeconds          int `yaml:"settle_seconds"`
}

// GatewayConfig points at the modmail gateway websocket.
type GatewayConfig struct {
	URL   string `yaml:"url"`
	Token string `yaml:"token"`
}

// RedisConfig points at the configuration store.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Prefix   string `yaml:"prefix"`
}

// BotConfig is the identity used to author system messages.
type BotConfig struct {
	ID        string `yaml:"id"`
	Name      string `yaml:"name"`
	AvatarURL string `yaml:"avatar_url"`
}

// HTTPConfig configures the admin server.
type HTTPConfig struct {
	Addr string `yaml:"addr"`
}

// ResponseTimeout returns the per-reply wait timeout.
func (c *Config) ResponseTimeout() time.Duration {
	return time.Duration(c.ResponseTimeoutSeconds) * time.Second
}

// Settle returns the pre-summary pause.
func (c *Config) Settle() time.Duration {
	return time.Duration(c.SettleSeconds) * time.Second
}

// Load reads and validates the configuration at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyEnv()
	cfg.applyDefaults()

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyEnv lets credentials come from the environment (or a .env file loaded
// by the caller) instead of the config file.
func (c *Config) applyEnv() {
	if v := os.Getenv("GATEWAY_URL"); v != "" {
		c.Gateway.URL = v
	}
	if v := os.Getenv("GATEWAY_TOKEN"); v != "" {
		c.Gateway.Token = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Redis.Addr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		c.Redis.Password = v
	}
}

func (c *Config) applyDefaults() {
	if c.CommandPrefix == "" {
		c.CommandPrefix = DefaultCommandPrefix
	}
	if c.HTTP.Addr == "" {
		c.HTTP.Addr = DefaultHTTPAddr
	}
	if c.Redis.Prefix == "" {
		c.Redis.Prefix = DefaultRedisPrefix
	}
	if c.ResponseTimeoutSeconds == 0 {
		c.ResponseTimeoutSeconds = DefaultResponseTimeoutSeconds
	}
	if c.SettleSeconds == 0 {
		c.SettleSeconds = DefaultSettleSeconds
	}
	if c.Bot.Name == "" {
		c.Bot.Name = "Modmail"
	}
}

func (c *Config) validate() error {
	if c.Gateway.URL == "" {
		return fmt.Errorf("gateway.url is required")
	}
	if c.Redis.Addr == "" {
		return fmt.Errorf("redis.addr is required")
	}
	if c.Scope == "" {
		return fmt.Errorf("scope is required")
	}
	if c.Bot.ID == "" {
		return fmt.Errorf("bot.id is required")
	}
	return nil
}
