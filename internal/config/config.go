// File: internal/config/config.go
package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type RuntimeConfig struct {
	Dev bool
}

type LogConfig struct {
	Level    string `yaml:"level"`    // trace|debug|info|warn|error
	Format   string `yaml:"format"`   // json|console
	Sampling bool   `yaml:"sampling"` // enable sampling in prod
}

type DatabaseConfig struct {
	URL string `yaml:"url"`
}

type RedisConfig struct {
	URL      string `yaml:"url"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type AIConfig struct {
	AnthropicKey     string        `yaml:"anthropic_key"`
	OpenAIKey        string        `yaml:"openai_key"`
	GeminiKey        string        `yaml:"gemini_key"`
	DefaultModel     string        `yaml:"default_model"`
	ConcurrentLimit  int           `yaml:"concurrent_limit"` // max concurrent AI calls
	CallTimeout      time.Duration `yaml:"call_timeout"`
	WebSearchMaxUses int           `yaml:"web_search_max_uses"`
	MaxTokens        int           `yaml:"max_tokens"`
}

type SlackConfig struct {
	BotToken     string        `yaml:"bot_token"`
	RecheckDelay time.Duration `yaml:"recheck_delay"` // reply poll interval
}

type WebConfig struct {
	Port      int    `yaml:"port"`
	JWTSecret string `yaml:"jwt_secret"` // empty disables auth
}

type WorkerConfig struct {
	PoolSize     int           `yaml:"pool_size"`
	PollInterval time.Duration `yaml:"poll_interval"`
	JobTypes     []string      `yaml:"job_types"` // fan-out set for new research requests
}

type Config struct {
	Log      LogConfig      `yaml:"log"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	AI       AIConfig       `yaml:"ai"`
	Slack    SlackConfig    `yaml:"slack"`
	Web      WebConfig      `yaml:"web"`
	Worker   WorkerConfig   `yaml:"worker"`

	Runtime RuntimeConfig `yaml:"-"`
}

func LoadConfig() (*Config, error) {
	var configPath string = ""
	var dev bool
	flag.StringVar(&configPath, "config", "config.yaml", "path to config yaml")
	flag.BoolVar(&dev, "dev", false, "development mode")
	flag.Parse()

	b, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	applyDefaults(&cfg)

	// Minimal validation
	if cfg.Database.URL == "" {
		return nil, errors.New("database.url is required")
	}
	if cfg.Redis.URL == "" {
		return nil, errors.New("redis.url is required")
	}

	cfg.Runtime.Dev = dev
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.AI.ConcurrentLimit <= 0 {
		cfg.AI.ConcurrentLimit = 16
	}
	if cfg.AI.CallTimeout <= 0 {
		cfg.AI.CallTimeout = 5 * time.Minute
	}
	if cfg.AI.WebSearchMaxUses <= 0 {
		cfg.AI.WebSearchMaxUses = 5
	}
	if cfg.AI.MaxTokens <= 0 {
		cfg.AI.MaxTokens = 4000
	}
	if cfg.AI.DefaultModel == "" {
		cfg.AI.DefaultModel = "claude-sonnet-4-20250514"
	}
	if cfg.Slack.RecheckDelay <= 0 {
		cfg.Slack.RecheckDelay = 30 * time.Second
	}
	if cfg.Web.Port <= 0 {
		cfg.Web.Port = 8080
	}
	if cfg.Worker.PoolSize <= 0 {
		cfg.Worker.PoolSize = 8
	}
	if cfg.Worker.PollInterval <= 0 {
		cfg.Worker.PollInterval = 2 * time.Second
	}
	if len(cfg.Worker.JobTypes) == 0 {
		cfg.Worker.JobTypes = []string{"research", "slack"}
	}
}
