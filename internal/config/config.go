package config

import (
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Worker   WorkerConfig   `yaml:"worker"`
	Gemini   GeminiConfig   `yaml:"gemini"`
	Scrape   ScrapeConfig   `yaml:"scrape"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host         string        `yaml:"host" envconfig:"SERVER_HOST" default:"0.0.0.0"`
	Port         int           `yaml:"port" envconfig:"SERVER_PORT" default:"8000"`
	ReadTimeout  time.Duration `yaml:"read_timeout" envconfig:"SERVER_READ_TIMEOUT" default:"30s"`
	WriteTimeout time.Duration `yaml:"write_timeout" envconfig:"SERVER_WRITE_TIMEOUT" default:"2m"`
	CORSOrigins  []string      `yaml:"cors_origins" envconfig:"CORS_ORIGINS" default:"http://localhost:3000,http://127.0.0.1:3000"`
}

// DatabaseConfig holds SQLite configuration.
type DatabaseConfig struct {
	Path string `yaml:"path" envconfig:"DATABASE_PATH" default:"tikodea.db"`
}

// RedisConfig holds submission queue configuration.
type RedisConfig struct {
	URL            string        `yaml:"url" envconfig:"REDIS_URL" default:"redis://localhost:6379"`
	QueueKey       string        `yaml:"queue_key" envconfig:"REDIS_QUEUE_KEY" default:"tikodea:queue:videos"`
	DequeueTimeout time.Duration `yaml:"dequeue_timeout" envconfig:"REDIS_DEQUEUE_TIMEOUT" default:"5s"`
}

// WorkerConfig holds worker pool configuration.
type WorkerConfig struct {
	Count int `yaml:"count" envconfig:"WORKER_COUNT" default:"2"`
}

// GeminiConfig holds LLM analysis configuration.
type GeminiConfig struct {
	APIKey  string        `yaml:"api_key" envconfig:"GOOGLE_AI_API_KEY"`
	Model   string        `yaml:"model" envconfig:"GEMINI_MODEL" default:"gemini-2.0-flash-exp"`
	Timeout time.Duration `yaml:"timeout" envconfig:"GEMINI_TIMEOUT" default:"60s"`
}

// ScrapeConfig holds source adapter configuration.
type ScrapeConfig struct {
	SupadataAPIKey  string        `yaml:"supadata_api_key" envconfig:"SUPADATA_API_KEY"`
	SupadataTimeout time.Duration `yaml:"supadata_timeout" envconfig:"SUPADATA_TIMEOUT" default:"60s"`

	ScrapTikAPIKey       string        `yaml:"scraptik_api_key" envconfig:"SCRAPTIK_API_KEY"`
	ScrapTikMonthlyLimit int           `yaml:"scraptik_monthly_limit" envconfig:"SCRAPTIK_MONTHLY_LIMIT" default:"50"`
	ScrapTikTimeout      time.Duration `yaml:"scraptik_timeout" envconfig:"SCRAPTIK_TIMEOUT" default:"30s"`

	YtdlpPath    string        `yaml:"ytdlp_path" envconfig:"YTDLP_PATH" default:"yt-dlp"`
	YtdlpTimeout time.Duration `yaml:"ytdlp_timeout" envconfig:"YTDLP_TIMEOUT" default:"60s"`

	OembedTimeout time.Duration `yaml:"oembed_timeout" envconfig:"OEMBED_TIMEOUT" default:"30s"`

	ProxyURL  string `yaml:"proxy_url" envconfig:"PROXY_URL"`
	UserAgent string `yaml:"user_agent" envconfig:"SCRAPE_USER_AGENT" default:"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"`
}

// Load reads configuration from file and environment variables.
// Environment variables override file values.
func Load(configPath string) (*Config, error) {
	cfg := &Config{}

	// Load from YAML file if provided
	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	// Override with environment variables
	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("process environment: %w", err)
	}

	// Validate
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

// Validate checks that required configuration values are set.
func (c *Config) Validate() error {
	if c.Gemini.APIKey == "" {
		return fmt.Errorf("GOOGLE_AI_API_KEY is required")
	}
	if c.Database.Path == "" {
		return fmt.Errorf("DATABASE_PATH is required")
	}
	if c.Scrape.ScrapTikMonthlyLimit <= 0 {
		return fmt.Errorf("SCRAPTIK_MONTHLY_LIMIT must be positive")
	}
	return nil
}

// Address returns the server address in host:port format.
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
