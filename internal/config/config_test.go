package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func validConfig() *Config {
	return &Config{
		Database: DatabaseConfig{Path: "tikodea.db"},
		Gemini:   GeminiConfig{APIKey: "test-gemini-key"},
		Scrape:   ScrapeConfig{ScrapTikMonthlyLimit: 50},
	}
}

func TestConfig_Validate_Success(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Errorf("Validate() should pass, got %v", err)
	}
}

func TestConfig_Validate_MissingGeminiKey(t *testing.T) {
	cfg := validConfig()
	cfg.Gemini.APIKey = ""

	if err := cfg.Validate(); err == nil {
		t.Error("Validate() should fail for missing GOOGLE_AI_API_KEY")
	}
}

func TestConfig_Validate_MissingDatabasePath(t *testing.T) {
	cfg := validConfig()
	cfg.Database.Path = ""

	if err := cfg.Validate(); err == nil {
		t.Error("Validate() should fail for missing DATABASE_PATH")
	}
}

func TestConfig_Validate_NonPositiveLimit(t *testing.T) {
	cfg := validConfig()
	cfg.Scrape.ScrapTikMonthlyLimit = 0

	if err := cfg.Validate(); err == nil {
		t.Error("Validate() should fail for a non-positive monthly limit")
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("GOOGLE_AI_API_KEY", "env-key")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 8000 {
		t.Errorf("Port = %d, want 8000", cfg.Server.Port)
	}
	if cfg.Database.Path != "tikodea.db" {
		t.Errorf("Database.Path = %q", cfg.Database.Path)
	}
	if cfg.Redis.QueueKey != "tikodea:queue:videos" {
		t.Errorf("QueueKey = %q", cfg.Redis.QueueKey)
	}
	if cfg.Worker.Count != 2 {
		t.Errorf("Worker.Count = %d, want 2", cfg.Worker.Count)
	}
	if cfg.Scrape.ScrapTikMonthlyLimit != 50 {
		t.Errorf("ScrapTikMonthlyLimit = %d, want 50", cfg.Scrape.ScrapTikMonthlyLimit)
	}
	if cfg.Gemini.Timeout != 60*time.Second {
		t.Errorf("Gemini.Timeout = %v, want 60s", cfg.Gemini.Timeout)
	}
}

func TestLoad_FromFile(t *testing.T) {
	t.Setenv("GOOGLE_AI_API_KEY", "env-key")

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
server:
  port: 9000
database:
  path: /data/custom.db
scrape:
  scraptik_monthly_limit: 25
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Port != 9000 {
		t.Errorf("Port = %d, want 9000", cfg.Server.Port)
	}
	if cfg.Database.Path != "/data/custom.db" {
		t.Errorf("Database.Path = %q", cfg.Database.Path)
	}
	if cfg.Scrape.ScrapTikMonthlyLimit != 25 {
		t.Errorf("ScrapTikMonthlyLimit = %d, want 25", cfg.Scrape.ScrapTikMonthlyLimit)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	t.Setenv("GOOGLE_AI_API_KEY", "env-key")
	t.Setenv("SERVER_PORT", "7777")

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("server:\n  port: 9000\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Port != 7777 {
		t.Errorf("Port = %d, want env override 7777", cfg.Server.Port)
	}
}

func TestLoad_MissingRequired(t *testing.T) {
	t.Setenv("GOOGLE_AI_API_KEY", "")

	if _, err := Load(""); err == nil {
		t.Error("Load() should fail without GOOGLE_AI_API_KEY")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/config.yaml"); err == nil {
		t.Error("Load() should fail for a missing config file")
	}
}

func TestServerConfig_Address(t *testing.T) {
	cfg := ServerConfig{Host: "0.0.0.0", Port: 8000}
	if got := cfg.Address(); got != "0.0.0.0:8000" {
		t.Errorf("Address() = %q", got)
	}
}
