package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/sagarbagwe/darwinbox-ai-agent/internal/credentials"
)

type Config struct {
	AnthropicAPIKey string `envconfig:"ANTHROPIC_API_KEY"`

	DarwinboxURL      string `envconfig:"DARWINBOX_URL"`
	DarwinboxUsername string `envconfig:"DARWINBOX_USERNAME"`
	DarwinboxPassword string `envconfig:"DARWINBOX_PASSWORD"`

	LeaveAPIKey        string `envconfig:"DARWINBOX_LEAVE_API_KEY"`
	EmployeeAPIKey     string `envconfig:"DARWINBOX_EMPLOYEE_API_KEY"`
	EmployeeDatasetKey string `envconfig:"DARWINBOX_EMPLOYEE_DATASET_KEY"`
	AttendanceAPIKey   string `envconfig:"DARWINBOX_ATTENDANCE_API_KEY"`

	LogLevel       string `envconfig:"LOG_LEVEL" default:"info"`
	ServerPort     int    `envconfig:"SERVER_PORT" default:"8080"`
	APIKeyRequired bool   `envconfig:"API_KEY_REQUIRED" default:"false"`
	APIKeys        string `envconfig:"API_KEYS"`

	MaxToolTurns   int           `envconfig:"MAX_TOOL_TURNS" default:"5"`
	RosterCacheTTL time.Duration `envconfig:"ROSTER_CACHE_TTL" default:"10m"`

	OllamaURL   string `envconfig:"OLLAMA_URL" default:"http://localhost:11434"`
	OllamaModel string `envconfig:"OLLAMA_MODEL" default:"qwen2.5:7b"`
	PreferLocal bool   `envconfig:"PREFER_LOCAL" default:"false"`
	LLMProvider string `envconfig:"LLM_PROVIDER" default:"auto"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Environment variables win; the OS keychain fills gaps.
	cfg.AnthropicAPIKey = credentials.GetOrEnv(credentials.KeyAnthropic, cfg.AnthropicAPIKey)
	cfg.DarwinboxPassword = credentials.GetOrEnv(credentials.KeyDarwinboxPassword, cfg.DarwinboxPassword)
	cfg.LeaveAPIKey = credentials.GetOrEnv(credentials.KeyLeaveAPI, cfg.LeaveAPIKey)
	cfg.EmployeeAPIKey = credentials.GetOrEnv(credentials.KeyEmployeeAPI, cfg.EmployeeAPIKey)
	cfg.AttendanceAPIKey = credentials.GetOrEnv(credentials.KeyAttendanceAPI, cfg.AttendanceAPIKey)

	cfg.DarwinboxURL = strings.TrimRight(cfg.DarwinboxURL, "/")

	if cfg.MaxToolTurns <= 0 {
		cfg.MaxToolTurns = 5
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.DarwinboxURL == "" {
		return fmt.Errorf("DARWINBOX_URL is required")
	}
	if c.DarwinboxUsername == "" || c.DarwinboxPassword == "" {
		return fmt.Errorf("Darwinbox authentication required: set DARWINBOX_USERNAME and DARWINBOX_PASSWORD")
	}
	if c.EmployeeAPIKey == "" || c.EmployeeDatasetKey == "" {
		return fmt.Errorf("employee master API access required: set DARWINBOX_EMPLOYEE_API_KEY and DARWINBOX_EMPLOYEE_DATASET_KEY")
	}
	return nil
}

func (c *Config) RequireAnthropic() error {
	if c.AnthropicAPIKey == "" {
		return fmt.Errorf("ANTHROPIC_API_KEY is required for AI features")
	}
	return nil
}

func (c *Config) GetAPIKeys() map[string]bool {
	keys := make(map[string]bool)
	if c.APIKeys == "" {
		return keys
	}
	for _, key := range strings.Split(c.APIKeys, ",") {
		key = strings.TrimSpace(key)
		if key != "" {
			keys[key] = true
		}
	}
	return keys
}

func (c *Config) ValidateAPIKey(key string) bool {
	if !c.APIKeyRequired {
		return true
	}
	keys := c.GetAPIKeys()
	if len(keys) == 0 {
		return true
	}
	return keys[key]
}
