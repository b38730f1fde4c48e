// Package config provides configuration management for manascope.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"
)

const (
	// DefaultHTTPPort is the default port for the engine HTTP service.
	DefaultHTTPPort = 38200

	// DefaultRecTTL is how long an unused upstream recommendation entry
	// survives in the cache. Measured from last access, not creation.
	DefaultRecTTL = 30 * time.Minute

	// DefaultRecSweepInterval is how often the cache sweeper runs.
	DefaultRecSweepInterval = 5 * time.Minute

	// DefaultUpstreamBaseURL is the deck statistics source.
	DefaultUpstreamBaseURL = "https://json.edhrec.com/pages"

	// DefaultUpstreamRate is the minimum delay between upstream requests.
	DefaultUpstreamRate = 2 * time.Second
)

// Config holds the application configuration.
type Config struct {
	// HTTP settings
	HTTPPort int `json:"http_port"`

	// Database settings
	DBPath   string `json:"db_path"`
	MaxConns int    `json:"max_conns"`

	// Text-generation provider settings. The first provider with a key
	// available wins; see internal/genai.
	AnthropicAPIKey string `json:"anthropic_api_key"`
	AnthropicModel  string `json:"anthropic_model"`
	OpenAIAPIKey    string `json:"openai_api_key"`
	OpenAIBaseURL   string `json:"openai_base_url"`
	OpenAIModel     string `json:"openai_model"`

	// Upstream recommendation source settings
	UpstreamBaseURL  string        `json:"upstream_base_url"`
	UpstreamRate     time.Duration `json:"upstream_rate"`
	RecTTL           time.Duration `json:"rec_ttl"`
	RecSweepInterval time.Duration `json:"rec_sweep_interval"`
}

var (
	globalConfig *Config
	configOnce   sync.Once
	configMu     sync.RWMutex
)

// DataDir returns the data directory path (~/.manascope).
func DataDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".manascope")
}

// DBPath returns the database file path.
func DBPath() string {
	return filepath.Join(DataDir(), "manascope.db")
}

// SettingsPath returns the settings file path.
func SettingsPath() string {
	return filepath.Join(DataDir(), "settings.json")
}

// EnsureDataDir creates the data directory if it doesn't exist.
func EnsureDataDir() error {
	return os.MkdirAll(DataDir(), 0750)
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		HTTPPort:         DefaultHTTPPort,
		DBPath:           DBPath(),
		MaxConns:         4,
		AnthropicModel:   "claude-3-5-haiku-latest",
		OpenAIModel:      "gpt-4o-mini",
		UpstreamBaseURL:  DefaultUpstreamBaseURL,
		UpstreamRate:     DefaultUpstreamRate,
		RecTTL:           DefaultRecTTL,
		RecSweepInterval: DefaultRecSweepInterval,
	}
}

// Load loads configuration from the settings file, merging with defaults.
// Environment variables override file settings.
func Load() (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(SettingsPath())
	if err != nil && !os.IsNotExist(err) {
		return nil, err
	}
	if len(data) > 0 {
		var settings map[string]interface{}
		if err := json.Unmarshal(data, &settings); err == nil {
			applySettings(cfg, settings)
		}
	}

	applyEnv(cfg)
	return cfg, nil
}

func applySettings(cfg *Config, settings map[string]interface{}) {
	if v, ok := settings["MANASCOPE_HTTP_PORT"].(float64); ok && v > 0 {
		cfg.HTTPPort = int(v)
	}
	if v, ok := settings["MANASCOPE_DB_PATH"].(string); ok && v != "" {
		cfg.DBPath = v
	}
	if v, ok := settings["MANASCOPE_MAX_CONNS"].(float64); ok && v > 0 {
		cfg.MaxConns = int(v)
	}
	if v, ok := settings["MANASCOPE_ANTHROPIC_MODEL"].(string); ok && v != "" {
		cfg.AnthropicModel = v
	}
	if v, ok := settings["MANASCOPE_OPENAI_MODEL"].(string); ok && v != "" {
		cfg.OpenAIModel = v
	}
	if v, ok := settings["MANASCOPE_OPENAI_BASE_URL"].(string); ok && v != "" {
		cfg.OpenAIBaseURL = v
	}
	if v, ok := settings["MANASCOPE_UPSTREAM_BASE_URL"].(string); ok && v != "" {
		cfg.UpstreamBaseURL = v
	}
	if v, ok := settings["MANASCOPE_REC_TTL_MINUTES"].(float64); ok && v > 0 {
		cfg.RecTTL = time.Duration(v) * time.Minute
	}
	if v, ok := settings["MANASCOPE_REC_SWEEP_MINUTES"].(float64); ok && v > 0 {
		cfg.RecSweepInterval = time.Duration(v) * time.Minute
	}
}

func applyEnv(cfg *Config) {
	// API keys come from the environment only, never the settings file.
	cfg.AnthropicAPIKey = os.Getenv("ANTHROPIC_API_KEY")
	cfg.OpenAIAPIKey = os.Getenv("OPENAI_API_KEY")

	if v := os.Getenv("MANASCOPE_HTTP_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil && p > 0 {
			cfg.HTTPPort = p
		}
	}
	if v := os.Getenv("MANASCOPE_DB_PATH"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("MANASCOPE_UPSTREAM_BASE_URL"); v != "" {
		cfg.UpstreamBaseURL = v
	}
	if v := os.Getenv("MANASCOPE_ANTHROPIC_MODEL"); v != "" {
		cfg.AnthropicModel = v
	}
	if v := os.Getenv("MANASCOPE_OPENAI_MODEL"); v != "" {
		cfg.OpenAIModel = v
	}
	if v := os.Getenv("MANASCOPE_OPENAI_BASE_URL"); v != "" {
		cfg.OpenAIBaseURL = v
	}
}

// Get returns the global configuration, loading it if necessary.
func Get() *Config {
	configOnce.Do(func() {
		var err error
		globalConfig, err = Load()
		if err != nil {
			globalConfig = Default()
		}
	})

	configMu.RLock()
	defer configMu.RUnlock()
	return globalConfig
}
