package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ConfigPath is the default config file location.
const ConfigPath = "config.yaml"

// Defaults applied when neither the file nor the environment provides a value.
const (
	defaultPort           = "3000"
	defaultDatabaseURL    = "host=localhost user=postgres password=postgres dbname=careeradvisor port=5432 sslmode=disable"
	defaultOpenAIBaseURL  = "https://api.openai.com/v1"
	defaultOpenAIModel    = "gpt-3.5-turbo"
	defaultMaxTokens      = 2000
	defaultTemperature    = 0.7
	defaultTimeoutSeconds = 60
	defaultTokenTTL       = 24 * time.Hour
	defaultDBRetries      = 30
	defaultDBDelayMs      = 1000
	defaultQueueSize      = 64
	defaultStaticDir      = "web"
)

// FileConfig represents configuration loaded from YAML with environment
// overrides applied on top.
type FileConfig struct {
	Port     string `yaml:"port"`
	LogLevel string `yaml:"logLevel"`

	DatabaseURL      string `yaml:"databaseURL"`
	DBConnectRetries int    `yaml:"dbConnectRetries"`
	DBConnectDelayMs int    `yaml:"dbConnectDelayMs"`

	OpenAIBaseURL            string  `yaml:"openaiBaseURL"`
	OpenAIAPIKey             string  `yaml:"openaiAPIKey"`
	OpenAIModel              string  `yaml:"openaiModel"`
	MaxTokens                int     `yaml:"maxTokens"`
	Temperature              float64 `yaml:"temperature"`
	CompletionTimeoutSeconds int     `yaml:"completionTimeoutSeconds"`

	JWTSecret string `yaml:"jwtSecret"`
	TokenTTL  string `yaml:"tokenTTL"`

	RecorderQueueSize  int    `yaml:"recorderQueueSize"`
	StaticDir          string `yaml:"staticDir"`
	RequireAuthHistory bool   `yaml:"requireAuthHistory"`
}

// Load reads config from path (defaults to config.yaml). A missing file is
// not an error: deployments may configure everything through the
// environment. Missing required values fail with a diagnostic instead of
// silently defaulting.
func Load(path string) (FileConfig, error) {
	cfg := FileConfig{}
	if path == "" {
		path = ConfigPath
	}
	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config: %w", err)
		}
	}
	applyEnv(&cfg)
	applyDefaults(&cfg)
	if err := validateConfig(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func applyEnv(cfg *FileConfig) {
	if v := os.Getenv("PORT"); v != "" {
		cfg.Port = strings.TrimSpace(v)
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = strings.TrimSpace(v)
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.DatabaseURL = v
	}
	if v := os.Getenv("DB_CONNECT_RETRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.DBConnectRetries = n
		}
	}
	if v := os.Getenv("DB_CONNECT_DELAY_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.DBConnectDelayMs = n
		}
	}
	if v := os.Getenv("OPENAI_BASE_URL"); v != "" {
		cfg.OpenAIBaseURL = strings.TrimSpace(v)
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.OpenAIAPIKey = strings.TrimSpace(v)
	}
	if v := os.Getenv("OPENAI_MODEL"); v != "" {
		cfg.OpenAIModel = strings.TrimSpace(v)
	}
	if v := os.Getenv("OPENAI_MAX_TOKENS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.MaxTokens = n
		}
	}
	if v := os.Getenv("OPENAI_TEMPERATURE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Temperature = f
		}
	}
	if v := os.Getenv("COMPLETION_TIMEOUT_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.CompletionTimeoutSeconds = n
		}
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		cfg.JWTSecret = v
	}
	if v := os.Getenv("TOKEN_TTL"); v != "" {
		cfg.TokenTTL = strings.TrimSpace(v)
	}
	if v := os.Getenv("RECORDER_QUEUE_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.RecorderQueueSize = n
		}
	}
	if v := os.Getenv("STATIC_DIR"); v != "" {
		cfg.StaticDir = strings.TrimSpace(v)
	}
	if v := os.Getenv("REQUIRE_AUTH_HISTORY"); v != "" {
		if b, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
			cfg.RequireAuthHistory = b
		}
	}
}

func applyDefaults(cfg *FileConfig) {
	if cfg.Port == "" {
		cfg.Port = defaultPort
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = defaultDatabaseURL
	}
	if cfg.DBConnectRetries <= 0 {
		cfg.DBConnectRetries = defaultDBRetries
	}
	if cfg.DBConnectDelayMs <= 0 {
		cfg.DBConnectDelayMs = defaultDBDelayMs
	}
	if cfg.OpenAIBaseURL == "" {
		cfg.OpenAIBaseURL = defaultOpenAIBaseURL
	}
	if cfg.OpenAIModel == "" {
		cfg.OpenAIModel = defaultOpenAIModel
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = defaultMaxTokens
	}
	if cfg.Temperature <= 0 {
		cfg.Temperature = defaultTemperature
	}
	if cfg.CompletionTimeoutSeconds <= 0 {
		cfg.CompletionTimeoutSeconds = defaultTimeoutSeconds
	}
	if cfg.RecorderQueueSize <= 0 {
		cfg.RecorderQueueSize = defaultQueueSize
	}
	if cfg.StaticDir == "" {
		cfg.StaticDir = defaultStaticDir
	}
}

func validateConfig(cfg FileConfig) error {
	if strings.TrimSpace(cfg.OpenAIAPIKey) == "" {
		return errors.New("config: openaiAPIKey is required (set in config.yaml or OPENAI_API_KEY)")
	}
	if strings.TrimSpace(cfg.JWTSecret) == "" {
		return errors.New("config: jwtSecret is required (set in config.yaml or JWT_SECRET)")
	}
	if cfg.TokenTTL != "" {
		if _, err := time.ParseDuration(cfg.TokenTTL); err != nil {
			return fmt.Errorf("config: invalid tokenTTL duration: %w", err)
		}
	}
	return nil
}

// ParseTokenTTL parses the optional token lifetime, defaulting to 24h.
func ParseTokenTTL(ttlStr string) (time.Duration, error) {
	if ttlStr == "" {
		return defaultTokenTTL, nil
	}
	dur, err := time.ParseDuration(ttlStr)
	if err != nil {
		return 0, fmt.Errorf("invalid tokenTTL duration: %w", err)
	}
	return dur, nil
}
