package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env      string
	LogLevel string
	HTTPAddr string

	StorageBackend string
	PostgresDSN    string
	SQLitePath     string
	CheckInsFile   string

	AuthMode       string
	AuthTokens     map[string]string // token -> user id
	AuthServiceURL string

	LLMBaseURL        string
	LLMAPIKey         string
	LLMModel          string
	LLMTemperature    float64
	LLMRequestTimeout time.Duration

	RedisAddr          string
	RateLimitPerMinute int

	CORSOrigin string
}

var (
	cfg  *Config
	once sync.Once
)

// Load reads the process configuration once. It panics on invalid config.
func Load() *Config {
	once.Do(func() {
		_ = godotenv.Load()
		c, err := FromEnv()
		if err != nil {
			panic("Invalid config: " + err.Error())
		}
		cfg = c
	})
	return cfg
}

// FromEnv builds and validates a Config from the current environment.
func FromEnv() (*Config, error) {
	c := &Config{
		Env:      getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		HTTPAddr: getEnv("HTTP_ADDR", ":8088"),

		StorageBackend: getEnv("STORAGE_BACKEND", "file"),
		PostgresDSN:    getEnv("POSTGRES_DSN", ""),
		SQLitePath:     getEnv("SQLITE_PATH", "data/checkins.db"),
		CheckInsFile:   getEnv("CHECKINS_FILE", "data/checkins.json"),

		AuthMode:       getEnv("AUTH_MODE", "local"),
		AuthTokens:     parseTokens(getEnv("AUTH_TOKENS", "")),
		AuthServiceURL: getEnv("AUTH_SERVICE_URL", ""),

		LLMBaseURL:        getEnv("LLM_BASE_URL", "https://openrouter.ai/api/v1"),
		LLMAPIKey:         getEnv("LLM_API_KEY", os.Getenv("OPENROUTER_API_KEY")),
		LLMModel:          getEnv("LLM_MODEL", getEnv("OPENROUTER_MODEL", "openai/gpt-4.1-mini")),
		LLMTemperature:    getFloat("LLM_TEMPERATURE", 0.4),
		LLMRequestTimeout: getDuration("LLM_REQUEST_TIMEOUT", 45*time.Second),

		RedisAddr:          getEnv("REDIS_ADDR", ""),
		RateLimitPerMinute: getInt("RATE_LIMIT_PER_MINUTE", 20),

		CORSOrigin: getEnv("CORS_ORIGIN", "*"),
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) Validate() error {
	switch c.StorageBackend {
	case "file":
		if c.CheckInsFile == "" {
			return errors.New("File storage requires CHECKINS_FILE to be set")
		}
	case "postgres":
		if c.PostgresDSN == "" {
			return errors.New("POSTGRES_DSN is required when STORAGE_BACKEND=postgres")
		}
	case "sqlite":
		if c.SQLitePath == "" {
			return errors.New("SQLITE_PATH is required when STORAGE_BACKEND=sqlite")
		}
	default:
		return errors.New("STORAGE_BACKEND must be one of: file, postgres, sqlite")
	}
	switch c.AuthMode {
	case "local":
	case "remote":
		if c.AuthServiceURL == "" {
			return errors.New("AUTH_SERVICE_URL is required when AUTH_MODE=remote")
		}
	default:
		return errors.New("AUTH_MODE must be one of: local, remote")
	}
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return errors.New("APP_ENV must be one of: development, staging, production")
	}
	if c.LLMTemperature < 0 || c.LLMTemperature > 2 {
		return errors.New("LLM_TEMPERATURE must be between 0 and 2")
	}
	if c.LLMRequestTimeout <= 0 {
		return errors.New("LLM_REQUEST_TIMEOUT must be positive")
	}
	return nil
}

// HasLLM reports whether model-provider credentials are configured.
func (c *Config) HasLLM() bool {
	return c.LLMAPIKey != ""
}

// HasStorage reports whether the selected persistence backend has what it needs.
func (c *Config) HasStorage() bool {
	switch c.StorageBackend {
	case "postgres":
		return c.PostgresDSN != ""
	case "sqlite":
		return c.SQLitePath != ""
	default:
		return c.CheckInsFile != ""
	}
}

func (c *Config) RateLimitEnabled() bool {
	return c.RedisAddr != "" && c.RateLimitPerMinute > 0
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return v
	}
	return fallback
}

func getFloat(key string, fallback float64) float64 {
	if v, err := strconv.ParseFloat(os.Getenv(key), 64); err == nil {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if v, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return v
	}
	return fallback
}

// parseTokens reads "token:userId,token2:userId2".
func parseTokens(s string) map[string]string {
	tokens := make(map[string]string)
	for _, pair := range strings.Split(s, ",") {
		token, userID, ok := strings.Cut(strings.TrimSpace(pair), ":")
		if !ok || token == "" || userID == "" {
			continue
		}
		tokens[token] = userID
	}
	return tokens
}
