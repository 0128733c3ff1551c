// Package config provides centralized configuration for the uidraft server.
// All configurable values are loaded from environment variables with sensible
// defaults; a .env.local file can supply values for local development.
package config

import (
	"bufio"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all server configuration values.
type Config struct {
	// Port is the HTTP server listen port.
	Port string

	// DBPath is the path to the SQLite database file.
	DBPath string

	// LogLevel is the slog level: "debug", "info", "warn", "error".
	LogLevel string

	// LLMProvider selects which model backend to use: "gemini" or "openai".
	LLMProvider string

	// GeminiKey is the API key for the Google Gemini service.
	GeminiKey string

	// GeminiModel is the model identifier for component generation.
	GeminiModel string

	// GeminiSuggestModel is the model identifier for follow-up suggestions.
	GeminiSuggestModel string

	// OpenAIKey is the API key for the OpenAI service.
	OpenAIKey string

	// OpenAIBaseURL is the endpoint for OpenAI-compatible services.
	OpenAIBaseURL string

	// OpenAIModel is the model identifier for OpenAI completions.
	OpenAIModel string

	// HTTPTimeout is the timeout for outgoing model API requests.
	HTTPTimeout time.Duration

	// ReferenceMaxChars is the maximum number of runes kept from an
	// extracted reference page.
	ReferenceMaxChars int

	// CORSOrigin is the allowed CORS origin. Defaults to "*".
	CORSOrigin string
}

// Load reads configuration from the environment, applying defaults. Values
// from .env.local in the working directory fill in unset variables first.
func Load() Config {
	loadEnvFile(".env.local")

	return Config{
		Port:               envOr("PORT", "8080"),
		DBPath:             envOr("DB_PATH", "uidraft.db"),
		LogLevel:           envOr("LOG_LEVEL", "info"),
		LLMProvider:        envOr("LLM_PROVIDER", "gemini"),
		GeminiKey:          os.Getenv("GEMINI_API_KEY"),
		GeminiModel:        envOr("GEMINI_MODEL", "gemini-3-pro-preview"),
		GeminiSuggestModel: envOr("GEMINI_SUGGEST_MODEL", "gemini-3-flash-preview"),
		OpenAIKey:          os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL:      envOr("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		OpenAIModel:        envOr("OPENAI_MODEL", "gpt-4o-mini"),
		HTTPTimeout:        envDuration("HTTP_TIMEOUT", 120*time.Second),
		ReferenceMaxChars:  envInt("REFERENCE_MAX_CHARS", 8000),
		CORSOrigin:         envOr("CORS_ORIGIN", "*"),
	}
}

// UseStubs returns true when no API key is configured for the selected
// provider, so the server runs with deterministic stub responses.
func (c Config) UseStubs() bool {
	switch c.LLMProvider {
	case "openai":
		return c.OpenAIKey == ""
	default:
		return c.GeminiKey == ""
	}
}

// loadEnvFile loads KEY=VALUE pairs into the environment. Real environment
// variables take precedence; a missing file is not an error.
func loadEnvFile(path string) {
	f, err := os.Open(path)
	if err != nil {
		return
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		k, v, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		k = strings.TrimSpace(k)
		v = strings.TrimSpace(v)
		v = strings.Trim(v, `"'`)
		if os.Getenv(k) == "" {
			os.Setenv(k, v)
		}
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
