package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env.local")

	content := `# comment line
FOO_TEST_KEY=hello
BAR_TEST_KEY="quoted value"
BAZ_TEST_KEY='single quoted'

EMPTY_LINE_ABOVE=works
NO_VALUE_LINE
`
	if err := os.WriteFile(envFile, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	for _, k := range []string{"FOO_TEST_KEY", "BAR_TEST_KEY", "BAZ_TEST_KEY", "EMPTY_LINE_ABOVE"} {
		os.Unsetenv(k)
	}

	loadEnvFile(envFile)
	t.Cleanup(func() {
		for _, k := range []string{"FOO_TEST_KEY", "BAR_TEST_KEY", "BAZ_TEST_KEY", "EMPTY_LINE_ABOVE"} {
			os.Unsetenv(k)
		}
	})

	tests := []struct {
		key  string
		want string
	}{
		{"FOO_TEST_KEY", "hello"},
		{"BAR_TEST_KEY", "quoted value"},
		{"BAZ_TEST_KEY", "single quoted"},
		{"EMPTY_LINE_ABOVE", "works"},
	}
	for _, tt := range tests {
		if got := os.Getenv(tt.key); got != tt.want {
			t.Errorf("os.Getenv(%q) = %q, want %q", tt.key, got, tt.want)
		}
	}
}

func TestLoadEnvFile_RealEnvTakesPrecedence(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env.local")

	if err := os.WriteFile(envFile, []byte("PRECEDENCE_TEST=from-file\n"), 0644); err != nil {
		t.Fatal(err)
	}

	os.Setenv("PRECEDENCE_TEST", "from-env")
	t.Cleanup(func() { os.Unsetenv("PRECEDENCE_TEST") })

	loadEnvFile(envFile)

	if got := os.Getenv("PRECEDENCE_TEST"); got != "from-env" {
		t.Errorf("env var = %q, want %q (real env should take precedence)", got, "from-env")
	}
}

func TestLoadEnvFile_MissingFile(t *testing.T) {
	loadEnvFile("/nonexistent/path/.env.local")
}

func TestLoad_Defaults(t *testing.T) {
	envKeys := []string{
		"LOG_LEVEL", "PORT", "DB_PATH", "LLM_PROVIDER",
		"GEMINI_API_KEY", "GEMINI_MODEL", "GEMINI_SUGGEST_MODEL",
		"OPENAI_API_KEY", "OPENAI_BASE_URL", "OPENAI_MODEL",
		"HTTP_TIMEOUT", "REFERENCE_MAX_CHARS", "CORS_ORIGIN",
	}
	saved := make(map[string]string)
	for _, k := range envKeys {
		saved[k] = os.Getenv(k)
		os.Unsetenv(k)
	}
	t.Cleanup(func() {
		for _, k := range envKeys {
			if v := saved[k]; v != "" {
				os.Setenv(k, v)
			} else {
				os.Unsetenv(k)
			}
		}
	})

	cfg := Load()

	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want %q", cfg.Port, "8080")
	}
	if cfg.DBPath != "uidraft.db" {
		t.Errorf("DBPath = %q, want %q", cfg.DBPath, "uidraft.db")
	}
	if cfg.LLMProvider != "gemini" {
		t.Errorf("LLMProvider = %q, want %q", cfg.LLMProvider, "gemini")
	}
	if cfg.GeminiModel != "gemini-3-pro-preview" {
		t.Errorf("GeminiModel = %q, want default", cfg.GeminiModel)
	}
	if cfg.GeminiSuggestModel != "gemini-3-flash-preview" {
		t.Errorf("GeminiSuggestModel = %q, want default", cfg.GeminiSuggestModel)
	}
	if cfg.OpenAIBaseURL != "https://api.openai.com/v1" {
		t.Errorf("OpenAIBaseURL = %q, want default", cfg.OpenAIBaseURL)
	}
	if cfg.HTTPTimeout != 120*time.Second {
		t.Errorf("HTTPTimeout = %v, want 120s", cfg.HTTPTimeout)
	}
	if cfg.ReferenceMaxChars != 8000 {
		t.Errorf("ReferenceMaxChars = %d, want 8000", cfg.ReferenceMaxChars)
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	os.Setenv("GEMINI_API_KEY", "key-test")
	os.Setenv("GEMINI_MODEL", "gemini-custom")
	os.Setenv("PORT", "9090")
	t.Cleanup(func() {
		os.Unsetenv("GEMINI_API_KEY")
		os.Unsetenv("GEMINI_MODEL")
		os.Unsetenv("PORT")
	})

	cfg := Load()

	if cfg.GeminiKey != "key-test" {
		t.Errorf("GeminiKey = %q, want %q", cfg.GeminiKey, "key-test")
	}
	if cfg.GeminiModel != "gemini-custom" {
		t.Errorf("GeminiModel = %q, want %q", cfg.GeminiModel, "gemini-custom")
	}
	if cfg.Port != "9090" {
		t.Errorf("Port = %q, want %q", cfg.Port, "9090")
	}
}

func TestUseStubs(t *testing.T) {
	tests := []struct {
		name     string
		cfg      Config
		wantStub bool
	}{
		{"gemini without key", Config{LLMProvider: "gemini"}, true},
		{"gemini with key", Config{LLMProvider: "gemini", GeminiKey: "key"}, false},
		{"openai without key", Config{LLMProvider: "openai"}, true},
		{"openai with key", Config{LLMProvider: "openai", OpenAIKey: "sk-x"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cfg.UseStubs(); got != tt.wantStub {
				t.Errorf("UseStubs() = %v, want %v", got, tt.wantStub)
			}
		})
	}
}

func TestEnvDuration_Invalid(t *testing.T) {
	os.Setenv("TEST_DUR_INVALID", "not-a-duration")
	t.Cleanup(func() { os.Unsetenv("TEST_DUR_INVALID") })

	got := envDuration("TEST_DUR_INVALID", 5*time.Second)
	if got != 5*time.Second {
		t.Errorf("envDuration with invalid value = %v, want fallback 5s", got)
	}
}

func TestEnvInt_Invalid(t *testing.T) {
	os.Setenv("TEST_INT_INVALID", "abc")
	t.Cleanup(func() { os.Unsetenv("TEST_INT_INVALID") })

	got := envInt("TEST_INT_INVALID", 42)
	if got != 42 {
		t.Errorf("envInt with invalid value = %d, want fallback 42", got)
	}
}
