// ABOUTME: Tests for centralized configuration system
// ABOUTME: Verifies environment variable parsing and validation
package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	// Clear environment to test defaults
	os.Clearenv()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Engine != EngineAuto {
		t.Errorf("Engine = %s, want auto", cfg.Engine)
	}
	if cfg.OpenAIModel != "gpt-4o-mini" {
		t.Errorf("OpenAIModel = %s, want gpt-4o-mini", cfg.OpenAIModel)
	}
	if cfg.GeminiModel != "gemini-2.0-flash" {
		t.Errorf("GeminiModel = %s, want gemini-2.0-flash", cfg.GeminiModel)
	}
	if cfg.Timeout != 20*time.Second {
		t.Errorf("Timeout = %v, want 20s", cfg.Timeout)
	}
	if cfg.MaxRetries != 0 {
		t.Errorf("MaxRetries = %d, want 0", cfg.MaxRetries)
	}
	if cfg.Locale != "en" {
		t.Errorf("Locale = %s, want en", cfg.Locale)
	}
	if cfg.Offline {
		t.Error("Offline = true, want false")
	}
	if cfg.HeadlineRegion != "US:en" {
		t.Errorf("HeadlineRegion = %s, want US:en", cfg.HeadlineRegion)
	}
	if cfg.ActivityMaxAge != 7*24*time.Hour {
		t.Errorf("ActivityMaxAge = %v, want 168h", cfg.ActivityMaxAge)
	}
	if cfg.SMSAddr != ":8081" {
		t.Errorf("SMSAddr = %s, want :8081", cfg.SMSAddr)
	}
	if cfg.CharmHost != "cloud.charm.sh" {
		t.Errorf("CharmHost = %s, want cloud.charm.sh", cfg.CharmHost)
	}
	if cfg.CharmDBName != "nova" {
		t.Errorf("CharmDBName = %s, want nova", cfg.CharmDBName)
	}
}

func TestLoad_CustomValues(t *testing.T) {
	os.Clearenv()
	os.Setenv("NOVA_DB_PATH", "/tmp/nova-test.db")
	os.Setenv("NOVA_ENGINE", "OpenAI")
	os.Setenv("OPENAI_API_KEY", "test-key")
	os.Setenv("NOVA_OPENAI_MODEL", "gpt-4o")
	os.Setenv("NOVA_LLM_TIMEOUT", "5s")
	os.Setenv("NOVA_LLM_MAX_RETRIES", "2")
	os.Setenv("NOVA_OFFLINE", "1")
	os.Setenv("NOVA_HEADLINE_REGION", "IN:en")
	os.Setenv("NOVA_LOCALE", "hi")
	os.Setenv("CHARM_DB", "test_db")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.DBPath != "/tmp/nova-test.db" {
		t.Errorf("DBPath = %s, want /tmp/nova-test.db", cfg.DBPath)
	}
	if cfg.Engine != EngineOpenAI {
		t.Errorf("Engine = %s, want openai", cfg.Engine)
	}
	if cfg.OpenAIModel != "gpt-4o" {
		t.Errorf("OpenAIModel = %s, want gpt-4o", cfg.OpenAIModel)
	}
	if cfg.Timeout != 5*time.Second {
		t.Errorf("Timeout = %v, want 5s", cfg.Timeout)
	}
	if cfg.MaxRetries != 2 {
		t.Errorf("MaxRetries = %d, want 2", cfg.MaxRetries)
	}
	if !cfg.Offline {
		t.Error("Offline = false, want true")
	}
	if cfg.HeadlineRegion != "IN:en" {
		t.Errorf("HeadlineRegion = %s, want IN:en", cfg.HeadlineRegion)
	}
	if cfg.Locale != "hi" {
		t.Errorf("Locale = %s, want hi", cfg.Locale)
	}
	if cfg.CharmDBName != "test_db" {
		t.Errorf("CharmDBName = %s, want test_db", cfg.CharmDBName)
	}
}

func TestLoad_GoogleKeyFallback(t *testing.T) {
	os.Clearenv()
	os.Setenv("GOOGLE_API_KEY", "g-key")
	os.Setenv("NOVA_ENGINE", "gemini")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.GeminiKey != "g-key" {
		t.Errorf("GeminiKey = %s, want g-key", cfg.GeminiKey)
	}
}

func validConfig() *Config {
	return &Config{
		Engine:  EngineAuto,
		Timeout: time.Second,
		Locale:  "en",
	}
}

func TestValidate_Engine(t *testing.T) {
	cfg := validConfig()
	cfg.Engine = "llama"
	if err := cfg.Validate(); err == nil {
		t.Error("Validate() should fail for unknown engine")
	}

	cfg.Engine = EngineOpenAI
	if err := cfg.Validate(); err == nil {
		t.Error("Validate() should fail for openai without key")
	}

	cfg.OpenAIKey = "k"
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestValidate_Timeout(t *testing.T) {
	cfg := validConfig()
	cfg.Timeout = 0
	if err := cfg.Validate(); err == nil {
		t.Error("Validate() should fail for a zero timeout")
	}
}

func TestValidate_InvalidMaxRetries(t *testing.T) {
	cfg := validConfig()
	cfg.MaxRetries = 15
	if err := cfg.Validate(); err == nil {
		t.Error("Validate() should fail for MaxRetries > 10")
	}

	cfg.MaxRetries = -1
	if err := cfg.Validate(); err == nil {
		t.Error("Validate() should fail for MaxRetries < 0")
	}
}

func TestGetEnvBool(t *testing.T) {
	tests := []struct {
		name       string
		value      string
		defaultVal bool
		want       bool
	}{
		{"empty uses default true", "", true, true},
		{"empty uses default false", "", false, false},
		{"true", "true", false, true},
		{"1", "1", false, true},
		{"false", "false", true, false},
		{"0", "0", true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Clearenv()
			if tt.value != "" {
				os.Setenv("TEST_BOOL", tt.value)
			}
			got := getEnvBool("TEST_BOOL", tt.defaultVal)
			if got != tt.want {
				t.Errorf("getEnvBool() = %v, want %v", got, tt.want)
			}
		})
	}
}
