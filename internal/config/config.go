// ABOUTME: Centralized configuration for the Nova assistant
// ABOUTME: Loads from environment variables with validation and defaults
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Engine selections for NOVA_ENGINE
const (
	EngineAuto     = "auto"
	EngineOpenAI   = "openai"
	EngineGemini   = "gemini"
	EngineFallback = "fallback"
)

// Config holds all configuration for the assistant
type Config struct {
	// Storage settings
	DBPath string

	// Inference settings
	Engine      string
	OpenAIKey   string
	OpenAIModel string
	GeminiKey   string
	GeminiModel string
	Timeout     time.Duration
	MaxRetries  int
	RetryDelay  time.Duration

	// Conversation settings
	Locale         string
	Offline        bool
	HeadlineRegion string
	WebTimeout     time.Duration
	ActivityMaxAge time.Duration

	// SMS webhook
	SMSAddr string

	// Charm settings
	CharmHost   string
	CharmDBName string
	CharmMirror bool
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	geminiKey := os.Getenv("GEMINI_API_KEY")
	if geminiKey == "" {
		geminiKey = os.Getenv("GOOGLE_API_KEY")
	}

	cfg := &Config{
		DBPath:         os.Getenv("NOVA_DB_PATH"),
		Engine:         strings.ToLower(getEnv("NOVA_ENGINE", EngineAuto)),
		OpenAIKey:      os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:    getEnv("NOVA_OPENAI_MODEL", "gpt-4o-mini"),
		GeminiKey:      geminiKey,
		GeminiModel:    getEnv("NOVA_GEMINI_MODEL", "gemini-2.0-flash"),
		Timeout:        getEnvDuration("NOVA_LLM_TIMEOUT", 20*time.Second),
		MaxRetries:     getEnvInt("NOVA_LLM_MAX_RETRIES", 0),
		RetryDelay:     getEnvDuration("NOVA_LLM_RETRY_DELAY", time.Second),
		Locale:         getEnv("NOVA_LOCALE", "en"),
		Offline:        getEnvBool("NOVA_OFFLINE", false),
		HeadlineRegion: getEnv("NOVA_HEADLINE_REGION", "US:en"),
		WebTimeout:     getEnvDuration("NOVA_WEB_TIMEOUT", 8*time.Second),
		ActivityMaxAge: getEnvDuration("NOVA_ACTIVITY_MAX_AGE", 7*24*time.Hour),
		SMSAddr:        getEnv("NOVA_SMS_ADDR", ":8081"),
		CharmHost:      getEnv("CHARM_HOST", "cloud.charm.sh"),
		CharmDBName:    getEnv("CHARM_DB", "nova"),
		CharmMirror:    getEnvBool("NOVA_CHARM_MIRROR", false),
	}

	return cfg, cfg.Validate()
}

// Validate checks engine selection and numeric ranges
func (c *Config) Validate() error {
	switch c.Engine {
	case EngineAuto, EngineOpenAI, EngineGemini, EngineFallback:
	default:
		return fmt.Errorf("NOVA_ENGINE must be one of auto, openai, gemini, fallback; got %q", c.Engine)
	}
	if c.Engine == EngineOpenAI && c.OpenAIKey == "" {
		return fmt.Errorf("NOVA_ENGINE=openai requires OPENAI_API_KEY")
	}
	if c.Engine == EngineGemini && c.GeminiKey == "" {
		return fmt.Errorf("NOVA_ENGINE=gemini requires GEMINI_API_KEY or GOOGLE_API_KEY")
	}
	if c.MaxRetries < 0 || c.MaxRetries > 10 {
		return fmt.Errorf("NOVA_LLM_MAX_RETRIES must be 0-10, got %d", c.MaxRetries)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("NOVA_LLM_TIMEOUT must be positive, got %v", c.Timeout)
	}
	if c.Locale == "" {
		return fmt.Errorf("NOVA_LOCALE cannot be empty")
	}
	return nil
}

// Helper functions
func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	return v == "true" || v == "1"
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}
