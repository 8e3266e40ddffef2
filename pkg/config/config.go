// Package config provides application configuration from the environment.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Provider names a chat model backend.
type Provider string

const (
	ProviderOpenAI Provider = "openai"
	ProviderGemini Provider = "gemini"
)

// Config holds all application configuration.
type Config struct {
	Provider    Provider
	OpenAIKey   string
	OpenAIModel string
	GeminiKey   string
	GeminiModel string

	// DBPath locates the SQLite store. Ignored when DataDir is set.
	DBPath string

	// DataDir, when set, switches persistence to the JSON filesystem store
	// rooted there.
	DataDir string

	// PromptDir, when set, overrides the builtin prompt packs.
	PromptDir string

	// TurnTimeout bounds each model call; a hung call aborts the session
	// instead of hanging it forever.
	TurnTimeout time.Duration

	// Fallback candidate identity, used when the user document carries no
	// name or background.
	CandidateName       string
	CandidateBackground string
}

// Load reads configuration from a .env file (if present) and environment
// variables.
func Load() (*Config, error) {
	// Missing .env is fine; the environment may be set directly.
	_ = godotenv.Load()

	timeout, err := getEnvDuration("CASECOACH_TURN_TIMEOUT", 2*time.Minute)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Provider:            Provider(getEnv("CASECOACH_PROVIDER", string(ProviderOpenAI))),
		OpenAIKey:           getEnv("OPENAI_API_KEY", ""),
		OpenAIModel:         getEnv("CASECOACH_OPENAI_MODEL", "o3-mini"),
		GeminiKey:           getEnv("GEMINI_API_KEY", ""),
		GeminiModel:         getEnv("CASECOACH_GEMINI_MODEL", "gemini-2.5-flash"),
		DBPath:              getEnv("CASECOACH_DB_PATH", "./data/casecoach.db"),
		DataDir:             getEnv("CASECOACH_DATA_DIR", ""),
		PromptDir:           getEnv("CASECOACH_PROMPT_DIR", ""),
		TurnTimeout:         timeout,
		CandidateName:       getEnv("CASECOACH_CANDIDATE_NAME", "Yvo"),
		CandidateBackground: getEnv("CASECOACH_CANDIDATE_BACKGROUND", "Business Analytics with 3 years experience in data-driven strategy"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks provider selection and required credentials.
func (c *Config) Validate() error {
	switch c.Provider {
	case ProviderOpenAI:
		if c.OpenAIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required for the openai provider")
		}
	case ProviderGemini:
		if c.GeminiKey == "" {
			return fmt.Errorf("GEMINI_API_KEY is required for the gemini provider")
		}
	default:
		return fmt.Errorf("unknown provider %q (expected openai or gemini)", c.Provider)
	}

	if c.DataDir == "" && c.DBPath == "" {
		return fmt.Errorf("either CASECOACH_DB_PATH or CASECOACH_DATA_DIR must be set")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return d, nil
}
