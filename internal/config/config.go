package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

var (
	ErrEmptyEnvironmentVariable = errors.New("empty environment variable")
	ErrUnknownAIProvider        = errors.New("unknown AI provider")
)

const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

// Config holds all application configuration
type Config struct {
	Server ServerConfig
	AI     AIConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port       int
	WebAppURI  string
	Production bool
}

// AIConfig selects the response generator and holds its credentials
type AIConfig struct {
	Provider string
	Gemini   GeminiConfig
	OpenAI   OpenAIConfig
}

type GeminiConfig struct {
	APIKey string
	Model  string
}

type OpenAIConfig struct {
	APIKey string
	Model  string
}

// Load reads and validates the environment
func Load() (*Config, error) {
	// env.local is optional outside production
	if os.Getenv("GO_ENV") != "production" {
		if err := godotenv.Load("env.local"); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load env.local: %w", err)
		}
	}
	return fromEnv()
}

func fromEnv() (*Config, error) {
	cfg := &Config{}
	var err error

	cfg.Server.Production = os.Getenv("GO_ENV") == "production"
	cfg.Server.WebAppURI = getEnvWithDefault("WEBAPP_URI", "http://localhost:5173")
	cfg.Server.Port, err = strconv.Atoi(getEnvWithDefault("SERVER_PORT", "5000"))
	if err != nil {
		return nil, fmt.Errorf("failed to parse SERVER_PORT: %w", err)
	}

	cfg.AI.Provider = strings.ToLower(getEnvWithDefault("AI_PROVIDER", ProviderGemini))
	cfg.AI.Gemini.Model = getEnvWithDefault("GEMINI_MODEL", "gemini-2.5-flash")
	cfg.AI.OpenAI.Model = getEnvWithDefault("OPENAI_MODEL", "gpt-5")

	switch cfg.AI.Provider {
	case ProviderGemini:
		if cfg.AI.Gemini.APIKey, err = requireEnv("GEMINI_API_KEY", "GOOGLE_AI_API_KEY"); err != nil {
			return nil, err
		}
		cfg.AI.OpenAI.APIKey = os.Getenv("OPENAI_API_KEY")
	case ProviderOpenAI:
		if cfg.AI.OpenAI.APIKey, err = requireEnv("OPENAI_API_KEY"); err != nil {
			return nil, err
		}
		cfg.AI.Gemini.APIKey = getEnvWithDefault("GEMINI_API_KEY", os.Getenv("GOOGLE_AI_API_KEY"))
	default:
		return nil, fmt.Errorf("AI_PROVIDER=%q: %w", cfg.AI.Provider, ErrUnknownAIProvider)
	}

	return cfg, nil
}

// requireEnv returns the first non-empty value among keys, or an error naming the first key
func requireEnv(keys ...string) (string, error) {
	for _, key := range keys {
		if value := os.Getenv(key); value != "" {
			return value, nil
		}
	}
	return "", fmt.Errorf("%s is not set: %w", keys[0], ErrEmptyEnvironmentVariable)
}

// getEnvWithDefault retrieves an environment variable or returns a default value
func getEnvWithDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
