package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration
type Config struct {
	Port         string
	APIAuthToken string

	// LLM provider
	LLMProvider     string // "openai", "anthropic", "gemini", "ollama", "bedrock"
	OpenAIAPIKey    string
	OpenAIModel     string
	AnthropicAPIKey string
	AnthropicModel  string
	GeminiAPIKey    string
	GeminiModel     string
	OllamaURL       string
	OllamaModel     string
	BedrockRegion   string
	BedrockModel    string

	// Seed sources
	KEVFeedURL          string
	SeedTimeout         time.Duration
	CatalogTTL          time.Duration
	BehaviorSourcesFile string // optional YAML override of the MISP catalogs
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Port:         getEnv("PORT", "4000"),
		APIAuthToken: getEnv("API_AUTH_TOKEN", ""),

		LLMProvider:     getEnv("LLM_PROVIDER", "openai"),
		OpenAIAPIKey:    getEnv("OPENAI_API_KEY", ""),
		OpenAIModel:     getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		AnthropicAPIKey: getEnv("ANTHROPIC_API_KEY", ""),
		AnthropicModel:  getEnv("ANTHROPIC_MODEL", "claude-3-5-sonnet-20241022"),
		GeminiAPIKey:    getEnv("GEMINI_API_KEY", ""),
		GeminiModel:     getEnv("GEMINI_MODEL", "gemini-1.5-pro"),
		OllamaURL:       getEnv("OLLAMA_URL", "http://localhost:11434"),
		OllamaModel:     getEnv("OLLAMA_MODEL", "llama3"),
		BedrockRegion:   getEnv("BEDROCK_REGION", "us-east-1"),
		BedrockModel:    getEnv("BEDROCK_MODEL", "anthropic.claude-3-5-sonnet-20241022-v2:0"),

		KEVFeedURL:          getEnv("KEV_FEED_URL", ""),
		SeedTimeout:         time.Duration(getEnvInt("SEED_TIMEOUT_SECONDS", 6)) * time.Second,
		CatalogTTL:          time.Duration(getEnvInt("CATALOG_TTL_HOURS", 12)) * time.Hour,
		BehaviorSourcesFile: getEnv("BEHAVIOR_SOURCES_FILE", ""),
	}
}

// LoadBehaviorSources reads the optional YAML file mapping behavior
// categories to catalog URLs. A missing path means "use the defaults" and
// returns nil without error.
func (c *Config) LoadBehaviorSources() (map[string]string, error) {
	if c.BehaviorSourcesFile == "" {
		return nil, nil
	}

	data, err := os.ReadFile(c.BehaviorSourcesFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read behavior sources file: %w", err)
	}

	sources := make(map[string]string)
	if err := yaml.Unmarshal(data, &sources); err != nil {
		return nil, fmt.Errorf("failed to parse behavior sources file: %w", err)
	}
	if len(sources) < 2 {
		return nil, fmt.Errorf("behavior sources file must list at least two categories, has %d", len(sources))
	}
	return sources, nil
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt gets an int environment variable with a default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}
