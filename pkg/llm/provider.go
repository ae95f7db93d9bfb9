package llm

import "context"

// Provider is the generative-model gateway. Complete sends one system
// instruction plus one user payload and returns the raw completion text,
// which every backend is asked to emit as strict JSON. The gateway never
// parses the content; that is the caller's job.
type Provider interface {
	// Complete performs a single synchronous completion call.
	Complete(ctx context.Context, system, user string) (string, error)

	// Name returns the provider name (for logging)
	Name() string
}

// Config holds common configuration for LLM providers
type Config struct {
	Provider string // "openai", "anthropic", "gemini", "ollama", "bedrock"

	// OpenAI-specific
	OpenAIAPIKey string
	OpenAIModel  string // e.g., "gpt-4o-mini", "gpt-4o"

	// Anthropic-specific
	AnthropicAPIKey string
	AnthropicModel  string // e.g., "claude-3-5-sonnet-20241022"

	// Gemini-specific
	GeminiAPIKey string
	GeminiModel  string // e.g., "gemini-1.5-pro"

	// Ollama-specific
	OllamaURL   string
	OllamaModel string

	// AWS Bedrock-specific
	BedrockRegion string // e.g., "us-east-1"
	BedrockModel  string // e.g., "anthropic.claude-3-5-sonnet-20241022-v2:0"
}
