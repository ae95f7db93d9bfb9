package app

import (
	"log"

	"siemtrainer/internal/config"
	"siemtrainer/internal/ledger"
	"siemtrainer/internal/processor"
	"siemtrainer/pkg/llm"
	"siemtrainer/pkg/seeds"
)

// App holds all application dependencies
type App struct {
	Config      *config.Config
	LLMProvider llm.Provider
	Ledger      *ledger.Ledger
	Generator   *processor.Generator
	Evaluator   *processor.Evaluator
}

// New initializes a new application with all dependencies
func New() (*App, error) {
	// Load configuration
	cfg := config.LoadConfig()

	// Initialize LLM provider based on configuration
	factory := llm.NewFactory(llm.Config{
		Provider:        cfg.LLMProvider,
		OpenAIAPIKey:    cfg.OpenAIAPIKey,
		OpenAIModel:     cfg.OpenAIModel,
		AnthropicAPIKey: cfg.AnthropicAPIKey,
		AnthropicModel:  cfg.AnthropicModel,
		GeminiAPIKey:    cfg.GeminiAPIKey,
		GeminiModel:     cfg.GeminiModel,
		OllamaURL:       cfg.OllamaURL,
		OllamaModel:     cfg.OllamaModel,
		BedrockRegion:   cfg.BedrockRegion,
		BedrockModel:    cfg.BedrockModel,
	})
	llmProvider, err := factory.CreateProvider()
	if err != nil {
		return nil, err
	}
	log.Printf("Using LLM provider: %s", llmProvider.Name())

	// Initialize seed providers
	behaviorSources, err := cfg.LoadBehaviorSources()
	if err != nil {
		return nil, err
	}
	if behaviorSources != nil {
		log.Printf("Loaded %d behavior catalog sources from %s", len(behaviorSources), cfg.BehaviorSourcesFile)
	}

	kevClient := seeds.NewKEVClient(cfg.KEVFeedURL, cfg.SeedTimeout)
	mispClient := seeds.NewMISPClient(behaviorSources, cfg.CatalogTTL, cfg.SeedTimeout)

	// Ground-truth ledger lives for the process lifetime
	led := ledger.New()

	generator := processor.NewGenerator(llmProvider, kevClient, mispClient, led)
	evaluator := processor.NewEvaluator(llmProvider, led)

	return &App{
		Config:      cfg,
		LLMProvider: llmProvider,
		Ledger:      led,
		Generator:   generator,
		Evaluator:   evaluator,
	}, nil
}

// LogStartupInfo logs application startup information
func (a *App) LogStartupInfo() {
	log.Printf("Starting SIEM trainer on port %s", a.Config.Port)
	log.Printf("LLM Provider: %s", a.LLMProvider.Name())

	if a.Config.APIAuthToken != "" {
		log.Printf("API authentication: enabled (Bearer token required)")
	} else {
		log.Printf("API authentication: disabled (WARNING: anyone can use the training API)")
	}
}
