package summarizer

import (
	"fmt"

	"github.com/nguyentantai21042004/meeting-minutes/internal/logger"
	"github.com/sashabaranov/go-openai"
)

const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

// Config selects a provider and the prompt sent to it.
type Config struct {
	Provider       string
	Model          string
	Temperature    float32
	MaxTokens      int
	SystemPrompt   string
	PromptTemplate string

	// OpenAI credentials.
	APIKey  string
	BaseURL string

	// Gemini keys are tried in order, rotating on quota errors.
	GeminiKeys    []string
	GeminiBaseURL string
}

type implOpenAI struct {
	client *openai.Client
	cfg    Config
	logger logger.Logger
}

type implGemini struct {
	apiKeys    []string
	currentKey int
	cfg        Config
	logger     logger.Logger
}

// New creates a Summarizer for cfg.Provider.
func New(cfg Config, log logger.Logger) (Summarizer, error) {
	switch cfg.Provider {
	case ProviderOpenAI, "":
		clientCfg := openai.DefaultConfig(cfg.APIKey)
		if cfg.BaseURL != "" {
			clientCfg.BaseURL = cfg.BaseURL
		}
		return &implOpenAI{
			client: openai.NewClientWithConfig(clientCfg),
			cfg:    cfg,
			logger: log,
		}, nil
	case ProviderGemini:
		if len(cfg.GeminiKeys) == 0 {
			return nil, fmt.Errorf("gemini summarizer needs at least one API key")
		}
		return &implGemini{
			apiKeys: cfg.GeminiKeys,
			cfg:     cfg,
			logger:  log,
		}, nil
	default:
		return nil, fmt.Errorf("unknown summary provider %q", cfg.Provider)
	}
}
