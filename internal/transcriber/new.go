package transcriber

import (
	"github.com/nguyentantai21042004/meeting-minutes/internal/logger"
	"github.com/sashabaranov/go-openai"
)

// Config selects the remote model and decoding parameters.
type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	Language    string
	Temperature float32
}

type implTranscriber struct {
	client *openai.Client
	cfg    Config
	logger logger.Logger
}

// New creates a Transcriber backed by the OpenAI audio transcription endpoint.
func New(cfg Config, log logger.Logger) Transcriber {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	if cfg.Model == "" {
		cfg.Model = openai.Whisper1
	}

	return &implTranscriber{
		client: openai.NewClientWithConfig(clientCfg),
		cfg:    cfg,
		logger: log,
	}
}
