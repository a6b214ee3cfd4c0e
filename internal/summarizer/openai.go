package summarizer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/nguyentantai21042004/meeting-minutes/internal/transcript"
	"github.com/sashabaranov/go-openai"
)

// Summarize sends one chat completion with the system role and the filled prompt.
func (s *implOpenAI) Summarize(ctx context.Context, session *transcript.Session) (string, error) {
	prompt := buildPrompt(s.cfg.PromptTemplate, session)
	s.logger.Debug(ctx, "Requesting summary from %s (%d segments, %d prompt bytes)", s.cfg.Model, len(session.Segments), len(prompt))

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.cfg.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: s.cfg.SystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: s.cfg.Temperature,
		MaxTokens:   s.cfg.MaxTokens,
	})
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			return "", fmt.Errorf("chat completion (status %d): %w", apiErr.HTTPStatusCode, err)
		}
		return "", fmt.Errorf("chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty response from %s", s.cfg.Model)
	}
	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", fmt.Errorf("empty response from %s", s.cfg.Model)
	}
	return text, nil
}
