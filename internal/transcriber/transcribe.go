package transcriber

import (
	"context"
	"fmt"
	"time"

	"github.com/sashabaranov/go-openai"
)

// Transcribe uploads the file with the configured model, language hint and
// temperature. A zero temperature is left out of the form, which the endpoint
// treats as 0. Any non-2xx response or transport error is returned in Result.Err.
func (t *implTranscriber) Transcribe(ctx context.Context, audioPath string) Result {
	start := time.Now()
	t.logger.Debug(ctx, "Transcribing %s (model=%s, language=%s)", audioPath, t.cfg.Model, t.cfg.Language)

	resp, err := t.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:       t.cfg.Model,
		FilePath:    audioPath,
		Language:    t.cfg.Language,
		Temperature: t.cfg.Temperature,
		Format:      openai.AudioResponseFormatJSON,
	})
	if err != nil {
		return Result{Err: fmt.Errorf("transcribe %s: %w", audioPath, err)}
	}

	t.logger.Debug(ctx, "Transcription completed in %s (%d bytes)", time.Since(start), len(resp.Text))
	return Result{Text: resp.Text}
}
