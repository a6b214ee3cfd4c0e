package summarizer

import (
	"context"

	"github.com/nguyentantai21042004/meeting-minutes/internal/transcript"
)

// Summarizer turns a finished meeting transcript into a natural-language summary.
type Summarizer interface {
	Summarize(ctx context.Context, session *transcript.Session) (string, error)
}
