package inbox

import (
	"context"

	"github.com/nguyentantai21042004/meeting-minutes/internal/session"
)

// Watcher turns audio or video files dropped into a folder into session clips.
type Watcher interface {
	// Next blocks until a new supported file appears and returns it as a clip,
	// extracting the audio track first for video containers.
	Next(ctx context.Context) (session.Clip, error)
	Close() error
}
