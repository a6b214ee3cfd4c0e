package session

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/nguyentantai21042004/meeting-minutes/internal/audio"
	"github.com/nguyentantai21042004/meeting-minutes/internal/logger"
)

// MicrophoneSource records fixed-length segments from the input device and
// encodes each one into the same temporary file.
type MicrophoneSource struct {
	capturer audio.Capturer
	encoder  audio.Encoder
	format   audio.Format
	seconds  int
	path     string
	now      func() time.Time
	logger   logger.Logger
}

// NewMicrophoneSource creates a Source that captures seconds of audio per cycle into path.
func NewMicrophoneSource(capturer audio.Capturer, encoder audio.Encoder, format audio.Format, seconds int, path string, log logger.Logger) *MicrophoneSource {
	return &MicrophoneSource{
		capturer: capturer,
		encoder:  encoder,
		format:   format,
		seconds:  seconds,
		path:     path,
		now:      time.Now,
		logger:   log,
	}
}

// Next blocks for one segment. The clip timestamp is taken before capture starts.
func (m *MicrophoneSource) Next(ctx context.Context) (Clip, error) {
	startedAt := m.now()

	pcm, err := m.capturer.Capture(ctx, m.seconds)
	if err != nil {
		return Clip{}, fmt.Errorf("capture audio: %w", err)
	}
	if err := m.encoder.Encode(pcm, m.format, m.path); err != nil {
		return Clip{}, fmt.Errorf("encode audio: %w", err)
	}
	m.logger.Debug(ctx, "Encoded %d bytes of PCM into %s", len(pcm), m.path)

	return Clip{Path: m.path, StartedAt: startedAt}, nil
}

// Close removes the temporary audio file.
func (m *MicrophoneSource) Close() error {
	if err := os.Remove(m.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove temp audio: %w", err)
	}
	return nil
}
