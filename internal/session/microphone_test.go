package session

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/nguyentantai21042004/meeting-minutes/internal/audio"
	"github.com/nguyentantai21042004/meeting-minutes/internal/logger"
)

type errCapturer struct{ err error }

func (e errCapturer) Capture(context.Context, int) ([]byte, error) { return nil, e.err }

func TestMicrophoneSourceNext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	path := filepath.Join(t.TempDir(), "audio_temp.wav")
	mic := NewMicrophoneSource(&silentCapturer{cycles: 2, cancel: cancel}, audio.NewEncoder(), testFormat, 2, path, logger.Nop())
	stamp := time.Date(2024, 5, 1, 10, 0, 0, 0, time.Local)
	mic.now = func() time.Time { return stamp }

	clip, err := mic.Next(ctx)
	if err != nil {
		t.Fatalf("Next() error = %v", err)
	}
	if clip.Path != path || !clip.StartedAt.Equal(stamp) {
		t.Errorf("clip = %+v", clip)
	}

	info, err := audio.Inspect(path)
	if err != nil {
		t.Fatalf("Inspect() error = %v", err)
	}
	if info.SampleRate != testFormat.SampleRate || info.Channels != 1 {
		t.Errorf("wav info = %+v", info)
	}

	if err := mic.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("temp file still present: %v", err)
	}
	if err := mic.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
}

func TestMicrophoneSourceCaptureError(t *testing.T) {
	deviceErr := errors.New("no input device")
	mic := NewMicrophoneSource(errCapturer{err: deviceErr}, audio.NewEncoder(), testFormat, 1, filepath.Join(t.TempDir(), "a.wav"), logger.Nop())

	if _, err := mic.Next(context.Background()); !errors.Is(err, deviceErr) {
		t.Errorf("Next() error = %v, want %v", err, deviceErr)
	}
}
