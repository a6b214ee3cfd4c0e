package inbox

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/nguyentantai21042004/meeting-minutes/internal/session"
)

type fileKind int

const (
	kindUnsupported fileKind = iota
	kindAudio
	kindVideo
)

// audioFormats are accepted by the transcription endpoint as they are.
var audioFormats = map[string]bool{
	".wav": true, ".mp3": true, ".m4a": true, ".mp4": true, ".webm": true,
	".mpga": true, ".mpeg": true, ".flac": true, ".ogg": true,
}

// videoFormats need their audio track extracted first.
var videoFormats = map[string]bool{
	".mov": true, ".mkv": true, ".avi": true, ".flv": true, ".m4v": true,
}

func classify(path string) fileKind {
	if strings.HasPrefix(filepath.Base(path), ".") {
		return kindUnsupported
	}
	ext := strings.ToLower(filepath.Ext(path))
	switch {
	case audioFormats[ext]:
		return kindAudio
	case videoFormats[ext]:
		return kindVideo
	default:
		return kindUnsupported
	}
}

func (w *implWatcher) Next(ctx context.Context) (session.Clip, error) {
	w.removeExtracted(ctx)

	for {
		select {
		case <-ctx.Done():
			return session.Clip{}, ctx.Err()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return session.Clip{}, fmt.Errorf("watcher events channel closed")
			}
			if !event.Has(fsnotify.Create) {
				continue
			}

			kind := classify(event.Name)
			if kind == kindUnsupported {
				w.logger.Debug(ctx, "Ignoring unsupported file: %s", event.Name)
				continue
			}
			if w.seen[event.Name] {
				continue
			}
			w.seen[event.Name] = true

			detectedAt := w.now()
			w.logger.Info(ctx, "New recording detected: %s", event.Name)

			// give the writer time to finish the file
			select {
			case <-time.After(w.cfg.SettleDelay):
			case <-ctx.Done():
				return session.Clip{}, ctx.Err()
			}

			path := event.Name
			if kind == kindVideo {
				extracted, err := w.extractAudio(ctx, event.Name)
				if err != nil {
					if ctx.Err() != nil {
						return session.Clip{}, ctx.Err()
					}
					w.logger.Error(ctx, "Skipping %s: %v", event.Name, err)
					continue
				}
				w.extracted = extracted
				path = extracted
			}

			return session.Clip{Path: path, StartedAt: detectedAt}, nil

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return session.Clip{}, fmt.Errorf("watcher errors channel closed")
			}
			w.logger.Error(ctx, "Watcher error: %v", err)
		}
	}
}

// Close stops watching and removes the last extracted audio file.
func (w *implWatcher) Close() error {
	w.removeExtracted(context.Background())
	return w.watcher.Close()
}

// extractAudio converts the audio track of a video to 16kHz mono PCM WAV.
func (w *implWatcher) extractAudio(ctx context.Context, videoPath string) (string, error) {
	name := strings.TrimSuffix(filepath.Base(videoPath), filepath.Ext(videoPath))
	audioPath := filepath.Join(w.cfg.WorkDir, name+"_temp.wav")

	w.logger.Info(ctx, "Extracting audio: %s", videoPath)
	args := []string{
		"-i", videoPath,
		"-vn",
		"-ar", "16000",
		"-ac", "1",
		"-c:a", "pcm_s16le",
		"-y",
		audioPath,
	}
	if _, err := w.executor.Execute(ctx, "ffmpeg", args...); err != nil {
		return "", fmt.Errorf("ffmpeg extract audio: %w", err)
	}

	w.logger.Debug(ctx, "Audio extracted: %s", audioPath)
	return audioPath, nil
}

func (w *implWatcher) removeExtracted(ctx context.Context) {
	if w.extracted == "" {
		return
	}
	if err := os.Remove(w.extracted); err != nil && !errors.Is(err, fs.ErrNotExist) {
		w.logger.Warn(ctx, "Failed to cleanup temp file %s: %v", w.extracted, err)
	}
	w.extracted = ""
}
