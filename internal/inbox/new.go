package inbox

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/nguyentantai21042004/meeting-minutes/internal/logger"
	"github.com/nguyentantai21042004/meeting-minutes/pkg/executor"
)

const defaultSettleDelay = 500 * time.Millisecond

// Config locates the inbox and where extracted audio goes. WorkDir must not
// be inside Dir.
type Config struct {
	Dir         string
	WorkDir     string
	SettleDelay time.Duration
}

type implWatcher struct {
	cfg       Config
	executor  executor.Executor
	logger    logger.Logger
	watcher   *fsnotify.Watcher
	seen      map[string]bool
	extracted string
	now       func() time.Time
}

// New starts watching cfg.Dir for new files.
func New(cfg Config, exec executor.Executor, log logger.Logger) (Watcher, error) {
	if cfg.SettleDelay <= 0 {
		cfg.SettleDelay = defaultSettleDelay
	}
	if cfg.WorkDir == "" {
		cfg.WorkDir = os.TempDir()
	}

	info, err := os.Stat(cfg.Dir)
	if err != nil {
		return nil, fmt.Errorf("inbox dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("inbox %s is not a directory", cfg.Dir)
	}
	if err := os.MkdirAll(cfg.WorkDir, 0755); err != nil {
		return nil, fmt.Errorf("create work dir: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := watcher.Add(cfg.Dir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("add watch path: %w", err)
	}

	if _, err := exec.LookPath("ffmpeg"); err != nil {
		log.Warn(context.Background(), "ffmpeg not found, video files in the inbox will be skipped: %v", err)
	}

	return &implWatcher{
		cfg:      cfg,
		executor: exec,
		logger:   log,
		watcher:  watcher,
		seen:     make(map[string]bool),
		now:      time.Now,
	}, nil
}
