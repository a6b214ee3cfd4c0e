package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/nguyentantai21042004/meeting-minutes/internal/archive"
	"github.com/nguyentantai21042004/meeting-minutes/internal/audio"
	"github.com/nguyentantai21042004/meeting-minutes/internal/config"
	"github.com/nguyentantai21042004/meeting-minutes/internal/inbox"
	"github.com/nguyentantai21042004/meeting-minutes/internal/logger"
	"github.com/nguyentantai21042004/meeting-minutes/internal/metrics"
	"github.com/nguyentantai21042004/meeting-minutes/internal/session"
	"github.com/nguyentantai21042004/meeting-minutes/internal/summarizer"
	"github.com/nguyentantai21042004/meeting-minutes/internal/transcriber"
	"github.com/nguyentantai21042004/meeting-minutes/internal/transcript"
	"github.com/nguyentantai21042004/meeting-minutes/pkg/executor"
	"github.com/spf13/cobra"
)

type recordOptions struct {
	title   string
	segment int
	inbox   string
	docx    bool
}

func runRecord(cmd *cobra.Command, opts *rootOptions, rec *recordOptions) error {
	cfg, err := loadConfig(cmd, opts)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("segment") {
		if rec.segment <= 0 {
			return fmt.Errorf("--segment must be a positive number of seconds, got %d", rec.segment)
		}
		cfg.Recording.SegmentSeconds = rec.segment
	}
	if rec.inbox != "" {
		cfg.Paths.Inbox = rec.inbox
	}
	if rec.docx {
		cfg.Export.Docx = true
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	log := logger.New(cfg.Logging.Level)

	// the first signal finalizes, a second one kills a hung finalization
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		stop()
	}()

	log.Info(ctx, "========================================")
	log.Info(ctx, "Meeting Minutes")
	log.Info(ctx, "========================================")
	log.Info(ctx, "System: %s/%s", runtime.GOOS, runtime.GOARCH)
	log.Info(ctx, "Title: %s", rec.title)
	log.Info(ctx, "Output: %s", cfg.Paths.Output)
	log.Info(ctx, "Transcription: %s (%s)", cfg.Transcription.Model, cfg.Transcription.Language)
	log.Info(ctx, "Summary: %s", summaryModel(cfg))

	sum, err := summarizer.New(summarizerConfig(cfg), log)
	if err != nil {
		return err
	}

	source, err := buildSource(ctx, cfg, log)
	if err != nil {
		return err
	}

	var arch session.Archive
	if !cfg.Archive.Disabled {
		store, err := archive.Open(cfg.Archive.Path)
		if err != nil {
			log.Warn(ctx, "Archive unavailable, continuing without it: %v", err)
		} else {
			defer store.Close()
			arch = store
		}
	}

	controller, err := session.New(session.Options{
		Title:  rec.title,
		Source: source,
		Transcriber: transcriber.New(transcriber.Config{
			APIKey:      cfg.OpenAI.APIKey,
			BaseURL:     cfg.OpenAI.BaseURL,
			Model:       cfg.Transcription.Model,
			Language:    cfg.Transcription.Language,
			Temperature: cfg.Transcription.Temperature,
		}, log),
		Splitter:   transcript.NewSplitter(cfg.Splitter.Boundaries),
		Store:      transcript.NewStore(cfg.Paths.Output),
		Summarizer: sum,
		Archive:    arch,
		Metrics:    metrics.New(cfg.Metrics.Textfile),
		Console:    cmd.OutOrStdout(),
		ExportDocx: cfg.Export.Docx,
		Logger:     log,
	})
	if err != nil {
		source.Close()
		return err
	}

	report, err := controller.Run(ctx)
	if err != nil {
		return err
	}

	log.Info(ctx, "Session %s finished: %d segments", report.SessionID, report.Segments)
	return nil
}

func buildSource(ctx context.Context, cfg *config.Config, log logger.Logger) (session.Source, error) {
	if cfg.Paths.Inbox != "" {
		log.Info(ctx, "Watching inbox: %s", cfg.Paths.Inbox)
		w, err := inbox.New(inbox.Config{
			Dir:     cfg.Paths.Inbox,
			WorkDir: cfg.Paths.Output,
		}, executor.New(), log)
		if err != nil {
			return nil, fmt.Errorf("start inbox: %w", err)
		}
		return w, nil
	}

	format := audio.Format{
		SampleRate: cfg.Recording.SampleRate,
		Channels:   cfg.Recording.Channels,
		BitDepth:   cfg.Recording.BitDepth,
	}
	log.Info(ctx, "Microphone: %d Hz, %d ch, %d-bit, %s segments",
		format.SampleRate, format.Channels, format.BitDepth,
		time.Duration(cfg.Recording.SegmentSeconds)*time.Second)

	if err := os.MkdirAll(cfg.Paths.Output, 0755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	return session.NewMicrophoneSource(
		audio.NewCapturer(format, cfg.Recording.FramesPerBuffer, log),
		audio.NewEncoder(),
		format,
		cfg.Recording.SegmentSeconds,
		cfg.Recording.TempFile,
		log,
	), nil
}

func summarizerConfig(cfg *config.Config) summarizer.Config {
	sc := summarizer.Config{
		Provider:       cfg.Summary.Provider,
		Model:          cfg.Summary.Model,
		Temperature:    *cfg.Summary.Temperature,
		MaxTokens:      cfg.Summary.MaxTokens,
		SystemPrompt:   cfg.Summary.SystemPrompt,
		PromptTemplate: cfg.Summary.PromptTemplate,
		APIKey:         cfg.OpenAI.APIKey,
		BaseURL:        cfg.OpenAI.BaseURL,
		GeminiKeys:     cfg.Gemini.APIKeys,
	}
	if cfg.Summary.Provider == config.ProviderGemini {
		sc.Model = cfg.Gemini.Model
	}
	return sc
}

func summaryModel(cfg *config.Config) string {
	if cfg.Summary.Provider == config.ProviderGemini {
		return fmt.Sprintf("%s (%d keys)", cfg.Gemini.Model, len(cfg.Gemini.APIKeys))
	}
	return cfg.Summary.Model
}
