package session

import (
	"errors"
	"io"
	"os"
	"sync/atomic"
	"time"

	"github.com/nguyentantai21042004/meeting-minutes/internal/logger"
	"github.com/nguyentantai21042004/meeting-minutes/internal/summarizer"
	"github.com/nguyentantai21042004/meeting-minutes/internal/transcriber"
	"github.com/nguyentantai21042004/meeting-minutes/internal/transcript"
)

// Options wires a Controller. Archive, Metrics, Console and Clock are optional.
type Options struct {
	Title       string
	Source      Source
	Transcriber transcriber.Transcriber
	Splitter    transcript.Splitter
	Store       *transcript.Store
	Summarizer  summarizer.Summarizer
	Archive     Archive
	Metrics     Metrics
	Console     io.Writer
	ExportDocx  bool
	Clock       func() time.Time
	Logger      logger.Logger
}

type implController struct {
	title       string
	source      Source
	transcriber transcriber.Transcriber
	splitter    transcript.Splitter
	store       *transcript.Store
	summarizer  summarizer.Summarizer
	archive     Archive
	metrics     Metrics
	console     *console
	exportDocx  bool
	now         func() time.Time
	logger      logger.Logger

	state   atomic.Int32
	session *transcript.Session
}

// New creates a Controller for one session.
func New(opts Options) (Controller, error) {
	switch {
	case opts.Title == "":
		return nil, errors.New("session title is required")
	case opts.Source == nil:
		return nil, errors.New("session source is required")
	case opts.Transcriber == nil:
		return nil, errors.New("transcriber is required")
	case opts.Store == nil:
		return nil, errors.New("transcript store is required")
	case opts.Summarizer == nil:
		return nil, errors.New("summarizer is required")
	}

	c := &implController{
		title:       opts.Title,
		source:      opts.Source,
		transcriber: opts.Transcriber,
		splitter:    opts.Splitter,
		store:       opts.Store,
		summarizer:  opts.Summarizer,
		archive:     opts.Archive,
		metrics:     opts.Metrics,
		exportDocx:  opts.ExportDocx,
		now:         opts.Clock,
		logger:      opts.Logger,
	}
	if c.metrics == nil {
		c.metrics = nopMetrics{}
	}
	if c.now == nil {
		c.now = time.Now
	}
	if c.logger == nil {
		c.logger = logger.Nop()
	}
	out := opts.Console
	if out == nil {
		out = os.Stdout
	}
	c.console = newConsole(out)

	return c, nil
}

func (c *implController) State() State {
	return State(c.state.Load())
}

func (c *implController) setState(s State) {
	c.state.Store(int32(s))
}

type nopMetrics struct{}

func (nopMetrics) ObserveTranscription(time.Duration, bool) {}
func (nopMetrics) ObserveSegment(int)                       {}
func (nopMetrics) SummaryFailed()                           {}
func (nopMetrics) Flush() error                             { return nil }
