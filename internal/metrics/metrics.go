package metrics

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the counters of one recording run. They live in a private
// registry and are written out as a node_exporter textfile when the run ends.
type Metrics struct {
	registry *prometheus.Registry
	textfile string

	Segments              prometheus.Counter
	Utterances            prometheus.Counter
	TranscriptionFailures prometheus.Counter
	SummaryFailures       prometheus.Counter
	TranscriptionDuration prometheus.Histogram
}

// New creates the run metrics. An empty textfile disables Flush.
func New(textfile string) *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		textfile: textfile,

		Segments: factory.NewCounter(prometheus.CounterOpts{
			Name: "minutes_segments_total",
			Help: "Total number of recording segments appended to the transcript",
		}),
		Utterances: factory.NewCounter(prometheus.CounterOpts{
			Name: "minutes_utterances_total",
			Help: "Total number of utterances appended to the transcript",
		}),
		TranscriptionFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "minutes_transcription_failures_total",
			Help: "Total number of segments whose transcription failed",
		}),
		SummaryFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "minutes_summary_failures_total",
			Help: "Total number of failed summarization requests",
		}),
		TranscriptionDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "minutes_transcription_duration_seconds",
			Help:    "Duration of transcription requests",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 10), // 100ms to ~1 minute
		}),
	}
}

// ObserveTranscription records one transcription request.
func (m *Metrics) ObserveTranscription(d time.Duration, failed bool) {
	m.TranscriptionDuration.Observe(d.Seconds())
	if failed {
		m.TranscriptionFailures.Inc()
	}
}

// ObserveSegment records one appended segment.
func (m *Metrics) ObserveSegment(utterances int) {
	m.Segments.Inc()
	m.Utterances.Add(float64(utterances))
}

func (m *Metrics) SummaryFailed() {
	m.SummaryFailures.Inc()
}

// Registry exposes the private registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Flush writes all metrics to the configured textfile.
func (m *Metrics) Flush() error {
	if m.textfile == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(m.textfile), 0755); err != nil {
		return fmt.Errorf("create metrics dir: %w", err)
	}
	if err := prometheus.WriteToTextfile(m.textfile, m.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
