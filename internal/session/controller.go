package session

import (
	"context"
	"fmt"
	"time"

	"github.com/nguyentantai21042004/meeting-minutes/internal/transcriber"
	"github.com/nguyentantai21042004/meeting-minutes/internal/transcript"
)

func (c *implController) Run(ctx context.Context) (Report, error) {
	c.session = transcript.NewSession(c.title, c.now())
	c.setState(StateRunning)
	defer c.setState(StateTerminated)
	defer func() {
		if err := c.source.Close(); err != nil {
			c.logger.Warn(ctx, "Failed to close audio source: %v", err)
		}
	}()

	c.logger.Info(ctx, "Session %s started: %s", c.session.ID, c.session.Title)
	c.console.Banner(c.session.Title)

	if c.archive != nil {
		if err := c.archive.StartSession(ctx, c.session); err != nil {
			c.logger.Warn(ctx, "Archive disabled for this session: %v", err)
			c.archive = nil
		}
	}

	if err := c.record(ctx); err != nil {
		return Report{SessionID: c.session.ID, Segments: len(c.session.Segments)}, err
	}

	c.setState(StateFinalizing)
	c.logger.Info(ctx, "Interrupted after %d segments, finalizing", len(c.session.Segments))
	return c.finalize(context.WithoutCancel(ctx))
}

// record loops until ctx is cancelled. A nil return means interrupted.
func (c *implController) record(ctx context.Context) error {
	for {
		clip, err := c.source.Next(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("capture segment: %w", err)
		}

		start := time.Now()
		res := c.transcriber.Transcribe(ctx, clip.Path)
		if res.Failed() && ctx.Err() != nil {
			c.logger.Info(ctx, "Transcription of the %s segment interrupted, discarding it", clip.StartedAt.Format(transcript.TimestampLayout))
			return nil
		}
		c.metrics.ObserveTranscription(time.Since(start), res.Failed())

		if err := c.appendSegment(ctx, clip, res); err != nil {
			return err
		}
	}
}

func (c *implController) appendSegment(ctx context.Context, clip Clip, res transcriber.Result) error {
	var utterances []string
	if res.Failed() {
		c.logger.Error(ctx, "Transcription failed: %v", res.Err)
		c.console.TranscriptionFailed(res.Err)
		utterances = []string{TranscriptionErrorMarker}
	} else {
		utterances = c.splitter.Split(res.Text)
	}

	seg, err := c.session.Append(clip.StartedAt, utterances)
	if err != nil {
		return fmt.Errorf("append segment: %w", err)
	}
	seq := len(c.session.Segments) - 1
	c.metrics.ObserveSegment(len(seg.Utterances))
	c.logger.Debug(ctx, "Segment %d at %s: %d utterances", seq, seg.Timestamp, len(seg.Utterances))

	if c.archive != nil {
		// the row must match the transcript even if the interrupt already arrived
		if err := c.archive.AddSegment(context.WithoutCancel(ctx), c.session.ID, seq, seg); err != nil {
			c.logger.Warn(ctx, "Failed to archive segment %d: %v", seq, err)
		}
	}

	c.console.Segment(seg)
	return nil
}

func (c *implController) finalize(ctx context.Context) (Report, error) {
	report := Report{SessionID: c.session.ID, Segments: len(c.session.Segments)}

	if err := c.session.Finish(c.now()); err != nil {
		return report, fmt.Errorf("finish session: %w", err)
	}

	path, err := c.store.Persist(c.session)
	if err != nil {
		return report, fmt.Errorf("persist transcript: %w", err)
	}
	report.TranscriptPath = path
	c.logger.Info(ctx, "Transcript saved: %s", path)
	c.console.TranscriptSaved(path)

	if err := c.summarize(ctx, &report); err != nil {
		return report, err
	}

	if c.exportDocx {
		docxPath, err := c.store.ExportDocx(c.session)
		if err != nil {
			c.logger.Warn(ctx, "Failed to export docx: %v", err)
		} else {
			report.DocxPath = docxPath
			c.logger.Info(ctx, "Docx exported: %s", docxPath)
		}
	}

	if c.archive != nil {
		if err := c.archive.FinishSession(ctx, c.session, path); err != nil {
			c.logger.Warn(ctx, "Failed to archive session: %v", err)
		}
	}

	if err := c.metrics.Flush(); err != nil {
		c.logger.Warn(ctx, "Failed to write metrics: %v", err)
	}

	c.console.Done()
	return report, nil
}

// summarize asks for the summary and stores it. Only persistence errors are returned.
func (c *implController) summarize(ctx context.Context, report *Report) error {
	c.console.SummaryPending()

	summary, err := c.summarizer.Summarize(ctx, c.session)
	if err != nil {
		c.metrics.SummaryFailed()
		c.logger.Error(ctx, "Summarization failed: %v", err)
		c.console.SummaryFailed(err)
		return nil
	}

	if err := c.session.SetSummary(summary); err != nil {
		return fmt.Errorf("set summary: %w", err)
	}
	if err := c.store.Save(report.TranscriptPath, c.session); err != nil {
		return fmt.Errorf("save summary into transcript: %w", err)
	}

	summaryPath, err := c.store.PersistSummary(c.session.Title, summary)
	if err != nil {
		return fmt.Errorf("persist summary: %w", err)
	}
	report.SummaryPath = summaryPath
	c.logger.Info(ctx, "Summary saved: %s", summaryPath)
	c.console.Summary(summary)
	return nil
}
