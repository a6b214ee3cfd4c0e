package transcriber

import "context"

// Transcriber turns one encoded audio file into text.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) Result
}

// Result is either recognized text or the reason transcription failed.
// An empty Text with a nil Err means the service recognized nothing.
type Result struct {
	Text string
	Err  error
}

// Failed reports whether the request failed.
func (r Result) Failed() bool {
	return r.Err != nil
}
