package summarizer

import (
	"fmt"
	"strings"

	"github.com/nguyentantai21042004/meeting-minutes/internal/transcript"
)

// BuildTranscript flattens a session into the text block embedded in the prompt:
// each segment is "[HH:MM:SS]" on its own line followed by its utterances.
func BuildTranscript(session *transcript.Session) string {
	var b strings.Builder
	for _, seg := range session.Segments {
		fmt.Fprintf(&b, "[%s]\n", seg.Timestamp)
		for _, u := range seg.Utterances {
			b.WriteString(u)
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func buildPrompt(template string, session *transcript.Session) string {
	return fmt.Sprintf(template, BuildTranscript(session))
}
