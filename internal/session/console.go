package session

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/nguyentantai21042004/meeting-minutes/internal/transcript"
)

// console prints the human-readable progress of a session, separate from the log.
type console struct {
	out io.Writer

	titleStyle     lipgloss.Style
	timestampStyle lipgloss.Style
	errorStyle     lipgloss.Style
	pathStyle      lipgloss.Style
	summaryStyle   lipgloss.Style
	helpStyle      lipgloss.Style
}

func newConsole(out io.Writer) *console {
	r := lipgloss.NewRenderer(out)
	return &console{
		out: out,
		titleStyle: r.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")),
		timestampStyle: r.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("214")),
		errorStyle: r.NewStyle().
			Foreground(lipgloss.Color("196")),
		pathStyle: r.NewStyle().
			Foreground(lipgloss.Color("245")),
		summaryStyle: r.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(0, 1),
		helpStyle: r.NewStyle().
			Foreground(lipgloss.Color("241")),
	}
}

func (c *console) Banner(title string) {
	fmt.Fprintln(c.out, c.titleStyle.Render(fmt.Sprintf("【%s】 meeting minutes", title)))
	fmt.Fprintln(c.out, c.helpStyle.Render("Recording. Press Ctrl+C to stop and summarize."))
}

func (c *console) Segment(seg transcript.Segment) {
	fmt.Fprintln(c.out, c.timestampStyle.Render(fmt.Sprintf("【%s】", seg.Timestamp)))
	for _, u := range seg.Utterances {
		fmt.Fprintln(c.out, u)
	}
}

func (c *console) TranscriptionFailed(err error) {
	fmt.Fprintln(c.out, c.errorStyle.Render(fmt.Sprintf("Transcription error: %v", err)))
}

func (c *console) TranscriptSaved(path string) {
	fmt.Fprintln(c.out, "Transcript saved: "+c.pathStyle.Render(path))
}

func (c *console) SummaryPending() {
	fmt.Fprintln(c.out, c.helpStyle.Render("Requesting summary..."))
}

func (c *console) Summary(summary string) {
	fmt.Fprintln(c.out, c.titleStyle.Render("【要約】"))
	fmt.Fprintln(c.out, c.summaryStyle.Render(summary))
}

func (c *console) SummaryFailed(err error) {
	fmt.Fprintln(c.out, c.errorStyle.Render(fmt.Sprintf("Summary error: %v", err)))
}

func (c *console) Done() {
	fmt.Fprintln(c.out, c.helpStyle.Render("Meeting minutes finished."))
}
