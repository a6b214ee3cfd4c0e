package transcript

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/gomutex/godocx"
	"github.com/gomutex/godocx/docx"
)

const (
	fontName = "Times New Roman"
	fontSize = 13
)

var (
	reHeading  = regexp.MustCompile(`^(#{1,6})\s+(.+)$`)
	reBold     = regexp.MustCompile(`\*\*(.+?)\*\*`)
	reBullet   = regexp.MustCompile(`^[\-\*]\s+(.+)$`)
	reNumbered = regexp.MustCompile(`^\d+\.\s+(.+)$`)
)

// ExportDocx writes the session as a Word document next to its transcript:
// title, the summary (markdown rendered to runs) and every segment.
func (s *Store) ExportDocx(session *Session) (string, error) {
	if err := os.MkdirAll(s.Dir, 0755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}

	jsonPath := s.TranscriptPath(session)
	path := strings.TrimSuffix(jsonPath, filepath.Ext(jsonPath)) + ".docx"

	doc, err := godocx.NewDocument()
	if err != nil {
		return "", fmt.Errorf("create document: %w", err)
	}

	addStyledRun(doc.AddParagraph(""), session.Title, true, 16)
	addStyledRun(doc.AddParagraph(""), session.StartTime.Format("2006-01-02 15:04"), false, fontSize)

	if session.Summary != nil {
		addStyledRun(doc.AddParagraph(""), "要約", true, 15)
		renderMarkdown(doc, *session.Summary)
	}

	addStyledRun(doc.AddParagraph(""), "議事録", true, 15)
	for _, seg := range session.Segments {
		addStyledRun(doc.AddParagraph(""), "["+seg.Timestamp+"]", true, fontSize)
		for _, u := range seg.Utterances {
			doc.AddParagraph("").AddText(u).Font(fontName).Size(fontSize).Color("000000")
		}
	}

	if err := doc.SaveTo(path); err != nil {
		return "", fmt.Errorf("save document: %w", err)
	}
	return path, nil
}

// orderedList is the abstract numbering godocx maps to decimal lists.
const orderedList = 1

// renderMarkdown writes headings, bullets and paragraphs. Consecutive
// numbered lines become one Word ordered list, restarting after any other line.
func renderMarkdown(doc *docx.RootDoc, markdown string) {
	listID := 0
	for _, line := range strings.Split(markdown, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || trimmed == "---" {
			continue
		}

		if m := reNumbered.FindStringSubmatch(trimmed); m != nil {
			if listID == 0 {
				listID = doc.NewListInstance(orderedList)
			}
			p := doc.AddParagraph("")
			p.Numbering(listID, 0)
			addRichText(p, m[1])
			continue
		}
		listID = 0

		if m := reHeading.FindStringSubmatch(trimmed); m != nil {
			addStyledRun(doc.AddParagraph(""), m[2], true, headingSize(len(m[1])))
			continue
		}

		if m := reBullet.FindStringSubmatch(trimmed); m != nil {
			addRichText(doc.AddParagraph(""), "• "+m[1])
			continue
		}

		addRichText(doc.AddParagraph(""), trimmed)
	}
}

func headingSize(level int) uint64 {
	switch level {
	case 1:
		return 16
	case 2:
		return 15
	case 3:
		return 14
	default:
		return fontSize
	}
}

func addStyledRun(p *docx.Paragraph, text string, bold bool, size uint64) {
	run := p.AddText(cleanMarkdownInline(text)).Font(fontName).Size(size).Color("000000")
	if bold {
		run.Bold(true)
	}
}

// addRichText renders **bold** spans as bold runs.
func addRichText(p *docx.Paragraph, text string) {
	parts := reBold.Split(text, -1)
	matches := reBold.FindAllStringSubmatch(text, -1)

	for i, part := range parts {
		if part != "" {
			p.AddText(cleanMarkdownInline(part)).Font(fontName).Size(fontSize).Color("000000")
		}
		if i < len(matches) {
			p.AddText(cleanMarkdownInline(matches[i][1])).Font(fontName).Size(fontSize).Color("000000").Bold(true)
		}
	}
}

func cleanMarkdownInline(s string) string {
	s = strings.ReplaceAll(s, "**", "")
	s = strings.ReplaceAll(s, "__", "")
	s = strings.ReplaceAll(s, "`", "")
	return s
}
