package services

import (
	"regexp"
	"strings"

	"github.com/vnkhanh/wikismart-edu-backend/models"
)

var reCitation = regexp.MustCompile(`\[\d+\]`)

// CleanText flattens article text for LLM consumption: numeric citation
// markers like [12] are removed, every run of Unicode whitespace becomes one
// space and the result is trimmed. Paragraph structure is intentionally lost.
//
// Removal repeats until nothing matches, so nested markers such as [[1]2]
// vanish completely and CleanText(CleanText(x)) == CleanText(x).
func CleanText(text string) string {
	for {
		next := reCitation.ReplaceAllString(text, "")
		if next == text {
			break
		}
		text = next
	}
	return strings.Join(strings.Fields(text), " ")
}

// isHeading reports whether line is a heading such as "== History ==" or
// "=== Early life ===" and returns its label.
func isHeading(line string) (string, bool) {
	if len(line) < 2 || line[0] != '=' || line[len(line)-1] != '=' {
		return "", false
	}
	lead := len(line) - len(strings.TrimLeft(line, "="))
	trail := len(line) - len(strings.TrimRight(line, "="))
	if lead != trail || lead < 2 || lead*2 >= len(line) {
		return "", false
	}
	label := strings.TrimSpace(line[lead : len(line)-trail])
	if label == "" {
		return "", false
	}
	return label, true
}

// SplitSections splits plain article text into named sections in one pass.
// Text before the first heading lands in "Introduction". Blank lines are
// dropped and section lines are joined with "\n". A repeated heading replaces
// the earlier section's text.
func SplitSections(raw string) *models.Sections {
	sections := models.NewSections()
	current := models.DefaultSectionName
	var lines []string

	flush := func() {
		sections.Set(current, strings.Join(lines, "\n"))
	}

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if label, ok := isHeading(line); ok {
			flush()
			current = label
			lines = nil
			continue
		}
		if line != "" {
			lines = append(lines, line)
		}
	}
	flush()

	return sections
}

// FlattenSections joins the non-empty section texts and cleans the result.
func FlattenSections(sections *models.Sections) string {
	var parts []string
	for _, t := range sections.Texts() {
		if t != "" {
			parts = append(parts, t)
		}
	}
	return CleanText(strings.Join(parts, "\n\n"))
}

// NewDocument builds a NormalizedDocument from already-split sections.
func NewDocument(title string, sourceURL *string, sections *models.Sections) *models.NormalizedDocument {
	return &models.NormalizedDocument{
		Title:     title,
		SourceURL: sourceURL,
		Sections:  sections,
		Text:      FlattenSections(sections),
	}
}
