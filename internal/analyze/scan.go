package analyze

import (
	"regexp"
	"strings"

	"github.com/voxpaper/paper-narrator/internal/core/domain"
)

var markdownHeading = regexp.MustCompile(`^#{1,3}\s+(.+)$`)

// canonicalSections is matched case-sensitively against whole trimmed lines.
var canonicalSections = map[string]struct{}{
	"Abstract":     {},
	"Introduction": {},
	"Methodology":  {},
	"Results":      {},
	"Discussion":   {},
	"Conclusion":   {},
	"References":   {},
}

var equationPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?s)\$\$(.+?)\$\$`),
	regexp.MustCompile(`\$([^$\n]+)\$`),
	regexp.MustCompile(`(?s)\\\[(.+?)\\\]`),
	regexp.MustCompile(`(?s)\\\((.+?)\\\)`),
}

var figureMarker = regexp.MustCompile(`(Figure|Fig\.)\s*(\d+[A-Za-z]?)\s*[:.\-]\s*`)

// modelBuilder accumulates extraction results across pages. Section names are
// unique by exact string; a later occurrence overwrites the recorded
// page/line position of the earlier one.
type modelBuilder struct {
	model        domain.StructuralModel
	sectionIndex map[string]int
}

func newModelBuilder() *modelBuilder {
	return &modelBuilder{sectionIndex: map[string]int{}}
}

func (b *modelBuilder) addSection(name string, pageIndex, line int) {
	if i, ok := b.sectionIndex[name]; ok {
		b.model.Sections[i].PageIndex = pageIndex
		b.model.Sections[i].Line = line
		return
	}
	b.sectionIndex[name] = len(b.model.Sections)
	b.model.Sections = append(b.model.Sections, domain.Section{
		Name:      name,
		PageIndex: pageIndex,
		Line:      line,
	})
}

// scanSections recognizes section headers line by line. Recognizers run in a
// fixed order and the first match wins: markdown heading markers, then
// all-uppercase lines, then the canonical section-name whitelist.
func (b *modelBuilder) scanSections(page domain.Page) {
	for lineNo, line := range strings.Split(page.Text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		if m := markdownHeading.FindStringSubmatch(trimmed); m != nil {
			b.addSection(strings.TrimSpace(m[1]), page.Index, lineNo)
			continue
		}
		if isAllUppercase(trimmed) {
			b.addSection(trimmed, page.Index, lineNo)
			continue
		}
		if _, ok := canonicalSections[trimmed]; ok {
			b.addSection(trimmed, page.Index, lineNo)
		}
	}
}

func isAllUppercase(line string) bool {
	hasLetter := false
	for _, r := range line {
		if r >= 'a' && r <= 'z' {
			return false
		}
		if r >= 'A' && r <= 'Z' {
			hasLetter = true
		}
	}
	return hasLetter
}

// scanEquations collects all non-overlapping matches of each markup pattern.
// Patterns run independently; an expression written in two recognizable forms
// is intentionally counted once per form.
func (b *modelBuilder) scanEquations(page domain.Page) {
	for _, pattern := range equationPatterns {
		for _, m := range pattern.FindAllStringSubmatchIndex(page.Text, -1) {
			start, end := m[2], m[3]
			if start < 0 || end > len(page.Text) {
				continue
			}
			b.model.Equations = append(b.model.Equations, domain.Equation{
				Markup:    page.Text[start:end],
				PageIndex: page.Index,
				Start:     start,
				End:       end,
			})
		}
	}
}

// scanFigures captures "Figure N:" / "Fig. N." markers; the caption extends
// to the next marker or the end of the page.
func (b *modelBuilder) scanFigures(page domain.Page) {
	markers := figureMarker.FindAllStringSubmatchIndex(page.Text, -1)
	for i, m := range markers {
		captionStart := m[1]
		captionEnd := len(page.Text)
		if i+1 < len(markers) {
			captionEnd = markers[i+1][0]
		}
		b.model.Figures = append(b.model.Figures, domain.Figure{
			Number:    page.Text[m[4]:m[5]],
			Caption:   strings.TrimSpace(page.Text[captionStart:captionEnd]),
			PageIndex: page.Index,
		})
	}
}
