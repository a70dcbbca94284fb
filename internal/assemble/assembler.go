package assemble

import (
	"strconv"
	"strings"

	"github.com/voxpaper/paper-narrator/internal/core/domain"
)

// Fixed segment labels spoken before each converted element.
const (
	equationLabel = "Equation:"
	tableLabel    = "Table summary:"
	sectionLabel  = "Section:"
)

// MetadataSegments yields the title and author segments, skipping whichever
// is absent.
func MetadataSegments(md domain.Metadata) []domain.TextSegment {
	var segments []domain.TextSegment
	if md.Title != "" {
		segments = append(segments, domain.TextSegment{
			Source: domain.SegmentMetadata,
			Text:   "Paper title: " + md.Title + ".",
		})
	}
	if len(md.Authors) > 0 {
		segments = append(segments, domain.TextSegment{
			Source: domain.SegmentMetadata,
			Text:   "Authors: " + strings.Join(md.Authors, ", ") + ".",
		})
	}
	return segments
}

func EquationSegment(verbalized string) domain.TextSegment {
	return domain.TextSegment{
		Source: domain.SegmentEquation,
		Text:   equationLabel + " " + verbalized,
	}
}

func TableSegment(narrative string) domain.TextSegment {
	return domain.TextSegment{
		Source: domain.SegmentTable,
		Text:   tableLabel + " " + narrative,
	}
}

// TablePlaceholderSegment stands in for a region whose tabular parse failed.
func TablePlaceholderSegment(pageIndex int) domain.TextSegment {
	return TableSegment(pagePlaceholder(pageIndex))
}

func SectionSegment(name string) domain.TextSegment {
	return domain.TextSegment{
		Source: domain.SegmentSection,
		Text:   sectionLabel + " " + name,
	}
}

// Join concatenates segments into the narration stream with single-space
// separation. Output is deterministic given the same segment sequence.
func Join(segments []domain.TextSegment) string {
	parts := make([]string, 0, len(segments))
	for _, s := range segments {
		parts = append(parts, s.Text)
	}
	return strings.Join(parts, " ")
}

func pagePlaceholder(pageIndex int) string {
	return "A table appears on page " + strconv.Itoa(pageIndex+1) + "."
}
