package assemble

import (
	"strings"
	"testing"

	"github.com/voxpaper/paper-narrator/internal/core/domain"
)

func TestMetadataSegments(t *testing.T) {
	segments := MetadataSegments(domain.Metadata{
		Title:   "Attention Is All You Need",
		Authors: []string{"Ada Lovelace", "Alan Turing"},
	})

	if len(segments) != 2 {
		t.Fatalf("expected 2 segments, got %+v", segments)
	}
	if !strings.Contains(segments[0].Text, "Attention Is All You Need") {
		t.Fatalf("missing title: %q", segments[0].Text)
	}
	if !strings.Contains(segments[1].Text, "Ada Lovelace, Alan Turing") {
		t.Fatalf("authors must be joined in order: %q", segments[1].Text)
	}
}

func TestMetadataSegmentsSkipAbsentFields(t *testing.T) {
	if got := MetadataSegments(domain.Metadata{}); len(got) != 0 {
		t.Fatalf("expected no segments, got %+v", got)
	}
	got := MetadataSegments(domain.Metadata{Title: "Only Title"})
	if len(got) != 1 {
		t.Fatalf("expected title-only segment, got %+v", got)
	}
}

func TestJoinSingleSpaceSeparation(t *testing.T) {
	narration := Join([]domain.TextSegment{
		EquationSegment("a equals b"),
		TableSegment("The table has 3 rows and 2 columns."),
		SectionSegment("Introduction"),
	})

	want := "Equation: a equals b Table summary: The table has 3 rows and 2 columns. Section: Introduction"
	if narration != want {
		t.Fatalf("Join() = %q, want %q", narration, want)
	}
}

func TestTablePlaceholderNamesPage(t *testing.T) {
	seg := TablePlaceholderSegment(4)
	if !strings.Contains(seg.Text, "page 5") {
		t.Fatalf("placeholder must reference the page, got %q", seg.Text)
	}
}

func TestChunkFixedSize(t *testing.T) {
	chunks := Chunk("abcdefghij", 4)
	want := []string{"abcd", "efgh", "ij"}
	if len(chunks) != len(want) {
		t.Fatalf("expected %d chunks, got %v", len(want), chunks)
	}
	for i := range want {
		if chunks[i] != want[i] {
			t.Fatalf("chunk %d = %q, want %q", i, chunks[i], want[i])
		}
	}
}

func TestChunkPreservesOrderAndContent(t *testing.T) {
	text := "the quick brown fox jumps over the lazy dog"
	if got := strings.Join(Chunk(text, 7), ""); got != text {
		t.Fatalf("chunks must reassemble to original, got %q", got)
	}
}

func TestChunkEmptyText(t *testing.T) {
	if got := Chunk("", 10); got != nil {
		t.Fatalf("expected nil for empty text, got %v", got)
	}
}
