package analyze

import (
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/voxpaper/paper-narrator/internal/core/domain"
)

// extractMetadata derives title and authors from the first page and copies
// the source format's info dictionary verbatim. Every step is best-effort:
// a miss yields empty values, never an error.
func extractMetadata(firstPage domain.Page, reader *pdf.Reader) domain.Metadata {
	md := domain.Metadata{Raw: infoDict(reader)}

	titleEnd := -1
	maxFont := 0.0
	for i, block := range firstPage.Blocks {
		if block.Kind == domain.BlockText && block.FontSize > maxFont {
			maxFont = block.FontSize
			titleEnd = i
		}
	}
	if titleEnd < 0 {
		return md
	}

	// The title may wrap; absorb following lines set in the same size.
	titleParts := []string{firstPage.Blocks[titleEnd].Text}
	for titleEnd+1 < len(firstPage.Blocks) && firstPage.Blocks[titleEnd+1].FontSize == maxFont {
		titleEnd++
		titleParts = append(titleParts, firstPage.Blocks[titleEnd].Text)
	}
	md.Title = strings.Join(titleParts, " ")

	for _, block := range firstPage.Blocks[titleEnd+1:] {
		if authors := parseAuthors(block.Text); len(authors) > 0 {
			md.Authors = authors
			break
		}
		// Authors sit directly under the title; stop at the first paragraph.
		if len(strings.Fields(block.Text)) > 12 {
			break
		}
	}
	return md
}

// parseAuthors splits a candidate byline on common separators and keeps
// tokens that look like personal names.
func parseAuthors(line string) []string {
	line = strings.ReplaceAll(line, " and ", ",")
	line = strings.ReplaceAll(line, ";", ",")

	var authors []string
	for _, part := range strings.Split(line, ",") {
		part = strings.TrimSpace(part)
		if looksLikeName(part) {
			authors = append(authors, part)
		}
	}
	if len(authors) < 1 || len(authors) != strings.Count(line, ",")+1 {
		// A byline is all names or it is not a byline.
		return nil
	}
	return authors
}

func looksLikeName(s string) bool {
	words := strings.Fields(s)
	if len(words) < 2 || len(words) > 4 {
		return false
	}
	for _, w := range words {
		r := rune(w[0])
		if r < 'A' || r > 'Z' {
			return false
		}
		if strings.ContainsAny(w, "0123456789@") {
			return false
		}
	}
	return true
}

func infoDict(reader *pdf.Reader) map[string]string {
	info := reader.Trailer().Key("Info")
	if info.Kind() != pdf.Dict {
		return nil
	}
	out := map[string]string{}
	for _, key := range info.Keys() {
		value := info.Key(key)
		if value.Kind() == pdf.String {
			out[key] = value.Text()
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
