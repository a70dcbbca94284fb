package analyze

import (
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/voxpaper/paper-narrator/internal/core/domain"
)

const (
	lineTolerance  = 2.0 // max Y distance for runs on the same line
	wordGapFactor  = 0.3 // gap wider than this fraction of font size starts a word
	columnGapWidth = 18.0
)

// pageFromPDF rebuilds a page's text line by line from positioned text runs.
// Building the text ourselves keeps line structure for the section scanner
// and guarantees equation spans are valid within the page text we store.
// A horizontal gap wider than columnGapWidth is encoded as a tab so the
// table pass can recover column structure.
func pageFromPDF(p pdf.Page, index int) domain.Page {
	if p.V.IsNull() {
		return domain.Page{Index: index}
	}

	runs := p.Content().Text
	if len(runs) == 0 {
		return domain.Page{Index: index}
	}

	// PDF Y grows upward: sort top-to-bottom, then left-to-right.
	sorted := append([]pdf.Text(nil), runs...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if diff := sorted[i].Y - sorted[j].Y; diff > lineTolerance || diff < -lineTolerance {
			return sorted[i].Y > sorted[j].Y
		}
		return sorted[i].X < sorted[j].X
	})

	var (
		blocks  []domain.LayoutBlock
		line    strings.Builder
		lineX   float64
		lineY   float64
		maxFont float64
		endX    float64
	)
	flush := func() {
		text := strings.TrimRight(line.String(), " \t")
		if text != "" {
			blocks = append(blocks, domain.LayoutBlock{
				Kind:     domain.BlockText,
				X:        lineX,
				Y:        lineY,
				W:        endX - lineX,
				FontSize: maxFont,
				Text:     text,
			})
		}
		line.Reset()
		maxFont = 0
	}

	for i, run := range sorted {
		sameLine := i > 0 && abs(run.Y-lineY) <= lineTolerance
		if !sameLine {
			flush()
			lineX, lineY = run.X, run.Y
		} else {
			switch gap := run.X - endX; {
			case gap > columnGapWidth:
				line.WriteByte('\t')
			case gap > run.FontSize*wordGapFactor:
				line.WriteByte(' ')
			}
		}
		line.WriteString(run.S)
		endX = run.X + run.W
		if run.FontSize > maxFont {
			maxFont = run.FontSize
		}
	}
	flush()

	lines := make([]string, 0, len(blocks))
	for _, b := range blocks {
		lines = append(lines, b.Text)
	}

	return domain.Page{
		Index:  index,
		Text:   strings.Join(lines, "\n"),
		Blocks: blocks,
	}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
