package analyze

import (
	"strings"

	"github.com/voxpaper/paper-narrator/internal/core/domain"
)

// scanTables infers candidate tabular regions from a page's layout blocks.
// A run of two or more consecutive text lines whose cells split into the
// same number of aligned columns is treated as one grid; the text confined
// to the region is re-extracted tab-delimited so the tabular parser can
// consume it. This is a best-effort classifier: a misidentified region
// downgrades later at parse time, never here.
func (b *modelBuilder) scanTables(page domain.Page) {
	var run []domain.LayoutBlock
	flush := func() {
		if len(run) >= 2 {
			b.model.Tables = append(b.model.Tables, tableFromRun(run, page.Index))
		}
		run = nil
	}

	for _, block := range page.Blocks {
		if block.Kind != domain.BlockText || columnCount(block.Text) < 2 {
			flush()
			continue
		}
		if len(run) > 0 && columnCount(run[0].Text) != columnCount(block.Text) {
			flush()
		}
		run = append(run, block)
	}
	flush()
}

// columnCount counts cells separated by column gaps. The layout pass encodes
// a wide horizontal gap between blocks as a tab.
func columnCount(line string) int {
	n := 0
	for _, cell := range strings.Split(line, "\t") {
		if strings.TrimSpace(cell) != "" {
			n++
		}
	}
	return n
}

func tableFromRun(run []domain.LayoutBlock, pageIndex int) domain.Table {
	lines := make([]string, 0, len(run))
	region := domain.Region{X0: run[0].X, Y0: run[0].Y, X1: run[0].X + run[0].W, Y1: run[0].Y}
	for _, block := range run {
		lines = append(lines, block.Text)
		region.X0 = min(region.X0, block.X)
		region.X1 = max(region.X1, block.X+block.W)
		region.Y0 = min(region.Y0, block.Y)
		region.Y1 = max(region.Y1, block.Y)
	}
	return domain.Table{
		RawText:   strings.Join(lines, "\n"),
		Region:    region,
		PageIndex: pageIndex,
	}
}
