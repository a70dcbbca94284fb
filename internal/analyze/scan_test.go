package analyze

import (
	"testing"

	"github.com/voxpaper/paper-narrator/internal/core/domain"
)

func TestScanSectionsRecognizers(t *testing.T) {
	b := newModelBuilder()
	b.scanSections(domain.Page{
		Index: 0,
		Text:  "## Introduction\nsome prose\nMETHODS\nResults\nnot a HEADER line",
	})

	if len(b.model.Sections) != 3 {
		t.Fatalf("expected 3 sections, got %+v", b.model.Sections)
	}
	if b.model.Sections[0].Name != "Introduction" {
		t.Fatalf("markdown recognizer: got %q", b.model.Sections[0].Name)
	}
	if b.model.Sections[1].Name != "METHODS" {
		t.Fatalf("all-caps recognizer: got %q", b.model.Sections[1].Name)
	}
	if b.model.Sections[2].Name != "Results" {
		t.Fatalf("whitelist recognizer: got %q", b.model.Sections[2].Name)
	}
}

func TestScanSectionsDuplicateKeepsLastPosition(t *testing.T) {
	b := newModelBuilder()
	b.scanSections(domain.Page{Index: 0, Text: "## Introduction"})
	b.scanSections(domain.Page{Index: 3, Text: "filler\n## Introduction"})

	if len(b.model.Sections) != 1 {
		t.Fatalf("duplicate names must collapse, got %+v", b.model.Sections)
	}
	s := b.model.Sections[0]
	if s.PageIndex != 3 || s.Line != 1 {
		t.Fatalf("expected last-seen position, got %+v", s)
	}
}

func TestScanEquationsDollarAndParen(t *testing.T) {
	b := newModelBuilder()
	page := domain.Page{Index: 1, Text: `$a=b$ and \(c=d\)`}
	b.scanEquations(page)

	if len(b.model.Equations) != 2 {
		t.Fatalf("expected 2 equations, got %+v", b.model.Equations)
	}
	if b.model.Equations[0].Markup != "a=b" || b.model.Equations[1].Markup != "c=d" {
		t.Fatalf("unexpected markup: %+v", b.model.Equations)
	}
	for _, eq := range b.model.Equations {
		if eq.Start < 0 || eq.End > len(page.Text) || eq.Start >= eq.End {
			t.Fatalf("invalid span: %+v", eq)
		}
		if page.Text[eq.Start:eq.End] != eq.Markup {
			t.Fatalf("span does not cover markup: %+v", eq)
		}
	}
}

func TestScanEquationsDisplayMathKeepsDuplicates(t *testing.T) {
	b := newModelBuilder()
	b.scanEquations(domain.Page{Index: 0, Text: "$$x+y$$"})

	// The display form also satisfies the single-dollar pattern; each
	// counted occurrence stays its own entry.
	if len(b.model.Equations) != 2 {
		t.Fatalf("expected 2 entries across pattern types, got %+v", b.model.Equations)
	}
}

func TestScanFiguresCaptionBoundaries(t *testing.T) {
	b := newModelBuilder()
	b.scanFigures(domain.Page{
		Index: 2,
		Text:  "Figure 1: Accuracy over epochs.\nmore caption text\nFig. 2a: Loss curve.",
	})

	if len(b.model.Figures) != 2 {
		t.Fatalf("expected 2 figures, got %+v", b.model.Figures)
	}
	first := b.model.Figures[0]
	if first.Number != "1" {
		t.Fatalf("expected number 1, got %q", first.Number)
	}
	if first.Caption != "Accuracy over epochs.\nmore caption text" {
		t.Fatalf("caption must stop at next marker, got %q", first.Caption)
	}
	if b.model.Figures[1].Number != "2a" || b.model.Figures[1].Caption != "Loss curve." {
		t.Fatalf("unexpected second figure: %+v", b.model.Figures[1])
	}
}

func TestScanTablesGroupsAlignedLines(t *testing.T) {
	b := newModelBuilder()
	blocks := []domain.LayoutBlock{
		{Kind: domain.BlockText, Text: "prose line", Y: 700},
		{Kind: domain.BlockText, Text: "name\tscore", Y: 680},
		{Kind: domain.BlockText, Text: "alpha\t1", Y: 660},
		{Kind: domain.BlockText, Text: "beta\t2", Y: 640},
		{Kind: domain.BlockText, Text: "closing prose", Y: 620},
	}
	b.scanTables(domain.Page{Index: 1, Blocks: blocks})

	if len(b.model.Tables) != 1 {
		t.Fatalf("expected 1 table, got %+v", b.model.Tables)
	}
	table := b.model.Tables[0]
	if table.PageIndex != 1 {
		t.Fatalf("unexpected page index: %+v", table)
	}
	if table.RawText != "name\tscore\nalpha\t1\nbeta\t2" {
		t.Fatalf("unexpected region text: %q", table.RawText)
	}
}

func TestScanTablesIgnoresLoneGridLine(t *testing.T) {
	b := newModelBuilder()
	b.scanTables(domain.Page{Index: 0, Blocks: []domain.LayoutBlock{
		{Kind: domain.BlockText, Text: "a\tb"},
		{Kind: domain.BlockText, Text: "prose"},
	}})

	if len(b.model.Tables) != 0 {
		t.Fatalf("single aligned line is not a grid, got %+v", b.model.Tables)
	}
}
