package tabular

import (
	"strings"
	"testing"

	"github.com/voxpaper/paper-narrator/internal/core/domain"
)

func numericTable(columns []string, rows [][]float64) domain.TabularValue {
	out := domain.TabularValue{Columns: columns}
	for _, row := range rows {
		cells := make([]domain.Cell, len(row))
		for i, v := range row {
			cells[i] = domain.Cell{Numeric: true, Number: v}
		}
		out.Rows = append(out.Rows, cells)
	}
	return out
}

func TestSummarizeNumericStats(t *testing.T) {
	s := New()
	table := numericTable([]string{"x"}, [][]float64{{1}, {2}, {3}, {4}})

	summary := s.Summarize(table)
	if len(summary.Stats) != 1 {
		t.Fatalf("expected 1 column stats, got %d", len(summary.Stats))
	}
	st := summary.Stats[0]
	if st.Kind != domain.ColumnNumeric {
		t.Fatalf("expected numeric column, got %s", st.Kind)
	}
	if st.Mean != 2.5 || st.Median != 2.5 || st.Min != 1 || st.Max != 4 {
		t.Fatalf("unexpected stats: %+v", st)
	}
	if !strings.Contains(summary.Narrative, "4 rows and 1 columns") {
		t.Fatalf("narrative missing counts: %q", summary.Narrative)
	}
}

func TestSummarizeCategoricalTieBreaksByFirstSeen(t *testing.T) {
	s := New()
	table := domain.TabularValue{
		Columns: []string{"label"},
		Rows: [][]domain.Cell{
			{{Text: "b"}},
			{{Text: "a"}},
			{{Text: "a"}},
			{{Text: "b"}},
		},
	}

	summary := s.Summarize(table)
	st := summary.Stats[0]
	if st.Kind != domain.ColumnCategorical {
		t.Fatalf("expected categorical column, got %s", st.Kind)
	}
	if st.DistinctCount != 2 {
		t.Fatalf("expected 2 distinct values, got %d", st.DistinctCount)
	}
	if st.MostFrequent != "b" {
		t.Fatalf("tie must break by first-encountered order, got %q", st.MostFrequent)
	}
}

func TestSummarizeZeroRowsOmitsStats(t *testing.T) {
	s := New()
	table := domain.TabularValue{Columns: []string{"x", "y"}}

	summary := s.Summarize(table)
	if len(summary.Stats) != 0 {
		t.Fatalf("expected no stats for empty table, got %+v", summary.Stats)
	}
	if summary.RowCount != 0 || summary.ColumnCount != 2 {
		t.Fatalf("unexpected counts: %+v", summary)
	}
}

func TestSummarizeNoNumericColumnsNoInsights(t *testing.T) {
	s := New()
	table := domain.TabularValue{
		Columns: []string{"a", "b"},
		Rows: [][]domain.Cell{
			{{Text: "x"}, {Text: "y"}},
		},
	}

	summary := s.Summarize(table)
	if len(summary.Insights) != 0 {
		t.Fatalf("expected no insights, got %v", summary.Insights)
	}
	for _, st := range summary.Stats {
		if st.Kind == domain.ColumnNumeric {
			t.Fatalf("reported numeric stats for categorical table: %+v", st)
		}
	}
}

func TestSummarizePerfectCorrelationInsight(t *testing.T) {
	s := New()
	table := numericTable([]string{"x", "y"}, [][]float64{{1, 2}, {3, 6}, {5, 10}})

	summary := s.Summarize(table)
	if len(summary.Insights) != 1 {
		t.Fatalf("expected 1 insight, got %v", summary.Insights)
	}
	insight := summary.Insights[0]
	if !strings.Contains(insight, `"x"`) || !strings.Contains(insight, `"y"`) {
		t.Fatalf("insight must name the pair, got %q", insight)
	}
	if !strings.Contains(insight, "positive") || !strings.Contains(insight, "1.00") {
		t.Fatalf("insight must state direction and coefficient, got %q", insight)
	}
}

func TestSummarizeNegativeCorrelation(t *testing.T) {
	s := New()
	table := numericTable([]string{"up", "down"}, [][]float64{{1, 9}, {2, 5}, {3, 1}})

	summary := s.Summarize(table)
	if len(summary.Insights) != 1 || !strings.Contains(summary.Insights[0], "negative") {
		t.Fatalf("expected negative correlation insight, got %v", summary.Insights)
	}
}

func TestParsePipeDelimited(t *testing.T) {
	raw := "| name | score |\n|---|---|\n| alpha | 1 |\n| beta | 2 |"

	table, err := Parse(raw)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if table.ColumnCount() != 2 || table.RowCount() != 2 {
		t.Fatalf("unexpected shape: %dx%d", table.RowCount(), table.ColumnCount())
	}
	if !table.Rows[0][1].Numeric || table.Rows[0][1].Number != 1 {
		t.Fatalf("expected numeric cell, got %+v", table.Rows[0][1])
	}
	if table.Rows[1][0].Numeric {
		t.Fatalf("expected categorical cell, got %+v", table.Rows[1][0])
	}
}

func TestParseWhitespaceDelimited(t *testing.T) {
	raw := "name    score\nalpha   1\nbeta    2"

	table, err := Parse(raw)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if table.Columns[0] != "name" || table.Columns[1] != "score" {
		t.Fatalf("unexpected columns: %v", table.Columns)
	}
}

func TestParseMalformedRowFails(t *testing.T) {
	raw := "| a | b |\n| 1 | 2 |\n| 3 |"

	if _, err := Parse(raw); err == nil {
		t.Fatalf("expected parse error for ragged rows")
	}
}

func TestParseEmptyRegionFails(t *testing.T) {
	if _, err := Parse("  \n \n"); err == nil {
		t.Fatalf("expected parse error for empty region")
	}
}
