package tabular

import (
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strings"

	"github.com/voxpaper/paper-narrator/internal/core/domain"
)

const correlationThreshold = 0.7

// Summarizer maps one tabular value to per-column statistics, a narrative
// string and a list of insight strings. It never fails: any internal panic
// degrades to a minimal counts-only summary.
type Summarizer struct{}

func New() *Summarizer {
	return &Summarizer{}
}

func (s *Summarizer) Parse(raw string) (domain.TabularValue, error) {
	return Parse(raw)
}

func (s *Summarizer) Summarize(table domain.TabularValue) (summary domain.TableSummary) {
	defer func() {
		if r := recover(); r != nil {
			slog.Warn("table_summary_fallback", "reason", fmt.Sprint(r))
			summary = fallbackSummary(table)
		}
	}()

	summary = domain.TableSummary{
		RowCount:    table.RowCount(),
		ColumnCount: table.ColumnCount(),
	}

	sentences := []string{fmt.Sprintf(
		"The table has %d rows and %d columns.", summary.RowCount, summary.ColumnCount)}

	for col := range table.Columns {
		stats, described := describeColumn(table, col)
		if stats != nil {
			summary.Stats = append(summary.Stats, *stats)
		}
		if described != "" {
			sentences = append(sentences, described)
		}
	}

	summary.Narrative = strings.Join(sentences, " ")
	summary.Insights = correlationInsights(table)
	return summary
}

func fallbackSummary(table domain.TabularValue) domain.TableSummary {
	return domain.TableSummary{
		RowCount:    table.RowCount(),
		ColumnCount: table.ColumnCount(),
		Narrative: fmt.Sprintf(
			"The table has %d rows and %d columns.", table.RowCount(), table.ColumnCount()),
	}
}

// describeColumn classifies one column and produces its statistics and
// narrative sentence. Columns with zero rows yield neither.
func describeColumn(table domain.TabularValue, col int) (*domain.ColumnStats, string) {
	if table.RowCount() == 0 {
		return nil, ""
	}
	name := table.Columns[col]

	if values, ok := numericColumn(table, col); ok {
		st := numericStats(values)
		st.Name = name
		sentence := fmt.Sprintf(
			"Column %q ranges from %.2f to %.2f with a mean of %.2f.",
			name, st.Min, st.Max, st.Mean)
		return &st, sentence
	}

	st := categoricalStats(table, col)
	st.Name = name
	sentence := fmt.Sprintf(
		"Column %q has %d distinct values, most frequently %q.",
		name, st.DistinctCount, st.MostFrequent)
	return &st, sentence
}

func numericColumn(table domain.TabularValue, col int) ([]float64, bool) {
	values := make([]float64, 0, table.RowCount())
	for _, row := range table.Rows {
		if !row[col].Numeric {
			return nil, false
		}
		values = append(values, row[col].Number)
	}
	return values, len(values) > 0
}

func numericStats(values []float64) domain.ColumnStats {
	st := domain.ColumnStats{Kind: domain.ColumnNumeric}

	sum := 0.0
	st.Min, st.Max = values[0], values[0]
	for _, v := range values {
		sum += v
		st.Min = math.Min(st.Min, v)
		st.Max = math.Max(st.Max, v)
	}
	st.Mean = sum / float64(len(values))

	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		st.Median = (sorted[mid-1] + sorted[mid]) / 2
	} else {
		st.Median = sorted[mid]
	}

	variance := 0.0
	for _, v := range values {
		d := v - st.Mean
		variance += d * d
	}
	st.StdDev = math.Sqrt(variance / float64(len(values)))
	return st
}

// categoricalStats counts distinct values; frequency ties break by
// first-encountered order.
func categoricalStats(table domain.TabularValue, col int) domain.ColumnStats {
	counts := map[string]int{}
	var order []string
	for _, row := range table.Rows {
		v := row[col].Text
		if _, seen := counts[v]; !seen {
			order = append(order, v)
		}
		counts[v]++
	}

	best := ""
	bestCount := 0
	for _, v := range order {
		if counts[v] > bestCount {
			best, bestCount = v, counts[v]
		}
	}

	return domain.ColumnStats{
		Kind:          domain.ColumnCategorical,
		DistinctCount: len(counts),
		MostFrequent:  best,
	}
}

// correlationInsights reports every numeric column pair whose Pearson
// coefficient exceeds the threshold in absolute value. Pairs are visited in
// column order so output is reproducible.
func correlationInsights(table domain.TabularValue) []string {
	type numCol struct {
		name   string
		values []float64
	}
	var cols []numCol
	for col := range table.Columns {
		if values, ok := numericColumn(table, col); ok {
			cols = append(cols, numCol{name: table.Columns[col], values: values})
		}
	}
	if len(cols) < 2 {
		return nil
	}

	var insights []string
	for i := 0; i < len(cols); i++ {
		for j := i + 1; j < len(cols); j++ {
			r, ok := pearson(cols[i].values, cols[j].values)
			if !ok || math.Abs(r) <= correlationThreshold {
				continue
			}
			direction := "positive"
			if r < 0 {
				direction = "negative"
			}
			insights = append(insights, fmt.Sprintf(
				"Columns %q and %q show a strong %s correlation (%.2f).",
				cols[i].name, cols[j].name, direction, r))
		}
	}
	return insights
}

func pearson(xs, ys []float64) (float64, bool) {
	n := float64(len(xs))
	if len(xs) != len(ys) || len(xs) < 2 {
		return 0, false
	}

	var sumX, sumY float64
	for i := range xs {
		sumX += xs[i]
		sumY += ys[i]
	}
	meanX, meanY := sumX/n, sumY/n

	var cov, varX, varY float64
	for i := range xs {
		dx, dy := xs[i]-meanX, ys[i]-meanY
		cov += dx * dy
		varX += dx * dx
		varY += dy * dy
	}
	if varX == 0 || varY == 0 {
		return 0, false
	}
	return cov / math.Sqrt(varX*varY), true
}
