package tabular

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/voxpaper/paper-narrator/internal/core/domain"
)

var (
	separatorLine = regexp.MustCompile(`^[\s|+:=-]+$`)
	multiSpace    = regexp.MustCompile(`\s{2,}`)
)

// Parse turns one raw table region into a TabularValue. The first data line
// is the header. Rows whose field count disagrees with the header are a parse
// failure; the caller downgrades that to a placeholder summary.
func Parse(raw string) (domain.TabularValue, error) {
	var lines []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || separatorLine.MatchString(line) {
			continue
		}
		lines = append(lines, line)
	}
	if len(lines) < 2 {
		return domain.TabularValue{}, errors.New("region has no header and data rows")
	}

	split := splitterFor(lines[0])
	columns := split(lines[0])
	if len(columns) < 2 {
		return domain.TabularValue{}, errors.New("fewer than two columns detected")
	}

	rows := make([][]domain.Cell, 0, len(lines)-1)
	for _, line := range lines[1:] {
		fields := split(line)
		if len(fields) != len(columns) {
			return domain.TabularValue{}, fmt.Errorf(
				"malformed delimiters: row has %d fields, header has %d", len(fields), len(columns))
		}
		row := make([]domain.Cell, len(fields))
		for i, f := range fields {
			row[i] = typeCell(f)
		}
		rows = append(rows, row)
	}

	return domain.TabularValue{Columns: columns, Rows: rows}, nil
}

func splitterFor(header string) func(string) []string {
	switch {
	case strings.Contains(header, "|"):
		return func(line string) []string {
			return trimFields(strings.Split(strings.Trim(line, "|"), "|"))
		}
	case strings.Contains(header, "\t"):
		return func(line string) []string {
			return trimFields(strings.Split(line, "\t"))
		}
	default:
		return func(line string) []string {
			return trimFields(multiSpace.Split(line, -1))
		}
	}
}

func trimFields(fields []string) []string {
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.TrimSpace(f)
		if f != "" {
			out = append(out, f)
		}
	}
	return out
}

func typeCell(field string) domain.Cell {
	cleaned := strings.ReplaceAll(field, ",", "")
	cleaned = strings.TrimSuffix(cleaned, "%")
	if n, err := strconv.ParseFloat(cleaned, 64); err == nil {
		return domain.Cell{Numeric: true, Number: n, Text: field}
	}
	return domain.Cell{Text: field}
}
