package dataset

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatFloat renders a float the way users expect in tables: whole numbers
// without a decimal point, everything else with up to two decimals.
func FormatFloat(v float64) string {
	if v == float64(int64(v)) && v < 1e15 && v > -1e15 {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// FormatTable renders up to maxRows rows as an aligned plain-text table.
// maxRows <= 0 renders everything.
func FormatTable(t *Table, maxRows int) string {
	if t == nil || t.NumRows() == 0 {
		return "(empty)"
	}
	n := t.NumRows()
	if maxRows > 0 && maxRows < n {
		n = maxRows
	}
	headers := t.ColumnNames()
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	cells := make([][]string, n)
	for r := 0; r < n; r++ {
		row := make([]string, len(t.cols))
		for ci, c := range t.cols {
			v := c.CellString(r)
			if len(v) > 40 {
				v = v[:37] + "..."
			}
			row[ci] = v
			if len(v) > widths[ci] {
				widths[ci] = len(v)
			}
		}
		cells[r] = row
	}

	var b strings.Builder
	for i, h := range headers {
		if i > 0 {
			b.WriteString("  ")
		}
		b.WriteString(pad(h, widths[i]))
	}
	b.WriteByte('\n')
	for _, row := range cells {
		for i, v := range row {
			if i > 0 {
				b.WriteString("  ")
			}
			b.WriteString(pad(v, widths[i]))
		}
		b.WriteByte('\n')
	}
	return strings.TrimRight(b.String(), "\n")
}

// FormatPairs renders ordered key/value lines with aligned keys.
func FormatPairs(keys []string, values []any) string {
	w := 0
	for _, k := range keys {
		if len(k) > w {
			w = len(k)
		}
	}
	var b strings.Builder
	for i, k := range keys {
		b.WriteString(pad(k, w))
		b.WriteString("    ")
		b.WriteString(formatValue(values[i]))
		if i < len(keys)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func formatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case float64:
		return FormatFloat(x)
	case int:
		return strconv.Itoa(x)
	case string:
		return x
	default:
		return fmt.Sprintf("%v", x)
	}
}

func pad(s string, w int) string {
	if len(s) >= w {
		return s
	}
	return s + strings.Repeat(" ", w-len(s))
}
