package dataset

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// DType enum untuk tipe kolom
type DType string

const (
	Numeric     DType = "numeric"
	Categorical DType = "categorical"
	Datetime    DType = "datetime"
)

// Column is a typed, positionally aligned column. Exactly one of the value
// slices is populated depending on Type; Valid marks non-missing cells.
type Column struct {
	Name    string
	Type    DType
	Floats  []float64
	Strings []string
	Times   []time.Time
	Valid   []bool
}

func (c *Column) Len() int {
	return len(c.Valid)
}

// NullCount returns the number of missing cells.
func (c *Column) NullCount() int {
	n := 0
	for _, v := range c.Valid {
		if !v {
			n++
		}
	}
	return n
}

// FloatAt returns the numeric value at row i, false when missing or non-numeric.
func (c *Column) FloatAt(i int) (float64, bool) {
	if c.Type != Numeric || i < 0 || i >= len(c.Valid) || !c.Valid[i] {
		return 0, false
	}
	return c.Floats[i], true
}

// StringAt returns the categorical value at row i, false when missing.
func (c *Column) StringAt(i int) (string, bool) {
	if c.Type != Categorical || i < 0 || i >= len(c.Valid) || !c.Valid[i] {
		return "", false
	}
	return c.Strings[i], true
}

// TimeAt returns the datetime value at row i, false when missing.
func (c *Column) TimeAt(i int) (time.Time, bool) {
	if c.Type != Datetime || i < 0 || i >= len(c.Valid) || !c.Valid[i] {
		return time.Time{}, false
	}
	return c.Times[i], true
}

// DropNull returns the non-missing numeric values in row order.
func (c *Column) DropNull() []float64 {
	out := make([]float64, 0, len(c.Floats))
	for i, ok := range c.Valid {
		if ok && c.Type == Numeric {
			out = append(out, c.Floats[i])
		}
	}
	return out
}

// DropNullStrings returns the non-missing values rendered as strings, in row order.
func (c *Column) DropNullStrings() []string {
	out := make([]string, 0, c.Len())
	for i, ok := range c.Valid {
		if !ok {
			continue
		}
		out = append(out, c.CellString(i))
	}
	return out
}

// CellString renders the cell at row i for display. Missing cells render as "".
func (c *Column) CellString(i int) string {
	if i < 0 || i >= len(c.Valid) || !c.Valid[i] {
		return ""
	}
	switch c.Type {
	case Numeric:
		return FormatFloat(c.Floats[i])
	case Datetime:
		return c.Times[i].Format("2006-01-02")
	default:
		return c.Strings[i]
	}
}

// CellValue returns the cell as a JSON-friendly value; nil when missing.
func (c *Column) CellValue(i int) any {
	if i < 0 || i >= len(c.Valid) || !c.Valid[i] {
		return nil
	}
	switch c.Type {
	case Numeric:
		return c.Floats[i]
	case Datetime:
		return c.Times[i].Format(time.RFC3339)
	default:
		return c.Strings[i]
	}
}

// Unique returns distinct non-missing values in first-seen order.
func (c *Column) Unique() []string {
	seen := make(map[string]bool)
	var out []string
	for i, ok := range c.Valid {
		if !ok {
			continue
		}
		v := c.CellString(i)
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}

// ValueCount is a value with its occurrence count.
type ValueCount struct {
	Value string
	Count int
}

// ValueCounts returns value frequencies sorted by count desc, ties by first
// appearance, matching value_counts semantics closely enough for display.
func (c *Column) ValueCounts() []ValueCount {
	counts := make(map[string]int)
	order := make(map[string]int)
	next := 0
	for i, ok := range c.Valid {
		if !ok {
			continue
		}
		v := c.CellString(i)
		if _, seen := counts[v]; !seen {
			order[v] = next
			next++
		}
		counts[v]++
	}
	out := make([]ValueCount, 0, len(counts))
	for v, n := range counts {
		out = append(out, ValueCount{Value: v, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return order[out[i].Value] < order[out[j].Value]
	})
	return out
}

func (c *Column) clone() *Column {
	cp := &Column{Name: c.Name, Type: c.Type}
	cp.Valid = append([]bool(nil), c.Valid...)
	cp.Floats = append([]float64(nil), c.Floats...)
	cp.Strings = append([]string(nil), c.Strings...)
	cp.Times = append([]time.Time(nil), c.Times...)
	return cp
}

// Table is an immutable, ordered collection of aligned columns. Every
// derived result copies out of the table; nothing mutates it after New.
type Table struct {
	name   string
	cols   []*Column
	byName map[string]*Column
	rows   int
}

// New validates column alignment and builds a Table.
func New(name string, cols []*Column) (*Table, error) {
	t := &Table{name: name, byName: make(map[string]*Column, len(cols))}
	for _, c := range cols {
		if c == nil || c.Name == "" {
			return nil, fmt.Errorf("dataset: column without a name")
		}
		if _, dup := t.byName[c.Name]; dup {
			return nil, fmt.Errorf("dataset: duplicate column %q", c.Name)
		}
		if len(t.cols) > 0 && c.Len() != t.rows {
			return nil, fmt.Errorf("dataset: column %q has %d rows, want %d", c.Name, c.Len(), t.rows)
		}
		t.rows = c.Len()
		t.cols = append(t.cols, c)
		t.byName[c.Name] = c
	}
	return t, nil
}

func (t *Table) Name() string { return t.name }

func (t *Table) NumRows() int { return t.rows }

func (t *Table) NumCols() int { return len(t.cols) }

// Columns returns the columns in declaration order.
func (t *Table) Columns() []*Column { return t.cols }

// ColumnNames returns the column names in declaration order.
func (t *Table) ColumnNames() []string {
	out := make([]string, len(t.cols))
	for i, c := range t.cols {
		out[i] = c.Name
	}
	return out
}

// Column looks a column up by exact name.
func (t *Table) Column(name string) (*Column, bool) {
	c, ok := t.byName[name]
	return c, ok
}

func (t *Table) typedNames(dt DType) []string {
	var out []string
	for _, c := range t.cols {
		if c.Type == dt {
			out = append(out, c.Name)
		}
	}
	return out
}

func (t *Table) NumericColumns() []string { return t.typedNames(Numeric) }

func (t *Table) CategoricalColumns() []string { return t.typedNames(Categorical) }

func (t *Table) DatetimeColumns() []string { return t.typedNames(Datetime) }

// Row materializes row i as a column-name → value map.
func (t *Table) Row(i int) map[string]any {
	m := make(map[string]any, len(t.cols))
	for _, c := range t.cols {
		m[c.Name] = c.CellValue(i)
	}
	return m
}

// Rows materializes the given row indices.
func (t *Table) Rows(idx []int) []map[string]any {
	out := make([]map[string]any, 0, len(idx))
	for _, i := range idx {
		out = append(out, t.Row(i))
	}
	return out
}

// Head returns the first n rows (fewer when the table is small).
func (t *Table) Head(n int) []map[string]any {
	if n > t.rows {
		n = t.rows
	}
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	return t.Rows(idx)
}

// Select builds a new table containing only the given row indices, in order.
func (t *Table) Select(idx []int) *Table {
	cols := make([]*Column, len(t.cols))
	for ci, c := range t.cols {
		nc := &Column{Name: c.Name, Type: c.Type}
		for _, i := range idx {
			nc.Valid = append(nc.Valid, c.Valid[i])
			switch c.Type {
			case Numeric:
				nc.Floats = append(nc.Floats, c.Floats[i])
			case Datetime:
				nc.Times = append(nc.Times, c.Times[i])
			default:
				nc.Strings = append(nc.Strings, c.Strings[i])
			}
		}
		cols[ci] = nc
	}
	nt, _ := New(t.name, cols)
	return nt
}

// Project builds a new table keeping only the named columns, in the given order.
func (t *Table) Project(names []string) (*Table, error) {
	cols := make([]*Column, 0, len(names))
	for _, n := range names {
		c, ok := t.byName[n]
		if !ok {
			return nil, fmt.Errorf("dataset: no column %q", n)
		}
		cols = append(cols, c.clone())
	}
	return New(t.name, cols)
}

// Copy returns a deep copy. The sandbox always works on one of these so
// untrusted code can never touch the caller's table.
func (t *Table) Copy() *Table {
	cols := make([]*Column, len(t.cols))
	for i, c := range t.cols {
		cols[i] = c.clone()
	}
	nt, _ := New(t.name, cols)
	return nt
}

// OrderBy returns row indices sorted by the named numeric column.
// Missing values sort last either direction.
func (t *Table) OrderBy(name string, desc bool) []int {
	c := t.byName[name]
	idx := make([]int, t.rows)
	for i := range idx {
		idx[i] = i
	}
	if c == nil || c.Type != Numeric {
		return idx
	}
	sort.SliceStable(idx, func(a, b int) bool {
		va, oka := c.FloatAt(idx[a])
		vb, okb := c.FloatAt(idx[b])
		if oka != okb {
			return oka
		}
		if !oka {
			return false
		}
		if desc {
			return va > vb
		}
		return va < vb
	})
	return idx
}

// DuplicateRows counts rows whose full rendered content already appeared earlier.
func (t *Table) DuplicateRows() int {
	seen := make(map[string]bool, t.rows)
	dups := 0
	var b strings.Builder
	for i := 0; i < t.rows; i++ {
		b.Reset()
		for _, c := range t.cols {
			b.WriteString(c.CellString(i))
			b.WriteByte('\x1f')
		}
		key := b.String()
		if seen[key] {
			dups++
		} else {
			seen[key] = true
		}
	}
	return dups
}

// MissingTotal is the count of missing cells across the whole table.
func (t *Table) MissingTotal() int {
	n := 0
	for _, c := range t.cols {
		n += c.NullCount()
	}
	return n
}
