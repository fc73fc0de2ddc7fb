// Package csvload parses uploaded CSV files into typed columnar tables.
// Column types are inferred from a bounded sample of leading rows: a column
// where every sampled non-empty cell parses as a number is numeric, every
// cell parsing as a date makes it datetime, anything else is categorical.
package csvload

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/bryanwahyu/askdata/internal/domain/dataset"
)

// inferSample bounds how many leading data rows type inference looks at.
const inferSample = 20

var timeLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"01/02/2006",
	"02/01/2006",
	"2006/01/02",
	"Jan 2, 2006",
	"2 Jan 2006",
}

// Load parses CSV bytes into a table named after the upload.
func Load(name string, data []byte) (*dataset.Table, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parsing csv: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("csv has no header row")
	}

	header := records[0]
	rows := records[1:]
	cols := make([]*dataset.Column, len(header))

	for ci, rawName := range header {
		colName := strings.TrimSpace(rawName)
		if colName == "" {
			colName = fmt.Sprintf("column_%d", ci+1)
		}
		cells := make([]string, len(rows))
		for ri, rec := range rows {
			if ci < len(rec) {
				cells[ri] = strings.TrimSpace(rec[ci])
			}
		}
		cols[ci] = buildColumn(colName, cells)
	}

	return dataset.New(name, cols)
}

func buildColumn(name string, cells []string) *dataset.Column {
	switch inferType(cells) {
	case dataset.Numeric:
		c := &dataset.Column{Name: name, Type: dataset.Numeric}
		for _, cell := range cells {
			v, err := parseNumber(cell)
			ok := cell != "" && err == nil
			c.Floats = append(c.Floats, v)
			c.Valid = append(c.Valid, ok)
		}
		return c
	case dataset.Datetime:
		c := &dataset.Column{Name: name, Type: dataset.Datetime}
		for _, cell := range cells {
			ts, ok := parseTime(cell)
			c.Times = append(c.Times, ts)
			c.Valid = append(c.Valid, ok)
		}
		return c
	default:
		c := &dataset.Column{Name: name, Type: dataset.Categorical}
		for _, cell := range cells {
			c.Strings = append(c.Strings, cell)
			c.Valid = append(c.Valid, cell != "")
		}
		return c
	}
}

func inferType(cells []string) dataset.DType {
	sampled := 0
	numeric, datetime := true, true
	for _, cell := range cells {
		if cell == "" {
			continue
		}
		if sampled >= inferSample {
			break
		}
		sampled++
		if _, err := parseNumber(cell); err != nil {
			numeric = false
		}
		if _, ok := parseTime(cell); !ok {
			datetime = false
		}
		if !numeric && !datetime {
			return dataset.Categorical
		}
	}
	if sampled == 0 {
		return dataset.Categorical
	}
	if numeric {
		return dataset.Numeric
	}
	if datetime {
		return dataset.Datetime
	}
	return dataset.Categorical
}

func parseNumber(s string) (float64, error) {
	s = strings.ReplaceAll(s, ",", "")
	return strconv.ParseFloat(s, 64)
}

func parseTime(s string) (time.Time, bool) {
	for _, layout := range timeLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}
