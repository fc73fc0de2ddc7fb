// Package profile builds the structural and statistical report for a loaded
// table. The report doubles as the overview answer and as context for the
// model prompt.
package profile

import (
	"github.com/bryanwahyu/askdata/internal/domain/answer"
)

// Report is the full analysis of one table. Built fresh per request, never
// cached across requests.
type Report struct {
	DatasetOverview     Overview      `json:"dataset_overview"`
	NumericAnalysis     answer.Series `json:"numeric_analysis"`     // column -> *NumericStats
	CategoricalAnalysis answer.Series `json:"categorical_analysis"` // column -> *CategoricalStats
	DatetimeAnalysis    answer.Series `json:"datetime_analysis"`    // column -> *DatetimeStats
	Correlations        answer.Series `json:"correlations"`         // column -> Series(column -> r)
	Insights            []string      `json:"insights"`
	Recommendations     []string      `json:"recommendations"`
}

// Overview holds whole-table counts, always computed on the full table even
// when per-column analysis ran on a sample.
type Overview struct {
	TotalRows     int           `json:"total_rows"`
	TotalColumns  int           `json:"total_columns"`
	ColumnNames   []string      `json:"column_names"`
	MissingValues answer.Series `json:"missing_values"` // column -> null count
	DuplicateRows int           `json:"duplicate_rows"`
	MemoryUsageMB float64       `json:"memory_usage_mb"`
}

type NumericStats struct {
	Mean               float64  `json:"mean"`
	Median             float64  `json:"median"`
	Std                float64  `json:"std"`
	Min                float64  `json:"min"`
	Max                float64  `json:"max"`
	Q25                float64  `json:"q25"`
	Q75                float64  `json:"q75"`
	Skewness           *float64 `json:"skewness"`
	Kurtosis           *float64 `json:"kurtosis"`
	OutliersCount      int      `json:"outliers_count"`
	OutliersPercentage float64  `json:"outliers_percentage"`
	NullCount          int      `json:"null_count"`
	NullPercentage     float64  `json:"null_percentage"`
}

type CategoricalStats struct {
	UniqueCount    int           `json:"unique_count"`
	MostCommon     answer.Series `json:"most_common"`  // top 10 by frequency
	LeastCommon    answer.Series `json:"least_common"` // bottom 5, empty when <=5 distinct
	NullCount      int           `json:"null_count"`
	NullPercentage float64       `json:"null_percentage"`
	MaxLength      int           `json:"max_length"`
	MinLength      int           `json:"min_length"`
}

type DatetimeStats struct {
	Earliest       string  `json:"earliest"`
	Latest         string  `json:"latest"`
	SpanDays       int     `json:"span_days"`
	NullCount      int     `json:"null_count"`
	NullPercentage float64 `json:"null_percentage"`
}

// Corr looks up one cell of the correlation matrix.
func (r *Report) Corr(a, b string) (float64, bool) {
	for _, row := range r.Correlations {
		if row.Key != a {
			continue
		}
		inner, ok := row.Value.(answer.Series)
		if !ok {
			return 0, false
		}
		for _, cell := range inner {
			if cell.Key == b {
				v, ok := cell.Value.(float64)
				return v, ok
			}
		}
	}
	return 0, false
}

// Numeric looks up the stats for one numeric column.
func (r *Report) Numeric(col string) (*NumericStats, bool) {
	for _, it := range r.NumericAnalysis {
		if it.Key == col {
			st, ok := it.Value.(*NumericStats)
			return st, ok
		}
	}
	return nil, false
}
