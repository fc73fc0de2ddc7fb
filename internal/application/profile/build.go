package profile

import (
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/montanaflynn/stats"

	"github.com/bryanwahyu/askdata/internal/domain/answer"
	"github.com/bryanwahyu/askdata/internal/domain/dataset"
)

// sampleCap bounds per-column analysis cost on very large tables. Whole-table
// counts (rows, missing, duplicates) always use the full table.
const sampleCap = 10000

// sampleSeed keeps sampling deterministic so repeated profiles of the same
// table are identical.
const sampleSeed = 42

// Build profiles the table: per-column statistics, correlations, and the
// generated insight/recommendation lists. A failure in one column never
// aborts the report; it becomes an insight line and the column is omitted.
func Build(t *dataset.Table) *Report {
	rep := &Report{
		NumericAnalysis:     answer.Series{},
		CategoricalAnalysis: answer.Series{},
		DatetimeAnalysis:    answer.Series{},
		Correlations:        answer.Series{},
	}

	at := t
	sampled := false
	if t.NumRows() > sampleCap {
		idx := rand.New(rand.NewSource(sampleSeed)).Perm(t.NumRows())[:sampleCap]
		sort.Ints(idx)
		at = t.Select(idx)
		sampled = true
	}

	rep.DatasetOverview = buildOverview(t)

	for _, name := range t.NumericColumns() {
		st, err := numericStats(t, at, name)
		if err != nil {
			rep.Insights = append(rep.Insights, fmt.Sprintf("Could not analyze %s: %v", name, err))
			continue
		}
		if st == nil {
			continue // column is entirely null
		}
		rep.NumericAnalysis = append(rep.NumericAnalysis, answer.Item{Key: name, Value: st})
		if st.Skewness != nil {
			if sk := *st.Skewness; sk > 1 || sk < -1 {
				dir := "positive"
				if sk < 0 {
					dir = "negative"
				}
				rep.Insights = append(rep.Insights, fmt.Sprintf(
					"%s shows %s skewness (skew=%.2f), indicating a non-normal distribution.", name, dir, sk))
			}
		}
		if ac, _ := at.Column(name); st.OutliersCount > 0 &&
			float64(st.OutliersCount) > float64(len(ac.DropNull()))*0.05 {
			rep.Insights = append(rep.Insights, fmt.Sprintf(
				"%s has %d potential outliers (%.1f%% of data).", name, st.OutliersCount, st.OutliersPercentage))
		}
	}

	for _, name := range t.CategoricalColumns() {
		st, err := categoricalStats(t, at, name)
		if err != nil {
			rep.Insights = append(rep.Insights, fmt.Sprintf("Could not analyze categorical column %s: %v", name, err))
			continue
		}
		if st == nil {
			continue
		}
		rep.CategoricalAnalysis = append(rep.CategoricalAnalysis, answer.Item{Key: name, Value: st})
		switch {
		case st.UniqueCount == t.NumRows() && t.NumRows() > 0:
			rep.Insights = append(rep.Insights, fmt.Sprintf(
				"%s appears to be a unique identifier (all values are unique).", name))
		case st.UniqueCount > 1 && st.UniqueCount < 10:
			rep.Insights = append(rep.Insights, fmt.Sprintf(
				"%s has %d categories, suggesting it could be used for grouping/segmentation.", name, st.UniqueCount))
		case st.UniqueCount == 1:
			rep.Insights = append(rep.Insights, fmt.Sprintf(
				"%s has only one unique value - may not be useful for analysis.", name))
		}
	}

	for _, name := range t.DatetimeColumns() {
		st := datetimeStats(t, at, name)
		if st == nil {
			continue
		}
		rep.DatetimeAnalysis = append(rep.DatetimeAnalysis, answer.Item{Key: name, Value: st})
		rep.Insights = append(rep.Insights, fmt.Sprintf(
			"%s spans %d days from %s to %s.", name, st.SpanDays, st.Earliest, st.Latest))
	}

	numeric := t.NumericColumns()
	if len(numeric) > 1 {
		rep.Correlations = correlationMatrix(at, numeric)
		type pair struct {
			a, b string
			r    float64
		}
		var strong []pair
		for i, a := range numeric {
			for _, b := range numeric[i+1:] {
				if r, ok := rep.Corr(a, b); ok && (r > 0.7 || r < -0.7) {
					strong = append(strong, pair{a, b, r})
				}
			}
		}
		for i, p := range strong {
			if i >= 5 {
				break
			}
			dir := "positive"
			if p.r < 0 {
				dir = "negative"
			}
			rep.Insights = append(rep.Insights, fmt.Sprintf(
				"Strong %s correlation (%.2f) between %s and %s.", dir, p.r, p.a, p.b))
		}
	}

	rep.Recommendations = buildRecommendations(t, sampled)
	return rep
}

func buildOverview(t *dataset.Table) Overview {
	missing := make(answer.Series, 0, t.NumCols())
	var memBytes int
	for _, c := range t.Columns() {
		missing = append(missing, answer.Item{Key: c.Name, Value: c.NullCount()})
		switch c.Type {
		case dataset.Numeric, dataset.Datetime:
			memBytes += 8 * c.Len()
		default:
			for _, s := range c.Strings {
				memBytes += len(s) + 8
			}
		}
	}
	return Overview{
		TotalRows:     t.NumRows(),
		TotalColumns:  t.NumCols(),
		ColumnNames:   t.ColumnNames(),
		MissingValues: missing,
		DuplicateRows: t.DuplicateRows(),
		MemoryUsageMB: float64(memBytes) / (1024 * 1024),
	}
}

func numericStats(full, sample *dataset.Table, name string) (st *NumericStats, err error) {
	defer func() {
		if r := recover(); r != nil {
			st, err = nil, fmt.Errorf("%v", r)
		}
	}()

	sc, _ := sample.Column(name)
	vals := sc.DropNull()
	if len(vals) == 0 {
		return nil, nil
	}
	fc, _ := full.Column(name)
	nulls := fc.NullCount()

	st = &NumericStats{
		Mean:           statOr0(stats.Mean(vals)),
		Median:         statOr0(stats.Median(vals)),
		Min:            statOr0(stats.Min(vals)),
		Max:            statOr0(stats.Max(vals)),
		Q25:            statOr0(stats.Percentile(vals, 25)),
		Q75:            statOr0(stats.Percentile(vals, 75)),
		NullCount:      nulls,
		NullPercentage: pct(nulls, full.NumRows()),
	}
	if len(vals) > 1 {
		st.Std = statOr0(stats.StandardDeviationSample(vals))
	}
	if sk, ku, ok := dataset.SkewKurtosis(vals); ok {
		st.Skewness, st.Kurtosis = &sk, &ku
	}

	// Tukey's rule; needs enough points for meaningful quartiles and a
	// non-degenerate IQR
	if len(vals) > 4 {
		iqr := st.Q75 - st.Q25
		if iqr > 0 {
			lo := st.Q25 - 1.5*iqr
			hi := st.Q75 + 1.5*iqr
			for _, v := range vals {
				if v < lo || v > hi {
					st.OutliersCount++
				}
			}
			st.OutliersPercentage = pct(st.OutliersCount, len(vals))
		}
	}
	return st, nil
}

func categoricalStats(full, sample *dataset.Table, name string) (st *CategoricalStats, err error) {
	defer func() {
		if r := recover(); r != nil {
			st, err = nil, fmt.Errorf("%v", r)
		}
	}()

	sc, _ := sample.Column(name)
	values := sc.DropNullStrings()
	if len(values) == 0 {
		return nil, nil
	}
	fc, _ := full.Column(name)
	nulls := fc.NullCount()

	counts := sc.ValueCounts()
	most := make(answer.Series, 0, 10)
	for i, vc := range counts {
		if i >= 10 {
			break
		}
		most = append(most, answer.Item{Key: vc.Value, Value: vc.Count})
	}
	least := answer.Series{}
	if len(counts) > 5 {
		for _, vc := range counts[len(counts)-5:] {
			least = append(least, answer.Item{Key: vc.Value, Value: vc.Count})
		}
	}

	minLen, maxLen := len(values[0]), len(values[0])
	for _, v := range values[1:] {
		if len(v) < minLen {
			minLen = len(v)
		}
		if len(v) > maxLen {
			maxLen = len(v)
		}
	}

	return &CategoricalStats{
		UniqueCount:    len(sc.Unique()),
		MostCommon:     most,
		LeastCommon:    least,
		NullCount:      nulls,
		NullPercentage: pct(nulls, full.NumRows()),
		MaxLength:      maxLen,
		MinLength:      minLen,
	}, nil
}

func datetimeStats(full, sample *dataset.Table, name string) *DatetimeStats {
	sc, _ := sample.Column(name)
	var lo, hi time.Time
	seen := false
	for i := 0; i < sc.Len(); i++ {
		ts, ok := sc.TimeAt(i)
		if !ok {
			continue
		}
		if !seen {
			lo, hi = ts, ts
			seen = true
			continue
		}
		if ts.Before(lo) {
			lo = ts
		}
		if ts.After(hi) {
			hi = ts
		}
	}
	if !seen {
		return nil
	}
	fc, _ := full.Column(name)
	nulls := fc.NullCount()
	const layout = "2006-01-02 15:04:05"
	return &DatetimeStats{
		Earliest:       lo.Format(layout),
		Latest:         hi.Format(layout),
		SpanDays:       int(hi.Sub(lo).Hours() / 24),
		NullCount:      nulls,
		NullPercentage: pct(nulls, full.NumRows()),
	}
}

func correlationMatrix(t *dataset.Table, numeric []string) answer.Series {
	out := make(answer.Series, 0, len(numeric))
	for _, a := range numeric {
		row := make(answer.Series, 0, len(numeric))
		for _, b := range numeric {
			row = append(row, answer.Item{Key: b, Value: dataset.Pearson(t, a, b)})
		}
		out = append(out, answer.Item{Key: a, Value: row})
	}
	return out
}

func buildRecommendations(t *dataset.Table, sampled bool) []string {
	var recs []string
	numeric := t.NumericColumns()
	categorical := t.CategoricalColumns()

	if len(numeric) > 0 && len(categorical) > 0 {
		recs = append(recs, "Consider analyzing relationships between numeric and categorical variables using groupby operations.")
	}
	if missing := t.MissingTotal(); missing > 0 {
		recs = append(recs, fmt.Sprintf(
			"Dataset contains %d missing values (%.1f%%). Consider data cleaning or imputation strategies.",
			missing, pct(missing, t.NumRows()*t.NumCols())))
	}
	if sampled {
		recs = append(recs, fmt.Sprintf(
			"Large dataset detected (%d rows). Analysis was performed on a sample of %d rows for performance.",
			t.NumRows(), sampleCap))
	}
	if t.NumCols() > 50 {
		recs = append(recs, fmt.Sprintf(
			"Dataset has many columns (%d). Consider focusing on specific columns for deeper analysis.", t.NumCols()))
	}
	if len(t.DatetimeColumns()) > 0 {
		recs = append(recs, "Date/time columns detected. Consider time-series analysis or temporal grouping.")
	}
	if dup := t.DuplicateRows(); dup > 0 {
		recs = append(recs, fmt.Sprintf(
			"Dataset contains %d duplicate rows (%.1f%%). Consider removing duplicates if not needed.",
			dup, pct(dup, t.NumRows())))
	}
	return recs
}

func pct(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(n) / float64(total) * 100
}

func statOr0(v float64, err error) float64 {
	if err != nil {
		return 0
	}
	return v
}
