package profile

import (
	"strings"
	"testing"
	"time"

	"github.com/bryanwahyu/askdata/internal/domain/dataset"
)

func numericColumn(name string, vals []float64) *dataset.Column {
	valid := make([]bool, len(vals))
	for i := range valid {
		valid[i] = true
	}
	return &dataset.Column{Name: name, Type: dataset.Numeric, Floats: vals, Valid: valid}
}

func tableOf(t *testing.T, cols ...*dataset.Column) *dataset.Table {
	t.Helper()
	tab, err := dataset.New("fixture", cols)
	if err != nil {
		t.Fatalf("building table: %v", err)
	}
	return tab
}

func TestOutlierDetection(t *testing.T) {
	tab := tableOf(t, numericColumn("value", []float64{1, 2, 3, 4, 5, 100}))
	rep := Build(tab)

	st, ok := rep.Numeric("value")
	if !ok {
		t.Fatal("no stats for value")
	}
	if st.OutliersCount != 1 {
		t.Fatalf("outliers: got %d want 1", st.OutliersCount)
	}
	if st.OutliersPercentage == 0 {
		t.Fatal("outlier percentage should be set")
	}
}

func TestConstantColumnHasNoOutliers(t *testing.T) {
	tab := tableOf(t, numericColumn("value", []float64{1, 1, 1, 1, 1}))
	rep := Build(tab)

	st, ok := rep.Numeric("value")
	if !ok {
		t.Fatal("no stats for value")
	}
	// degenerate IQR disables Tukey's rule instead of flagging everything
	if st.OutliersCount != 0 {
		t.Fatalf("outliers: got %d want 0", st.OutliersCount)
	}
	if st.Mean != 1 || st.Median != 1 {
		t.Fatalf("mean/median: got %v/%v", st.Mean, st.Median)
	}
}

func TestSkewKurtosisNeedEnoughPoints(t *testing.T) {
	small := tableOf(t, numericColumn("v", []float64{1, 2}))
	rep := Build(small)
	st, _ := rep.Numeric("v")
	if st.Skewness != nil || st.Kurtosis != nil {
		t.Fatal("skew/kurtosis should be omitted for tiny samples")
	}

	big := tableOf(t, numericColumn("v", []float64{1, 2, 3, 4, 50}))
	rep = Build(big)
	st, _ = rep.Numeric("v")
	if st.Skewness == nil || st.Kurtosis == nil {
		t.Fatal("skew/kurtosis expected")
	}
	if *st.Skewness <= 0 {
		t.Fatalf("right tail should give positive skew, got %v", *st.Skewness)
	}
}

func TestCategoricalStats(t *testing.T) {
	tab := tableOf(t, &dataset.Column{
		Name:    "grade",
		Type:    dataset.Categorical,
		Strings: []string{"a", "b", "a", "c", "a", ""},
		Valid:   []bool{true, true, true, true, true, false},
	})
	rep := Build(tab)

	var st *CategoricalStats
	for _, it := range rep.CategoricalAnalysis {
		if it.Key == "grade" {
			st = it.Value.(*CategoricalStats)
		}
	}
	if st == nil {
		t.Fatal("no stats for grade")
	}
	if st.UniqueCount != 3 {
		t.Fatalf("unique: got %d", st.UniqueCount)
	}
	if st.NullCount != 1 {
		t.Fatalf("nulls: got %d", st.NullCount)
	}
	if st.MostCommon[0].Key != "a" || st.MostCommon[0].Value.(int) != 3 {
		t.Fatalf("most common: %+v", st.MostCommon[0])
	}
}

func TestDatetimeSpan(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	tab := tableOf(t, &dataset.Column{
		Name:  "created",
		Type:  dataset.Datetime,
		Times: []time.Time{base, base.AddDate(0, 0, 10), base.AddDate(0, 0, 3)},
		Valid: []bool{true, true, true},
	})
	rep := Build(tab)

	if len(rep.DatetimeAnalysis) != 1 {
		t.Fatalf("datetime entries: %d", len(rep.DatetimeAnalysis))
	}
	st := rep.DatetimeAnalysis[0].Value.(*DatetimeStats)
	if st.SpanDays != 10 {
		t.Fatalf("span: got %d want 10", st.SpanDays)
	}
	if st.Earliest != "2024-01-01 00:00:00" {
		t.Fatalf("earliest: %q", st.Earliest)
	}
}

func TestStrongCorrelationInsight(t *testing.T) {
	tab := tableOf(t,
		numericColumn("x", []float64{1, 2, 3, 4, 5}),
		numericColumn("y", []float64{2, 4, 6, 8, 10}),
	)
	rep := Build(tab)

	r, ok := rep.Corr("x", "y")
	if !ok {
		t.Fatal("missing correlation entry")
	}
	if r < 0.99 {
		t.Fatalf("perfectly linear columns: r=%v", r)
	}
	found := false
	for _, in := range rep.Insights {
		if in != "" && (containsAll(in, "correlation", "x", "y")) {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a strong-correlation insight, got %v", rep.Insights)
	}
}

func TestBuildIsDeterministic(t *testing.T) {
	vals := make([]float64, 200)
	for i := range vals {
		vals[i] = float64(i % 17)
	}
	tab := tableOf(t, numericColumn("v", vals))

	a := Build(tab)
	b := Build(tab)
	sa, _ := a.Numeric("v")
	sb, _ := b.Numeric("v")
	if sa.Mean != sb.Mean || sa.Std != sb.Std || sa.OutliersCount != sb.OutliersCount {
		t.Fatalf("profiles differ: %+v vs %+v", sa, sb)
	}
}

func TestOverviewCounts(t *testing.T) {
	tab := tableOf(t,
		numericColumn("v", []float64{1, 2, 2}),
		&dataset.Column{
			Name:    "label",
			Type:    dataset.Categorical,
			Strings: []string{"x", "y", "y"},
			Valid:   []bool{true, true, true},
		},
	)
	rep := Build(tab)

	ov := rep.DatasetOverview
	if ov.TotalRows != 3 || ov.TotalColumns != 2 {
		t.Fatalf("shape: %dx%d", ov.TotalRows, ov.TotalColumns)
	}
	if ov.DuplicateRows != 1 {
		t.Fatalf("duplicates: got %d want 1", ov.DuplicateRows)
	}
}

func containsAll(s string, subs ...string) bool {
	for _, sub := range subs {
		if !strings.Contains(s, sub) {
			return false
		}
	}
	return true
}
