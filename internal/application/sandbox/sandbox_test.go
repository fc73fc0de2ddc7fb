package sandbox

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/bryanwahyu/askdata/internal/domain/answer"
	"github.com/bryanwahyu/askdata/internal/domain/dataset"
)

func sampleTable(t *testing.T) *dataset.Table {
	t.Helper()
	cols := []*dataset.Column{
		{
			Name:   "age",
			Type:   dataset.Numeric,
			Floats: []float64{10, 20, 30},
			Valid:  []bool{true, true, true},
		},
		{
			Name:    "city",
			Type:    dataset.Categorical,
			Strings: []string{"bandung", "jakarta", "bandung"},
			Valid:   []bool{true, true, true},
		},
		{
			Name:   "score",
			Type:   dataset.Numeric,
			Floats: []float64{1, 2, 3},
			Valid:  []bool{true, true, true},
		},
	}
	tab, err := dataset.New("sample", cols)
	if err != nil {
		t.Fatalf("building table: %v", err)
	}
	return tab
}

func TestRejectsDangerousCode(t *testing.T) {
	for _, code := range []string{
		"import os",
		"__import__('os')",
		"eval('1+1')",
		"open('/etc/passwd')",
		"df.__class__",
	} {
		res, text := Execute(sampleTable(t), code)
		if res != nil {
			t.Fatalf("%q: expected rejection, got %+v", code, res)
		}
		if !strings.HasPrefix(text, "Security:") {
			t.Fatalf("%q: expected security message, got %q", code, text)
		}
	}
}

func TestSanitizeTruncatesAndStripsControlChars(t *testing.T) {
	out := Sanitize("df\x00['age']\x07", 0)
	if out != "df['age']" {
		t.Fatalf("control chars: got %q", out)
	}
	long := strings.Repeat("a", MaxCodeLength+100)
	if got := Sanitize(long, MaxCodeLength); len(got) != MaxCodeLength {
		t.Fatalf("truncation: got %d chars", len(got))
	}

	// the cap never splits a multibyte rune
	straddle := strings.Repeat("a", MaxCodeLength-1) + "éé"
	got := Sanitize(straddle, MaxCodeLength)
	if !utf8.ValidString(got) {
		t.Fatalf("truncation split a rune: %q", got[len(got)-4:])
	}
	if len(got) != MaxCodeLength-1 {
		t.Fatalf("rune-boundary cut: got %d bytes", len(got))
	}
}

func TestScalarMean(t *testing.T) {
	res, _ := Execute(sampleTable(t), "df['age'].mean()")
	if res == nil {
		t.Fatal("nil result")
	}
	if res.Type != answer.TypeScalar {
		t.Fatalf("type: %v", res.Type)
	}
	if res.Value.(float64) != 20 {
		t.Fatalf("mean: got %v", res.Value)
	}
}

func TestStripsCodeFences(t *testing.T) {
	res, _ := Execute(sampleTable(t), "```python\ndf['age'].sum()\n```")
	if res == nil {
		t.Fatal("nil result")
	}
	if res.Value.(float64) != 60 {
		t.Fatalf("sum: got %v", res.Value)
	}
}

func TestMultiStatementUsesResult(t *testing.T) {
	code := "x = df['age'].max()\ny = df['age'].min()\nresult = x - y"
	res, _ := Execute(sampleTable(t), code)
	if res == nil {
		t.Fatal("nil result")
	}
	if res.Value.(float64) != 20 {
		t.Fatalf("range: got %v", res.Value)
	}
}

func TestMultiStatementWithoutResultFails(t *testing.T) {
	code := "x = df['age'].max()\ny = df['age'].min()"
	res, text := Execute(sampleTable(t), code)
	if res != nil {
		t.Fatalf("expected failure, got %+v", res)
	}
	if !strings.Contains(text, "result") {
		t.Fatalf("message should mention the result variable: %q", text)
	}
}

func TestMaskFilter(t *testing.T) {
	res, _ := Execute(sampleTable(t), "df[df['age'] > 15]")
	if res == nil {
		t.Fatal("nil result")
	}
	if res.Type != answer.TypeDataframe {
		t.Fatalf("type: %v", res.Type)
	}
	rows := res.Value.([]map[string]any)
	if len(rows) != 2 {
		t.Fatalf("rows: got %d want 2", len(rows))
	}
	if rows[0]["age"].(float64) != 20 {
		t.Fatalf("first row: %v", rows[0])
	}
}

func TestGroupByMean(t *testing.T) {
	res, _ := Execute(sampleTable(t), "df.groupby('city')['age'].mean()")
	if res == nil {
		t.Fatal("nil result")
	}
	if res.Type != answer.TypeSeries {
		t.Fatalf("type: %v", res.Type)
	}
	s := res.Value.(answer.Series)
	got := map[string]float64{}
	for _, it := range s {
		got[it.Key] = it.Value.(float64)
	}
	if got["bandung"] != 20 {
		t.Fatalf("bandung mean: got %v", got["bandung"])
	}
	if got["jakarta"] != 20 {
		t.Fatalf("jakarta mean: got %v", got["jakarta"])
	}
}

func TestValueCounts(t *testing.T) {
	res, _ := Execute(sampleTable(t), "df['city'].value_counts()")
	if res == nil {
		t.Fatal("nil result")
	}
	s := res.Value.(answer.Series)
	if len(s) != 2 {
		t.Fatalf("entries: got %d", len(s))
	}
	// most frequent first
	if s[0].Key != "bandung" || s[0].Value.(float64) != 2 {
		t.Fatalf("top entry: %+v", s[0])
	}
}

func TestSortAndHead(t *testing.T) {
	res, _ := Execute(sampleTable(t), "df.sort_values('age', ascending=False).head(2)")
	if res == nil {
		t.Fatal("nil result")
	}
	rows := res.Value.([]map[string]any)
	if len(rows) != 2 || rows[0]["age"].(float64) != 30 {
		t.Fatalf("rows: %v", rows)
	}
}

func TestNlargest(t *testing.T) {
	res, _ := Execute(sampleTable(t), "df.nlargest(2, 'score')")
	if res == nil {
		t.Fatal("nil result")
	}
	rows := res.Value.([]map[string]any)
	if len(rows) != 2 || rows[0]["score"].(float64) != 3 {
		t.Fatalf("rows: %v", rows)
	}
}

func TestArithmeticOnSeries(t *testing.T) {
	res, _ := Execute(sampleTable(t), "(df['age'] * 2).sum()")
	if res == nil {
		t.Fatal("nil result")
	}
	if res.Value.(float64) != 120 {
		t.Fatalf("sum: got %v", res.Value)
	}
}

func TestLenBuiltin(t *testing.T) {
	res, _ := Execute(sampleTable(t), "len(df)")
	if res == nil {
		t.Fatal("nil result")
	}
	if res.Value.(float64) != 3 {
		t.Fatalf("len: got %v", res.Value)
	}
}

func TestCorrMatrix(t *testing.T) {
	res, _ := Execute(sampleTable(t), "df[['age','score']].corr()")
	if res == nil {
		t.Fatal("nil result")
	}
	if res.Type != answer.TypeDataframe {
		t.Fatalf("type: %v", res.Type)
	}
	rows := res.Value.([]map[string]any)
	if len(rows) != 2 {
		t.Fatalf("rows: got %d want 2", len(rows))
	}
	if rows[0]["column"] != "age" {
		t.Fatalf("first row: %v", rows[0])
	}
	// age and score move together in the fixture
	if v := rows[0]["score"].(float64); v < 0.99 {
		t.Fatalf("age/score correlation: got %v", v)
	}
	if v := rows[1]["score"].(float64); v < 0.99 {
		t.Fatalf("score diagonal: got %v", v)
	}
}

func TestSeriesVariance(t *testing.T) {
	res, _ := Execute(sampleTable(t), "df['age'].var()")
	if res == nil {
		t.Fatal("nil result")
	}
	if res.Value.(float64) != 100 {
		t.Fatalf("variance: got %v", res.Value)
	}
}

// to_dict/to_string are accepted as identity, rendering happens afterwards.
func TestRendererMethodsAreIdentity(t *testing.T) {
	res, _ := Execute(sampleTable(t), "df['city'].value_counts().to_dict()")
	if res == nil {
		t.Fatal("nil result")
	}
	s := res.Value.(answer.Series)
	if len(s) != 2 || s[0].Key != "bandung" {
		t.Fatalf("series: %+v", s)
	}

	res, _ = Execute(sampleTable(t), "df.head(2).to_string()")
	if res == nil {
		t.Fatal("nil result")
	}
	if rows := res.Value.([]map[string]any); len(rows) != 2 {
		t.Fatalf("rows: %v", rows)
	}
}

func TestSyntaxErrorDoesNotPanic(t *testing.T) {
	res, text := Execute(sampleTable(t), "df[['")
	if res != nil {
		t.Fatalf("expected failure, got %+v", res)
	}
	if text == "" {
		t.Fatal("expected an error message")
	}
}

func TestUnknownColumnFails(t *testing.T) {
	res, text := Execute(sampleTable(t), "df['missing'].mean()")
	if res != nil {
		t.Fatalf("expected failure, got %+v", res)
	}
	if !strings.Contains(text, "missing") {
		t.Fatalf("message should name the column: %q", text)
	}
}
