package engine

import (
	"strings"
	"testing"

	"github.com/bryanwahyu/askdata/internal/domain/answer"
	"github.com/bryanwahyu/askdata/internal/domain/dataset"
)

func employeeTable(t *testing.T) *dataset.Table {
	t.Helper()
	cols := []*dataset.Column{
		{
			Name:    "name",
			Type:    dataset.Categorical,
			Strings: []string{"ana", "budi", "citra", "dewi", "eko", "fajar"},
			Valid:   []bool{true, true, true, true, true, true},
		},
		{
			Name:   "age",
			Type:   dataset.Numeric,
			Floats: []float64{25, 32, 41, 29, 35, 52},
			Valid:  []bool{true, true, true, true, true, true},
		},
		{
			Name:   "salary",
			Type:   dataset.Numeric,
			Floats: []float64{4000, 5200, 7100, 4800, 6100, 9000},
			Valid:  []bool{true, true, true, true, true, true},
		},
		{
			Name:    "department",
			Type:    dataset.Categorical,
			Strings: []string{"sales", "it", "it", "sales", "hr", "it"},
			Valid:   []bool{true, true, true, true, true, true},
		},
	}
	tab, err := dataset.New("employees", cols)
	if err != nil {
		t.Fatalf("building table: %v", err)
	}
	return tab
}

func TestFindColumnCaseInsensitive(t *testing.T) {
	columns := []string{"Name", "Salary", "Department"}
	if got := FindColumn(columns, "salary"); got != "Salary" {
		t.Fatalf("exact lowercase: got %q", got)
	}
	if got := FindColumn(columns, "SALARY"); got != "Salary" {
		t.Fatalf("uppercase: got %q", got)
	}
	if got := FindColumn(columns, "depart"); got != "Department" {
		t.Fatalf("substring: got %q", got)
	}
	if got := FindColumn(columns, "missing"); got != "" {
		t.Fatalf("expected empty for unknown fragment, got %q", got)
	}
}

func TestMatchColumnsSemantic(t *testing.T) {
	matched, tiers := MatchColumns("what is the average pay by team", []string{"salary", "department", "age"})
	found := map[string]bool{}
	for _, c := range matched {
		found[c] = true
	}
	if !found["salary"] {
		t.Fatalf("expected pay to resolve to salary, matched=%v", matched)
	}
	if !found["department"] {
		t.Fatalf("expected team to resolve to department, matched=%v", matched)
	}
	if tiers["salary"] != TierSemantic {
		t.Fatalf("expected semantic tier for salary, got %v", tiers["salary"])
	}
}

func TestAverage(t *testing.T) {
	env := New().Answer(employeeTable(t), "mean salary")
	if env.ResultType != answer.TypeScalar {
		t.Fatalf("result type: %v", env.ResultType)
	}
	got, ok := env.ResultData.(float64)
	if !ok {
		t.Fatalf("result data type: %T", env.ResultData)
	}
	want := (4000.0 + 5200 + 7100 + 4800 + 6100 + 9000) / 6
	if got != want {
		t.Fatalf("mean: got %v want %v", got, want)
	}
	if !strings.Contains(env.Explanation, "salary") {
		t.Fatalf("explanation should name the column: %q", env.Explanation)
	}
}

func TestMedian(t *testing.T) {
	env := New().Answer(employeeTable(t), "median age")
	if env.ResultType != answer.TypeScalar {
		t.Fatalf("result type: %v", env.ResultType)
	}
	if got := env.ResultData.(float64); got != 33.5 {
		t.Fatalf("median: got %v want 33.5", got)
	}
}

func TestMaxReturnsFullRecord(t *testing.T) {
	env := New().Answer(employeeTable(t), "who has the highest salary?")
	if env.ResultType != answer.TypeOther {
		t.Fatalf("result type: %v", env.ResultType)
	}
	data, ok := env.ResultData.(map[string]any)
	if !ok {
		t.Fatalf("result data type: %T", env.ResultData)
	}
	if data["value"].(float64) != 9000 {
		t.Fatalf("max value: got %v", data["value"])
	}
	rec, ok := data["record"].(map[string]any)
	if !ok {
		t.Fatalf("record type: %T", data["record"])
	}
	if rec["name"] != "fajar" {
		t.Fatalf("record should be the max row, got %v", rec)
	}
}

func TestTopNOrdering(t *testing.T) {
	env := New().Answer(employeeTable(t), "top 3 employees by salary")
	if env.ResultType != answer.TypeDataframe {
		t.Fatalf("result type: %v", env.ResultType)
	}
	rows, ok := env.ResultData.([]map[string]any)
	if !ok {
		t.Fatalf("result data type: %T", env.ResultData)
	}
	if len(rows) != 3 {
		t.Fatalf("rows: got %d want 3", len(rows))
	}
	wantOrder := []float64{9000, 7100, 6100}
	for i, w := range wantOrder {
		if rows[i]["salary"].(float64) != w {
			t.Fatalf("row %d salary: got %v want %v", i, rows[i]["salary"], w)
		}
	}
}

func TestTopNWithoutNumberDefaultsToFive(t *testing.T) {
	env := New().Answer(employeeTable(t), "show the top rows by age")
	rows, ok := env.ResultData.([]map[string]any)
	if !ok {
		t.Fatalf("result data type: %T", env.ResultData)
	}
	if len(rows) != 5 {
		t.Fatalf("rows: got %d want 5", len(rows))
	}
}

func TestCount(t *testing.T) {
	env := New().Answer(employeeTable(t), "how many rows are there?")
	if env.ResultType != answer.TypeScalar {
		t.Fatalf("result type: %v", env.ResultType)
	}
	if got := env.ResultData.(int); got != 6 {
		t.Fatalf("count: got %v want 6", got)
	}
}

func TestFilterGreaterThan(t *testing.T) {
	env := New().Answer(employeeTable(t), "show rows where age > 30")
	if env.ResultType != answer.TypeDataframe {
		t.Fatalf("result type: %v", env.ResultType)
	}
	rows, ok := env.ResultData.([]map[string]any)
	if !ok {
		t.Fatalf("result data type: %T", env.ResultData)
	}
	if len(rows) != 4 {
		t.Fatalf("rows: got %d want 4", len(rows))
	}
	for _, r := range rows {
		if r["age"].(float64) <= 30 {
			t.Fatalf("row fails predicate: %v", r)
		}
	}
}

func TestGroupAggregate(t *testing.T) {
	env := New().Answer(employeeTable(t), "group by department and sum salary")
	if env.ResultType != answer.TypeDataframe {
		t.Fatalf("result type: %v", env.ResultType)
	}
	rows, ok := env.ResultData.([]map[string]any)
	if !ok {
		t.Fatalf("result data type: %T", env.ResultData)
	}
	sums := map[string]float64{}
	means := map[string]float64{}
	for _, r := range rows {
		g := r["department"].(string)
		sums[g] = r["sum"].(float64)
		means[g] = r["mean"].(float64)
	}
	if sums["it"] != 5200+7100+9000 {
		t.Fatalf("it sum: got %v", sums["it"])
	}
	if means["sales"] != 4400 {
		t.Fatalf("sales mean: got %v", means["sales"])
	}
	// groups keep first-appearance order
	if rows[0]["department"] != "sales" {
		t.Fatalf("group order: got %v first", rows[0]["department"])
	}
}

// The named numeric column must win even when it is not the first one.
func TestGroupAggregatePicksNamedColumn(t *testing.T) {
	env := New().Answer(employeeTable(t), "group by department and sum salary")
	rows := env.ResultData.([]map[string]any)
	for _, r := range rows {
		if r["department"] == "hr" {
			if got := r["sum"].(float64); got != 6100 {
				t.Fatalf("hr salary sum: got %v want 6100", got)
			}
			return
		}
	}
	t.Fatal("no hr group")
}

// Without a named numeric column, "sum"/"total" falls back to the first one.
func TestGroupAggregateDefaultsToFirstNumeric(t *testing.T) {
	env := New().Answer(employeeTable(t), "sum by department")
	rows, ok := env.ResultData.([]map[string]any)
	if !ok {
		t.Fatalf("result data type: %T", env.ResultData)
	}
	for _, r := range rows {
		if r["department"] == "it" {
			if got := r["sum"].(float64); got != 32+41+52 {
				t.Fatalf("it age sum: got %v", got)
			}
			return
		}
	}
	t.Fatal("no it group")
}

func TestUniqueValues(t *testing.T) {
	env := New().Answer(employeeTable(t), "what are the unique values of department?")
	data, ok := env.ResultData.(map[string]any)
	if !ok {
		t.Fatalf("result data type: %T", env.ResultData)
	}
	if data["count"].(int) != 3 {
		t.Fatalf("unique count: got %v", data["count"])
	}
}

func TestDefaultSuggestsQuestions(t *testing.T) {
	env := New().Answer(employeeTable(t), "tell me something interesting")
	if env.ResultType != answer.TypeDataframe {
		t.Fatalf("result type: %v", env.ResultType)
	}
	if !strings.Contains(env.Explanation, "Try asking:") {
		t.Fatalf("default answer should suggest questions: %q", env.Explanation)
	}
}

// Every canned question must produce an envelope whose payload matches its
// declared type.
func TestEnvelopeShapes(t *testing.T) {
	questions := []string{
		"give me an overview of the dataset",
		"average salary",
		"median age",
		"minimum salary",
		"how many records?",
		"top 2 by age",
		"statistics for salary",
		"distribution of department",
		"rows where salary > 5000",
		"correlation between age and salary",
		"total salary by department",
		"unique departments",
		"something else entirely",
	}
	tab := employeeTable(t)
	eng := New()
	for _, q := range questions {
		env := eng.Answer(tab, q)
		if env == nil {
			t.Fatalf("%q: nil envelope", q)
		}
		if !env.ShapeOK() {
			t.Fatalf("%q: payload %T does not match type %v", q, env.ResultData, env.ResultType)
		}
		if env.Result == "" {
			t.Fatalf("%q: empty result text", q)
		}
	}
}

func TestCorrelation(t *testing.T) {
	env := New().Answer(employeeTable(t), "correlation between age and salary")
	rows, ok := env.ResultData.([]map[string]any)
	if !ok {
		t.Fatalf("result data type: %T", env.ResultData)
	}
	if len(rows) == 0 {
		t.Fatal("expected correlation rows")
	}
	// age and salary move together in the fixture
	found := false
	for _, r := range rows {
		if r["column"] == "age" {
			if v := r["salary"].(float64); v < 0.8 {
				t.Fatalf("expected strong correlation, got %v", v)
			}
			found = true
		}
	}
	if !found {
		t.Fatal("no row for age")
	}
}
