package orchestrate

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/bryanwahyu/askdata/internal/domain/answer"
	"github.com/bryanwahyu/askdata/internal/domain/dataset"
)

type stubClient struct {
	response string
	err      error
}

func (s *stubClient) Generate(ctx context.Context, prompt string) (string, error) {
	return s.response, s.err
}

func fixtureTable(t *testing.T) *dataset.Table {
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
			Strings: []string{"a", "b", "a"},
			Valid:   []bool{true, true, true},
		},
	}
	tab, err := dataset.New("fixture", cols)
	if err != nil {
		t.Fatalf("building table: %v", err)
	}
	return tab
}

func TestNilClientFallsBack(t *testing.T) {
	env, source := New(nil).Answer(context.Background(), fixtureTable(t), "mean age")
	if source != "fallback" {
		t.Fatalf("source: %q", source)
	}
	if env == nil || !env.ShapeOK() {
		t.Fatalf("bad envelope: %+v", env)
	}
	if env.ResultData.(float64) != 20 {
		t.Fatalf("mean: got %v", env.ResultData)
	}
}

func TestClientErrorFallsBack(t *testing.T) {
	svc := New(&stubClient{err: errors.New("unreachable")})
	env, source := svc.Answer(context.Background(), fixtureTable(t), "how many rows?")
	if source != "fallback" {
		t.Fatalf("source: %q", source)
	}
	if env.ResultData.(int) != 3 {
		t.Fatalf("count: got %v", env.ResultData)
	}
}

func TestEmptyResponseFallsBack(t *testing.T) {
	svc := New(&stubClient{response: "   "})
	_, source := svc.Answer(context.Background(), fixtureTable(t), "mean age")
	if source != "fallback" {
		t.Fatalf("source: %q", source)
	}
}

func TestTaggedResponseRunsCode(t *testing.T) {
	svc := New(&stubClient{
		response: "CODE: df['age'].mean()\nEXPLANATION: The mean of the age column.",
	})
	env, source := svc.Answer(context.Background(), fixtureTable(t), "average age")
	if source != "model" {
		t.Fatalf("source: %q", source)
	}
	if env.ResultType != answer.TypeScalar {
		t.Fatalf("type: %v", env.ResultType)
	}
	if env.ResultData.(float64) != 20 {
		t.Fatalf("mean: got %v", env.ResultData)
	}
	if env.Explanation != "The mean of the age column." {
		t.Fatalf("explanation: %q", env.Explanation)
	}
	if env.RawResponse == "" {
		t.Fatal("raw response should be preserved")
	}
}

func TestFailingCodeFallsBack(t *testing.T) {
	svc := New(&stubClient{
		response: "CODE: df['nope'].mean()\nEXPLANATION: broken",
	})
	env, source := svc.Answer(context.Background(), fixtureTable(t), "mean age")
	if source != "fallback" {
		t.Fatalf("source: %q", source)
	}
	// fallback answer must match what the engine produces on its own
	direct := New(nil)
	want, _ := direct.Answer(context.Background(), fixtureTable(t), "mean age")
	if env.ResultData.(float64) != want.ResultData.(float64) {
		t.Fatalf("fallback drifted: %v vs %v", env.ResultData, want.ResultData)
	}
}

func TestBareColumnReferenceRuns(t *testing.T) {
	svc := New(&stubClient{
		response: "You can inspect df['age'] to see the values.",
	})
	env, source := svc.Answer(context.Background(), fixtureTable(t), "show age")
	if source != "model" {
		t.Fatalf("source: %q", source)
	}
	if env.ResultType != answer.TypeSeries {
		t.Fatalf("type: %v", env.ResultType)
	}
}

func TestSplitTagged(t *testing.T) {
	code, expl := splitTagged("CODE: df.head()\nEXPLANATION: first rows")
	if code != "df.head()" || expl != "first rows" {
		t.Fatalf("got %q / %q", code, expl)
	}
	code, expl = splitTagged("CODE: df.head()")
	if code != "df.head()" || expl != "" {
		t.Fatalf("got %q / %q", code, expl)
	}
}

func TestPromptMentionsColumnsAndFormat(t *testing.T) {
	p := BuildPrompt(fixtureTable(t), "average age")
	for _, want := range []string{"age", "city", "CODE:", "EXPLANATION:", "average age"} {
		if !strings.Contains(p, want) {
			t.Fatalf("prompt missing %q", want)
		}
	}
}
