package orchestrate

import (
	"context"
	"strings"
	"testing"
)

func TestSuggestWithoutClientUsesColumns(t *testing.T) {
	qs, source := New(nil).Suggest(context.Background(), fixtureTable(t), 0)
	if source != "fallback" {
		t.Fatalf("source: %q", source)
	}
	if len(qs) == 0 {
		t.Fatal("expected suggestions")
	}
	joined := strings.Join(qs, "\n")
	if !strings.Contains(joined, "age") || !strings.Contains(joined, "city") {
		t.Fatalf("suggestions should name real columns:\n%s", joined)
	}
}

func TestSuggestParsesModelReply(t *testing.T) {
	svc := New(&stubClient{
		response: "Sure, here you go:\n[\"What is the average age?\", \"Distribution of city\", \"  \"]",
	})
	qs, source := svc.Suggest(context.Background(), fixtureTable(t), 5)
	if source != "model" {
		t.Fatalf("source: %q", source)
	}
	if len(qs) != 2 {
		t.Fatalf("questions: %v", qs)
	}
	if qs[0] != "What is the average age?" {
		t.Fatalf("first question: %q", qs[0])
	}
}

func TestSuggestCapsAtLimit(t *testing.T) {
	svc := New(&stubClient{response: `["a?", "b?", "c?", "d?"]`})
	qs, _ := svc.Suggest(context.Background(), fixtureTable(t), 2)
	if len(qs) != 2 {
		t.Fatalf("limit: got %d", len(qs))
	}
}

func TestSuggestUnparseableReplyFallsBack(t *testing.T) {
	svc := New(&stubClient{response: "I would suggest asking about the age column."})
	qs, source := svc.Suggest(context.Background(), fixtureTable(t), 3)
	if source != "fallback" {
		t.Fatalf("source: %q", source)
	}
	if len(qs) == 0 {
		t.Fatal("fallback must never be empty")
	}
}

func TestSuggestPromptNamesColumnsAndFormat(t *testing.T) {
	prompt := BuildSuggestPrompt(fixtureTable(t), 4)
	for _, want := range []string{"age", "city", "JSON array", "4"} {
		if !strings.Contains(prompt, want) {
			t.Fatalf("prompt missing %q", want)
		}
	}
}
