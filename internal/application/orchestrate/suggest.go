package orchestrate

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/bryanwahyu/askdata/internal/domain/dataset"
)

const defaultSuggestions = 5

// jsonArrayRe fishes the first JSON array out of a chatty model reply.
var jsonArrayRe = regexp.MustCompile(`\[[\s\S]*\]`)

// Suggest proposes questions a user could ask about this table. The model is
// asked first; an unavailable model or an unparseable reply falls back to
// deterministic column-based suggestions. Source is "model" or "fallback".
func (s *Service) Suggest(ctx context.Context, t *dataset.Table, n int) (questions []string, source string) {
	if n <= 0 {
		n = defaultSuggestions
	}
	defer func() {
		if r := recover(); r != nil {
			questions, source = fallbackSuggestions(t, n), "fallback"
		}
	}()

	if s.client == nil {
		return fallbackSuggestions(t, n), "fallback"
	}
	raw, err := s.client.Generate(ctx, BuildSuggestPrompt(t, n))
	if err != nil || strings.TrimSpace(raw) == "" {
		return fallbackSuggestions(t, n), "fallback"
	}

	parsed := parseSuggestions(raw, n)
	if len(parsed) == 0 {
		return fallbackSuggestions(t, n), "fallback"
	}
	return parsed, "model"
}

// BuildSuggestPrompt asks for n askable analytical questions as a bare JSON
// array of strings.
func BuildSuggestPrompt(t *dataset.Table, n int) string {
	dtypes := make(map[string]string, t.NumCols())
	for _, c := range t.Columns() {
		dtypes[c.Name] = string(c.Type)
	}
	dtypesJSON, _ := json.MarshalIndent(dtypes, "", "  ")

	var b strings.Builder
	b.WriteString("You are an expert data analyst looking at a table called 'df'.\n\n")
	fmt.Fprintf(&b, "DATASET INFORMATION:\n- Shape: %d rows, %d columns\n- Columns: %s\n- Column Types: %s\n\n",
		t.NumRows(), t.NumCols(), strings.Join(t.ColumnNames(), ", "), dtypesJSON)
	fmt.Fprintf(&b, `YOUR TASK:
Suggest %d insightful analytical questions a user could ask about this dataset.
Each question must be answerable with aggregates, filters, grouping, ranking,
or correlation over the listed columns. Refer to columns by their exact names.

RESPONSE FORMAT:
Return ONLY a JSON array of strings, nothing else.

EXAMPLE RESPONSE:
["What is the average salary?", "Group by city and sum revenue"]

Answer:`, n)
	return b.String()
}

// parseSuggestions extracts the JSON array and keeps non-empty entries.
func parseSuggestions(raw string, n int) []string {
	arr := jsonArrayRe.FindString(raw)
	if arr == "" {
		return nil
	}
	var items []string
	if err := json.Unmarshal([]byte(arr), &items); err != nil {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, q := range items {
		q = strings.TrimSpace(q)
		if q == "" {
			continue
		}
		out = append(out, q)
		if len(out) == n {
			break
		}
	}
	return out
}

// fallbackSuggestions builds questions from the actual columns, phrased the
// way the engine's intents recognize them. Never empty.
func fallbackSuggestions(t *dataset.Table, n int) []string {
	numeric := t.NumericColumns()
	categorical := t.CategoricalColumns()

	var out []string
	if len(numeric) > 0 {
		out = append(out,
			fmt.Sprintf("What is the average %s?", numeric[0]),
			fmt.Sprintf("Which row has the highest %s?", numeric[0]))
	}
	if len(categorical) > 0 {
		out = append(out, fmt.Sprintf("What is the distribution of %s?", categorical[0]))
	}
	if len(numeric) > 0 && len(categorical) > 0 {
		out = append(out, fmt.Sprintf("Group by %s and sum %s", categorical[0], numeric[0]))
	}
	if len(numeric) > 1 {
		out = append(out, fmt.Sprintf("What is the correlation between %s and %s?", numeric[0], numeric[1]))
	}
	out = append(out, "Give me an overview of the dataset")
	if len(out) > n {
		out = out[:n]
	}
	return out
}
