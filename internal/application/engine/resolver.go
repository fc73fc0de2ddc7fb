package engine

import "strings"

// Tier is the confidence tier of a question → column match.
type Tier string

const (
	TierExact    Tier = "exact"
	TierWord     Tier = "word"
	TierFuzzy    Tier = "fuzzy"
	TierSemantic Tier = "semantic"
)

// semanticMap keys are column-name substrings; values are question words that
// imply the column. Process-wide constant, never mutated.
var semanticMap = map[string][]string{
	"salary":     {"wage", "pay", "income", "compensation", "earnings"},
	"age":        {"years", "old", "birth"},
	"name":       {"person", "employee", "user", "customer"},
	"city":       {"location", "place", "address"},
	"department": {"division", "team", "group", "unit"},
	"date":       {"time", "when", "created", "updated"},
	"count":      {"number", "total", "quantity", "amount"},
	"average":    {"mean", "avg", "typical"},
	"maximum":    {"max", "highest", "top", "peak"},
	"minimum":    {"min", "lowest", "bottom"},
}

// FindColumn resolves a free-text fragment to a column name. Matching order:
// case-insensitive exact, substring containment either direction, then
// punctuation-normalized equality. Returns "" when nothing matches; callers
// treat that as "intent recognized, target ambiguous".
func FindColumn(columns []string, fragment string) string {
	frag := strings.ToLower(strings.TrimSpace(fragment))
	if frag == "" {
		return ""
	}
	for _, col := range columns {
		if strings.ToLower(col) == frag {
			return col
		}
	}
	for _, col := range columns {
		lc := strings.ToLower(col)
		if strings.Contains(lc, frag) || strings.Contains(frag, lc) {
			return col
		}
		if strings.ReplaceAll(lc, "_", " ") == frag || strings.ReplaceAll(lc, "-", " ") == frag {
			return col
		}
	}
	return ""
}

// MatchColumns maps every column the question plausibly refers to onto a
// confidence tier. A column gets at most one tier; priority is
// exact > word > fuzzy > semantic, first rule wins. The returned slice keeps
// column order so "first match" policies stay deterministic.
func MatchColumns(question string, columns []string) ([]string, map[string]Tier) {
	q := strings.ToLower(question)
	words := strings.Fields(q)
	matches := make(map[string]Tier)
	var order []string

	for _, col := range columns {
		lc := strings.ToLower(col)
		switch {
		case strings.Contains(q, lc) || strings.Contains(lc, q):
			matches[col] = TierExact
		case containsWord(words, lc):
			matches[col] = TierWord
		case strings.Contains(q, strings.ReplaceAll(lc, "_", " ")) ||
			strings.Contains(q, strings.ReplaceAll(lc, "-", " ")):
			matches[col] = TierFuzzy
		default:
			continue
		}
		order = append(order, col)
	}

	for _, col := range columns {
		if _, done := matches[col]; done {
			continue
		}
		lc := strings.ToLower(col)
		for key, synonyms := range semanticMap {
			if !strings.Contains(lc, key) {
				continue
			}
			for _, syn := range synonyms {
				if strings.Contains(q, syn) {
					matches[col] = TierSemantic
					order = append(order, col)
					break
				}
			}
			if _, done := matches[col]; done {
				break
			}
		}
	}

	return order, matches
}

func containsWord(words []string, w string) bool {
	for _, cand := range words {
		if cand == w {
			return true
		}
	}
	return false
}
