package engine

import (
	"regexp"
	"strings"

	"github.com/bryanwahyu/askdata/internal/domain/answer"
	"github.com/bryanwahyu/askdata/internal/domain/dataset"
)

// Engine answers questions deterministically: no model call, no generated
// code, just the fixed intent catalog over the table's own operations.
type Engine struct{}

func New() *Engine { return &Engine{} }

// qctx carries everything a handler needs for one question.
type qctx struct {
	t           *dataset.Table
	q           string // lowercased question
	columns     []string
	numeric     []string
	categorical []string
	matched     []string // matched columns, table order
	tiers       map[string]Tier
}

// intent pairs a trigger predicate with its handler. The catalog below is a
// priority list: first predicate that holds wins, no backtracking.
type intent struct {
	name   string
	match  func(*qctx) bool
	handle func(*qctx) *answer.Envelope
}

var (
	avgRe     = regexp.MustCompile(`(?:average|mean|avg|median|mode|typical)\s+(?:of\s+)?(.+)`)
	minmaxRe  = regexp.MustCompile(`(?:minimum|maximum|min|max|lowest|highest)\s+(?:of\s+)?(.+)`)
	countRe   = regexp.MustCompile(`count|how many|number of|total`)
	topNRe    = regexp.MustCompile(`(?:top|highest|largest|first|show)\s+(\d+)`)
	bottomNRe = regexp.MustCompile(`(?:bottom|lowest|smallest|last)\s+(\d+)`)
	statsRe   = regexp.MustCompile(`(?:statistics|stats|summary|describe|info|details)\s+(?:of|for|about)\s+(.+)`)
	distRe    = regexp.MustCompile(`(?:how many|count|distribution|frequency)\s+(?:are|is|in|by|of)\s+(.+)`)
	filterRe  = regexp.MustCompile(`(?:find|show|filter|where|which|list|get)\s+(?:rows|records|people|items|all|data)`)
	corrRe    = regexp.MustCompile(`(?:correlation|relationship|correlate|related)\s+(?:between|of)`)
	groupRe   = regexp.MustCompile(`(?:group|aggregate|sum|total)\s+(?:by|of)`)
	uniqueRe  = regexp.MustCompile(`(?:unique|distinct|different)\s+(?:values|items)`)
	numberRe  = regexp.MustCompile(`(\d+)`)
)

// catalog order is a contract: earlier intents shadow later ones on purpose
// (e.g. bare "total ..." is a row count, not an aggregation).
var catalog = []intent{
	{name: "overview", match: matchOverview, handle: handleOverview},
	{name: "average", match: matchAverage, handle: handleAverage},
	{name: "minmax", match: matchMinMax, handle: handleMinMax},
	{name: "count", match: matchCount, handle: handleCount},
	{name: "topn", match: matchTopN, handle: handleTopN},
	{name: "column-stats", match: matchColumnStats, handle: handleColumnStats},
	{name: "distribution", match: matchDistribution, handle: handleDistribution},
	{name: "filter", match: matchFilter, handle: handleFilter},
	{name: "correlation", match: matchCorrelation, handle: handleCorrelation},
	{name: "group-agg", match: matchGroupAgg, handle: handleGroupAgg},
	{name: "unique", match: matchUnique, handle: handleUnique},
}

// Answer classifies the question against the catalog and executes the first
// matching intent. Always returns a well-formed envelope; the catalog
// default (dataset summary) is the floor, never an error.
func (e *Engine) Answer(t *dataset.Table, question string) *answer.Envelope {
	c := &qctx{
		t:           t,
		q:           strings.ToLower(question),
		columns:     t.ColumnNames(),
		numeric:     t.NumericColumns(),
		categorical: t.CategoricalColumns(),
	}
	c.matched, c.tiers = MatchColumns(question, c.columns)

	for _, in := range catalog {
		if !in.match(c) {
			continue
		}
		if env := in.handle(c); env != nil {
			return env
		}
		// handler declined (e.g. no usable column): fall through to the
		// next intent, same as the reference behavior
	}
	return handleDefault(c)
}

func anyWord(q string, words ...string) bool {
	for _, w := range words {
		if strings.Contains(q, w) {
			return true
		}
	}
	return false
}

// matchedNumeric returns the first matched column that is numeric.
func (c *qctx) matchedNumeric() string {
	for _, col := range c.matched {
		if c.isNumeric(col) {
			return col
		}
	}
	return ""
}

// matchedCategorical returns the first matched column that is categorical.
func (c *qctx) matchedCategorical() string {
	for _, col := range c.matched {
		if c.isCategorical(col) {
			return col
		}
	}
	return ""
}

func (c *qctx) isNumeric(col string) bool {
	for _, n := range c.numeric {
		if n == col {
			return true
		}
	}
	return false
}

func (c *qctx) isCategorical(col string) bool {
	for _, n := range c.categorical {
		if n == col {
			return true
		}
	}
	return false
}

// mentionedNumeric returns the first numeric column whose name appears
// verbatim in the question.
func (c *qctx) mentionedNumeric() string {
	for _, col := range c.numeric {
		if strings.Contains(c.q, strings.ToLower(col)) {
			return col
		}
	}
	return ""
}

// resolveNumeric applies the shared fallback ladder for numeric targets:
// smart match → regex-extracted phrase → mentioned numeric → first numeric.
func (c *qctx) resolveNumeric(re *regexp.Regexp, defaultFirst bool) string {
	if col := c.matchedNumeric(); col != "" {
		return col
	}
	if m := re.FindStringSubmatch(c.q); m != nil {
		frag := strings.TrimSpace(strings.TrimRight(strings.TrimSpace(m[1]), "?"))
		if col := FindColumn(c.columns, frag); col != "" && c.isNumeric(col) {
			return col
		}
	}
	if col := c.mentionedNumeric(); col != "" {
		return col
	}
	if defaultFirst && len(c.numeric) > 0 {
		return c.numeric[0]
	}
	return ""
}
