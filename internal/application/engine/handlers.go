package engine

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/bryanwahyu/askdata/internal/application/profile"
	"github.com/bryanwahyu/askdata/internal/domain/answer"
	"github.com/bryanwahyu/askdata/internal/domain/dataset"
)

var bareTopRe = regexp.MustCompile(`\b(?:top|bottom)\b`)

// --- intent 1: comprehensive overview ---

func matchOverview(c *qctx) bool {
	return anyWord(c.q, "overview", "summary", "analyze", "analysis", "insights",
		"describe", "comprehensive", "full analysis")
}

func handleOverview(c *qctx) *answer.Envelope {
	rep := profile.Build(c.t)
	var parts []string

	ov := rep.DatasetOverview
	parts = append(parts, "DATASET OVERVIEW:")
	parts = append(parts, fmt.Sprintf("- Total Rows: %d", ov.TotalRows))
	parts = append(parts, fmt.Sprintf("- Total Columns: %d", ov.TotalColumns))
	parts = append(parts, fmt.Sprintf("- Column Names: %s", strings.Join(ov.ColumnNames, ", ")))
	parts = append(parts, fmt.Sprintf("- Duplicate Rows: %d", ov.DuplicateRows))
	parts = append(parts, fmt.Sprintf("- Memory Usage: %.2f MB", ov.MemoryUsageMB))

	missingTotal := 0
	for _, it := range ov.MissingValues {
		missingTotal += it.Value.(int)
	}
	if missingTotal > 0 {
		parts = append(parts, "\nMISSING VALUES:")
		for _, it := range ov.MissingValues {
			if n := it.Value.(int); n > 0 {
				parts = append(parts, fmt.Sprintf("  - %s: %d (%.1f%%)", it.Key, n,
					float64(n)/float64(ov.TotalRows)*100))
			}
		}
	} else {
		parts = append(parts, "\nNo missing values found")
	}

	if len(rep.NumericAnalysis) > 0 {
		parts = append(parts, "\nNUMERIC COLUMNS ANALYSIS:")
		for _, it := range rep.NumericAnalysis {
			st := it.Value.(*profile.NumericStats)
			parts = append(parts, fmt.Sprintf("\n  %s:", it.Key))
			parts = append(parts, fmt.Sprintf("    Mean: %.2f | Median: %.2f | Std: %.2f",
				st.Mean, st.Median, st.Std))
			parts = append(parts, fmt.Sprintf("    Range: [%.2f, %.2f]", st.Min, st.Max))
			parts = append(parts, fmt.Sprintf("    IQR: [%.2f, %.2f]", st.Q25, st.Q75))
			if st.Skewness != nil && st.Kurtosis != nil {
				parts = append(parts, fmt.Sprintf("    Skewness: %.2f | Kurtosis: %.2f",
					*st.Skewness, *st.Kurtosis))
			}
			if st.OutliersCount > 0 {
				parts = append(parts, fmt.Sprintf("    Outliers: %d (%.1f%%)",
					st.OutliersCount, st.OutliersPercentage))
			}
		}
	}

	if len(rep.CategoricalAnalysis) > 0 {
		parts = append(parts, "\nCATEGORICAL COLUMNS ANALYSIS:")
		for _, it := range rep.CategoricalAnalysis {
			st := it.Value.(*profile.CategoricalStats)
			parts = append(parts, fmt.Sprintf("\n  %s:", it.Key))
			parts = append(parts, fmt.Sprintf("    Unique Values: %d", st.UniqueCount))
			var top []string
			for i, mc := range st.MostCommon {
				if i >= 3 {
					break
				}
				top = append(top, fmt.Sprintf("%s(%v)", mc.Key, mc.Value))
			}
			parts = append(parts, fmt.Sprintf("    Most Common: %s", strings.Join(top, ", ")))
			if st.NullCount > 0 {
				parts = append(parts, fmt.Sprintf("    Missing: %d", st.NullCount))
			}
		}
	}

	if len(rep.Correlations) > 0 && len(c.numeric) > 1 {
		type pair struct {
			a, b string
			r    float64
		}
		var strong []pair
		for _, a := range c.numeric {
			for _, b := range c.numeric {
				if a == b {
					continue
				}
				if r, ok := rep.Corr(a, b); ok && absf(r) > 0.5 {
					strong = append(strong, pair{a, b, r})
				}
			}
		}
		if len(strong) > 0 {
			parts = append(parts, "\nCORRELATION ANALYSIS:")
			parts = append(parts, "  Strong Correlations:")
			for i, p := range strong {
				if i >= 5 {
					break
				}
				parts = append(parts, fmt.Sprintf("    %s <-> %s: %.2f", p.a, p.b, p.r))
			}
		}
	}

	if len(rep.Insights) > 0 {
		parts = append(parts, "\nKEY INSIGHTS:")
		for i, in := range rep.Insights {
			if i >= 10 {
				break
			}
			parts = append(parts, "  - "+in)
		}
	}

	if len(rep.Recommendations) > 0 {
		parts = append(parts, "\nRECOMMENDATIONS:")
		for _, r := range rep.Recommendations {
			parts = append(parts, "  - "+r)
		}
	}

	result := "No data"
	if c.t.NumRows() > 0 {
		result = describeAllText(c.t)
	}
	return &answer.Envelope{
		Explanation: strings.Join(parts, "\n"),
		Result:      result,
		ResultData: answer.Series{
			{Key: "dataset_overview", Value: rep.DatasetOverview},
			{Key: "numeric_analysis", Value: rep.NumericAnalysis},
			{Key: "categorical_analysis", Value: rep.CategoricalAnalysis},
			{Key: "datetime_analysis", Value: rep.DatetimeAnalysis},
			{Key: "correlations", Value: rep.Correlations},
			{Key: "insights", Value: rep.Insights},
			{Key: "recommendations", Value: rep.Recommendations},
		},
		ResultType: answer.TypeDataframe,
	}
}

// describeAllText renders per-numeric-column descriptive stats side by side.
func describeAllText(t *dataset.Table) string {
	numeric := t.NumericColumns()
	if len(numeric) == 0 {
		return fmt.Sprintf("%d rows x %d columns", t.NumRows(), t.NumCols())
	}
	var b strings.Builder
	for i, name := range numeric {
		col, _ := t.Column(name)
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(name)
		b.WriteByte('\n')
		b.WriteString(seriesText(describeSeries(col.DropNull())))
	}
	return b.String()
}

// --- intent 2: average / median / mode ---

func matchAverage(c *qctx) bool {
	return avgRe.MatchString(c.q) ||
		anyWord(c.q, "average", "mean", "avg", "median", "typical")
}

func handleAverage(c *qctx) *answer.Envelope {
	col := ""
	if len(c.matched) > 0 {
		if col = c.matchedNumeric(); col == "" {
			col = c.matched[0]
		}
	}
	if col == "" {
		if m := avgRe.FindStringSubmatch(c.q); m != nil {
			frag := trimFragment(m[1])
			col = FindColumn(c.columns, frag)
		}
	}
	if col == "" && len(c.numeric) > 0 {
		col = c.mentionedNumeric()
		if col == "" && anyWord(c.q, "average", "mean") {
			col = c.numeric[0]
		}
	}
	if col == "" || !c.isNumeric(col) {
		return nil
	}

	dc, _ := c.t.Column(col)
	vals := dc.DropNull()
	var result float64
	statName := "average"
	switch {
	case strings.Contains(c.q, "median"):
		result = medianOf(vals)
		statName = "median"
	case strings.Contains(c.q, "mode"):
		v, ok := modeOf(vals)
		if !ok {
			return nil
		}
		result = v
		statName = "mode"
	default:
		result = meanOf(vals)
	}

	return &answer.Envelope{
		Explanation: fmt.Sprintf("The %s %s is %.2f", statName, col, result),
		Result:      dataset.FormatFloat(result),
		ResultData:  result,
		ResultType:  answer.TypeScalar,
	}
}

// --- intent 3: min / max with the full matching row ---

func matchMinMax(c *qctx) bool {
	if topNRe.MatchString(c.q) || bottomNRe.MatchString(c.q) {
		return false // an explicit N means a row listing, not an extreme
	}
	return minmaxRe.MatchString(c.q) ||
		anyWord(c.q, "min", "max", "lowest", "highest")
}

func handleMinMax(c *qctx) *answer.Envelope {
	col := c.matchedNumeric()
	if col == "" {
		if m := minmaxRe.FindStringSubmatch(c.q); m != nil {
			if cand := FindColumn(c.columns, trimFragment(m[1])); cand != "" {
				col = cand
			}
		}
	}
	if col == "" && len(c.numeric) > 0 {
		if col = c.mentionedNumeric(); col == "" {
			col = c.numeric[0]
		}
	}
	if col == "" || !c.isNumeric(col) {
		return nil
	}

	dc, _ := c.t.Column(col)
	wantMax := anyWord(c.q, "max", "maximum", "highest")
	ri := -1
	var rv float64
	for i := 0; i < dc.Len(); i++ {
		v, ok := dc.FloatAt(i)
		if !ok {
			continue
		}
		if ri == -1 || (wantMax && v > rv) || (!wantMax && v < rv) {
			ri, rv = i, v
		}
	}
	if ri == -1 {
		return nil
	}
	statName, label := "minimum", "Minimum"
	if wantMax {
		statName, label = "maximum", "Maximum"
	}
	recordText := rowText(c.t, ri)
	return &answer.Envelope{
		Explanation: fmt.Sprintf("The %s %s is %.2f. Full record:\n%s", statName, col, rv, recordText),
		Result: fmt.Sprintf("%s: %s\n\nFull Record:\n%s",
			label, dataset.FormatFloat(rv), recordText),
		ResultData: map[string]any{"value": rv, "record": c.t.Row(ri)},
		ResultType: answer.TypeOther,
	}
}

func rowText(t *dataset.Table, i int) string {
	names := t.ColumnNames()
	vals := make([]any, len(names))
	for j, n := range names {
		col, _ := t.Column(n)
		vals[j] = col.CellValue(i)
	}
	return dataset.FormatPairs(names, vals)
}

// --- intent 4: row count ---

func matchCount(c *qctx) bool {
	return countRe.MatchString(c.q) && !strings.Contains(c.q, "column")
}

func handleCount(c *qctx) *answer.Envelope {
	n := c.t.NumRows()
	return &answer.Envelope{
		Explanation: fmt.Sprintf("There are %d rows in the dataset.", n),
		Result:      strconv.Itoa(n),
		ResultData:  n,
		ResultType:  answer.TypeScalar,
	}
}

// --- intent 5: top-N / bottom-N rows ---

func matchTopN(c *qctx) bool {
	return topNRe.MatchString(c.q) || bottomNRe.MatchString(c.q) || bareTopRe.MatchString(c.q)
}

func handleTopN(c *qctx) *answer.Envelope {
	topM := topNRe.FindStringSubmatch(c.q)
	botM := bottomNRe.FindStringSubmatch(c.q)
	n := 5
	if topM != nil {
		n, _ = strconv.Atoi(topM[1])
	} else if botM != nil {
		n, _ = strconv.Atoi(botM[1])
	}
	if n > c.t.NumRows() {
		n = c.t.NumRows()
	}
	wantTop := topM != nil || (botM == nil && anyWord(c.q, "top", "highest", "largest", "first"))

	for _, col := range c.numeric {
		if !strings.Contains(c.q, strings.ToLower(col)) {
			continue
		}
		idx := c.t.OrderBy(col, wantTop)[:n]
		sub := c.t.Select(idx)
		return &answer.Envelope{
			Explanation: fmt.Sprintf("Here are the top %d rows sorted by %s:", n, col),
			Result:      dataset.FormatTable(sub, n),
			ResultData:  sub.Head(n),
			ResultType:  answer.TypeDataframe,
		}
	}

	idx := make([]int, n)
	which := "first"
	if wantTop {
		for i := range idx {
			idx[i] = i
		}
	} else {
		which = "last"
		for i := range idx {
			idx[i] = c.t.NumRows() - n + i
		}
	}
	sub := c.t.Select(idx)
	return &answer.Envelope{
		Explanation: fmt.Sprintf("Here are the %s %d rows:", which, n),
		Result:      dataset.FormatTable(sub, n),
		ResultData:  sub.Head(n),
		ResultType:  answer.TypeDataframe,
	}
}

// --- intent 6: per-column statistics ---

func matchColumnStats(c *qctx) bool {
	return statsRe.MatchString(c.q) ||
		anyWord(c.q, "statistics", "stats", "summary", "describe")
}

func handleColumnStats(c *qctx) *answer.Envelope {
	col := ""
	if len(c.matched) > 0 {
		col = c.matched[0]
	}
	if col == "" {
		if m := statsRe.FindStringSubmatch(c.q); m != nil {
			col = FindColumn(c.columns, trimFragment(m[1]))
		}
	}
	if col == "" {
		for _, cand := range c.columns {
			if strings.Contains(c.q, strings.ToLower(cand)) {
				col = cand
				break
			}
		}
	}
	if col == "" {
		return nil
	}

	dc, _ := c.t.Column(col)
	if c.isNumeric(col) {
		s := describeSeries(dc.DropNull())
		text := seriesText(s)
		return &answer.Envelope{
			Explanation: fmt.Sprintf("Detailed statistics for %s:\n%s", col, text),
			Result:      text,
			ResultData:  s,
			ResultType:  answer.TypeSeries,
		}
	}
	s := countsSeries(dc.ValueCounts())
	text := seriesText(s)
	return &answer.Envelope{
		Explanation: fmt.Sprintf("Value distribution for %s:\n%s", col, text),
		Result:      text,
		ResultData:  s,
		ResultType:  answer.TypeSeries,
	}
}

// --- intent 7: distribution / frequency ---

func matchDistribution(c *qctx) bool {
	return distRe.MatchString(c.q) ||
		anyWord(c.q, "how many", "count", "distribution", "frequency")
}

func handleDistribution(c *qctx) *answer.Envelope {
	col := ""
	if len(c.matched) > 0 {
		if col = c.matchedCategorical(); col == "" {
			col = c.matched[0]
		}
	}
	if col == "" {
		if m := distRe.FindStringSubmatch(c.q); m != nil {
			col = FindColumn(c.columns, trimFragment(m[1]))
		}
	}
	if col == "" {
		for _, cand := range c.categorical {
			if strings.Contains(c.q, strings.ToLower(cand)) {
				col = cand
				break
			}
		}
	}
	if col == "" {
		return nil
	}

	dc, _ := c.t.Column(col)
	s := countsSeries(dc.ValueCounts())
	text := seriesText(s)
	return &answer.Envelope{
		Explanation: fmt.Sprintf("Distribution of %s:\n%s\n\nTotal unique values: %d",
			col, text, len(dc.Unique())),
		Result:     text,
		ResultData: s,
		ResultType: answer.TypeSeries,
	}
}

// --- intent 8: filter rows by comparison ---

func matchFilter(c *qctx) bool {
	return filterRe.MatchString(c.q) ||
		anyWord(c.q, "find", "show", "filter", "where", "which")
}

func handleFilter(c *qctx) *answer.Envelope {
	cands := c.matched
	if len(cands) == 0 {
		cands = c.columns
	}
	words := strings.Fields(c.q)

	for _, col := range cands {
		lc := strings.ToLower(col)
		hit := strings.Contains(c.q, lc)
		if !hit {
			for _, w := range words {
				if len(w) > 3 && strings.Contains(lc, w) {
					hit = true
					break
				}
			}
		}
		if !hit {
			continue
		}

		switch {
		case strings.Contains(c.q, ">") || anyWord(c.q, "greater", "above"):
			if m := numberRe.FindStringSubmatch(c.q); m != nil && c.isNumeric(col) {
				th, _ := strconv.ParseFloat(m[1], 64)
				return filterEnvelope(c, col, ">", th, func(v float64) bool { return v > th })
			}
		case strings.Contains(c.q, "<") || anyWord(c.q, "less", "below"):
			if m := numberRe.FindStringSubmatch(c.q); m != nil && c.isNumeric(col) {
				th, _ := strconv.ParseFloat(m[1], 64)
				return filterEnvelope(c, col, "<", th, func(v float64) bool { return v < th })
			}
		case strings.Contains(c.q, "=") || anyWord(c.q, "equal", "is"):
			if !c.isCategorical(col) {
				continue
			}
			dc, _ := c.t.Column(col)
			uniq := dc.Unique()
			if len(uniq) > 10 {
				uniq = uniq[:10]
			}
			for _, val := range uniq {
				if !strings.Contains(c.q, strings.ToLower(val)) {
					continue
				}
				var idx []int
				for i := 0; i < dc.Len(); i++ {
					if s, ok := dc.StringAt(i); ok && s == val {
						idx = append(idx, i)
					}
				}
				return rowsEnvelope(c, idx,
					fmt.Sprintf("Found %d rows where %s = '%s':", len(idx), col, val))
			}
		}
	}
	return nil
}

func filterEnvelope(c *qctx, col, op string, th float64, keep func(float64) bool) *answer.Envelope {
	dc, _ := c.t.Column(col)
	var idx []int
	for i := 0; i < dc.Len(); i++ {
		if v, ok := dc.FloatAt(i); ok && keep(v) {
			idx = append(idx, i)
		}
	}
	return rowsEnvelope(c, idx,
		fmt.Sprintf("Found %d rows where %s %s %s:", len(idx), col, op, dataset.FormatFloat(th)))
}

// rowsEnvelope renders a filtered row set with the display cap at 50 rows
// and the structured payload cap at 100.
func rowsEnvelope(c *qctx, idx []int, explanation string) *answer.Envelope {
	total := len(idx)
	sub := c.t.Select(idx)
	var text string
	if total <= 50 {
		text = dataset.FormatTable(sub, total)
	} else {
		text = fmt.Sprintf("%s\n... (%d more rows)", dataset.FormatTable(sub, 50), total-50)
	}
	data := sub.Head(total)
	if total > 100 {
		data = sub.Head(100)
	}
	return &answer.Envelope{
		Explanation: explanation,
		Result:      text,
		ResultData:  data,
		ResultType:  answer.TypeDataframe,
	}
}

// --- intent 9: correlation matrix ---

func matchCorrelation(c *qctx) bool {
	return corrRe.MatchString(c.q) && len(c.numeric) >= 2
}

func handleCorrelation(c *qctx) *answer.Envelope {
	rows := make([]map[string]any, 0, len(c.numeric))
	var text strings.Builder
	text.WriteString(pad("", 12))
	for _, b := range c.numeric {
		text.WriteString(pad(b, 12))
	}
	for _, a := range c.numeric {
		row := map[string]any{"column": a}
		text.WriteByte('\n')
		text.WriteString(pad(a, 12))
		for _, b := range c.numeric {
			r := dataset.Pearson(c.t, a, b)
			row[b] = r
			text.WriteString(pad(fmt.Sprintf("%.2f", r), 12))
		}
		rows = append(rows, row)
	}
	matrix := text.String()
	return &answer.Envelope{
		Explanation: fmt.Sprintf("Correlation matrix between numeric columns:\n%s\n\nValues range from -1 (negative correlation) to +1 (positive correlation).", matrix),
		Result:      matrix,
		ResultData:  rows,
		ResultType:  answer.TypeDataframe,
	}
}

// --- intent 10: aggregate by group ---

func matchGroupAgg(c *qctx) bool {
	return groupRe.MatchString(c.q)
}

func handleGroupAgg(c *qctx) *answer.Envelope {
	for _, catCol := range c.categorical {
		if !strings.Contains(c.q, strings.ToLower(catCol)) {
			continue
		}
		// a numeric column named in the question wins; "sum"/"total" alone
		// falls back to the first numeric
		numCol := ""
		for _, cand := range c.numeric {
			if strings.Contains(c.q, strings.ToLower(cand)) {
				numCol = cand
				break
			}
		}
		if numCol == "" && len(c.numeric) > 0 && anyWord(c.q, "sum", "total") {
			numCol = c.numeric[0]
		}
		if numCol == "" {
			continue
		}
		rows := groupAggregate(c.t, catCol, numCol)
		text := renderGroupAgg(catCol, numCol, rows)
		return &answer.Envelope{
			Explanation: fmt.Sprintf("Aggregated %s by %s:\n%s", numCol, catCol, text),
			Result:      text,
			ResultData:  rows,
			ResultType:  answer.TypeDataframe,
		}
	}
	return nil
}

// groupAggregate computes sum/mean/count of numCol per catCol value, groups
// ordered by first appearance.
func groupAggregate(t *dataset.Table, catCol, numCol string) []map[string]any {
	cc, _ := t.Column(catCol)
	nc, _ := t.Column(numCol)
	type acc struct {
		sum float64
		n   int
	}
	var order []string
	groups := make(map[string]*acc)
	for i := 0; i < cc.Len(); i++ {
		g, ok := cc.StringAt(i)
		if !ok {
			continue
		}
		a := groups[g]
		if a == nil {
			a = &acc{}
			groups[g] = a
			order = append(order, g)
		}
		if v, ok := nc.FloatAt(i); ok {
			a.sum += v
			a.n++
		}
	}
	rows := make([]map[string]any, 0, len(order))
	for _, g := range order {
		a := groups[g]
		mean := 0.0
		if a.n > 0 {
			mean = a.sum / float64(a.n)
		}
		rows = append(rows, map[string]any{
			catCol: g, "sum": a.sum, "mean": mean, "count": a.n,
		})
	}
	return rows
}

func renderGroupAgg(catCol, numCol string, rows []map[string]any) string {
	var b strings.Builder
	b.WriteString(pad(catCol, 16))
	b.WriteString(pad("sum", 12))
	b.WriteString(pad("mean", 12))
	b.WriteString("count")
	for _, r := range rows {
		b.WriteByte('\n')
		b.WriteString(pad(fmt.Sprintf("%v", r[catCol]), 16))
		b.WriteString(pad(dataset.FormatFloat(r["sum"].(float64)), 12))
		b.WriteString(pad(dataset.FormatFloat(r["mean"].(float64)), 12))
		b.WriteString(strconv.Itoa(r["count"].(int)))
	}
	return b.String()
}

// --- intent 11: unique values ---

func matchUnique(c *qctx) bool {
	return uniqueRe.MatchString(c.q)
}

func handleUnique(c *qctx) *answer.Envelope {
	for _, col := range c.columns {
		if !strings.Contains(c.q, strings.ToLower(col)) {
			continue
		}
		dc, _ := c.t.Column(col)
		uniq := dc.Unique()
		total := len(uniq)
		shown := uniq
		ellipsis := ""
		if total > 50 {
			shown = uniq[:50]
			ellipsis = "..."
		}
		data := uniq
		if total > 100 {
			data = uniq[:100]
		}
		joined := strings.Join(shown, ", ")
		return &answer.Envelope{
			Explanation: fmt.Sprintf("Unique values in %s (%d total):\n%s%s", col, total, joined, ellipsis),
			Result:      fmt.Sprintf("Total unique: %d\nValues: %s", total, joined),
			ResultData:  map[string]any{"count": total, "values": data},
			ResultType:  answer.TypeOther,
		}
	}
	return nil
}

// --- default: dataset summary with example questions ---

func handleDefault(c *qctx) *answer.Envelope {
	var summary []string
	summary = append(summary, "Dataset Summary:")
	summary = append(summary, fmt.Sprintf("- Shape: %d rows x %d columns", c.t.NumRows(), c.t.NumCols()))
	summary = append(summary, fmt.Sprintf("- Columns: %s", strings.Join(c.columns, ", ")))

	if len(c.numeric) > 0 {
		summary = append(summary, "\nNumeric Columns Summary:")
		for _, col := range c.numeric {
			dc, _ := c.t.Column(col)
			vals := dc.DropNull()
			summary = append(summary, fmt.Sprintf("  %s: mean=%.2f, min=%.2f, max=%.2f",
				col, meanOf(vals), minOf(vals), maxOf(vals)))
		}
	}
	if len(c.categorical) > 0 {
		summary = append(summary, "\nCategorical Columns Summary:")
		for _, col := range c.categorical {
			dc, _ := c.t.Column(col)
			summary = append(summary, fmt.Sprintf("  %s: %d unique values", col, len(dc.Unique())))
		}
	}

	hints := strings.Join([]string{
		"\n\nTry asking:",
		"- 'What is the average of [column]?'",
		"- 'Show me the top 10 rows'",
		"- 'Statistics for [column]'",
		"- 'How many are in [category]?'",
		"- 'Find rows where [column] > [value]'",
		"- 'Correlation between columns'",
		"- 'Group by [column] and sum [numeric column]'",
	}, "\n")

	return &answer.Envelope{
		Explanation: strings.Join(summary, "\n") + hints,
		Result:      dataset.FormatTable(c.t, 10),
		ResultData:  c.t.Head(10),
		ResultType:  answer.TypeDataframe,
	}
}

func trimFragment(s string) string {
	return strings.TrimSpace(strings.Trim(strings.TrimSpace(s), "?"))
}

func absf(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func pad(s string, w int) string {
	if len(s) >= w {
		return s + " "
	}
	return s + strings.Repeat(" ", w-len(s))
}
