package sandbox

import (
	"fmt"
	"math"
	"sort"

	"github.com/montanaflynn/stats"

	"github.com/bryanwahyu/askdata/internal/domain/dataset"
)

func (e *evaluator) callMethod(recv any, name string, args []any, kwargs map[string]any) (any, error) {
	switch r := recv.(type) {
	case *frameObj:
		return frameMethod(r, name, args, kwargs)
	case *seriesObj:
		return seriesMethod(r, name, args)
	case *groupByObj:
		return groupByMethod(r, name)
	case *seriesGroupObj:
		return seriesGroupMethod(r, name, args)
	}
	return nil, fmt.Errorf("unknown method '%s'", name)
}

func intArg(args []any, i int, dflt int) (int, error) {
	if i >= len(args) {
		return dflt, nil
	}
	f, ok := args[i].(float64)
	if !ok {
		return 0, fmt.Errorf("argument %d must be a number", i+1)
	}
	return int(f), nil
}

func strArg(args []any, i int) (string, error) {
	if i >= len(args) {
		return "", fmt.Errorf("missing argument %d", i+1)
	}
	s, ok := args[i].(string)
	if !ok {
		return "", fmt.Errorf("argument %d must be a string", i+1)
	}
	return s, nil
}

func frameMethod(f *frameObj, name string, args []any, kwargs map[string]any) (any, error) {
	t := f.t
	switch name {
	case "head", "tail":
		n, err := intArg(args, 0, 5)
		if err != nil {
			return nil, err
		}
		if n > t.NumRows() {
			n = t.NumRows()
		}
		idx := make([]int, n)
		for i := range idx {
			if name == "head" {
				idx[i] = i
			} else {
				idx[i] = t.NumRows() - n + i
			}
		}
		return &frameObj{t: t.Select(idx)}, nil
	case "copy":
		return &frameObj{t: t.Copy()}, nil
	case "sort_values":
		by := ""
		if v, ok := kwargs["by"]; ok {
			s, ok := v.(string)
			if !ok {
				return nil, fmt.Errorf("sort_values by must be a column name")
			}
			by = s
		} else {
			s, err := strArg(args, 0)
			if err != nil {
				return nil, fmt.Errorf("sort_values needs a column name")
			}
			by = s
		}
		if _, ok := t.Column(by); !ok {
			return nil, fmt.Errorf("column '%s' does not exist", by)
		}
		asc := true
		if v, ok := kwargs["ascending"]; ok {
			b, ok := v.(bool)
			if !ok {
				return nil, fmt.Errorf("ascending must be True or False")
			}
			asc = b
		}
		return &frameObj{t: t.Select(t.OrderBy(by, !asc))}, nil
	case "nlargest", "nsmallest":
		n, err := intArg(args, 0, 5)
		if err != nil {
			return nil, err
		}
		col, err := strArg(args, 1)
		if err != nil {
			return nil, fmt.Errorf("%s needs a count and a column name", name)
		}
		if _, ok := t.Column(col); !ok {
			return nil, fmt.Errorf("column '%s' does not exist", col)
		}
		if n > t.NumRows() {
			n = t.NumRows()
		}
		idx := t.OrderBy(col, name == "nlargest")[:n]
		return &frameObj{t: t.Select(idx)}, nil
	case "groupby":
		col, err := strArg(args, 0)
		if err != nil {
			return nil, fmt.Errorf("groupby needs a column name")
		}
		if _, ok := t.Column(col); !ok {
			return nil, fmt.Errorf("column '%s' does not exist", col)
		}
		return &groupByObj{t: t, key: col}, nil
	case "count":
		names := t.ColumnNames()
		nums := make([]float64, len(names))
		for i, cn := range names {
			c, _ := t.Column(cn)
			nums[i] = float64(c.Len() - c.NullCount())
		}
		return keyedSeries("count", names, nums), nil
	case "mean", "sum", "max", "min", "median", "std":
		names := t.NumericColumns()
		nums := make([]float64, len(names))
		for i, cn := range names {
			c, _ := t.Column(cn)
			v, err := reduceNamed(name, c.DropNull())
			if err != nil {
				return nil, err
			}
			nums[i] = v
		}
		return keyedSeries(name, names, nums), nil
	case "corr":
		names := t.NumericColumns()
		if len(names) < 2 {
			return nil, fmt.Errorf("corr needs at least two numeric columns")
		}
		label := &dataset.Column{
			Name:    "column",
			Type:    dataset.Categorical,
			Strings: append([]string(nil), names...),
			Valid:   make([]bool, len(names)),
		}
		for i := range label.Valid {
			label.Valid[i] = true
		}
		cols := []*dataset.Column{label}
		for _, b := range names {
			vals := make([]float64, len(names))
			valid := make([]bool, len(names))
			for i, a := range names {
				vals[i] = dataset.Pearson(t, a, b)
				valid[i] = true
			}
			cols = append(cols, &dataset.Column{Name: b, Type: dataset.Numeric, Floats: vals, Valid: valid})
		}
		ct, err := dataset.New("corr", cols)
		if err != nil {
			return nil, err
		}
		return &frameObj{t: ct}, nil
	case "to_dict", "to_string":
		// renderers are identity, output formatting happens at the end
		return f, nil
	case "drop_duplicates":
		seen := make(map[string]bool)
		var idx []int
		for i := 0; i < t.NumRows(); i++ {
			key := ""
			for _, c := range t.Columns() {
				key += c.CellString(i) + "\x1f"
			}
			if !seen[key] {
				seen[key] = true
				idx = append(idx, i)
			}
		}
		return &frameObj{t: t.Select(idx)}, nil
	}
	return nil, fmt.Errorf("unknown table method '%s'", name)
}

func reduceNamed(name string, vals []float64) (float64, error) {
	if len(vals) == 0 {
		return 0, nil
	}
	switch name {
	case "mean", "avg":
		return reduce("mean", vals), nil
	case "sum":
		return reduce("sum", vals), nil
	case "max":
		return reduce("max", vals), nil
	case "min":
		return reduce("min", vals), nil
	case "median":
		v, err := stats.Median(vals)
		if err != nil {
			return 0, err
		}
		return v, nil
	case "std":
		if len(vals) < 2 {
			return 0, nil
		}
		v, err := stats.StandardDeviationSample(vals)
		if err != nil {
			return 0, err
		}
		return v, nil
	case "var":
		if len(vals) < 2 {
			return 0, nil
		}
		v, err := stats.SampleVariance(vals)
		if err != nil {
			return 0, err
		}
		return v, nil
	}
	return 0, fmt.Errorf("unknown aggregation '%s'", name)
}

func seriesMethod(s *seriesObj, name string, args []any) (any, error) {
	switch name {
	case "mean", "sum", "max", "min", "median", "std", "var":
		if s.isStr {
			if name == "max" || name == "min" {
				vals := s.validStrs()
				if len(vals) == 0 {
					return "", nil
				}
				m := vals[0]
				for _, v := range vals[1:] {
					if name == "max" && v > m || name == "min" && v < m {
						m = v
					}
				}
				return m, nil
			}
			return nil, fmt.Errorf("series %s is not numeric", s.name)
		}
		return reduceNamed(name, s.validNums())
	case "mode":
		if s.isStr {
			counts := countStrings(s.validStrs())
			if len(counts) == 0 {
				return "", nil
			}
			return counts[0].value, nil
		}
		vals := s.validNums()
		m, err := stats.Mode(vals)
		if err != nil || len(m) == 0 {
			if len(vals) == 0 {
				return 0.0, nil
			}
			v, _ := stats.Min(vals)
			return v, nil
		}
		v, _ := stats.Min(m)
		return v, nil
	case "count":
		n := 0
		for i := 0; i < s.length(); i++ {
			if s.valid == nil || s.valid[i] {
				n++
			}
		}
		return float64(n), nil
	case "nunique":
		return float64(len(uniqueOf(s))), nil
	case "unique":
		vals := uniqueOf(s)
		out := make([]any, len(vals))
		for i, v := range vals {
			out[i] = v
		}
		return out, nil
	case "value_counts":
		return valueCountsOf(s), nil
	case "describe":
		if s.isStr {
			return nil, fmt.Errorf("describe on string series is not supported")
		}
		vals := s.validNums()
		keys := []string{"count", "mean", "std", "min", "25%", "50%", "75%", "max"}
		nums := []float64{
			float64(len(vals)),
			reduce("mean", vals),
			statOrZero(stats.StandardDeviationSample(vals)),
			reduce("min", vals),
			statOrZero(stats.Percentile(vals, 25)),
			statOrZero(stats.Median(vals)),
			statOrZero(stats.Percentile(vals, 75)),
			reduce("max", vals),
		}
		return keyedSeries(s.name, keys, nums), nil
	case "head", "tail":
		n, err := intArg(args, 0, 5)
		if err != nil {
			return nil, err
		}
		return sliceSeries(s, n, name == "head"), nil
	case "tolist", "to_list":
		return seriesToList(s), nil
	case "to_dict", "to_string":
		return s, nil
	case "round":
		if s.isStr {
			return nil, fmt.Errorf("series %s is not numeric", s.name)
		}
		digits, err := intArg(args, 0, 0)
		if err != nil {
			return nil, err
		}
		scale := math.Pow(10, float64(digits))
		out := &seriesObj{name: s.name, keys: s.keys, valid: s.valid}
		out.nums = make([]float64, len(s.nums))
		for i, v := range s.nums {
			out.nums[i] = math.Round(v*scale) / scale
		}
		return out, nil
	case "idxmax", "idxmin":
		if s.isStr {
			return nil, fmt.Errorf("series %s is not numeric", s.name)
		}
		ri := -1
		var rv float64
		for i, v := range s.nums {
			if s.valid != nil && !s.valid[i] {
				continue
			}
			if ri == -1 || (name == "idxmax" && v > rv) || (name == "idxmin" && v < rv) {
				ri, rv = i, v
			}
		}
		if ri == -1 {
			return nil, fmt.Errorf("attempt to get %s of an empty sequence", name)
		}
		if s.keys != nil {
			return s.keys[ri], nil
		}
		return float64(ri), nil
	case "isin":
		list, ok := args[0].([]any)
		if !ok || len(args) != 1 {
			return nil, fmt.Errorf("isin needs a list")
		}
		bits := make([]bool, s.length())
		for i := 0; i < s.length(); i++ {
			if s.valid != nil && !s.valid[i] {
				continue
			}
			for _, item := range list {
				if s.isStr {
					if v, ok := item.(string); ok && v == s.strs[i] {
						bits[i] = true
					}
				} else if v, ok := item.(float64); ok && v == s.nums[i] {
					bits[i] = true
				}
			}
		}
		return &maskObj{bits: bits}, nil
	case "dropna":
		if s.valid == nil {
			return s, nil
		}
		out := &seriesObj{name: s.name, isStr: s.isStr}
		if s.isStr {
			out.strs = s.validStrs()
		} else {
			out.nums = s.validNums()
		}
		return out, nil
	}
	return nil, fmt.Errorf("unknown series method '%s'", name)
}

func statOrZero(v float64, err error) float64 {
	if err != nil {
		return 0
	}
	return v
}

type strCount struct {
	value string
	count int
}

// countStrings returns values by frequency desc, ties by first appearance.
func countStrings(vals []string) []strCount {
	counts := make(map[string]int)
	order := make(map[string]int)
	next := 0
	for _, v := range vals {
		if _, seen := counts[v]; !seen {
			order[v] = next
			next++
		}
		counts[v]++
	}
	out := make([]strCount, 0, len(counts))
	for v, n := range counts {
		out = append(out, strCount{value: v, count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].count != out[j].count {
			return out[i].count > out[j].count
		}
		return order[out[i].value] < order[out[j].value]
	})
	return out
}

func uniqueOf(s *seriesObj) []string {
	seen := make(map[string]bool)
	var out []string
	for i := 0; i < s.length(); i++ {
		if s.valid != nil && !s.valid[i] {
			continue
		}
		var v string
		if s.isStr {
			v = s.strs[i]
		} else {
			v = dataset.FormatFloat(s.nums[i])
		}
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}

func valueCountsOf(s *seriesObj) *seriesObj {
	var vals []string
	if s.isStr {
		vals = s.validStrs()
	} else {
		for _, n := range s.validNums() {
			vals = append(vals, dataset.FormatFloat(n))
		}
	}
	counts := countStrings(vals)
	keys := make([]string, len(counts))
	nums := make([]float64, len(counts))
	for i, c := range counts {
		keys[i] = c.value
		nums[i] = float64(c.count)
	}
	return keyedSeries(s.name, keys, nums)
}

func sliceSeries(s *seriesObj, n int, head bool) *seriesObj {
	total := s.length()
	if n > total {
		n = total
	}
	start := 0
	if !head {
		start = total - n
	}
	out := &seriesObj{name: s.name, isStr: s.isStr}
	if s.keys != nil {
		out.keys = s.keys[start : start+n]
	}
	if s.valid != nil {
		out.valid = s.valid[start : start+n]
	}
	if s.isStr {
		out.strs = s.strs[start : start+n]
	} else {
		out.nums = s.nums[start : start+n]
	}
	return out
}

func groupByMethod(g *groupByObj, name string) (any, error) {
	if name != "size" {
		return nil, fmt.Errorf("unknown groupby method '%s'", name)
	}
	c, _ := g.t.Column(g.key)
	counts := c.ValueCounts()
	keys := make([]string, len(counts))
	nums := make([]float64, len(counts))
	for i, vc := range counts {
		keys[i] = vc.Value
		nums[i] = float64(vc.Count)
	}
	return keyedSeries(g.key, keys, nums), nil
}

func seriesGroupMethod(g *seriesGroupObj, name string, args []any) (any, error) {
	if name == "agg" || name == "aggregate" {
		agg, err := strArg(args, 0)
		if err != nil {
			return nil, fmt.Errorf("agg needs an aggregation name")
		}
		name = agg
	}
	kc, _ := g.t.Column(g.key)
	vc, ok := g.t.Column(g.col)
	if !ok {
		return nil, fmt.Errorf("column '%s' does not exist", g.col)
	}

	var order []string
	groups := make(map[string][]float64)
	for i := 0; i < kc.Len(); i++ {
		if !kc.Valid[i] {
			continue
		}
		k := kc.CellString(i)
		if _, seen := groups[k]; !seen {
			order = append(order, k)
			groups[k] = nil
		}
		if v, okv := vc.FloatAt(i); okv {
			groups[k] = append(groups[k], v)
		}
	}

	keys := make([]string, len(order))
	nums := make([]float64, len(order))
	for i, k := range order {
		keys[i] = k
		if name == "count" {
			nums[i] = float64(len(groups[k]))
			continue
		}
		v, err := reduceNamed(name, groups[k])
		if err != nil {
			return nil, err
		}
		nums[i] = v
	}
	return keyedSeries(g.col, keys, nums), nil
}
