package sandbox

import (
	"fmt"
	"math"
	"sort"
	"strconv"

	"github.com/bryanwahyu/askdata/internal/domain/dataset"
)

// seriesObj is a one-dimensional value: either a column view (positional,
// possibly with nulls) or a labeled result like value_counts/describe.
type seriesObj struct {
	name  string
	keys  []string // label index; nil means positional
	nums  []float64
	valid []bool
	strs  []string
	isStr bool
}

func (s *seriesObj) length() int {
	if s.isStr {
		return len(s.strs)
	}
	return len(s.nums)
}

// validNums returns the non-null numeric values.
func (s *seriesObj) validNums() []float64 {
	if s.valid == nil {
		return s.nums
	}
	out := make([]float64, 0, len(s.nums))
	for i, v := range s.nums {
		if s.valid[i] {
			out = append(out, v)
		}
	}
	return out
}

func (s *seriesObj) validStrs() []string {
	if s.valid == nil {
		return s.strs
	}
	out := make([]string, 0, len(s.strs))
	for i, v := range s.strs {
		if s.valid[i] {
			out = append(out, v)
		}
	}
	return out
}

type frameObj struct{ t *dataset.Table }

type maskObj struct{ bits []bool }

type groupByObj struct {
	t   *dataset.Table
	key string
}

type seriesGroupObj struct {
	t   *dataset.Table
	key string
	col string
}

func seriesFromColumn(c *dataset.Column) *seriesObj {
	s := &seriesObj{name: c.Name, valid: append([]bool(nil), c.Valid...)}
	if c.Type == dataset.Numeric {
		s.nums = append([]float64(nil), c.Floats...)
		return s
	}
	s.isStr = true
	s.strs = make([]string, c.Len())
	for i := 0; i < c.Len(); i++ {
		s.strs[i] = c.CellString(i)
	}
	return s
}

func keyedSeries(name string, keys []string, nums []float64) *seriesObj {
	return &seriesObj{name: name, keys: keys, nums: nums}
}

type evaluator struct {
	env map[string]any
}

func (e *evaluator) eval(n node) (any, error) {
	switch v := n.(type) {
	case numberLit:
		return v.Value, nil
	case stringLit:
		return v.Value, nil
	case boolLit:
		return v.Value, nil
	case ident:
		if v.Name == "None" {
			return nil, nil
		}
		if val, ok := e.env[v.Name]; ok {
			return val, nil
		}
		return nil, fmt.Errorf("name '%s' is not defined", v.Name)
	case listLit:
		items := make([]any, len(v.Items))
		for i, it := range v.Items {
			x, err := e.eval(it)
			if err != nil {
				return nil, err
			}
			items[i] = x
		}
		return items, nil
	case unary:
		return e.evalUnary(v)
	case binary:
		return e.evalBinary(v)
	case subscript:
		return e.evalSubscript(v)
	case attr:
		return e.evalAttr(v)
	case call:
		return e.evalCall(v)
	}
	return nil, fmt.Errorf("unsupported expression")
}

func (e *evaluator) evalUnary(u unary) (any, error) {
	x, err := e.eval(u.X)
	if err != nil {
		return nil, err
	}
	switch u.Op {
	case "-":
		switch v := x.(type) {
		case float64:
			return -v, nil
		case *seriesObj:
			if v.isStr {
				return nil, fmt.Errorf("cannot negate a string series")
			}
			out := &seriesObj{name: v.name, keys: v.keys, valid: v.valid}
			out.nums = make([]float64, len(v.nums))
			for i, n := range v.nums {
				out.nums[i] = -n
			}
			return out, nil
		}
	case "~":
		if m, ok := x.(*maskObj); ok {
			bits := make([]bool, len(m.bits))
			for i, b := range m.bits {
				bits[i] = !b
			}
			return &maskObj{bits: bits}, nil
		}
	}
	return nil, fmt.Errorf("unsupported operand for unary %s", u.Op)
}

func (e *evaluator) evalBinary(b binary) (any, error) {
	l, err := e.eval(b.L)
	if err != nil {
		return nil, err
	}
	r, err := e.eval(b.R)
	if err != nil {
		return nil, err
	}

	switch b.Op {
	case "&", "|":
		lm, ok1 := l.(*maskObj)
		rm, ok2 := r.(*maskObj)
		if !ok1 || !ok2 || len(lm.bits) != len(rm.bits) {
			return nil, fmt.Errorf("'%s' requires two aligned boolean masks", b.Op)
		}
		bits := make([]bool, len(lm.bits))
		for i := range bits {
			if b.Op == "&" {
				bits[i] = lm.bits[i] && rm.bits[i]
			} else {
				bits[i] = lm.bits[i] || rm.bits[i]
			}
		}
		return &maskObj{bits: bits}, nil
	case "==", "!=", "<", "<=", ">", ">=":
		return compare(b.Op, l, r)
	case "+", "-", "*", "/", "%":
		return arith(b.Op, l, r)
	}
	return nil, fmt.Errorf("unsupported operator %s", b.Op)
}

func compare(op string, l, r any) (any, error) {
	// series vs literal produces a mask
	if s, ok := l.(*seriesObj); ok {
		return seriesCompare(op, s, r, false)
	}
	if s, ok := r.(*seriesObj); ok {
		return seriesCompare(op, s, l, true)
	}
	lf, lok := l.(float64)
	rf, rok := r.(float64)
	if lok && rok {
		return cmpFloat(op, lf, rf)
	}
	ls, lok2 := l.(string)
	rs, rok2 := r.(string)
	if lok2 && rok2 {
		switch op {
		case "==":
			return ls == rs, nil
		case "!=":
			return ls != rs, nil
		}
	}
	return nil, fmt.Errorf("unsupported comparison")
}

func cmpFloat(op string, a, b float64) (bool, error) {
	switch op {
	case "==":
		return a == b, nil
	case "!=":
		return a != b, nil
	case "<":
		return a < b, nil
	case "<=":
		return a <= b, nil
	case ">":
		return a > b, nil
	case ">=":
		return a >= b, nil
	}
	return false, fmt.Errorf("unsupported comparison %s", op)
}

// seriesCompare builds a row mask; null cells never match. flipped means the
// series was on the right-hand side.
func seriesCompare(op string, s *seriesObj, lit any, flipped bool) (*maskObj, error) {
	if flipped {
		switch op {
		case "<":
			op = ">"
		case "<=":
			op = ">="
		case ">":
			op = "<"
		case ">=":
			op = "<="
		}
	}
	bits := make([]bool, s.length())
	switch v := lit.(type) {
	case float64:
		if s.isStr {
			return nil, fmt.Errorf("cannot compare string column %s with a number", s.name)
		}
		for i, n := range s.nums {
			if s.valid != nil && !s.valid[i] {
				continue
			}
			ok, err := cmpFloat(op, n, v)
			if err != nil {
				return nil, err
			}
			bits[i] = ok
		}
	case string:
		if !s.isStr {
			return nil, fmt.Errorf("cannot compare numeric column %s with a string", s.name)
		}
		for i, str := range s.strs {
			if s.valid != nil && !s.valid[i] {
				continue
			}
			switch op {
			case "==":
				bits[i] = str == v
			case "!=":
				bits[i] = str != v
			default:
				return nil, fmt.Errorf("unsupported string comparison %s", op)
			}
		}
	default:
		return nil, fmt.Errorf("unsupported comparison operand")
	}
	return &maskObj{bits: bits}, nil
}

func arith(op string, l, r any) (any, error) {
	lf, lok := l.(float64)
	rf, rok := r.(float64)
	if lok && rok {
		return applyArith(op, lf, rf)
	}
	if ls, ok := l.(string); ok {
		if rs, ok2 := r.(string); ok2 && op == "+" {
			return ls + rs, nil
		}
	}
	if s, ok := l.(*seriesObj); ok && rok {
		return seriesArith(op, s, rf, false)
	}
	if s, ok := r.(*seriesObj); ok && lok {
		return seriesArith(op, s, lf, true)
	}
	ls, lok2 := l.(*seriesObj)
	rs, rok2 := r.(*seriesObj)
	if lok2 && rok2 {
		return seriesPairArith(op, ls, rs)
	}
	return nil, fmt.Errorf("unsupported operands for %s", op)
}

func applyArith(op string, a, b float64) (float64, error) {
	switch op {
	case "+":
		return a + b, nil
	case "-":
		return a - b, nil
	case "*":
		return a * b, nil
	case "/":
		if b == 0 {
			return 0, fmt.Errorf("division by zero")
		}
		return a / b, nil
	case "%":
		if b == 0 {
			return 0, fmt.Errorf("division by zero")
		}
		return math.Mod(a, b), nil
	}
	return 0, fmt.Errorf("unsupported operator %s", op)
}

func seriesArith(op string, s *seriesObj, v float64, flipped bool) (*seriesObj, error) {
	if s.isStr {
		return nil, fmt.Errorf("arithmetic on string column %s", s.name)
	}
	out := &seriesObj{name: s.name, keys: s.keys, valid: s.valid}
	out.nums = make([]float64, len(s.nums))
	for i, n := range s.nums {
		a, b := n, v
		if flipped {
			a, b = v, n
		}
		res, err := applyArith(op, a, b)
		if err != nil {
			return nil, err
		}
		out.nums[i] = res
	}
	return out, nil
}

func seriesPairArith(op string, a, b *seriesObj) (*seriesObj, error) {
	if a.isStr || b.isStr || a.length() != b.length() {
		return nil, fmt.Errorf("cannot combine series %s and %s", a.name, b.name)
	}
	out := &seriesObj{name: a.name}
	out.nums = make([]float64, len(a.nums))
	if a.valid != nil || b.valid != nil {
		out.valid = make([]bool, len(a.nums))
	}
	for i := range a.nums {
		va := a.valid == nil || a.valid[i]
		vb := b.valid == nil || b.valid[i]
		if out.valid != nil {
			out.valid[i] = va && vb
		}
		if !va || !vb {
			continue
		}
		res, err := applyArith(op, a.nums[i], b.nums[i])
		if err != nil {
			return nil, err
		}
		out.nums[i] = res
	}
	return out, nil
}

func (e *evaluator) evalSubscript(s subscript) (any, error) {
	x, err := e.eval(s.X)
	if err != nil {
		return nil, err
	}
	idx, err := e.eval(s.Index)
	if err != nil {
		return nil, err
	}

	switch recv := x.(type) {
	case *frameObj:
		switch iv := idx.(type) {
		case string:
			col, ok := recv.t.Column(iv)
			if !ok {
				return nil, fmt.Errorf("column '%s' does not exist", iv)
			}
			return seriesFromColumn(col), nil
		case []any:
			names := make([]string, len(iv))
			for i, item := range iv {
				str, ok := item.(string)
				if !ok {
					return nil, fmt.Errorf("column list must contain names")
				}
				names[i] = str
			}
			sub, err := recv.t.Project(names)
			if err != nil {
				return nil, err
			}
			return &frameObj{t: sub}, nil
		case *maskObj:
			if len(iv.bits) != recv.t.NumRows() {
				return nil, fmt.Errorf("mask length %d does not match %d rows", len(iv.bits), recv.t.NumRows())
			}
			var rows []int
			for i, b := range iv.bits {
				if b {
					rows = append(rows, i)
				}
			}
			return &frameObj{t: recv.t.Select(rows)}, nil
		}
		return nil, fmt.Errorf("unsupported table index")
	case *groupByObj:
		name, ok := idx.(string)
		if !ok {
			return nil, fmt.Errorf("group selection needs a column name")
		}
		if _, exists := recv.t.Column(name); !exists {
			return nil, fmt.Errorf("column '%s' does not exist", name)
		}
		return &seriesGroupObj{t: recv.t, key: recv.key, col: name}, nil
	case *seriesObj:
		switch iv := idx.(type) {
		case float64:
			i := int(iv)
			if i < 0 || i >= recv.length() {
				return nil, fmt.Errorf("index %d out of range", i)
			}
			if recv.isStr {
				return recv.strs[i], nil
			}
			return recv.nums[i], nil
		case string:
			for i, k := range recv.keys {
				if k == iv {
					return recv.nums[i], nil
				}
			}
			return nil, fmt.Errorf("key '%s' not found", iv)
		}
		return nil, fmt.Errorf("unsupported series index")
	case []any:
		i, ok := idx.(float64)
		if !ok {
			return nil, fmt.Errorf("list index must be a number")
		}
		n := int(i)
		if n < 0 {
			n += len(recv)
		}
		if n < 0 || n >= len(recv) {
			return nil, fmt.Errorf("index %d out of range", n)
		}
		return recv[n], nil
	}
	return nil, fmt.Errorf("value is not subscriptable")
}

func (e *evaluator) evalAttr(a attr) (any, error) {
	x, err := e.eval(a.X)
	if err != nil {
		return nil, err
	}
	switch recv := x.(type) {
	case *frameObj:
		switch a.Name {
		case "shape":
			return []any{float64(recv.t.NumRows()), float64(recv.t.NumCols())}, nil
		case "columns":
			names := recv.t.ColumnNames()
			out := make([]any, len(names))
			for i, n := range names {
				out[i] = n
			}
			return out, nil
		case "empty":
			return recv.t.NumRows() == 0, nil
		}
	case *seriesObj:
		switch a.Name {
		case "values":
			return recv, nil
		case "name":
			return recv.name, nil
		case "empty":
			return recv.length() == 0, nil
		}
	}
	return nil, fmt.Errorf("unknown attribute '%s'", a.Name)
}

func (e *evaluator) evalCall(c call) (any, error) {
	// method call
	if at, ok := c.Fn.(attr); ok {
		recv, err := e.eval(at.X)
		if err != nil {
			return nil, err
		}
		args, kwargs, err := e.evalArgs(c)
		if err != nil {
			return nil, err
		}
		return e.callMethod(recv, at.Name, args, kwargs)
	}
	// builtin call
	id, ok := c.Fn.(ident)
	if !ok {
		return nil, fmt.Errorf("value is not callable")
	}
	args, _, err := e.evalArgs(c)
	if err != nil {
		return nil, err
	}
	return callBuiltin(id.Name, args)
}

func (e *evaluator) evalArgs(c call) ([]any, map[string]any, error) {
	args := make([]any, len(c.Args))
	for i, a := range c.Args {
		v, err := e.eval(a)
		if err != nil {
			return nil, nil, err
		}
		args[i] = v
	}
	kwargs := make(map[string]any, len(c.Kwargs))
	for k, a := range c.Kwargs {
		v, err := e.eval(a)
		if err != nil {
			return nil, nil, err
		}
		kwargs[k] = v
	}
	return args, kwargs, nil
}

func asNums(x any) ([]float64, error) {
	switch v := x.(type) {
	case *seriesObj:
		if v.isStr {
			return nil, fmt.Errorf("series %s is not numeric", v.name)
		}
		return v.validNums(), nil
	case []any:
		out := make([]float64, len(v))
		for i, item := range v {
			f, ok := item.(float64)
			if !ok {
				return nil, fmt.Errorf("list item is not a number")
			}
			out[i] = f
		}
		return out, nil
	}
	return nil, fmt.Errorf("value is not a sequence of numbers")
}

func callBuiltin(name string, args []any) (any, error) {
	one := func() (any, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("%s() takes one argument", name)
		}
		return args[0], nil
	}
	switch name {
	case "len":
		x, err := one()
		if err != nil {
			return nil, err
		}
		switch v := x.(type) {
		case *frameObj:
			return float64(v.t.NumRows()), nil
		case *seriesObj:
			return float64(v.length()), nil
		case []any:
			return float64(len(v)), nil
		case string:
			return float64(len(v)), nil
		}
		return nil, fmt.Errorf("len() of unsupported value")
	case "sum", "max", "min", "avg", "mean":
		x, err := one()
		if err != nil {
			return nil, err
		}
		nums, err := asNums(x)
		if err != nil {
			return nil, err
		}
		return reduce(name, nums), nil
	case "abs":
		x, err := one()
		if err != nil {
			return nil, err
		}
		f, ok := x.(float64)
		if !ok {
			return nil, fmt.Errorf("abs() needs a number")
		}
		return math.Abs(f), nil
	case "round":
		if len(args) == 0 || len(args) > 2 {
			return nil, fmt.Errorf("round() takes one or two arguments")
		}
		f, ok := args[0].(float64)
		if !ok {
			return nil, fmt.Errorf("round() needs a number")
		}
		digits := 0.0
		if len(args) == 2 {
			d, ok := args[1].(float64)
			if !ok {
				return nil, fmt.Errorf("round() digits must be a number")
			}
			digits = d
		}
		scale := math.Pow(10, digits)
		return math.Round(f*scale) / scale, nil
	case "str":
		x, err := one()
		if err != nil {
			return nil, err
		}
		return renderScalar(x), nil
	case "int":
		x, err := one()
		if err != nil {
			return nil, err
		}
		switch v := x.(type) {
		case float64:
			return math.Trunc(v), nil
		case string:
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid literal for int(): %q", v)
			}
			return math.Trunc(f), nil
		}
		return nil, fmt.Errorf("int() of unsupported value")
	case "float":
		x, err := one()
		if err != nil {
			return nil, err
		}
		switch v := x.(type) {
		case float64:
			return v, nil
		case string:
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid literal for float(): %q", v)
			}
			return f, nil
		}
		return nil, fmt.Errorf("float() of unsupported value")
	case "sorted":
		x, err := one()
		if err != nil {
			return nil, err
		}
		nums, err := asNums(x)
		if err == nil {
			cp := append([]float64(nil), nums...)
			sort.Float64s(cp)
			out := make([]any, len(cp))
			for i, f := range cp {
				out[i] = f
			}
			return out, nil
		}
		if s, ok := x.(*seriesObj); ok && s.isStr {
			cp := append([]string(nil), s.validStrs()...)
			sort.Strings(cp)
			out := make([]any, len(cp))
			for i, v := range cp {
				out[i] = v
			}
			return out, nil
		}
		return nil, fmt.Errorf("sorted() of unsupported value")
	case "list":
		x, err := one()
		if err != nil {
			return nil, err
		}
		switch v := x.(type) {
		case []any:
			return v, nil
		case *seriesObj:
			return seriesToList(v), nil
		}
		return nil, fmt.Errorf("list() of unsupported value")
	}
	return nil, fmt.Errorf("name '%s' is not defined", name)
}

func reduce(name string, nums []float64) float64 {
	if len(nums) == 0 {
		return 0
	}
	switch name {
	case "sum":
		total := 0.0
		for _, v := range nums {
			total += v
		}
		return total
	case "max":
		m := nums[0]
		for _, v := range nums[1:] {
			if v > m {
				m = v
			}
		}
		return m
	case "min":
		m := nums[0]
		for _, v := range nums[1:] {
			if v < m {
				m = v
			}
		}
		return m
	default: // avg, mean
		total := 0.0
		for _, v := range nums {
			total += v
		}
		return total / float64(len(nums))
	}
}

func seriesToList(s *seriesObj) []any {
	if s.isStr {
		vals := s.validStrs()
		out := make([]any, len(vals))
		for i, v := range vals {
			out[i] = v
		}
		return out
	}
	vals := s.validNums()
	out := make([]any, len(vals))
	for i, v := range vals {
		out[i] = v
	}
	return out
}
