package sandbox

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/bryanwahyu/askdata/internal/domain/answer"
	"github.com/bryanwahyu/askdata/internal/domain/dataset"
)

// Result is the normalized outcome of one executed expression.
type Result struct {
	Value any
	Type  answer.ResultType
	Text  string
}

// Execute runs the expression against a private copy of the table. On any
// rejection or evaluation failure the result is nil and the string carries
// the error text; the caller decides whether to fall back.
func Execute(t *dataset.Table, code string) (*Result, string) {
	code = Sanitize(code, MaxCodeLength)
	if err := screen(code); err != nil {
		return nil, err.Error()
	}
	code = stripFences(code)
	if len(code) > MaxCodeLength {
		return nil, "Code too long. Maximum 5000 characters allowed."
	}

	value, err := run(t, code)
	if err != nil {
		return nil, fmt.Sprintf("Error executing code: %v", err)
	}
	res, err := normalize(value)
	if err != nil {
		return nil, fmt.Sprintf("Error executing code: %v", err)
	}
	return res, res.Text
}

// run parses and evaluates, converting panics into errors so a malformed
// expression can never take the request down.
func run(t *dataset.Table, code string) (value any, err error) {
	defer func() {
		if r := recover(); r != nil {
			value, err = nil, fmt.Errorf("%v", r)
		}
	}()

	stmts, perr := parseProgram(code)
	if perr != nil {
		return nil, perr
	}

	ev := &evaluator{env: map[string]any{
		"df": &frameObj{t: t.Copy()},
	}}
	var last any
	for _, st := range stmts {
		v, eerr := ev.eval(st.Expr)
		if eerr != nil {
			return nil, eerr
		}
		if st.Assign != "" {
			ev.env[st.Assign] = v
		}
		last = v
	}

	// a multi-statement block communicates through the result variable;
	// a single statement is its own result
	if v, ok := ev.env["result"]; ok {
		return v, nil
	}
	if len(stmts) == 1 {
		return last, nil
	}
	return nil, fmt.Errorf("code did not assign 'result'")
}

const renderCap = 100

func normalize(value any) (*Result, error) {
	switch v := value.(type) {
	case nil:
		return nil, fmt.Errorf("expression produced no value")
	case *frameObj:
		total := v.t.NumRows()
		rows := v.t.Head(total)
		text := dataset.FormatTable(v.t, renderCap)
		if total > renderCap {
			text = fmt.Sprintf("%s\n\n... (showing first %d of %d rows)", text, renderCap, total)
		}
		return &Result{Value: rows, Type: answer.TypeDataframe, Text: text}, nil
	case *seriesObj:
		s, text := renderSeries(v)
		return &Result{Value: s, Type: answer.TypeSeries, Text: text}, nil
	case float64:
		return &Result{Value: v, Type: answer.TypeScalar, Text: dataset.FormatFloat(v)}, nil
	case bool:
		return &Result{Value: v, Type: answer.TypeOther, Text: renderScalar(v)}, nil
	case string:
		return &Result{Value: v, Type: answer.TypeOther, Text: v}, nil
	case []any:
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return nil, err
		}
		return &Result{Value: v, Type: answer.TypeOther, Text: string(data)}, nil
	case *maskObj:
		n := 0
		for _, b := range v.bits {
			if b {
				n++
			}
		}
		text := fmt.Sprintf("%d of %d rows match", n, len(v.bits))
		return &Result{Value: map[string]any{"matching": n, "total": len(v.bits)}, Type: answer.TypeOther, Text: text}, nil
	}
	return &Result{Value: fmt.Sprintf("%v", value), Type: answer.TypeOther, Text: fmt.Sprintf("%v", value)}, nil
}

func renderSeries(v *seriesObj) (answer.Series, string) {
	n := v.length()
	out := make(answer.Series, 0, n)
	for i := 0; i < n; i++ {
		key := strconv.Itoa(i)
		if v.keys != nil {
			key = v.keys[i]
		}
		var val any
		switch {
		case v.valid != nil && !v.valid[i]:
			val = nil
		case v.isStr:
			val = v.strs[i]
		default:
			val = v.nums[i]
		}
		out = append(out, answer.Item{Key: key, Value: val})
	}

	shown := out
	if len(shown) > renderCap {
		shown = shown[:renderCap]
	}
	w := 0
	for _, it := range shown {
		if len(it.Key) > w {
			w = len(it.Key)
		}
	}
	var b strings.Builder
	for i, it := range shown {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(it.Key)
		b.WriteString(strings.Repeat(" ", w-len(it.Key)+4))
		b.WriteString(renderScalar(it.Value))
	}
	text := b.String()
	if n > renderCap {
		text = fmt.Sprintf("%s\n\n... (showing first %d of %d values)", text, renderCap, n)
	}
	return out, text
}

func renderScalar(x any) string {
	switch v := x.(type) {
	case nil:
		return "NaN"
	case float64:
		return dataset.FormatFloat(v)
	case bool:
		if v {
			return "True"
		}
		return "False"
	case string:
		return v
	}
	return fmt.Sprintf("%v", x)
}
