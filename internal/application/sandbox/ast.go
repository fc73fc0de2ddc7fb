package sandbox

// Closed expression grammar: literals, names, subscripts, attribute access,
// calls with keyword arguments, comparisons, boolean mask combination, and
// basic arithmetic. Nothing else parses, so nothing else evaluates.

type node interface{ isNode() }

type numberLit struct{ Value float64 }

type stringLit struct{ Value string }

type boolLit struct{ Value bool }

type ident struct{ Name string }

type listLit struct{ Items []node }

type unary struct {
	Op string // "-" or "~"
	X  node
}

type binary struct {
	Op   string
	L, R node
}

// subscript is x[index]: column selection, projection, or mask filtering
// depending on the index type.
type subscript struct {
	X     node
	Index node
}

// attr is x.name without a call, e.g. df.shape.
type attr struct {
	X    node
	Name string
}

// call covers both builtin calls f(args) and method calls x.m(args).
type call struct {
	Fn     node // ident or attr
	Args   []node
	Kwargs map[string]node
}

func (numberLit) isNode() {}
func (stringLit) isNode() {}
func (boolLit) isNode()   {}
func (ident) isNode()     {}
func (listLit) isNode()   {}
func (unary) isNode()     {}
func (binary) isNode()    {}
func (subscript) isNode() {}
func (attr) isNode()      {}
func (call) isNode()      {}

// statement is one line: an optional assignment target plus an expression.
type statement struct {
	Assign string // empty for a bare expression
	Expr   node
}
