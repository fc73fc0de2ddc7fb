package sandbox

import (
	"fmt"
	"strconv"
	"strings"
)

type parser struct {
	toks []token
	pos  int
}

// parseProgram splits the code into statements (one per non-empty line) and
// parses each. A line of the form `name = expr` is an assignment; anything
// else is a bare expression.
func parseProgram(code string) ([]statement, error) {
	var stmts []statement
	for _, line := range strings.Split(code, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		toks, err := lex(line)
		if err != nil {
			return nil, err
		}
		p := &parser{toks: toks}
		st, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, st)
	}
	if len(stmts) == 0 {
		return nil, fmt.Errorf("empty expression")
	}
	return stmts, nil
}

func (p *parser) peek() token  { return p.toks[p.pos] }
func (p *parser) next() token  { t := p.toks[p.pos]; p.pos++; return t }
func (p *parser) atOp(s string) bool {
	t := p.peek()
	return t.Kind == tokOp && t.Text == s
}

func (p *parser) expectOp(s string) error {
	if !p.atOp(s) {
		return fmt.Errorf("expected %q at position %d", s, p.peek().Pos)
	}
	p.next()
	return nil
}

func (p *parser) parseStatement() (statement, error) {
	// lookahead for "ident = expr" (but not "==")
	if p.peek().Kind == tokIdent && p.pos+1 < len(p.toks) {
		nxt := p.toks[p.pos+1]
		if nxt.Kind == tokOp && nxt.Text == "=" {
			name := p.next().Text
			p.next() // "="
			expr, err := p.parseExpr()
			if err != nil {
				return statement{}, err
			}
			if p.peek().Kind != tokEOF {
				return statement{}, fmt.Errorf("unexpected trailing input at position %d", p.peek().Pos)
			}
			return statement{Assign: name, Expr: expr}, nil
		}
	}
	expr, err := p.parseExpr()
	if err != nil {
		return statement{}, err
	}
	if p.peek().Kind != tokEOF {
		return statement{}, fmt.Errorf("unexpected trailing input at position %d", p.peek().Pos)
	}
	return statement{Expr: expr}, nil
}

// precedence, loosest first: | then & then comparison then +- then */ then unary
func (p *parser) parseExpr() (node, error) { return p.parseOr() }

func (p *parser) parseOr() (node, error) {
	l, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.atOp("|") {
		p.next()
		r, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		l = binary{Op: "|", L: l, R: r}
	}
	return l, nil
}

func (p *parser) parseAnd() (node, error) {
	l, err := p.parseComparison()
	if err != nil {
		return nil, err
	}
	for p.atOp("&") {
		p.next()
		r, err := p.parseComparison()
		if err != nil {
			return nil, err
		}
		l = binary{Op: "&", L: l, R: r}
	}
	return l, nil
}

func (p *parser) parseComparison() (node, error) {
	l, err := p.parseArith()
	if err != nil {
		return nil, err
	}
	for _, op := range []string{"==", "!=", "<=", ">=", "<", ">"} {
		if p.atOp(op) {
			p.next()
			r, err := p.parseArith()
			if err != nil {
				return nil, err
			}
			return binary{Op: op, L: l, R: r}, nil
		}
	}
	return l, nil
}

func (p *parser) parseArith() (node, error) {
	l, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for p.atOp("+") || p.atOp("-") {
		op := p.next().Text
		r, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		l = binary{Op: op, L: l, R: r}
	}
	return l, nil
}

func (p *parser) parseTerm() (node, error) {
	l, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.atOp("*") || p.atOp("/") || p.atOp("%") {
		op := p.next().Text
		r, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		l = binary{Op: op, L: l, R: r}
	}
	return l, nil
}

func (p *parser) parseUnary() (node, error) {
	if p.atOp("-") || p.atOp("~") {
		op := p.next().Text
		x, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return unary{Op: op, X: x}, nil
	}
	return p.parsePostfix()
}

func (p *parser) parsePostfix() (node, error) {
	x, err := p.parseAtom()
	if err != nil {
		return nil, err
	}
	for {
		switch {
		case p.atOp("["):
			p.next()
			idx, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			if err := p.expectOp("]"); err != nil {
				return nil, err
			}
			x = subscript{X: x, Index: idx}
		case p.atOp("."):
			p.next()
			if p.peek().Kind != tokIdent {
				return nil, fmt.Errorf("expected name after '.' at position %d", p.peek().Pos)
			}
			name := p.next().Text
			if p.atOp("(") {
				args, kwargs, err := p.parseArgs()
				if err != nil {
					return nil, err
				}
				x = call{Fn: attr{X: x, Name: name}, Args: args, Kwargs: kwargs}
			} else {
				x = attr{X: x, Name: name}
			}
		default:
			return x, nil
		}
	}
}

func (p *parser) parseAtom() (node, error) {
	t := p.peek()
	switch t.Kind {
	case tokNumber:
		p.next()
		v, err := strconv.ParseFloat(t.Text, 64)
		if err != nil {
			return nil, fmt.Errorf("bad number %q", t.Text)
		}
		return numberLit{Value: v}, nil
	case tokString:
		p.next()
		return stringLit{Value: t.Text}, nil
	case tokIdent:
		p.next()
		switch t.Text {
		case "True":
			return boolLit{Value: true}, nil
		case "False":
			return boolLit{Value: false}, nil
		case "None":
			return ident{Name: "None"}, nil
		}
		if p.atOp("(") {
			args, kwargs, err := p.parseArgs()
			if err != nil {
				return nil, err
			}
			return call{Fn: ident{Name: t.Text}, Args: args, Kwargs: kwargs}, nil
		}
		return ident{Name: t.Text}, nil
	case tokOp:
		switch t.Text {
		case "(":
			p.next()
			inner, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			if err := p.expectOp(")"); err != nil {
				return nil, err
			}
			return inner, nil
		case "[":
			p.next()
			var items []node
			for !p.atOp("]") {
				item, err := p.parseExpr()
				if err != nil {
					return nil, err
				}
				items = append(items, item)
				if p.atOp(",") {
					p.next()
				}
			}
			p.next() // "]"
			return listLit{Items: items}, nil
		}
	}
	return nil, fmt.Errorf("unexpected token at position %d", t.Pos)
}

// parseArgs consumes "(" ... ")" with positional args first, then kw=value
// pairs in any mix.
func (p *parser) parseArgs() ([]node, map[string]node, error) {
	if err := p.expectOp("("); err != nil {
		return nil, nil, err
	}
	var args []node
	kwargs := map[string]node{}
	for !p.atOp(")") {
		if p.peek().Kind == tokIdent && p.pos+1 < len(p.toks) &&
			p.toks[p.pos+1].Kind == tokOp && p.toks[p.pos+1].Text == "=" {
			name := p.next().Text
			p.next() // "="
			v, err := p.parseExpr()
			if err != nil {
				return nil, nil, err
			}
			kwargs[name] = v
		} else {
			v, err := p.parseExpr()
			if err != nil {
				return nil, nil, err
			}
			args = append(args, v)
		}
		if p.atOp(",") {
			p.next()
		}
	}
	p.next() // ")"
	return args, kwargs, nil
}
