package sandbox

import (
	"fmt"
	"strings"
	"unicode"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokIdent
	tokNumber
	tokString
	tokOp // punctuation and operators, Text holds the symbol
)

type token struct {
	Kind tokenKind
	Text string
	Pos  int
}

// twoCharOps are matched before single characters.
var twoCharOps = []string{"==", "!=", "<=", ">="}

const singleOps = "()[],.=<>+-*/&|~%"

// lex tokenizes a single statement. Whitespace separates tokens but carries
// no meaning; the statement splitter has already handled newlines.
func lex(src string) ([]token, error) {
	var toks []token
	i := 0
	for i < len(src) {
		c := src[i]
		switch {
		case c == ' ' || c == '\t':
			i++
		case c == '\'' || c == '"':
			quote := c
			j := i + 1
			for j < len(src) && src[j] != quote {
				j++
			}
			if j >= len(src) {
				return nil, fmt.Errorf("unterminated string at position %d", i)
			}
			toks = append(toks, token{Kind: tokString, Text: src[i+1 : j], Pos: i})
			i = j + 1
		case c >= '0' && c <= '9' || c == '.' && i+1 < len(src) && src[i+1] >= '0' && src[i+1] <= '9':
			j := i
			seenDot := false
			for j < len(src) && (src[j] >= '0' && src[j] <= '9' || src[j] == '.' && !seenDot) {
				if src[j] == '.' {
					// a trailing ".method" belongs to the next token
					if j+1 >= len(src) || src[j+1] < '0' || src[j+1] > '9' {
						break
					}
					seenDot = true
				}
				j++
			}
			toks = append(toks, token{Kind: tokNumber, Text: src[i:j], Pos: i})
			i = j
		case c == '_' || unicode.IsLetter(rune(c)):
			j := i
			for j < len(src) && (src[j] == '_' || unicode.IsLetter(rune(src[j])) || unicode.IsDigit(rune(src[j]))) {
				j++
			}
			toks = append(toks, token{Kind: tokIdent, Text: src[i:j], Pos: i})
			i = j
		default:
			if i+1 < len(src) {
				two := src[i : i+2]
				matched := false
				for _, op := range twoCharOps {
					if two == op {
						toks = append(toks, token{Kind: tokOp, Text: op, Pos: i})
						i += 2
						matched = true
						break
					}
				}
				if matched {
					continue
				}
			}
			if strings.IndexByte(singleOps, c) >= 0 {
				toks = append(toks, token{Kind: tokOp, Text: string(c), Pos: i})
				i++
				continue
			}
			return nil, fmt.Errorf("unexpected character %q at position %d", c, i)
		}
	}
	toks = append(toks, token{Kind: tokEOF, Pos: len(src)})
	return toks, nil
}
