// Package sandbox evaluates model-generated table expressions. Instead of
// handing the text to a general evaluator, the accepted grammar is parsed
// into a small AST and interpreted against a private copy of the table, so
// nothing outside the expression language is reachable. The textual denylist
// stays in front of the parser as a legacy gate for prompts that expect the
// keyword-named rejection message.
package sandbox

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// MaxCodeLength caps accepted input; the boundary sanitizer applies the same
// limit, the executor re-checks defensively.
const MaxCodeLength = 5000

var dangerousKeywords = []string{
	"import", "from", "__", "globals", "locals", "vars", "dir",
	"eval", "exec", "compile", "open", "file", "input", "raw_input",
	"subprocess", "os.", "sys.", "shutil", "pickle", "marshal",
	"ctypes", "socket", "urllib", "requests", "http", "ftp",
	"sqlite3", "mysql", "psycopg2", "pymongo", "redis",
}

// Sanitize trims control characters and truncates to max. Mirrors the input
// sanitizer applied at the API boundary; kept exported so both layers share
// one implementation.
func Sanitize(text string, max int) string {
	var b strings.Builder
	for _, r := range text {
		if r == '\n' || r == '\t' || r >= 0x20 {
			b.WriteRune(r)
		}
	}
	out := b.String()
	if max > 0 && len(out) > max {
		cut := max
		for cut > 0 && !utf8.RuneStart(out[cut]) {
			cut--
		}
		out = out[:cut]
	}
	return out
}

// screen rejects code containing any denylisted token, case-insensitive.
func screen(code string) error {
	lower := strings.ToLower(code)
	for _, kw := range dangerousKeywords {
		if strings.Contains(lower, kw) {
			return fmt.Errorf("Security: Use of '%s' is not allowed", kw)
		}
	}
	return nil
}

// stripFences unwraps a markdown code block, with or without a language tag.
func stripFences(code string) string {
	if i := strings.Index(code, "```python"); i >= 0 {
		rest := code[i+len("```python"):]
		if j := strings.Index(rest, "```"); j >= 0 {
			rest = rest[:j]
		}
		return strings.TrimSpace(rest)
	}
	if i := strings.Index(code, "```"); i >= 0 {
		rest := code[i+3:]
		if j := strings.Index(rest, "```"); j >= 0 {
			rest = rest[:j]
		}
		return strings.TrimSpace(rest)
	}
	return strings.TrimSpace(code)
}
