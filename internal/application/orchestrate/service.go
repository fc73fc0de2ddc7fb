// Package orchestrate drives the model path for a question and falls back to
// the deterministic engine whenever the model is unavailable, returns no
// usable code, or the code fails to execute. The caller always gets a
// well-formed envelope.
package orchestrate

import (
	"context"
	"regexp"
	"strings"

	"github.com/bryanwahyu/askdata/internal/application/engine"
	"github.com/bryanwahyu/askdata/internal/application/sandbox"
	"github.com/bryanwahyu/askdata/internal/domain/answer"
	"github.com/bryanwahyu/askdata/internal/domain/dataset"
)

const (
	codeTag        = "CODE:"
	explanationTag = "EXPLANATION:"
)

// columnExprRe fishes a bare column expression out of a response that did
// not follow the tag format.
var columnExprRe = regexp.MustCompile(`df\[['"]([^'"]+)['"]\]`)

type Service struct {
	client answer.Client
	engine *engine.Engine
}

func New(client answer.Client) *Service {
	return &Service{client: client, engine: engine.New()}
}

// Answer runs the model path and falls back on any failure. Source of the
// returned envelope is reported alongside: "model" or "fallback".
func (s *Service) Answer(ctx context.Context, t *dataset.Table, question string) (env *answer.Envelope, source string) {
	defer func() {
		// no model-path failure may surface to the caller
		if r := recover(); r != nil {
			env, source = s.engine.Answer(t, question), "fallback"
		}
	}()

	if s.client == nil {
		return s.engine.Answer(t, question), "fallback"
	}
	raw, err := s.client.Generate(ctx, BuildPrompt(t, question))
	if err != nil || strings.TrimSpace(raw) == "" {
		return s.engine.Answer(t, question), "fallback"
	}

	if strings.Contains(raw, codeTag) {
		code, explanation := splitTagged(raw)
		res, text := sandbox.Execute(t, code)
		if res == nil {
			return s.engine.Answer(t, question), "fallback"
		}
		return &answer.Envelope{
			Explanation: explanation,
			Result:      text,
			ResultData:  res.Value,
			ResultType:  res.Type,
			RawResponse: raw,
		}, "model"
	}

	// no tag: try a plain column reference mentioned anywhere in the text
	if m := columnExprRe.FindStringSubmatch(raw); m != nil {
		if _, ok := t.Column(m[1]); ok {
			res, text := sandbox.Execute(t, "df['"+m[1]+"']")
			if res != nil {
				if len(text) > 500 {
					text = text[:500]
				}
				return &answer.Envelope{
					Explanation: raw,
					Result:      text,
					ResultData:  res.Value,
					ResultType:  res.Type,
					RawResponse: raw,
				}, "model"
			}
		}
	}

	return s.engine.Answer(t, question), "fallback"
}

// splitTagged extracts the code between CODE: and EXPLANATION:, and the
// explanation after it. A missing explanation yields empty text.
func splitTagged(raw string) (code, explanation string) {
	parts := strings.SplitN(raw, codeTag, 2)
	rest := parts[1]
	if i := strings.Index(rest, explanationTag); i >= 0 {
		return strings.TrimSpace(rest[:i]), strings.TrimSpace(rest[i+len(explanationTag):])
	}
	return strings.TrimSpace(rest), ""
}
