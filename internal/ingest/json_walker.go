package ingest

import (
	"fmt"

	"github.com/ohler55/ojg/jp"
)

// JsonWalker implements Walker with JSONPath expressions. Parsed
// expressions are kept, since a directory load reuses one selector for
// every file.
type JsonWalker struct {
	exprs map[string]jp.Expr
}

func NewJsonWalker() *JsonWalker {
	return &JsonWalker{exprs: make(map[string]jp.Expr)}
}

func (w *JsonWalker) compile(selector string) (jp.Expr, error) {
	if x, ok := w.exprs[selector]; ok {
		return x, nil
	}
	x, err := jp.ParseString(selector)
	if err != nil {
		return nil, fmt.Errorf("invalid jsonpath '%s': %w", selector, err)
	}
	w.exprs[selector] = x
	return x, nil
}

// Query implements Walker.
func (w *JsonWalker) Query(root any, selector string) ([]Match, error) {
	x, err := w.compile(selector)
	if err != nil {
		return nil, err
	}
	results := x.Get(root)
	matches := make([]Match, len(results))
	for i, r := range results {
		matches[i] = jsonMatch{value: r}
	}
	return matches, nil
}

type jsonMatch struct {
	value any
}

// Values implements Match.
func (m jsonMatch) Values() map[string]any {
	if obj, ok := m.value.(map[string]any); ok {
		return obj
	}
	return map[string]any{"value": m.value}
}

// Context implements Match.
func (m jsonMatch) Context() any {
	return m.value
}
