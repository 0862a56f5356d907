package emit

import "github.com/dolthub/swiss"

// stringpool is spec.md §3's ordered list of distinct string-literal
// payloads: first-seen order, each with a stable global index. The dedup
// index is a swiss.Map for O(1) lookup on the pre-pass's hot path (every
// StringLit in every function body), per SPEC_FULL's domain-stack wiring.
type stringpool struct {
	values []string
	index  *swiss.Map[string, int]
}

func newStringpool() *stringpool {
	return &stringpool{index: swiss.NewMap[string, int](16)}
}

// intern records s if not already present and returns its stable index
// (spec.md §8 property 9: equal literals anywhere in the program map to the
// same global index, assigned in first-occurrence order).
func (p *stringpool) intern(s string) int {
	if idx, ok := p.index.Get(s); ok {
		return idx
	}
	idx := len(p.values)
	p.values = append(p.values, s)
	p.index.Put(s, idx)
	return idx
}

func (p *stringpool) len() int { return len(p.values) }
