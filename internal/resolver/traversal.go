package resolver

import "github.com/goliatone/go-schemadocs/internal/annotations"

// Traversal is the state shared by every block rendered for one root call:
// the set of embedded type names and the annotation counter. It only grows.
type Traversal struct {
	visited map[string]struct{}
	order   []string
	counter *annotations.Counter
	embeds  int
}

// NewTraversal returns an empty traversal whose counter starts at 1.
func NewTraversal() *Traversal {
	return &Traversal{
		visited: map[string]struct{}{},
		counter: annotations.NewCounter(),
	}
}

// Next hands out the next annotation index.
func (t *Traversal) Next() int {
	return t.counter.Next()
}

// Visit marks name as embedded. It reports false when name was already visited.
func (t *Traversal) Visit(name string) bool {
	if _, ok := t.visited[name]; ok {
		return false
	}
	t.visited[name] = struct{}{}
	t.order = append(t.order, name)
	return true
}

// Order returns visited names in insertion order.
func (t *Traversal) Order() []string {
	out := make([]string, len(t.order))
	copy(out, t.order)
	return out
}

// Embeds reports how many child blocks were embedded so far.
func (t *Traversal) Embeds() int {
	return t.embeds
}

// Embed counts one more child block unless limit is positive and already
// reached.
func (t *Traversal) Embed(limit int) bool {
	if limit > 0 && t.embeds >= limit {
		return false
	}
	t.embeds++
	return true
}

var _ annotations.IndexSource = (*Traversal)(nil)
