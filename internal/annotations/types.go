package annotations

import "strconv"

// Kind distinguishes type references from hard links.
type Kind int

const (
	KindTypeRef Kind = iota + 1
	KindLink
)

func (k Kind) String() string {
	switch k {
	case KindTypeRef:
		return "typeRef"
	case KindLink:
		return "link"
	default:
		return "unknown"
	}
}

// Style records the comment prefix found at the annotation site.
type Style int

const (
	// StyleInline comes from a `//` prefix and renders as ` // (N)!`.
	StyleInline Style = iota + 1
	// StyleDoc comes from a `##` prefix and renders as `(N)`, which is safe
	// inside comment bodies.
	StyleDoc
)

// Marker renders the footnote marker for index in this style.
func (s Style) Marker(index int) string {
	if s == StyleDoc {
		return "(" + strconv.Itoa(index) + ")"
	}
	return " // (" + strconv.Itoa(index) + ")!"
}

func styleFromPrefix(prefix string) Style {
	if prefix == "##" {
		return StyleDoc
	}
	return StyleInline
}

// SelfPath is the relPath value meaning "the file holding the current block".
const SelfPath = "self"

// Reference is one annotation record discovered in a block.
type Reference struct {
	Kind Kind

	// Type reference fields.
	TypeName       string
	RelPath        string
	Self           bool
	RegistryExport bool

	// Hard link fields.
	Text string
	URL  string

	Provisional int
	Final       int
	Style       Style
	// Line is the 1-based line, within the block, of the first site.
	Line int
}

// Malformed describes a typeRef annotation whose payload could not be used.
// The annotation is left in the text untouched.
type Malformed struct {
	Line     string
	LineNo   int
	TypeName string
	Err      error
}

// IndexSource hands out annotation indices.
type IndexSource interface {
	Next() int
}

// Counter is a monotonically increasing IndexSource starting at 1.
type Counter struct {
	next int
}

// NewCounter returns a counter whose first index is 1.
func NewCounter() *Counter {
	return &Counter{next: 1}
}

// Next returns the next index and advances the counter.
func (c *Counter) Next() int {
	if c.next == 0 {
		c.next = 1
	}
	idx := c.next
	c.next++
	return idx
}

// Peek returns the index the next call to Next will hand out.
func (c *Counter) Peek() int {
	if c.next == 0 {
		return 1
	}
	return c.next
}
