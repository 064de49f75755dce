package directives

import (
	"strings"

	"github.com/goliatone/go-schemadocs/pkg/interfaces"
)

// LineParser finds directives written alone on a line as `![name args...]`.
type LineParser struct{}

// NewLineParser creates a parser instance.
func NewLineParser() *LineParser {
	return &LineParser{}
}

// Parse returns the directives found in body in line order.
func (LineParser) Parse(body string) []interfaces.ParsedDirective {
	var out []interfaces.ParsedDirective
	for idx, line := range strings.Split(body, "\n") {
		if directive, ok := parseLine(strings.TrimSuffix(line, "\r")); ok {
			directive.Line = idx
			out = append(out, directive)
		}
	}
	return out
}

func parseLine(line string) (interfaces.ParsedDirective, bool) {
	if !strings.HasPrefix(line, "![") || !strings.HasSuffix(line, "]") || len(line) < 4 {
		return interfaces.ParsedDirective{}, false
	}
	inner := line[2 : len(line)-1]
	if inner == "" || strings.Contains(inner, "]") {
		return interfaces.ParsedDirective{}, false
	}

	name, rest, _ := strings.Cut(inner, " ")
	if name == "" {
		return interfaces.ParsedDirective{}, false
	}
	return interfaces.ParsedDirective{
		Name:    name,
		Args:    strings.Fields(rest),
		RawArgs: rest,
		Raw:     line,
	}, true
}

var _ interfaces.DirectiveParser = LineParser{}
