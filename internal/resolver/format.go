package resolver

import (
	"strings"
)

const (
	warningNote     = "    This module does not support using the shortie annotation."
	referencedTypes = "###### Referenced types"
)

// Section is everything needed to render one block.
type Section struct {
	TypeName    string
	Language    string
	Code        string
	Warning     bool
	Annotations []string
	Children    []string
	Root        bool
}

// Format renders a section as markdown. Only the root section introduces its
// children with a heading.
func Format(s Section) string {
	lang := s.Language
	if lang == "" {
		lang = DefaultLanguage
	}

	lines := make([]string, 0, 8+len(s.Annotations)+len(s.Children))
	if s.Warning {
		lines = append(lines, "!!! note", "", warningNote)
	}

	lines = append(lines,
		"```"+lang+` title="`+s.TypeName+`"`,
		CollapseDocTrailers(s.Code),
		"```",
		"{: #"+Anchor(s.TypeName)+"}",
		"",
	)

	if len(s.Annotations) > 0 {
		lines = append(lines, "")
		lines = append(lines, s.Annotations...)
		lines = append(lines, "")
	}

	if len(s.Children) > 0 {
		if s.Root {
			lines = append(lines, "", referencedTypes, "")
		}
		lines = append(lines, s.Children...)
	}

	return strings.Join(lines, "\n")
}

// Anchor returns the in-page anchor id for a type name.
func Anchor(typeName string) string {
	return strings.ToLower(typeName)
}

// CollapseDocTrailers drops empty doc-comment lines (`*` alone) that sit
// directly above a closing `*/` line.
func CollapseDocTrailers(code string) string {
	lines := strings.Split(code, "\n")
	out := make([]string, 0, len(lines))
	pending := 0
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == "*":
			out = append(out, line)
			pending++
			continue
		case trimmed == "*/":
			out = out[:len(out)-pending]
		}
		pending = 0
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}
