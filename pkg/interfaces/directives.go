package interfaces

import (
	"context"
	"time"
)

// DirectiveRegistry stores the handlers available to page processing.
// Implementations must be safe for concurrent use.
type DirectiveRegistry interface {
	// Register stores a definition and returns an error when a directive
	// with the same name already exists or the definition is invalid.
	Register(definition DirectiveDefinition) error

	// Get returns the definition for the supplied directive name.
	Get(name string) (DirectiveDefinition, bool)

	// List exposes the current catalogue sorted by name.
	List() []DirectiveDefinition
}

// DirectiveParser finds directive lines in a page body.
type DirectiveParser interface {
	Parse(body string) []ParsedDirective
}

// DirectiveDefinition describes a page directive and its handler.
type DirectiveDefinition struct {
	Name        string
	Description string
	MinArgs     int
	// MaxArgs bounds the argument count; a negative value means unbounded.
	MaxArgs int
	// RawArgs passes everything after the name as a single argument, so
	// values may contain spaces.
	RawArgs bool
	Handler DirectiveHandler
}

// DirectiveHandler expands a directive into markdown.
type DirectiveHandler func(ctx DirectiveContext, args []string) (string, error)

// DirectiveContext carries the page-level state a handler needs.
type DirectiveContext struct {
	Context context.Context
	// PagePath is the absolute path of the page being processed.
	PagePath string
	// PageDir is the directory of PagePath; relative directive arguments
	// resolve against it.
	PageDir     string
	FrontMatter FrontMatter
}

// ParsedDirective is one directive occurrence found in a page.
type ParsedDirective struct {
	Name string
	Args []string
	// RawArgs is the text following the name, untouched.
	RawArgs string
	// Line is the zero-based line number within the page body.
	Line int
	Raw  string
}

// DirectiveMetrics receives timing and failure observations.
type DirectiveMetrics interface {
	ObserveExpandDuration(directive string, duration time.Duration)
	IncrementExpandError(directive string)
}
