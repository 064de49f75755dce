package interfaces

import "context"

// TypeRequest identifies a root resolution: a type name looked up in a
// source file relative to a base directory.
type TypeRequest struct {
	BaseDir  string
	TypeName string
	// File overrides the default schema file name when not empty.
	File string
}

// TypeResolver renders a type block, and every block it references, into
// markdown.
type TypeResolver interface {
	ResolveType(ctx context.Context, req TypeRequest) (string, error)
}

// ModuleIndexer renders the table of documented modules found under dir.
type ModuleIndexer interface {
	Table(ctx context.Context, dir string) (string, error)
}
