package schemadocs

import (
	"context"

	docscmd "github.com/goliatone/go-schemadocs/internal/commands/docs"
	"github.com/goliatone/go-schemadocs/internal/di"
	"github.com/goliatone/go-schemadocs/internal/pages"
	"github.com/goliatone/go-schemadocs/pkg/interfaces"
)

// TypeRequest exports the root resolution request.
type TypeRequest = interfaces.TypeRequest

// BuildOptions exports the site build options.
type BuildOptions = pages.BuildOptions

// BuildResult exports the site build report.
type BuildResult = pages.BuildResult

// CommandHandlers exports the docs command handler set.
type CommandHandlers = docscmd.HandlerSet

// Option customises module wiring.
type Option = di.Option

var (
	WithLoggerProvider   = di.WithLoggerProvider
	WithDirectiveMetrics = di.WithDirectiveMetrics
	WithCommandRegistry  = di.WithCommandRegistry
	WithTraceIDGenerator = di.WithTraceIDGenerator
)

// Module is the top level documentation runtime.
type Module struct {
	container *di.Container
}

// New constructs a Module from cfg.
func New(cfg Config, opts ...Option) (*Module, error) {
	container, err := di.NewContainer(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Module{container: container}, nil
}

// Container exposes the underlying DI container for advanced integrations.
func (m *Module) Container() *di.Container {
	return m.container
}

// Config returns the validated configuration.
func (m *Module) Config() Config {
	return m.container.Config
}

// ResolveType renders typeName from file (the default schema file when
// empty) in dir, followed by every block it references.
func (m *Module) ResolveType(ctx context.Context, dir, typeName, file string) (string, error) {
	return m.container.Resolver().ResolveType(ctx, TypeRequest{
		BaseDir:  dir,
		TypeName: typeName,
		File:     file,
	})
}

// ProcessPage expands the directives of source. path locates the page on
// disk; relative type and embed lookups start from its directory.
func (m *Module) ProcessPage(ctx context.Context, path string, source []byte) (string, error) {
	return m.container.Directives().Process(ctx, path, source)
}

// RenderPage reads a page relative to the docs directory and returns it
// expanded.
func (m *Module) RenderPage(ctx context.Context, path string) (string, error) {
	return m.container.Pages().RenderPage(ctx, path)
}

// ModuleTable renders the module listing for dir.
func (m *Module) ModuleTable(ctx context.Context, dir string) (string, error) {
	return m.container.Indexer().Table(ctx, dir)
}

// Build processes the docs tree into the output directory.
func (m *Module) Build(ctx context.Context, opts BuildOptions) (*BuildResult, error) {
	return m.container.Pages().Build(ctx, opts)
}

// Commands returns the command handlers bound to this module.
func (m *Module) Commands() *CommandHandlers {
	return m.container.Commands()
}
