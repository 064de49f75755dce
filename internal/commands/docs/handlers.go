package docscmd

import (
	"context"
	"fmt"
	"io"

	command "github.com/goliatone/go-command"
	"github.com/goliatone/go-schemadocs/internal/commands"
	"github.com/goliatone/go-schemadocs/internal/logging"
	"github.com/goliatone/go-schemadocs/internal/pages"
	"github.com/goliatone/go-schemadocs/pkg/interfaces"
)

const (
	resolveTypeOperation = "docs.resolve_type"
	renderPageOperation  = "docs.render_page"
	buildSiteOperation   = "docs.build_site"
	listModulesOperation = "docs.list_modules"
)

var (
	_ command.Commander[ResolveTypeCommand] = (*ResolveTypeHandler)(nil)
	_ command.Commander[RenderPageCommand]  = (*RenderPageHandler)(nil)
	_ command.Commander[BuildSiteCommand]   = (*BuildSiteHandler)(nil)
	_ command.Commander[ListModulesCommand] = (*ListModulesHandler)(nil)
)

// PageRenderer expands a single page.
type PageRenderer interface {
	RenderPage(ctx context.Context, path string) (string, error)
}

// SiteBuilder builds the whole docs tree.
type SiteBuilder interface {
	Build(ctx context.Context, opts pages.BuildOptions) (*pages.BuildResult, error)
}

// ResolveTypeHandler runs ResolveTypeCommand.
type ResolveTypeHandler struct {
	inner *commands.Handler[ResolveTypeCommand]
}

// NewResolveTypeHandler creates a handler bound to resolver.
func NewResolveTypeHandler(resolver interfaces.TypeResolver, logger interfaces.Logger, opts ...commands.HandlerOption[ResolveTypeCommand]) *ResolveTypeHandler {
	logger = commands.EnsureLogger(logger)
	exec := func(ctx context.Context, msg ResolveTypeCommand) error {
		out, err := resolver.ResolveType(ctx, interfaces.TypeRequest{
			BaseDir:  msg.Dir,
			TypeName: msg.TypeName,
			File:     msg.File,
		})
		if err != nil {
			return err
		}
		return writeOutput(msg.Output, out)
	}

	handlerOpts := []commands.HandlerOption[ResolveTypeCommand]{
		commands.WithLogger[ResolveTypeCommand](logger),
		commands.WithOperation[ResolveTypeCommand](resolveTypeOperation),
		commands.WithMessageFields(func(msg ResolveTypeCommand) map[string]any {
			fields := map[string]any{
				"dir":  msg.Dir,
				"type": msg.TypeName,
			}
			if msg.File != "" {
				fields["file"] = msg.File
			}
			return fields
		}),
	}
	return &ResolveTypeHandler{
		inner: commands.NewHandler(exec, append(handlerOpts, opts...)...),
	}
}

// Execute satisfies command.Commander[ResolveTypeCommand].
func (h *ResolveTypeHandler) Execute(ctx context.Context, msg ResolveTypeCommand) error {
	return h.inner.Execute(ctx, msg)
}

// RenderPageHandler runs RenderPageCommand.
type RenderPageHandler struct {
	inner *commands.Handler[RenderPageCommand]
}

// NewRenderPageHandler creates a handler bound to renderer.
func NewRenderPageHandler(renderer PageRenderer, logger interfaces.Logger, opts ...commands.HandlerOption[RenderPageCommand]) *RenderPageHandler {
	logger = commands.EnsureLogger(logger)
	exec := func(ctx context.Context, msg RenderPageCommand) error {
		out, err := renderer.RenderPage(ctx, msg.Path)
		if err != nil {
			return err
		}
		return writeOutput(msg.Output, out)
	}

	handlerOpts := []commands.HandlerOption[RenderPageCommand]{
		commands.WithLogger[RenderPageCommand](logger),
		commands.WithOperation[RenderPageCommand](renderPageOperation),
		commands.WithMessageFields(func(msg RenderPageCommand) map[string]any {
			return map[string]any{"path": msg.Path}
		}),
	}
	return &RenderPageHandler{
		inner: commands.NewHandler(exec, append(handlerOpts, opts...)...),
	}
}

// Execute satisfies command.Commander[RenderPageCommand].
func (h *RenderPageHandler) Execute(ctx context.Context, msg RenderPageCommand) error {
	return h.inner.Execute(ctx, msg)
}

// BuildSiteHandler runs BuildSiteCommand.
type BuildSiteHandler struct {
	inner *commands.Handler[BuildSiteCommand]
}

// NewBuildSiteHandler creates a handler bound to builder.
func NewBuildSiteHandler(builder SiteBuilder, logger interfaces.Logger, opts ...commands.HandlerOption[BuildSiteCommand]) *BuildSiteHandler {
	logger = commands.EnsureLogger(logger)
	exec := func(ctx context.Context, msg BuildSiteCommand) error {
		result, err := builder.Build(ctx, pages.BuildOptions{
			Pages:  msg.Pages,
			DryRun: msg.DryRun,
		})
		if err != nil {
			return err
		}
		if result != nil {
			logging.WithFields(logger, map[string]any{
				"pages_built": result.PagesBuilt,
				"duration_ms": result.Duration.Milliseconds(),
				"dry_run":     result.DryRun,
			}).Info("docs.command.build_site.completed")
		}
		return nil
	}

	handlerOpts := []commands.HandlerOption[BuildSiteCommand]{
		commands.WithLogger[BuildSiteCommand](logger),
		commands.WithOperation[BuildSiteCommand](buildSiteOperation),
		// Whole-tree builds run longer than single lookups.
		commands.WithTimeout[BuildSiteCommand](0),
		commands.WithMessageFields(func(msg BuildSiteCommand) map[string]any {
			fields := map[string]any{}
			if len(msg.Pages) > 0 {
				fields["pages"] = msg.Pages
			}
			if msg.DryRun {
				fields["dry_run"] = true
			}
			return fields
		}),
	}
	return &BuildSiteHandler{
		inner: commands.NewHandler(exec, append(handlerOpts, opts...)...),
	}
}

// Execute satisfies command.Commander[BuildSiteCommand].
func (h *BuildSiteHandler) Execute(ctx context.Context, msg BuildSiteCommand) error {
	return h.inner.Execute(ctx, msg)
}

// ListModulesHandler runs ListModulesCommand.
type ListModulesHandler struct {
	inner *commands.Handler[ListModulesCommand]
}

// NewListModulesHandler creates a handler bound to indexer.
func NewListModulesHandler(indexer interfaces.ModuleIndexer, logger interfaces.Logger, opts ...commands.HandlerOption[ListModulesCommand]) *ListModulesHandler {
	logger = commands.EnsureLogger(logger)
	exec := func(ctx context.Context, msg ListModulesCommand) error {
		table, err := indexer.Table(ctx, msg.Dir)
		if err != nil {
			return err
		}
		return writeOutput(msg.Output, table)
	}

	handlerOpts := []commands.HandlerOption[ListModulesCommand]{
		commands.WithLogger[ListModulesCommand](logger),
		commands.WithOperation[ListModulesCommand](listModulesOperation),
		commands.WithMessageFields(func(msg ListModulesCommand) map[string]any {
			return map[string]any{"dir": msg.Dir}
		}),
	}
	return &ListModulesHandler{
		inner: commands.NewHandler(exec, append(handlerOpts, opts...)...),
	}
}

// Execute satisfies command.Commander[ListModulesCommand].
func (h *ListModulesHandler) Execute(ctx context.Context, msg ListModulesCommand) error {
	return h.inner.Execute(ctx, msg)
}

func writeOutput(w io.Writer, out string) error {
	if w == nil {
		return nil
	}
	if _, err := io.WriteString(w, out); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}
