package docscmd

import (
	"errors"

	"github.com/goliatone/go-schemadocs/internal/commands"
	"github.com/goliatone/go-schemadocs/pkg/interfaces"
)

// CommandRegistry is the minimal registration contract expected when wiring command handlers.
type CommandRegistry interface {
	RegisterCommand(handler any) error
}

// Services groups the collaborators the docs handlers drive.
type Services struct {
	Resolver interfaces.TypeResolver
	Indexer  interfaces.ModuleIndexer
	Pages    PageRenderer
	Site     SiteBuilder
}

// HandlerSet groups the handlers produced by RegisterDocsCommands.
type HandlerSet struct {
	ResolveType *ResolveTypeHandler
	RenderPage  *RenderPageHandler
	BuildSite   *BuildSiteHandler
	ListModules *ListModulesHandler
}

// Option customises handler wiring during registration.
type Option func(*options)

type options struct {
	resolveOpts []commands.HandlerOption[ResolveTypeCommand]
	renderOpts  []commands.HandlerOption[RenderPageCommand]
	buildOpts   []commands.HandlerOption[BuildSiteCommand]
	listOpts    []commands.HandlerOption[ListModulesCommand]
}

// WithResolveTypeOptions forwards options to the ResolveTypeHandler constructor.
func WithResolveTypeOptions(opts ...commands.HandlerOption[ResolveTypeCommand]) Option {
	return func(cfg *options) {
		cfg.resolveOpts = append(cfg.resolveOpts, opts...)
	}
}

// WithRenderPageOptions forwards options to the RenderPageHandler constructor.
func WithRenderPageOptions(opts ...commands.HandlerOption[RenderPageCommand]) Option {
	return func(cfg *options) {
		cfg.renderOpts = append(cfg.renderOpts, opts...)
	}
}

// WithBuildSiteOptions forwards options to the BuildSiteHandler constructor.
func WithBuildSiteOptions(opts ...commands.HandlerOption[BuildSiteCommand]) Option {
	return func(cfg *options) {
		cfg.buildOpts = append(cfg.buildOpts, opts...)
	}
}

// WithListModulesOptions forwards options to the ListModulesHandler constructor.
func WithListModulesOptions(opts ...commands.HandlerOption[ListModulesCommand]) Option {
	return func(cfg *options) {
		cfg.listOpts = append(cfg.listOpts, opts...)
	}
}

// RegisterDocsCommands builds the docs handlers and registers them with reg
// when it is not nil.
func RegisterDocsCommands(reg CommandRegistry, services Services, provider interfaces.LoggerProvider, opts ...Option) (*HandlerSet, error) {
	if services.Resolver == nil || services.Indexer == nil || services.Pages == nil || services.Site == nil {
		return nil, errors.New("docs command registration: services incomplete")
	}

	cfg := options{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	logger := commands.CommandLogger(provider, "docs")
	set := &HandlerSet{
		ResolveType: NewResolveTypeHandler(services.Resolver, logger, cfg.resolveOpts...),
		RenderPage:  NewRenderPageHandler(services.Pages, logger, cfg.renderOpts...),
		BuildSite:   NewBuildSiteHandler(services.Site, logger, cfg.buildOpts...),
		ListModules: NewListModulesHandler(services.Indexer, logger, cfg.listOpts...),
	}

	if reg != nil {
		for _, handler := range []any{set.ResolveType, set.RenderPage, set.BuildSite, set.ListModules} {
			if err := reg.RegisterCommand(handler); err != nil {
				return nil, err
			}
		}
	}
	return set, nil
}
