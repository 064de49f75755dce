package di

import (
	"fmt"
	"os"
	"strings"

	command "github.com/goliatone/go-command"
	"github.com/goliatone/go-schemadocs/internal/commands"
	docscmd "github.com/goliatone/go-schemadocs/internal/commands/docs"
	"github.com/goliatone/go-schemadocs/internal/directives"
	"github.com/goliatone/go-schemadocs/internal/logging"
	"github.com/goliatone/go-schemadocs/internal/logging/console"
	"github.com/goliatone/go-schemadocs/internal/logging/gologger"
	"github.com/goliatone/go-schemadocs/internal/markdown"
	"github.com/goliatone/go-schemadocs/internal/modindex"
	"github.com/goliatone/go-schemadocs/internal/pages"
	"github.com/goliatone/go-schemadocs/internal/resolver"
	"github.com/goliatone/go-schemadocs/internal/runtimeconfig"
	"github.com/goliatone/go-schemadocs/pkg/interfaces"
)

// Container wires the documentation services from a Config.
type Container struct {
	Config runtimeconfig.Config

	loggerProvider interfaces.LoggerProvider
	metrics        interfaces.DirectiveMetrics
	registry       docscmd.CommandRegistry
	traceIDs       func() string

	resolver   *resolver.Resolver
	indexer    *modindex.Indexer
	directives *directives.Service
	pages      *pages.Service
	handlers   *docscmd.HandlerSet
}

// Option mutates the container before services are built.
type Option func(*Container)

// WithLoggerProvider overrides the provider selected from Config.Logging.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		c.loggerProvider = provider
	}
}

// WithDirectiveMetrics installs a metrics hook on the directive service.
func WithDirectiveMetrics(metrics interfaces.DirectiveMetrics) Option {
	return func(c *Container) {
		c.metrics = metrics
	}
}

// WithCommandRegistry registers the docs command handlers on reg.
func WithCommandRegistry(reg docscmd.CommandRegistry) Option {
	return func(c *Container) {
		c.registry = reg
	}
}

// WithTraceIDGenerator overrides the trace id source of root resolutions.
func WithTraceIDGenerator(fn func() string) Option {
	return func(c *Container) {
		c.traceIDs = fn
	}
}

// NewContainer validates cfg and builds every service.
func NewContainer(cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Container{Config: cfg}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	if c.loggerProvider == nil {
		provider, err := configureLoggerProvider(cfg.Logging)
		if err != nil {
			return nil, err
		}
		c.loggerProvider = provider
	}

	resolverOpts := []resolver.Option{
		resolver.WithLogger(logging.ResolverLogger(c.loggerProvider)),
		resolver.WithDefaultFile(cfg.DefaultSchemaFile),
		resolver.WithCodeLanguage(cfg.CodeLanguage),
		resolver.WithMaxEmbeds(cfg.MaxEmbeds),
		resolver.WithSoftImportFailures(cfg.SoftImportFailures),
	}
	if c.traceIDs != nil {
		resolverOpts = append(resolverOpts, resolver.WithTraceIDGenerator(c.traceIDs))
	}
	c.resolver = resolver.New(resolverOpts...)

	c.indexer = modindex.New(
		modindex.WithIntroFile(cfg.IntroFile),
		modindex.WithLogger(logging.DirectivesLogger(c.loggerProvider)),
	)

	registry := directives.NewRegistry()
	if err := directives.RegisterBuiltIns(registry, c.resolver, c.indexer); err != nil {
		return nil, fmt.Errorf("di: register directives: %w", err)
	}
	serviceOpts := []directives.ServiceOption{
		directives.WithLogger(logging.DirectivesLogger(c.loggerProvider)),
	}
	if c.metrics != nil {
		serviceOpts = append(serviceOpts, directives.WithMetrics(c.metrics))
	}
	c.directives = directives.NewService(registry, serviceOpts...)

	c.pages = pages.NewService(pages.Config{
		DocsDir:      cfg.DocsDir,
		OutputDir:    cfg.OutputDir,
		Pattern:      cfg.Markdown.Pattern,
		Recursive:    cfg.Markdown.Recursive,
		SkipPrefixes: []string{"_"},
		HTML:         cfg.Markdown.HTML,
	}, c.directives,
		pages.WithLogger(logging.PagesLogger(c.loggerProvider)),
		pages.WithMarkdownParser(markdown.NewGoldmarkParser(interfaces.ParseOptions{
			Extensions: cfg.Markdown.Parser.Extensions,
			Sanitize:   cfg.Markdown.Parser.Sanitize,
			HardWraps:  cfg.Markdown.Parser.HardWraps,
			SafeMode:   cfg.Markdown.Parser.SafeMode,
		})),
	)

	handlers, err := docscmd.RegisterDocsCommands(c.registry, docscmd.Services{
		Resolver: c.resolver,
		Indexer:  c.indexer,
		Pages:    c.pages,
		Site:     c.pages,
	}, c.loggerProvider,
		docscmd.WithResolveTypeOptions(commandTimeout[docscmd.ResolveTypeCommand](cfg)...),
		docscmd.WithRenderPageOptions(commandTimeout[docscmd.RenderPageCommand](cfg)...),
		docscmd.WithListModulesOptions(commandTimeout[docscmd.ListModulesCommand](cfg)...),
	)
	if err != nil {
		return nil, err
	}
	c.handlers = handlers
	return c, nil
}

// LoggerProvider returns the provider every module logger is drawn from.
// It is nil when logging is disabled.
func (c *Container) LoggerProvider() interfaces.LoggerProvider { return c.loggerProvider }

// Resolver returns the type resolver.
func (c *Container) Resolver() *resolver.Resolver { return c.resolver }

// Indexer returns the module indexer.
func (c *Container) Indexer() *modindex.Indexer { return c.indexer }

// Directives returns the page directive service.
func (c *Container) Directives() *directives.Service { return c.directives }

// Pages returns the site builder.
func (c *Container) Pages() *pages.Service { return c.pages }

// Commands returns the docs command handlers.
func (c *Container) Commands() *docscmd.HandlerSet { return c.handlers }

func commandTimeout[T command.Message](cfg runtimeconfig.Config) []commands.HandlerOption[T] {
	if cfg.Commands.Timeout <= 0 {
		return nil
	}
	return []commands.HandlerOption[T]{commands.WithTimeout[T](cfg.Commands.Timeout)}
}

func configureLoggerProvider(cfg runtimeconfig.LoggingConfig) (interfaces.LoggerProvider, error) {
	switch runtimeconfig.NormalizeProvider(cfg.Provider) {
	case runtimeconfig.ProviderGoLogger:
		provider, err := gologger.NewProvider(gologger.Config{
			Level:     cfg.Level,
			Format:    cfg.Format,
			AddSource: cfg.AddSource,
			Focus:     cfg.Focus,
		})
		if err != nil {
			return nil, fmt.Errorf("di: configure go-logger: %w", err)
		}
		return provider, nil
	case runtimeconfig.ProviderNone:
		return nil, nil
	default:
		opts := console.Options{Writer: os.Stderr}
		if level, ok := console.ParseLevel(strings.TrimSpace(cfg.Level)); ok {
			opts.MinLevel = &level
		}
		return console.NewProvider(opts), nil
	}
}
