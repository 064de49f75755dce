package pages

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/goliatone/go-schemadocs/internal/logging"
	"github.com/goliatone/go-schemadocs/internal/markdown"
	"github.com/goliatone/go-schemadocs/pkg/interfaces"
)

// Processor expands the directives of one page.
type Processor interface {
	Process(ctx context.Context, path string, source []byte) (string, error)
}

// Config captures site build behaviour.
type Config struct {
	DocsDir   string
	OutputDir string
	Pattern   string
	Recursive bool
	// SkipPrefixes lists directory name prefixes that are never walked.
	SkipPrefixes []string
	// HTML renders an .html file next to every processed page.
	HTML bool
}

// BuildOptions narrows the scope of a build.
type BuildOptions struct {
	// Pages limits the build to these paths, relative to DocsDir.
	Pages  []string
	DryRun bool
}

// BuildResult reports aggregated build metadata.
type BuildResult struct {
	PagesBuilt int
	Duration   time.Duration
	Rendered   []RenderedPage
	DryRun     bool
}

// RenderedPage describes one processed page.
type RenderedPage struct {
	Source     string
	Output     string
	HTMLOutput string
	Checksum   string
	Markdown   string
}

// Service builds the documentation site.
type Service struct {
	cfg       Config
	processor Processor
	parser    interfaces.MarkdownParser
	loader    *markdown.Loader
	writer    artifactWriter
	logger    interfaces.Logger
	now       func() time.Time
}

// Option customises the service.
type Option func(*Service)

// WithLogger attaches a logger used for structured diagnostics.
func WithLogger(logger interfaces.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMarkdownParser sets the parser used for HTML output.
func WithMarkdownParser(parser interfaces.MarkdownParser) Option {
	return func(s *Service) {
		if parser != nil {
			s.parser = parser
		}
	}
}

// NewService wires a site builder. Pages are read through an os.DirFS rooted
// at cfg.DocsDir.
func NewService(cfg Config, processor Processor, opts ...Option) *Service {
	s := &Service{
		cfg:       cfg,
		processor: processor,
		parser:    markdown.NewGoldmarkParser(interfaces.ParseOptions{}),
		loader: markdown.NewLoader(os.DirFS(cfg.DocsDir), markdown.LoaderConfig{
			BasePath:     cfg.DocsDir,
			Pattern:      cfg.Pattern,
			Recursive:    cfg.Recursive,
			SkipPrefixes: cfg.SkipPrefixes,
		}),
		writer: dirWriter{},
		logger: logging.NoOp(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Build processes every page below DocsDir, or the pages named in opts, and
// writes the results under OutputDir.
func (s *Service) Build(ctx context.Context, opts BuildOptions) (*BuildResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if s.processor == nil {
		return nil, ErrProcessorRequired
	}
	if strings.TrimSpace(s.cfg.DocsDir) == "" {
		return nil, ErrDocsDirRequired
	}
	if strings.TrimSpace(s.cfg.OutputDir) == "" && !opts.DryRun {
		return nil, ErrOutputDirRequired
	}

	start := s.now()
	logger := logging.WithFields(s.logger.WithContext(ctx), map[string]any{
		"operation":  "pages.build",
		"docs_dir":   s.cfg.DocsDir,
		"output_dir": s.cfg.OutputDir,
		"dry_run":    opts.DryRun,
	})

	results, err := s.load(ctx, opts.Pages)
	if err != nil {
		logging.WithFields(logger, map[string]any{
			"error": err,
		}).Error("pages.build.load_failed")
		return nil, err
	}

	writer := s.writer
	if opts.DryRun {
		writer = noopWriter{}
	}

	result := &BuildResult{DryRun: opts.DryRun}
	for _, loaded := range results {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rendered, err := s.renderPage(ctx, writer, loaded)
		if err != nil {
			logging.WithFields(logger, map[string]any{
				"page":  loaded.Page.FilePath,
				"error": err,
			}).Error("pages.build.page_failed")
			return nil, err
		}
		result.Rendered = append(result.Rendered, rendered)
		result.PagesBuilt++
	}

	result.Duration = s.now().Sub(start)
	logging.WithFields(logger, map[string]any{
		"pages":       result.PagesBuilt,
		"duration_ms": result.Duration.Milliseconds(),
	}).Info("pages.build.completed")
	return result, nil
}

// RenderPage processes a single page given by a path relative to DocsDir and
// returns the expanded markdown without writing anything.
func (s *Service) RenderPage(ctx context.Context, rel string) (string, error) {
	if s.processor == nil {
		return "", ErrProcessorRequired
	}
	loaded, err := s.loader.LoadFile(ctx, rel)
	if err != nil {
		return "", err
	}
	return s.processor.Process(ctx, filepath.Join(s.cfg.DocsDir, filepath.FromSlash(loaded.Page.FilePath)), loaded.Source)
}

func (s *Service) load(ctx context.Context, selected []string) ([]*markdown.PageResult, error) {
	if len(selected) == 0 {
		return s.loader.LoadDirectory(ctx, ".")
	}
	out := make([]*markdown.PageResult, 0, len(selected))
	for _, rel := range selected {
		loaded, err := s.loader.LoadFile(ctx, rel)
		if err != nil {
			return nil, err
		}
		out = append(out, loaded)
	}
	return out, nil
}

func (s *Service) renderPage(ctx context.Context, writer artifactWriter, loaded *markdown.PageResult) (RenderedPage, error) {
	rel := filepath.FromSlash(loaded.Page.FilePath)
	source := filepath.Join(s.cfg.DocsDir, rel)

	processed, err := s.processor.Process(ctx, source, loaded.Source)
	if err != nil {
		return RenderedPage{}, fmt.Errorf("pages: process %s: %w", loaded.Page.FilePath, err)
	}

	rendered := RenderedPage{
		Source:   source,
		Output:   filepath.Join(s.cfg.OutputDir, rel),
		Checksum: computeHash([]byte(processed)),
		Markdown: processed,
	}
	if err := writer.WriteFile(rendered.Output, []byte(processed)); err != nil {
		return RenderedPage{}, fmt.Errorf("pages: write %s: %w", rendered.Output, err)
	}

	if s.cfg.HTML {
		if s.parser == nil {
			return RenderedPage{}, errors.New("pages: markdown parser required for html output")
		}
		_, _, body, err := markdown.ParseFrontMatter([]byte(processed))
		if err != nil {
			return RenderedPage{}, err
		}
		html, err := s.parser.Parse(body)
		if err != nil {
			return RenderedPage{}, fmt.Errorf("pages: render %s: %w", loaded.Page.FilePath, err)
		}
		rendered.HTMLOutput = strings.TrimSuffix(rendered.Output, filepath.Ext(rendered.Output)) + ".html"
		if err := writer.WriteFile(rendered.HTMLOutput, html); err != nil {
			return RenderedPage{}, fmt.Errorf("pages: write %s: %w", rendered.HTMLOutput, err)
		}
	}
	return rendered, nil
}

func computeHash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
