package directives

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-schemadocs/internal/logging"
	"github.com/goliatone/go-schemadocs/internal/markdown"
	"github.com/goliatone/go-schemadocs/pkg/interfaces"
)

// Service expands the directives found in documentation pages.
type Service struct {
	registry interfaces.DirectiveRegistry
	parser   interfaces.DirectiveParser
	logger   interfaces.Logger
	metrics  interfaces.DirectiveMetrics
}

// ServiceOption customises service behaviour.
type ServiceOption func(*Service)

// WithLogger attaches a logger used for structured diagnostics.
func WithLogger(logger interfaces.Logger) ServiceOption {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetrics wires the metrics recorder used for telemetry.
func WithMetrics(metrics interfaces.DirectiveMetrics) ServiceOption {
	return func(s *Service) {
		if metrics != nil {
			s.metrics = metrics
		}
	}
}

// WithParser overrides the parser used to find directives.
func WithParser(parser interfaces.DirectiveParser) ServiceOption {
	return func(s *Service) {
		if parser != nil {
			s.parser = parser
		}
	}
}

// NewService constructs a directive service over the supplied registry.
func NewService(registry interfaces.DirectiveRegistry, opts ...ServiceOption) *Service {
	service := &Service{
		registry: registry,
		parser:   NewLineParser(),
		logger:   logging.NoOp(),
		metrics:  NoOpMetrics(),
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// Process expands every directive line in the page at path. The frontmatter
// header is written back untouched. Lines naming an unknown directive are
// left as they are; a directive with the wrong number of arguments is
// replaced by InvalidDirectiveNotice and the page carries on.
func (s *Service) Process(ctx context.Context, path string, source []byte) (string, error) {
	if s.registry == nil || s.parser == nil {
		return "", ErrServiceNotReady
	}
	if ctx == nil {
		ctx = context.Background()
	}

	logger := logging.WithFields(s.baseLogger(ctx), map[string]any{
		"operation": "directives.process",
		"page":      path,
	})

	fm, header, body, err := markdown.ParseFrontMatter(source)
	if err != nil {
		logging.WithFields(logger, map[string]any{
			"error": err,
		}).Error("directives.page.frontmatter_failed")
		return "", err
	}

	parsed := s.parser.Parse(string(body))
	if len(parsed) == 0 {
		return string(source), nil
	}

	ctx = logging.ContextWithFields(ctx, map[string]any{"page": path})
	dctx := interfaces.DirectiveContext{
		Context:     ctx,
		PagePath:    path,
		PageDir:     filepath.Dir(path),
		FrontMatter: fm,
	}

	lines := strings.Split(string(body), "\n")
	expanded := 0
	for _, directive := range parsed {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		def, ok := s.registry.Get(directive.Name)
		if !ok {
			logging.WithFields(logger, map[string]any{
				"directive": directive.Name,
				"line":      directive.Line + 1,
			}).Debug("directives.page.unknown_directive")
			continue
		}

		output, err := s.expand(dctx, def, directive, logger)
		if err != nil {
			return "", err
		}
		lines[directive.Line] = output
		expanded++
	}

	logging.WithFields(logger, map[string]any{
		"directives": expanded,
	}).Debug("directives.page.processed")
	return string(header) + strings.Join(lines, "\n"), nil
}

func (s *Service) expand(ctx interfaces.DirectiveContext, def interfaces.DirectiveDefinition, directive interfaces.ParsedDirective, logger interfaces.Logger) (string, error) {
	args := directive.Args
	if def.RawArgs {
		args = nil
		if raw := strings.TrimSpace(directive.RawArgs); raw != "" {
			args = []string{raw}
		}
	}

	fields := map[string]any{
		"directive": def.Name,
		"line":      directive.Line + 1,
	}

	if err := checkArity(def, args); err != nil {
		s.metrics.IncrementExpandError(def.Name)
		wrapped := fmt.Errorf("%w: %q on line %d: %w", ErrInvalidArguments, directive.Raw, directive.Line+1, err)
		fields["error"] = goerrors.Wrap(wrapped, goerrors.CategoryValidation, "invalid directive").
			WithTextCode(textCodeDirectiveInvalid)
		logging.WithFields(logger, fields).Error("directives.page.invalid_directive")
		return InvalidDirectiveNotice(directive.Raw, err), nil
	}

	start := time.Now()
	output, err := def.Handler(ctx, args)
	elapsed := time.Since(start)
	s.metrics.ObserveExpandDuration(def.Name, elapsed)
	fields["duration_ms"] = elapsed.Milliseconds()

	if err != nil {
		s.metrics.IncrementExpandError(def.Name)
		fields["error"] = err
		logging.WithFields(logger, fields).Error("directives.page.expand_failed")
		return "", fmt.Errorf("directive %q on line %d: %w", directive.Raw, directive.Line+1, err)
	}
	logging.WithFields(logger, fields).Debug("directives.page.expand_succeeded")
	return output, nil
}

// InvalidDirectiveNotice renders the failure admonition shown in place of a
// malformed directive line.
func InvalidDirectiveNotice(raw string, err error) string {
	return "!!! failure" + "\n\n" + fmt.Sprintf("    Invalid directive %s: %v", strings.TrimSpace(raw), err)
}

func checkArity(def interfaces.DirectiveDefinition, args []string) error {
	switch {
	case len(args) < def.MinArgs:
		return fmt.Errorf("expected at least %d argument(s), got %d", def.MinArgs, len(args))
	case def.MaxArgs >= 0 && len(args) > def.MaxArgs:
		return fmt.Errorf("expected at most %d argument(s), got %d", def.MaxArgs, len(args))
	}
	return nil
}

func (s *Service) baseLogger(ctx context.Context) interfaces.Logger {
	logger := s.logger
	if logger == nil {
		logger = logging.NoOp()
	}
	if ctx != nil {
		logger = logger.WithContext(ctx)
	}
	return logger
}
