package resolver

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/goliatone/go-schemadocs/internal/annotations"
	"github.com/goliatone/go-schemadocs/internal/blocks"
	"github.com/goliatone/go-schemadocs/internal/logging"
	"github.com/goliatone/go-schemadocs/pkg/interfaces"
)

const (
	// DefaultSchemaFile is read when a request names no file.
	DefaultSchemaFile = "schema.gen.ts"
	// DefaultLanguage tags fenced code blocks.
	DefaultLanguage = "ts"

	disableShortieFlag = "disableShortie"
)

// Resolver renders a type block and recursively embeds or links every type it
// references.
type Resolver struct {
	logger             interfaces.Logger
	defaultFile        string
	language           string
	maxEmbeds          int
	softImportFailures bool
	traceID            func() string
}

// Option customises resolver behaviour.
type Option func(*Resolver)

// WithLogger attaches a logger used for structured diagnostics.
func WithLogger(logger interfaces.Logger) Option {
	return func(r *Resolver) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithDefaultFile overrides the schema file read when a request names none.
func WithDefaultFile(name string) Option {
	return func(r *Resolver) {
		if trimmed := strings.TrimSpace(name); trimmed != "" {
			r.defaultFile = trimmed
		}
	}
}

// WithCodeLanguage overrides the fence language tag.
func WithCodeLanguage(lang string) Option {
	return func(r *Resolver) {
		if trimmed := strings.TrimSpace(lang); trimmed != "" {
			r.language = trimmed
		}
	}
}

// WithMaxEmbeds caps the number of child blocks per root call. Zero disables
// the cap.
func WithMaxEmbeds(limit int) Option {
	return func(r *Resolver) {
		if limit >= 0 {
			r.maxEmbeds = limit
		}
	}
}

// WithSoftImportFailures renders unreadable imported files as failure notices
// instead of failing the root call.
func WithSoftImportFailures(enabled bool) Option {
	return func(r *Resolver) {
		r.softImportFailures = enabled
	}
}

// WithTraceIDGenerator overrides how root calls are tagged in logs.
func WithTraceIDGenerator(fn func() string) Option {
	return func(r *Resolver) {
		if fn != nil {
			r.traceID = fn
		}
	}
}

// New constructs a resolver.
func New(opts ...Option) *Resolver {
	r := &Resolver{
		logger:      logging.NoOp(),
		defaultFile: DefaultSchemaFile,
		language:    DefaultLanguage,
		traceID:     uuid.NewString,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ResolveType satisfies interfaces.TypeResolver.
func (r *Resolver) ResolveType(ctx context.Context, req interfaces.TypeRequest) (string, error) {
	return r.Resolve(ctx, req.BaseDir, req.TypeName, req.File)
}

// Resolve renders typeName from file inside dir. An empty file selects the
// default schema file.
func (r *Resolver) Resolve(ctx context.Context, dir, typeName, file string) (string, error) {
	typeName = strings.TrimSpace(typeName)
	if typeName == "" {
		return "", ErrTypeNameRequired
	}
	if strings.TrimSpace(file) == "" {
		file = r.defaultFile
	}
	path := filepath.Join(dir, file)

	traceID := r.traceID()
	logger := logging.WithTypeContext(r.baseLogger(ctx), typeName, path, traceID)

	traversal := NewTraversal()
	traversal.Visit(typeName)

	out, err := r.render(traversal, logger, true, path, typeName)
	if err != nil {
		logging.WithFields(logger, map[string]any{
			"error": err,
		}).Error("resolver.resolve_failed")
		return "", err
	}

	logging.WithFields(logger, map[string]any{
		"visited":  len(traversal.Order()),
		"embedded": traversal.Embeds(),
	}).Debug("resolver.resolve_completed")
	return out, nil
}

func (r *Resolver) render(t *Traversal, logger interfaces.Logger, root bool, path, typeName string) (string, error) {
	blockLogger := logging.WithFields(logger, map[string]any{
		"block":      typeName,
		"block_path": path,
	})

	src, code, err := blocks.Locate(path, typeName)
	if err != nil {
		if errors.Is(err, blocks.ErrBlockNotFound) {
			logging.WithFields(blockLogger, map[string]any{
				"error": err,
			}).Error("resolver.block_not_found")
			return blocks.FailureNotice(typeName, path), nil
		}
		return "", err
	}

	scan := annotations.Extract(code, t)
	for _, bad := range scan.Malformed {
		logging.WithFields(blockLogger, map[string]any{
			"annotation": bad.TypeName,
			"line":       bad.LineNo,
			"error":      bad.Err,
		}).Warn("resolver.annotation_malformed")
	}
	seq := annotations.Sequence(scan)

	meta, err := blocks.ParseMeta(src.Content, typeName)
	if err != nil {
		logging.WithFields(blockLogger, map[string]any{
			"error": err,
		}).Warn("resolver.meta_malformed")
	}

	lines := make([]string, 0, len(seq.TypeRefs)+len(seq.Links))
	children := []string{}
	currentDir := filepath.Dir(path)

	for _, ref := range seq.TypeRefs {
		importPath := path
		if !ref.Self {
			importPath = filepath.Join(currentDir, ref.RelPath)
		}

		if ref.RegistryExport {
			lines = append(lines, fmt.Sprintf("%d. [See the definition of `%s`](%s)",
				ref.Final, ref.TypeName, registryHref(importPath, ref.TypeName)))
			continue
		}

		lines = append(lines, fmt.Sprintf("%d. [See the definition of `%s`](#%s)",
			ref.Final, ref.TypeName, Anchor(ref.TypeName)))

		if !t.Visit(ref.TypeName) {
			continue
		}

		logging.WithFields(blockLogger, map[string]any{
			"import":      ref.TypeName,
			"import_path": importPath,
		}).Info("resolver.import")

		if !t.Embed(r.maxEmbeds) {
			logging.WithFields(blockLogger, map[string]any{
				"import":     ref.TypeName,
				"max_embeds": r.maxEmbeds,
			}).Warn("resolver.embed_limit_reached")
			children = append(children, embedLimitNotice(ref.TypeName, r.maxEmbeds))
			continue
		}

		child, err := r.render(t, logger, false, importPath, ref.TypeName)
		if err != nil {
			if !r.softImportFailures || !errors.Is(err, blocks.ErrSourceRead) {
				return "", err
			}
			logging.WithFields(blockLogger, map[string]any{
				"import":      ref.TypeName,
				"import_path": importPath,
				"error":       err,
			}).Warn("resolver.import_unreadable")
			child = importFailureNotice(ref.TypeName, importPath)
		}
		children = append(children, child)
	}

	for _, link := range seq.Links {
		lines = append(lines, fmt.Sprintf("%d. [%s](%s)", link.Final, link.Text, link.URL))
	}

	return Format(Section{
		TypeName:    typeName,
		Language:    r.language,
		Code:        seq.Text,
		Warning:     meta.Bool(disableShortieFlag) || scan.LegacyFlag(disableShortieFlag),
		Annotations: lines,
		Children:    children,
		Root:        root,
	}), nil
}

// registryHref links to the page of a registry entry: the directory holding
// the import is the entry, its parent is the registry folder.
func registryHref(importPath, typeName string) string {
	entryDir := filepath.Dir(importPath)
	parent := filepath.Join(entryDir, "..")
	if abs, err := filepath.Abs(parent); err == nil {
		parent = abs
	}
	folder := filepath.Base(parent)
	entry := filepath.Base(entryDir)
	return "/" + folder + "/" + entry + "#" + Anchor(typeName)
}

func embedLimitNotice(typeName string, limit int) string {
	return "!!! failure" + "\n\n" + fmt.Sprintf("    Embed limit of %d reached, %s was not embedded", limit, typeName)
}

func importFailureNotice(typeName, path string) string {
	return "!!! failure" + "\n\n" + fmt.Sprintf("    Unable to read %s for %s", path, typeName)
}

func (r *Resolver) baseLogger(ctx context.Context) interfaces.Logger {
	logger := r.logger
	if logger == nil {
		logger = logging.NoOp()
	}
	if ctx != nil {
		logger = logger.WithContext(ctx)
	}
	return logger
}

var _ interfaces.TypeResolver = (*Resolver)(nil)
