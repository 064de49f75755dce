// Package modindex renders the table of modules documented below a page
// directory.
package modindex

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/goliatone/go-schemadocs/internal/logging"
	"github.com/goliatone/go-schemadocs/internal/markdown"
	"github.com/goliatone/go-schemadocs/pkg/interfaces"
)

const (
	// DefaultIntroFile is the introductory document read for each module.
	DefaultIntroFile = "README.md"

	tableHeader = "| Module | Description | Docs available |\n" +
		"| --- | --- | --- |\n"

	markAvailable = "✅"
	markMissing   = "❌"
)

// Row is one module entry of the table.
type Row struct {
	Name      string
	Summary   string
	Available bool
}

// Cells renders the row as table cells.
func (r Row) Cells() []string {
	if !r.Available {
		return []string{"`" + r.Name + "`", "", markMissing}
	}
	return []string{"[`" + r.Name + "`](./" + r.Name + ")", r.Summary, markAvailable}
}

// Indexer lists module directories and summarises their introductory
// documents.
type Indexer struct {
	introFile string
	logger    interfaces.Logger
	engine    goldmark.Markdown
}

// Option customises the indexer.
type Option func(*Indexer)

// WithIntroFile overrides the introductory document name.
func WithIntroFile(name string) Option {
	return func(i *Indexer) {
		if trimmed := strings.TrimSpace(name); trimmed != "" {
			i.introFile = trimmed
		}
	}
}

// WithLogger attaches a logger used for structured diagnostics.
func WithLogger(logger interfaces.Logger) Option {
	return func(i *Indexer) {
		if logger != nil {
			i.logger = logger
		}
	}
}

// New constructs an Indexer.
func New(opts ...Option) *Indexer {
	i := &Indexer{
		introFile: DefaultIntroFile,
		logger:    logging.NoOp(),
		engine:    goldmark.New(),
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Rows lists the immediate subdirectories of dir in name order. Entries whose
// name starts with an underscore are skipped.
func (i *Indexer) Rows(ctx context.Context, dir string) ([]Row, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("modindex: list %s: %w", dir, err)
	}

	logger := logging.WithFields(i.logger.WithContext(ctx), map[string]any{
		"dir": dir,
	})

	rows := make([]Row, 0, len(entries))
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		name := entry.Name()
		if strings.HasPrefix(name, "_") {
			continue
		}
		info, err := os.Stat(filepath.Join(dir, name))
		if err != nil || !info.IsDir() {
			continue
		}

		source, err := os.ReadFile(filepath.Join(dir, name, i.introFile))
		if errors.Is(err, fs.ErrNotExist) {
			logging.WithFields(logger, map[string]any{
				"module": name,
			}).Debug("modindex.intro_missing")
			rows = append(rows, Row{Name: name})
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("modindex: read %s intro: %w", name, err)
		}

		rows = append(rows, Row{
			Name:      name,
			Summary:   i.Summary(source),
			Available: true,
		})
	}
	return rows, nil
}

// Table renders the module table for dir.
func (i *Indexer) Table(ctx context.Context, dir string) (string, error) {
	rows, err := i.Rows(ctx, dir)
	if err != nil {
		return "", err
	}
	return FormatTable(rows), nil
}

// FormatTable renders rows below the fixed header.
func FormatTable(rows []Row) string {
	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		lines = append(lines, "| "+strings.Join(row.Cells(), " | ")+" |")
	}
	return tableHeader + strings.Join(lines, "\n")
}

// Summary returns the `summary` frontmatter value when present, otherwise the
// first top-level paragraph with its lines trimmed and joined by spaces.
func (i *Indexer) Summary(source []byte) string {
	fm, _, body, err := markdown.ParseFrontMatter(source)
	if err != nil {
		body = source
	} else if summary := strings.TrimSpace(fm.Summary); summary != "" {
		return summary
	}

	doc := i.engine.Parser().Parse(text.NewReader(body))
	for node := doc.FirstChild(); node != nil; node = node.NextSibling() {
		para, ok := node.(*ast.Paragraph)
		if !ok {
			continue
		}
		lines := para.Lines()
		parts := make([]string, 0, lines.Len())
		for idx := 0; idx < lines.Len(); idx++ {
			segment := lines.At(idx)
			if line := strings.TrimSpace(string(segment.Value(body))); line != "" {
				parts = append(parts, line)
			}
		}
		return strings.Join(parts, " ")
	}
	return ""
}

var _ interfaces.ModuleIndexer = (*Indexer)(nil)
