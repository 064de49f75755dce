package markdown

import (
	"cmp"
	"context"
	"crypto/sha256"
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/goliatone/go-schemadocs/pkg/interfaces"
)

// LoaderConfig selects the pages of a docs tree.
type LoaderConfig struct {
	// BasePath is the OS directory the fs.FS is rooted at. It lets callers
	// pass absolute paths.
	BasePath string
	// Pattern is matched against the file name, or against the whole
	// relative path when it contains a slash. Defaults to "*.md".
	Pattern   string
	Recursive bool
	// SkipPrefixes hides directories whose name starts with any prefix.
	SkipPrefixes []string
}

// Loader reads pages out of an fs.FS.
type Loader struct {
	fsys fs.FS
	cfg  LoaderConfig
}

// PageResult pairs a parsed page with its raw bytes.
type PageResult struct {
	Page   *interfaces.Page
	Source []byte
}

func NewLoader(fsys fs.FS, cfg LoaderConfig) *Loader {
	if strings.TrimSpace(cfg.Pattern) == "" {
		cfg.Pattern = "*.md"
	}
	cfg.Pattern = strings.ReplaceAll(filepath.ToSlash(cfg.Pattern), "**/", "")
	if cfg.BasePath != "" {
		cfg.BasePath = filepath.Clean(cfg.BasePath)
	}
	cfg.SkipPrefixes = slices.DeleteFunc(slices.Clone(cfg.SkipPrefixes), func(p string) bool { return p == "" })
	return &Loader{fsys: fsys, cfg: cfg}
}

// LoadFile reads one page. name is relative to the loader root, or absolute
// under BasePath.
func (l *Loader) LoadFile(ctx context.Context, name string) (*PageResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rel, err := l.relative(name)
	if err != nil {
		return nil, err
	}

	data, err := fs.ReadFile(l.fsys, rel)
	if err != nil {
		return nil, fmt.Errorf("markdown loader read %s: %w", rel, err)
	}
	info, err := fs.Stat(l.fsys, rel)
	if err != nil {
		return nil, fmt.Errorf("markdown loader stat %s: %w", rel, err)
	}
	page, err := BuildPage(rel, data, info.ModTime())
	if err != nil {
		return nil, fmt.Errorf("markdown loader parse %s: %w", rel, err)
	}
	sum := sha256.Sum256(data)
	page.Checksum = sum[:]
	return &PageResult{Page: page, Source: data}, nil
}

// LoadDirectory returns the matching pages below dir ordered by path.
func (l *Loader) LoadDirectory(ctx context.Context, dir string) ([]*PageResult, error) {
	root, err := l.relative(dir)
	if err != nil {
		return nil, err
	}

	var results []*PageResult
	err = fs.WalkDir(l.fsys, root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			if p != root && (!l.cfg.Recursive || l.hidden(d.Name())) {
				return fs.SkipDir
			}
			return nil
		}
		if !l.matches(p) {
			return nil
		}
		result, err := l.LoadFile(ctx, p)
		if err != nil {
			return err
		}
		results = append(results, result)
		return nil
	})
	if err != nil {
		return nil, err
	}

	slices.SortFunc(results, func(a, b *PageResult) int {
		return cmp.Compare(a.Page.FilePath, b.Page.FilePath)
	})
	return results, nil
}

func (l *Loader) hidden(name string) bool {
	return slices.ContainsFunc(l.cfg.SkipPrefixes, func(prefix string) bool {
		return strings.HasPrefix(name, prefix)
	})
}

func (l *Loader) matches(rel string) bool {
	target := path.Base(rel)
	if strings.Contains(l.cfg.Pattern, "/") {
		target = rel
	}
	ok, err := path.Match(l.cfg.Pattern, target)
	return err == nil && ok
}

// relative returns a slash separated path inside the loader root.
func (l *Loader) relative(name string) (string, error) {
	clean := filepath.Clean(name)
	if filepath.IsAbs(clean) {
		if l.cfg.BasePath == "" || l.cfg.BasePath == "." {
			return "", fmt.Errorf("markdown loader: absolute path %s provided without base path", name)
		}
		rel, err := filepath.Rel(l.cfg.BasePath, clean)
		if err != nil {
			return "", fmt.Errorf("markdown loader: make relative %s: %w", name, err)
		}
		clean = rel
	}
	return filepath.ToSlash(clean), nil
}
