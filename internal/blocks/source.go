package blocks

import (
	"fmt"
	"os"
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

// Source is a generated file loaded for one lookup. Sources are never cached;
// a traversal may read the same path several times.
type Source struct {
	Path    string
	Content string
}

// ReadSource loads path from disk.
func ReadSource(path string) (Source, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		wrapped := fmt.Errorf("%w: %s: %w", ErrSourceRead, path, err)
		return Source{}, goerrors.Wrap(wrapped, goerrors.CategoryInternal, "unable to read source file").
			WithTextCode(textCodeSourceRead)
	}
	return Source{Path: path, Content: string(raw)}, nil
}

// Block returns the trimmed text between the begin and end markers for name.
// The first begin marker wins and the block closes at the first end marker
// that follows it, so a file repeating a block's end marker yields the
// shortest block. Generated files carry one marker pair per type.
func (s Source) Block(name string) (string, error) {
	begin := beginMarker(name)
	end := endMarker(name)

	lines := strings.SplitAfter(s.Content, "\n")
	offset := 0
	start := -1
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		switch {
		case start < 0 && trimmed == begin:
			start = offset + len(line)
		case start >= 0 && trimmed == end:
			return strings.TrimSpace(s.Content[start:offset]), nil
		}
		offset += len(line)
	}

	return "", notFound(name, s.Path)
}

// Locate reads path and extracts the block for name. The loaded source is
// returned alongside the block so callers can resolve metadata without a
// second read.
func Locate(path, name string) (Source, string, error) {
	src, err := ReadSource(path)
	if err != nil {
		return Source{}, "", err
	}
	block, err := src.Block(name)
	if err != nil {
		return src, "", err
	}
	return src, block, nil
}

// FailureNotice renders the admonition shown in place of a missing block.
func FailureNotice(name, path string) string {
	return "!!! failure" + "\n\n" + fmt.Sprintf("    No code block found for %s in %s", name, path)
}

func beginMarker(name string) string {
	return "// [block " + name + " begin]"
}

func endMarker(name string) string {
	return "// [block " + name + " end]"
}

func notFound(name, path string) error {
	wrapped := fmt.Errorf("%w: %s in %s", ErrBlockNotFound, name, path)
	return goerrors.Wrap(wrapped, goerrors.CategoryNotFound, "no code block found").
		WithTextCode(textCodeBlockNotFound)
}
