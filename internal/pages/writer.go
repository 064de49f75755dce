package pages

import (
	"os"
	"path/filepath"
)

// artifactWriter abstracts where build outputs land.
type artifactWriter interface {
	WriteFile(path string, data []byte) error
}

type dirWriter struct{}

func (dirWriter) WriteFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

type noopWriter struct{}

func (noopWriter) WriteFile(string, []byte) error { return nil }
