package modindex

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestTableListsModules(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "exec", "README.md"), "# exec\n\nExecutes a\n  binary on the host.\n\nMore details.\n")
	writeFile(t, filepath.Join(dir, "debug", "README.md"), "---\nsummary: Prints debug output.\n---\n# debug\n\nIgnored paragraph.\n")
	writeFile(t, filepath.Join(dir, "rm", "schema.gen.ts"), "export type A = 1;\n")
	writeFile(t, filepath.Join(dir, "_example", "README.md"), "# example\n\nHidden.\n")
	writeFile(t, filepath.Join(dir, "notes.md"), "# notes\n")

	got, err := New().Table(context.Background(), dir)
	if err != nil {
		t.Fatalf("Table returned error: %v", err)
	}

	want := "| Module | Description | Docs available |\n" +
		"| --- | --- | --- |\n" +
		"| [`debug`](./debug) | Prints debug output. | ✅ |\n" +
		"| [`exec`](./exec) | Executes a binary on the host. | ✅ |\n" +
		"| `rm` |  | ❌ |"
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected table (-want +got):\n%s", diff)
	}
}

func TestTableWithoutModules(t *testing.T) {
	got, err := New().Table(context.Background(), t.TempDir())
	if err != nil {
		t.Fatalf("Table returned error: %v", err)
	}
	if got != "| Module | Description | Docs available |\n| --- | --- | --- |\n" {
		t.Fatalf("unexpected table %q", got)
	}
}

func TestRowsCustomIntroFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "exec", "INTRO.md"), "Runs things.\n")

	rows, err := New(WithIntroFile("INTRO.md")).Rows(context.Background(), dir)
	if err != nil {
		t.Fatalf("Rows returned error: %v", err)
	}
	if diff := cmp.Diff([]Row{{Name: "exec", Summary: "Runs things.", Available: true}}, rows); diff != "" {
		t.Fatalf("unexpected rows (-want +got):\n%s", diff)
	}
}

func TestRowsMissingDirectory(t *testing.T) {
	if _, err := New().Rows(context.Background(), filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Fatal("expected error for missing directory")
	}
}

func TestSummary(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{name: "skips headings", in: "# Title\n## Sub\n\nFirst line\nsecond line\n", want: "First line second line"},
		{name: "no paragraph", in: "# Title only\n", want: ""},
		{name: "skips code", in: "# T\n\n```yaml\nexec: x\n```\n\nAfter code.\n", want: "After code."},
	}
	indexer := New()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := indexer.Summary([]byte(tc.in)); got != tc.want {
				t.Fatalf("Summary() = %q, want %q", got, tc.want)
			}
		})
	}
}
