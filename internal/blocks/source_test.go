package blocks

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	goerrors "github.com/goliatone/go-errors"
)

const execSchema = `// Generated with: yarn gen

// [block ModuleExecInterface begin]
export type ModuleExecInterface = {
  cmd: string;
};
// [block ModuleExecInterface end]
//meta:ModuleExecInterface:[{"className":"ModuleExecInterface"},{"disableShortie":true}]

  // [block Indented begin]

  export type Indented = string;

  // [block Indented end]
`

func writeSource(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "schema.gen.ts")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write source: %v", err)
	}
	return path
}

func TestLocateReturnsTrimmedBlock(t *testing.T) {
	path := writeSource(t, execSchema)

	src, block, err := Locate(path, "ModuleExecInterface")
	if err != nil {
		t.Fatalf("Locate returned error: %v", err)
	}
	want := "export type ModuleExecInterface = {\n  cmd: string;\n};"
	if block != want {
		t.Fatalf("unexpected block:\n%q\nwant:\n%q", block, want)
	}
	if src.Path != path {
		t.Fatalf("expected source path %q, got %q", path, src.Path)
	}
}

func TestLocateAcceptsIndentedMarkers(t *testing.T) {
	path := writeSource(t, execSchema)

	_, block, err := Locate(path, "Indented")
	if err != nil {
		t.Fatalf("Locate returned error: %v", err)
	}
	if block != "export type Indented = string;" {
		t.Fatalf("unexpected block %q", block)
	}
}

func TestLocateRequiresExactName(t *testing.T) {
	path := writeSource(t, execSchema)

	_, _, err := Locate(path, "ModuleExec")
	if !errors.Is(err, ErrBlockNotFound) {
		t.Fatalf("expected ErrBlockNotFound, got %v", err)
	}
	if !goerrors.IsCategory(err, goerrors.CategoryNotFound) {
		t.Fatalf("expected not found category, got %v", err)
	}
}

func TestBlockWithoutEndMarkerIsMissing(t *testing.T) {
	src := Source{Path: "inline.ts", Content: "// [block Open begin]\nexport type Open = 1;\n"}
	if _, err := src.Block("Open"); !errors.Is(err, ErrBlockNotFound) {
		t.Fatalf("expected ErrBlockNotFound, got %v", err)
	}
}

func TestBlockClosesAtFirstEndMarker(t *testing.T) {
	src := Source{Path: "schema.gen.ts", Content: "// [block A begin]\none\n// [block A end]\ntwo\n// [block A end]\n"}
	got, err := src.Block("A")
	if err != nil {
		t.Fatalf("Block returned error: %v", err)
	}
	if got != "one" {
		t.Fatalf("expected the shortest block, got %q", got)
	}
}

func TestBlockHandlesCRLF(t *testing.T) {
	src := Source{Path: "crlf.ts", Content: "// [block A begin]\r\nexport type A = 1;\r\n// [block A end]\r\n"}
	block, err := src.Block("A")
	if err != nil {
		t.Fatalf("Block returned error: %v", err)
	}
	if block != "export type A = 1;" {
		t.Fatalf("unexpected block %q", block)
	}
}

func TestLocateWrapsReadErrors(t *testing.T) {
	_, _, err := Locate(filepath.Join(t.TempDir(), "missing.ts"), "A")
	if !errors.Is(err, ErrSourceRead) {
		t.Fatalf("expected ErrSourceRead, got %v", err)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected fs.ErrNotExist in chain, got %v", err)
	}
	if errors.Is(err, ErrBlockNotFound) {
		t.Fatalf("read failures must not look like missing blocks")
	}
}

func TestFailureNotice(t *testing.T) {
	got := FailureNotice("Missing", "modules/exec/schema.gen.ts")
	want := "!!! failure\n\n    No code block found for Missing in modules/exec/schema.gen.ts"
	if got != want {
		t.Fatalf("unexpected notice:\n%q\nwant:\n%q", got, want)
	}
	if !strings.HasPrefix(got, "!!! failure") {
		t.Fatal("expected failure admonition")
	}
}
