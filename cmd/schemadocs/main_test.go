package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, body := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	return root
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--log-provider", "none"}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func docsTree(t *testing.T) string {
	return writeTree(t, map[string]string{
		"docs/index.md":           "# Modules\n\n![listModules]\n",
		"docs/exec/README.md":     "Runs commands.\n",
		"docs/exec/page.md":       "![type Spec]\n",
		"docs/exec/schema.gen.ts": "// [block Spec begin]\nexport type Spec = { cmd: string };\n// [block Spec end]\n",
	})
}

func TestTypeCommandPrintsBlock(t *testing.T) {
	root := docsTree(t)
	out, err := run(t, "--docs-dir", filepath.Join(root, "docs"), "type", "Spec", "--dir", filepath.Join(root, "docs", "exec"))
	if err != nil {
		t.Fatalf("type command: %v", err)
	}
	if !strings.Contains(out, "```ts title=\"Spec\"") || !strings.Contains(out, "{: #spec}") {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestPageCommandExpandsDirectives(t *testing.T) {
	root := docsTree(t)
	out, err := run(t, "--docs-dir", filepath.Join(root, "docs"), "page", "exec/page.md")
	if err != nil {
		t.Fatalf("page command: %v", err)
	}
	if !strings.Contains(out, "export type Spec") {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestModulesCommandPrintsTable(t *testing.T) {
	root := docsTree(t)
	out, err := run(t, "--docs-dir", filepath.Join(root, "docs"), "modules")
	if err != nil {
		t.Fatalf("modules command: %v", err)
	}
	if !strings.Contains(out, "| [`exec`](./exec) | Runs commands. | ✅ |") {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestBuildCommandWritesSite(t *testing.T) {
	root := docsTree(t)
	site := filepath.Join(root, "site")
	if _, err := run(t, "--docs-dir", filepath.Join(root, "docs"), "--output-dir", site, "build"); err != nil {
		t.Fatalf("build command: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(site, "exec", "page.md"))
	if err != nil {
		t.Fatalf("read built page: %v", err)
	}
	if !strings.Contains(string(data), "export type Spec") {
		t.Fatalf("unexpected built page:\n%s", data)
	}
}

func TestBuildCommandDryRunWritesNothing(t *testing.T) {
	root := docsTree(t)
	site := filepath.Join(root, "site")
	out, err := run(t, "--docs-dir", filepath.Join(root, "docs"), "--output-dir", site, "build", "--dry-run")
	if err != nil {
		t.Fatalf("build command: %v", err)
	}
	if !strings.HasPrefix(out, "Checked") {
		t.Fatalf("unexpected output %q", out)
	}
	if _, err := os.Stat(site); !os.IsNotExist(err) {
		t.Fatalf("expected no site dir, got %v", err)
	}
}

func TestConfigFlagLoadsYAML(t *testing.T) {
	root := docsTree(t)
	config := filepath.Join(root, "schemadocs.yaml")
	body := "docsDir: " + filepath.Join(root, "docs") + "\nlogging:\n  provider: none\n"
	if err := os.WriteFile(config, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	out, err := run(t, "--config", config, "modules")
	if err != nil {
		t.Fatalf("modules command: %v", err)
	}
	if !strings.Contains(out, "exec") {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestUnknownConfigKeyFails(t *testing.T) {
	root := t.TempDir()
	config := filepath.Join(root, "schemadocs.yaml")
	if err := os.WriteFile(config, []byte("docsDirectory: docs\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := run(t, "--config", config, "modules"); err == nil {
		t.Fatal("expected unknown key error")
	}
}

func TestPreviewRendersThroughGlamour(t *testing.T) {
	rendered, err := renderPreview("# Title\n\nBody text.\n")
	if err != nil {
		t.Fatalf("render preview: %v", err)
	}
	if !strings.Contains(rendered, "Body text.") {
		t.Fatalf("unexpected preview %q", rendered)
	}
}
