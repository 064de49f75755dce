package resolver

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-schemadocs/internal/blocks"
	"github.com/goliatone/go-schemadocs/pkg/interfaces"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func block(name, body string) string {
	return "// [block " + name + " begin]\n" + body + "\n// [block " + name + " end]\n"
}

func ref(name, relPath string) string {
	return ` //typeRef:` + name + `:{"relPath":"` + relPath + `","isRegistryExport":false}`
}

func fixedTrace() string { return "trace-1" }

func TestResolveSingleSameFileReference(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, DefaultSchemaFile),
		block("A", "export type A = {\n  b: B;"+ref("B", "self")+"\n};")+
			"\n"+block("B", "export type B = string;"))

	out, err := New(WithTraceIDGenerator(fixedTrace)).Resolve(context.Background(), dir, "A", "")
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}

	want := "```ts title=\"A\"\n" +
		"export type A = {\n  b: B; // (1)!\n};\n" +
		"```\n" +
		"{: #a}\n" +
		"\n\n" +
		"1. [See the definition of `B`](#b)\n" +
		"\n\n" +
		"###### Referenced types\n" +
		"\n" +
		"```ts title=\"B\"\n" +
		"export type B = string;\n" +
		"```\n" +
		"{: #b}\n"
	if diff := cmp.Diff(want, out); diff != "" {
		t.Fatalf("unexpected output (-want +got):\n%s", diff)
	}
}

func TestResolveIsDeterministic(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, DefaultSchemaFile),
		block("A", "a: B;"+ref("B", "self")+"\nc: C;"+ref("C", "./c/schema.gen.ts")+"\nl: X; //link#Docs#/docs")+
			block("B", "b: C;"+ref("C", "./c/schema.gen.ts")))
	writeFile(t, filepath.Join(dir, "c", DefaultSchemaFile), block("C", "export type C = number;"))

	resolver := New()
	first, err := resolver.Resolve(context.Background(), dir, "A", "")
	if err != nil {
		t.Fatalf("first Resolve: %v", err)
	}
	second, err := resolver.Resolve(context.Background(), dir, "A", "")
	if err != nil {
		t.Fatalf("second Resolve: %v", err)
	}
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("output differs between runs (-first +second):\n%s", diff)
	}
}

func TestResolveDiamondEmbedsSharedTypeOnce(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, DefaultSchemaFile),
		block("A", "b: B;"+ref("B", "self")+"\nc: C;"+ref("C", "self"))+
			block("B", "c: C;"+ref("C", "self"))+
			block("C", "export type C = string;"))

	out, err := New().Resolve(context.Background(), dir, "A", "")
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if got := strings.Count(out, "title=\"C\""); got != 1 {
		t.Fatalf("expected one embed of C, got %d\n%s", got, out)
	}
	if got := strings.Count(out, "](#c)"); got != 2 {
		t.Fatalf("expected two annotations anchored at C, got %d\n%s", got, out)
	}
	if strings.Count(out, "###### Referenced types") != 1 {
		t.Fatalf("expected a single heading\n%s", out)
	}
}

func TestResolveCycleTerminates(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, DefaultSchemaFile),
		block("A", "b: B;"+ref("B", "self"))+
			block("B", "a: A;"+ref("A", "self")))

	out, err := New().Resolve(context.Background(), dir, "A", "")
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if strings.Count(out, "title=\"A\"") != 1 || strings.Count(out, "title=\"B\"") != 1 {
		t.Fatalf("expected one embed of each type\n%s", out)
	}
	if !strings.Contains(out, "1. [See the definition of `A`](#a)") {
		t.Fatalf("expected B to link back to A\n%s", out)
	}
}

func TestResolveRegistryExportLinksAcrossPages(t *testing.T) {
	dir := t.TempDir()
	page := filepath.Join(dir, "docs", "recipes")
	writeFile(t, filepath.Join(page, DefaultSchemaFile),
		block("A", `exec: ModuleExecInterface; //typeRef:ModuleExecInterface:{"relPath":"../../modules/exec/schema.gen.ts","isRegistryExport":true}`))

	out, err := New().Resolve(context.Background(), page, "A", "")
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if !strings.Contains(out, "1. [See the definition of `ModuleExecInterface`](/modules/exec#moduleexecinterface)") {
		t.Fatalf("expected registry link\n%s", out)
	}
	if strings.Contains(out, "title=\"ModuleExecInterface\"") || strings.Contains(out, "Referenced types") {
		t.Fatalf("registry exports must not be embedded\n%s", out)
	}
}

func TestResolveRegistryExportOfEmbeddedTypeStaysALink(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "folder", "entry")
	writeFile(t, filepath.Join(dir, DefaultSchemaFile),
		block("A", "b: B;"+ref("B", "self")+"\nc: C;"+ref("C", "self"))+
			block("B", "export type B = string;")+
			block("C", `b: B; //typeRef:B:{"relPath":"self","isRegistryExport":true}`))

	out, err := New().Resolve(context.Background(), dir, "A", "")
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if got := strings.Count(out, "title=\"B\""); got != 1 {
		t.Fatalf("expected B embedded once, got %d\n%s", got, out)
	}
	if !strings.Contains(out, "1. [See the definition of `B`](/folder/entry#b)") {
		t.Fatalf("expected C to link B through the registry\n%s", out)
	}
	if !strings.Contains(out, "1. [See the definition of `B`](#b)") {
		t.Fatalf("expected A to anchor B on the page\n%s", out)
	}
}

func TestResolveFollowsRelativeImportsFromCurrentFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, DefaultSchemaFile), block("A", "b: B;"+ref("B", "./sub/b.gen.ts")))
	writeFile(t, filepath.Join(dir, "sub", "b.gen.ts"), block("B", "c: C;"+ref("C", "../c/c.gen.ts")))
	writeFile(t, filepath.Join(dir, "c", "c.gen.ts"), block("C", "export type C = boolean;"))

	out, err := New().Resolve(context.Background(), dir, "A", "")
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	for _, name := range []string{"A", "B", "C"} {
		if strings.Count(out, "title=\""+name+"\"") != 1 {
			t.Fatalf("expected %s embedded once\n%s", name, out)
		}
	}
	if !strings.Contains(out, "export type C = boolean;") {
		t.Fatalf("expected C content\n%s", out)
	}
}

func TestResolveMissingBlockRendersFailure(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, DefaultSchemaFile)
	writeFile(t, path, block("A", "b: B;"+ref("B", "self")+"\nc: C;"+ref("C", "self"))+block("C", "export type C = 1;"))
	logger := &recordingLogger{}

	out, err := New(WithLogger(logger)).Resolve(context.Background(), dir, "A", "")
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if !strings.Contains(out, blocks.FailureNotice("B", path)) {
		t.Fatalf("expected failure notice for B\n%s", out)
	}
	if !strings.Contains(out, "title=\"C\"") {
		t.Fatalf("sibling resolution must be unaffected\n%s", out)
	}
	if !logger.has("error", "resolver.block_not_found") {
		t.Fatalf("expected block_not_found error entry, got %v", logger.entries)
	}
}

func TestResolveMissingRootBlock(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "other.ts")
	writeFile(t, path, block("A", "export type A = 1;"))

	out, err := New().Resolve(context.Background(), dir, "Missing", "other.ts")
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if out != blocks.FailureNotice("Missing", path) {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestResolveMissingRootFileFails(t *testing.T) {
	_, err := New().Resolve(context.Background(), t.TempDir(), "A", "")
	if !errors.Is(err, blocks.ErrSourceRead) {
		t.Fatalf("expected ErrSourceRead, got %v", err)
	}
}

func TestResolveRequiresTypeName(t *testing.T) {
	if _, err := New().Resolve(context.Background(), t.TempDir(), " ", ""); !errors.Is(err, ErrTypeNameRequired) {
		t.Fatalf("expected ErrTypeNameRequired, got %v", err)
	}
}

func TestResolveUnreadableImport(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, DefaultSchemaFile), block("A", "b: B;"+ref("B", "./missing/b.ts")))

	if _, err := New().Resolve(context.Background(), dir, "A", ""); !errors.Is(err, blocks.ErrSourceRead) {
		t.Fatalf("expected ErrSourceRead by default, got %v", err)
	}

	out, err := New(WithSoftImportFailures(true)).Resolve(context.Background(), dir, "A", "")
	if err != nil {
		t.Fatalf("soft Resolve returned error: %v", err)
	}
	if !strings.Contains(out, "!!! failure") || !strings.Contains(out, "Unable to read") {
		t.Fatalf("expected soft failure notice\n%s", out)
	}
}

func TestResolveWarningFlagOnlyAddsNote(t *testing.T) {
	const note = "!!! note\n\n    This module does not support using the shortie annotation.\n"
	body := "/**\n * A type.\n */\nexport type A = string;"

	cases := map[string]string{
		"meta":   block("A", body) + `//meta:A:[{"className":"A"},{"disableShortie":true}]` + "\n",
		"legacy": block("A", "/**\n * A type.\n * @example //disableShortie:true\n */\nexport type A = string;"),
	}

	plainDir := t.TempDir()
	writeFile(t, filepath.Join(plainDir, DefaultSchemaFile), block("A", body))
	plain, err := New().Resolve(context.Background(), plainDir, "A", "")
	if err != nil {
		t.Fatalf("plain Resolve: %v", err)
	}

	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			writeFile(t, filepath.Join(dir, DefaultSchemaFile), content)
			out, err := New().Resolve(context.Background(), dir, "A", "")
			if err != nil {
				t.Fatalf("Resolve returned error: %v", err)
			}
			if diff := cmp.Diff(note+plain, out); diff != "" {
				t.Fatalf("unexpected output (-want +got):\n%s", diff)
			}
		})
	}
}

func TestResolveMalformedMetaIsIgnored(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, DefaultSchemaFile), block("A", "export type A = 1;")+"//meta:A:{broken\n")
	logger := &recordingLogger{}

	out, err := New(WithLogger(logger)).Resolve(context.Background(), dir, "A", "")
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if strings.Contains(out, "!!! note") {
		t.Fatalf("malformed meta must not set flags\n%s", out)
	}
	if !logger.has("warn", "resolver.meta_malformed") {
		t.Fatalf("expected warn entry, got %v", logger.entries)
	}
}

func TestResolveNestedBlocksNumberFromOne(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, DefaultSchemaFile),
		block("A", "b: B;"+ref("B", "self")+"\nc: C;"+ref("C", "./c.ts"))+
			block("B", "d: D;"+ref("D", "self")+"\nl: L; //link#Guide#/guide")+
			block("D", "export type D = 1;"))
	writeFile(t, filepath.Join(dir, "c.ts"), block("C", "export type C = 2;"))

	out, err := New().Resolve(context.Background(), dir, "A", "")
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	for _, want := range []string{
		"1. [See the definition of `B`](#b)",
		"2. [See the definition of `C`](#c)",
		"d: D; // (1)!",
		"l: L; // (2)!",
		"1. [See the definition of `D`](#d)",
		"2. [Guide](/guide)",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output\n%s", want, out)
		}
	}
}

func TestResolveMaxEmbeds(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, DefaultSchemaFile),
		block("A", "b: B;"+ref("B", "self")+"\nc: C;"+ref("C", "self"))+
			block("B", "export type B = 1;")+
			block("C", "export type C = 2;"))

	out, err := New(WithMaxEmbeds(1)).Resolve(context.Background(), dir, "A", "")
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if !strings.Contains(out, "title=\"B\"") || strings.Contains(out, "title=\"C\"") {
		t.Fatalf("expected only B embedded\n%s", out)
	}
	if !strings.Contains(out, "Embed limit of 1 reached, C was not embedded") {
		t.Fatalf("expected embed limit notice\n%s", out)
	}
}

func TestResolveTypeUsesRequestFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "custom.ts"), block("A", "export type A = 1;"))

	out, err := New(WithCodeLanguage("typescript")).ResolveType(context.Background(), interfaces.TypeRequest{
		BaseDir:  dir,
		TypeName: "A",
		File:     "custom.ts",
	})
	if err != nil {
		t.Fatalf("ResolveType returned error: %v", err)
	}
	if !strings.HasPrefix(out, "```typescript title=\"A\"") {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestResolveLogsTraceID(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, DefaultSchemaFile), block("A", "b: B;"+ref("B", "self")))
	logger := &recordingLogger{}

	if _, err := New(WithLogger(logger), WithTraceIDGenerator(fixedTrace)).Resolve(context.Background(), dir, "A", ""); err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	entry, ok := logger.find("error", "resolver.block_not_found")
	if !ok {
		t.Fatalf("expected block_not_found entry, got %v", logger.entries)
	}
	if entry.fields["trace_id"] != "trace-1" || entry.fields["block"] != "B" {
		t.Fatalf("unexpected fields %v", entry.fields)
	}
}

type logEntry struct {
	level  string
	msg    string
	fields map[string]any
}

type recordingLogger struct {
	mu      *sync.Mutex
	shared  *[]logEntry
	fields  map[string]any
	entries []logEntry
}

func (l *recordingLogger) init() {
	if l.mu == nil {
		l.mu = &sync.Mutex{}
		l.shared = &l.entries
	}
}

func (l *recordingLogger) record(level, msg string) {
	l.init()
	l.mu.Lock()
	defer l.mu.Unlock()
	fields := map[string]any{}
	for k, v := range l.fields {
		fields[k] = v
	}
	*l.shared = append(*l.shared, logEntry{level: level, msg: msg, fields: fields})
}

func (l *recordingLogger) Trace(msg string, _ ...any) { l.record("trace", msg) }
func (l *recordingLogger) Debug(msg string, _ ...any) { l.record("debug", msg) }
func (l *recordingLogger) Info(msg string, _ ...any)  { l.record("info", msg) }
func (l *recordingLogger) Warn(msg string, _ ...any)  { l.record("warn", msg) }
func (l *recordingLogger) Error(msg string, _ ...any) { l.record("error", msg) }
func (l *recordingLogger) Fatal(msg string, _ ...any) { l.record("fatal", msg) }

func (l *recordingLogger) WithContext(context.Context) interfaces.Logger {
	l.init()
	return l
}

func (l *recordingLogger) WithFields(fields map[string]any) interfaces.Logger {
	l.init()
	merged := map[string]any{}
	for k, v := range l.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	return &recordingLogger{mu: l.mu, shared: l.shared, fields: merged}
}

func (l *recordingLogger) find(level, msg string) (logEntry, bool) {
	l.init()
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, entry := range *l.shared {
		if entry.level == level && entry.msg == msg {
			return entry, true
		}
	}
	return logEntry{}, false
}

func (l *recordingLogger) has(level, msg string) bool {
	_, ok := l.find(level, msg)
	return ok
}
