package directives

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goliatone/go-schemadocs/pkg/interfaces"
)

const (
	DirectiveType        = "type"
	DirectiveEmbed       = "embed"
	DirectiveListModules = "listModules"
)

// BuiltInDefinitions returns the page directives shipped with the module.
func BuiltInDefinitions(resolver interfaces.TypeResolver, indexer interfaces.ModuleIndexer) []interfaces.DirectiveDefinition {
	return []interfaces.DirectiveDefinition{
		embedDefinition(),
		typeDefinition(resolver),
		listModulesDefinition(indexer),
	}
}

// RegisterBuiltIns registers the built-in directives on the provided registry.
// When names is empty, every built-in directive is registered.
func RegisterBuiltIns(registry interfaces.DirectiveRegistry, resolver interfaces.TypeResolver, indexer interfaces.ModuleIndexer, names ...string) error {
	if registry == nil {
		return fmt.Errorf("directives: registry is required")
	}

	builtins := BuiltInDefinitions(resolver, indexer)
	if len(names) == 0 {
		for _, def := range builtins {
			if err := registry.Register(def); err != nil {
				return err
			}
		}
		return nil
	}

	available := make(map[string]interfaces.DirectiveDefinition, len(builtins))
	for _, def := range builtins {
		available[strings.ToLower(def.Name)] = def
	}
	for _, name := range names {
		key := strings.ToLower(strings.TrimSpace(name))
		if key == "" {
			continue
		}
		def, ok := available[key]
		if !ok {
			return fmt.Errorf("directives: built-in %q not found", name)
		}
		if err := registry.Register(def); err != nil {
			return err
		}
	}
	return nil
}

func typeDefinition(resolver interfaces.TypeResolver) interfaces.DirectiveDefinition {
	return interfaces.DirectiveDefinition{
		Name:        DirectiveType,
		Description: "Renders a type block and the types it references",
		MinArgs:     1,
		MaxArgs:     2,
		Handler: func(ctx interfaces.DirectiveContext, args []string) (string, error) {
			if resolver == nil {
				return "", fmt.Errorf("directives: type resolver not configured")
			}
			req := interfaces.TypeRequest{
				BaseDir:  ctx.PageDir,
				TypeName: args[0],
				File:     ctx.FrontMatter.SchemaFile,
			}
			if len(args) > 1 {
				req.File = args[1]
			}
			return resolver.ResolveType(ctx.Context, req)
		},
	}
}

func embedDefinition() interfaces.DirectiveDefinition {
	return interfaces.DirectiveDefinition{
		Name:        DirectiveEmbed,
		Description: "Embeds a file verbatim in a fenced block",
		MinArgs:     1,
		MaxArgs:     1,
		RawArgs:     true,
		Handler: func(ctx interfaces.DirectiveContext, args []string) (string, error) {
			return EmbedFile(ctx.PageDir, args[0])
		},
	}
}

func listModulesDefinition(indexer interfaces.ModuleIndexer) interfaces.DirectiveDefinition {
	return interfaces.DirectiveDefinition{
		Name:        DirectiveListModules,
		Description: "Lists the modules documented below the page",
		MinArgs:     0,
		MaxArgs:     0,
		Handler: func(ctx interfaces.DirectiveContext, _ []string) (string, error) {
			if indexer == nil {
				return "", fmt.Errorf("directives: module indexer not configured")
			}
			return indexer.Table(ctx.Context, ctx.PageDir)
		},
	}
}

// EmbedFile fences the trimmed content of name, read relative to dir. The
// fence language is the file extension, dot included.
func EmbedFile(dir, name string) (string, error) {
	content, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		return "", fmt.Errorf("directives: embed %s: %w", name, err)
	}
	return "```" + filepath.Ext(name) + ` title="` + name + `"` + "\n" +
		strings.TrimSpace(string(content)) + "\n" + "```", nil
}
