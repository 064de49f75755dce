package docscmd

import (
	"io"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const (
	resolveTypeMessageType = "schemadocs.docs.resolve_type"
	renderPageMessageType  = "schemadocs.docs.render_page"
	buildSiteMessageType   = "schemadocs.docs.build_site"
	listModulesMessageType = "schemadocs.docs.list_modules"
)

func notBlank(code, message string) validation.Rule {
	return validation.By(func(value any) error {
		s, _ := value.(string)
		if strings.TrimSpace(s) == "" {
			return validation.NewError(code, message)
		}
		return nil
	})
}

// ResolveTypeCommand renders one type block and the blocks it references.
type ResolveTypeCommand struct {
	// Dir is the directory the schema file lives in.
	Dir      string `json:"dir"`
	TypeName string `json:"type_name"`
	// File overrides the default schema file name.
	File string `json:"file,omitempty"`
	// Output receives the rendered markdown when set.
	Output io.Writer `json:"-"`
}

// Type implements command.Message.
func (ResolveTypeCommand) Type() string { return resolveTypeMessageType }

// Validate implements command.Message.
func (cmd ResolveTypeCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Dir, validation.Required, notBlank("schemadocs.docs.resolve_type.dir_required", "dir is required")),
		validation.Field(&cmd.TypeName, validation.Required, notBlank("schemadocs.docs.resolve_type.type_required", "type name is required")),
	)
}

// RenderPageCommand expands the directives of a single page.
type RenderPageCommand struct {
	// Path is relative to the docs directory.
	Path   string    `json:"path"`
	Output io.Writer `json:"-"`
}

// Type implements command.Message.
func (RenderPageCommand) Type() string { return renderPageMessageType }

// Validate implements command.Message.
func (cmd RenderPageCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Path, validation.Required, notBlank("schemadocs.docs.render_page.path_required", "path is required")),
	)
}

// BuildSiteCommand processes the docs tree into the output directory.
type BuildSiteCommand struct {
	// Pages limits the build to the listed paths.
	Pages  []string `json:"pages,omitempty"`
	DryRun bool     `json:"dry_run,omitempty"`
}

// Type implements command.Message.
func (BuildSiteCommand) Type() string { return buildSiteMessageType }

// Validate implements command.Message.
func (cmd BuildSiteCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Pages, validation.Each(notBlank("schemadocs.docs.build_site.page_required", "page path must not be empty"))),
	)
}

// ListModulesCommand renders the module table for Dir.
type ListModulesCommand struct {
	Dir    string    `json:"dir"`
	Output io.Writer `json:"-"`
}

// Type implements command.Message.
func (ListModulesCommand) Type() string { return listModulesMessageType }

// Validate implements command.Message.
func (cmd ListModulesCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Dir, validation.Required, notBlank("schemadocs.docs.list_modules.dir_required", "dir is required")),
	)
}
