package interfaces

import "time"

// MarkdownParser defines how raw Markdown bytes are converted into HTML.
// Implementations should be reusable across pages and honour extension
// toggles so hosts can tailor rendering without rewriting the build.
type MarkdownParser interface {
	// Parse converts Markdown into HTML using the parser's default settings.
	Parse(markdown []byte) ([]byte, error)
	// ParseWithOptions converts Markdown into HTML using the supplied overrides.
	ParseWithOptions(markdown []byte, opts ParseOptions) ([]byte, error)
}

// ParseOptions customises Markdown parsing behaviour, keeping option names
// readable for configuration unmarshalling and CLI flags.
type ParseOptions struct {
	Extensions []string
	Sanitize   bool
	HardWraps  bool
	SafeMode   bool
}

// Page represents a documentation page read from disk, split into its
// frontmatter header and Markdown body.
type Page struct {
	FilePath     string
	FrontMatter  FrontMatter
	Header       []byte
	Body         []byte
	LastModified time.Time
	// Checksum stores a SHA-256 digest of the original file content.
	Checksum []byte
}

// FrontMatter models the page metadata understood by the build. Unknown keys
// are preserved in Custom.
type FrontMatter struct {
	Title      string         `yaml:"title" json:"title"`
	Summary    string         `yaml:"summary" json:"summary"`
	SchemaFile string         `yaml:"schemaFile" json:"schema_file"`
	Custom     map[string]any `yaml:",inline" json:"custom"`
}
