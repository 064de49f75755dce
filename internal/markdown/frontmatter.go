package markdown

import (
	"bytes"
	"fmt"
	"time"

	"github.com/adrg/frontmatter"

	"github.com/goliatone/go-schemadocs/pkg/interfaces"
)

// ParseFrontMatter splits source into its metadata, the verbatim frontmatter
// header (delimiters included) and the Markdown body. Pages without
// frontmatter return an empty header and the full source as body.
func ParseFrontMatter(source []byte) (interfaces.FrontMatter, []byte, []byte, error) {
	var meta frontMatterEnvelope

	rest, err := frontmatter.Parse(bytes.NewReader(source), &meta)
	if err != nil {
		return interfaces.FrontMatter{}, nil, nil, fmt.Errorf("parse frontmatter: %w", err)
	}

	header, body := splitHeader(source, rest)

	return envelopeToFrontMatter(meta), header, body, nil
}

// splitHeader locates the parsed body inside source so the header can be
// written back byte for byte.
func splitHeader(source, rest []byte) ([]byte, []byte) {
	if len(bytes.TrimSpace(rest)) == 0 {
		if len(bytes.TrimSpace(source)) == 0 {
			return nil, source
		}
		return source, nil
	}
	idx := bytes.LastIndex(source, bytes.TrimSpace(rest))
	if idx < 0 {
		return nil, source
	}
	// Keep leading blank lines of the body with the body.
	for idx > 0 && (source[idx-1] == '\n' || source[idx-1] == '\r' || source[idx-1] == ' ' || source[idx-1] == '\t') {
		if source[idx-1] == '\n' && bytes.HasSuffix(source[:idx-1], []byte("---")) {
			break
		}
		idx--
	}
	return source[:idx], source[idx:]
}

// BuildPage assembles an interfaces.Page from the supplied path, raw content
// and modification time.
func BuildPage(path string, source []byte, modified time.Time) (*interfaces.Page, error) {
	fm, header, body, err := ParseFrontMatter(source)
	if err != nil {
		return nil, err
	}

	return &interfaces.Page{
		FilePath:     path,
		FrontMatter:  fm,
		Header:       header,
		Body:         body,
		LastModified: modified,
	}, nil
}

type frontMatterEnvelope struct {
	Title      string         `yaml:"title"`
	Summary    string         `yaml:"summary"`
	SchemaFile string         `yaml:"schemaFile"`
	Custom     map[string]any `yaml:",inline"`
}

func envelopeToFrontMatter(env frontMatterEnvelope) interfaces.FrontMatter {
	return interfaces.FrontMatter{
		Title:      env.Title,
		Summary:    env.Summary,
		SchemaFile: env.SchemaFile,
		Custom:     cloneMap(env.Custom),
	}
}

func cloneMap(input map[string]any) map[string]any {
	if input == nil {
		return map[string]any{}
	}

	out := make(map[string]any, len(input))
	for key, value := range input {
		out[key] = value
	}
	return out
}
