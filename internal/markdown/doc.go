// Package markdown loads documentation pages from a filesystem, splits their
// frontmatter from the Markdown body and renders processed pages to HTML with
// goldmark.
package markdown
