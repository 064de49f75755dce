package annotations

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/goliatone/go-schemadocs/internal/validation"
)

var (
	typeRefPattern    = regexp.MustCompile(`(//|##)\s*typeRef:([^:]+):(.+)$`)
	linkPattern       = regexp.MustCompile(`(//|##)\s*link#([^#]+)#(.*)$`)
	legacyFlagPattern = regexp.MustCompile(`^\* @example //(\w+):(true|false)$`)
)

const (
	placeholderOpen  = '\uE000'
	placeholderClose = '\uE001'
	// escapeRune prefixes source runes that would collide with tokens.
	escapeRune = '\uE002'
)

// Source text never reaches the scanner with a raw placeholderOpen, so only
// tokens minted by Scan.token are rewritten.
var (
	sourceEscaper   = strings.NewReplacer(string(escapeRune), "\uE002\uE002", string(placeholderOpen), "\uE002\uE003")
	sourceUnescaper = strings.NewReplacer("\uE002\uE002", string(escapeRune), "\uE002\uE003", string(placeholderOpen))
)

type placeholder struct {
	provisional int
	style       Style
}

// Scan is the result of extracting annotations from one block.
type Scan struct {
	// Text is the block with annotations replaced by placeholder tokens and
	// colliding source runes escaped. Sequence restores them.
	Text string
	// Base is the first provisional index minted for this block, or zero
	// when the block minted none.
	Base int
	// TypeRefs lists distinct type references in discovery order.
	TypeRefs []Reference
	// Links lists hard links in discovery order.
	Links []Reference
	// LegacyFlags holds the flags set true by `* @example //<flag>:<bool>`
	// lines removed from the block. A later false line does not clear them.
	LegacyFlags map[string]bool
	Malformed   []Malformed

	placeholders []placeholder
}

// LegacyFlag reports whether flag was declared true by a legacy example line.
func (s Scan) LegacyFlag(flag string) bool {
	return s.LegacyFlags[flag]
}

type typeRefPayload struct {
	RelPath          string `json:"relPath"`
	IsRegistryExport bool   `json:"isRegistryExport"`
}

// Extract strips typeRef and link annotations from text. All type references
// are numbered first in source order, then all links, each drawing from
// counter. A repeated reference to a type already queued in this block reuses
// the earlier index.
func Extract(text string, counter IndexSource) Scan {
	scan := Scan{LegacyFlags: map[string]bool{}}
	mint := func() int {
		idx := counter.Next()
		if scan.Base == 0 {
			scan.Base = idx
		}
		return idx
	}

	queued := map[string]int{}
	text = sourceEscaper.Replace(text)
	text = rewriteLines(text, typeRefPattern, func(lineNo int, line string, m []string) (string, bool) {
		prefix, name, raw := m[1], m[2], m[3]
		payload, err := decodeTypeRef(raw)
		if err != nil {
			scan.Malformed = append(scan.Malformed, Malformed{Line: line, LineNo: lineNo, TypeName: name, Err: err})
			return "", false
		}
		style := styleFromPrefix(prefix)
		if pos, ok := queued[name]; ok {
			return scan.token(scan.TypeRefs[pos].Provisional, style), true
		}
		ref := Reference{
			Kind:           KindTypeRef,
			TypeName:       name,
			RelPath:        payload.RelPath,
			Self:           payload.RelPath == SelfPath,
			RegistryExport: payload.IsRegistryExport,
			Provisional:    mint(),
			Style:          style,
			Line:           lineNo,
		}
		queued[name] = len(scan.TypeRefs)
		scan.TypeRefs = append(scan.TypeRefs, ref)
		return scan.token(ref.Provisional, style), true
	}, scan.LegacyFlags)

	text = rewriteLines(text, linkPattern, func(lineNo int, _ string, m []string) (string, bool) {
		style := styleFromPrefix(m[1])
		ref := Reference{
			Kind:        KindLink,
			Text:        m[2],
			URL:         m[3],
			Provisional: mint(),
			Style:       style,
			Line:        lineNo,
		}
		scan.Links = append(scan.Links, ref)
		return scan.token(ref.Provisional, style), true
	}, nil)

	scan.Text = text
	return scan
}

func (s *Scan) token(provisional int, style Style) string {
	id := len(s.placeholders)
	s.placeholders = append(s.placeholders, placeholder{provisional: provisional, style: style})
	return string(placeholderOpen) + strconv.Itoa(id) + string(placeholderClose)
}

type replaceFunc func(lineNo int, line string, match []string) (string, bool)

// rewriteLines applies replace to the first match of pattern on each line.
// Whitespace before the comment prefix is consumed together with the
// annotation, including line breaks above it. When flags is non-nil, legacy
// example flag lines are dropped and the ones set to true recorded there.
func rewriteLines(text string, pattern *regexp.Regexp, replace replaceFunc, flags map[string]bool) string {
	lines := strings.Split(text, "\n")
	out := make([]byte, 0, len(text))
	first := true
	for i, line := range lines {
		if flags != nil {
			if m := legacyFlagPattern.FindStringSubmatch(strings.TrimSpace(line)); m != nil {
				if m[2] == "true" {
					flags[m[1]] = true
				}
				continue
			}
		}
		if !first {
			out = append(out, '\n')
		}
		first = false

		loc := pattern.FindStringSubmatchIndex(line)
		if loc == nil {
			out = append(out, line...)
			continue
		}
		match := make([]string, len(loc)/2)
		for g := range match {
			if loc[2*g] >= 0 {
				match[g] = line[loc[2*g]:loc[2*g+1]]
			}
		}
		replacement, ok := replace(i+1, line, match)
		if !ok {
			out = append(out, line...)
			continue
		}
		out = append(out, line[:loc[0]]...)
		out = trimRightSpace(out)
		out = append(out, replacement...)
	}
	return string(out)
}

func trimRightSpace(b []byte) []byte {
	return bytes.TrimRightFunc(b, unicode.IsSpace)
}

func decodeTypeRef(raw string) (typeRefPayload, error) {
	if _, err := validation.TypeRefPayload.ValidateJSON([]byte(raw)); err != nil {
		return typeRefPayload{}, err
	}
	var payload typeRefPayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return typeRefPayload{}, fmt.Errorf("decode typeRef payload: %w", err)
	}
	return payload, nil
}
