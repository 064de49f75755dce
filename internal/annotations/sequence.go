package annotations

import (
	"strconv"
	"strings"
)

// Sequenced is a block whose markers carry their final indices.
type Sequenced struct {
	Text string
	// TypeRefs are ordered by final index: same-file references first, then
	// the rest, each group in discovery order.
	TypeRefs []Reference
	// Links keep discovery order; their final index is their provisional
	// index relative to the block's first one, which places them after the
	// type references.
	Links []Reference
}

// Sequence assigns final indices and rewrites every placeholder in scan.Text.
func Sequence(scan Scan) Sequenced {
	ordered := make([]Reference, 0, len(scan.TypeRefs))
	for _, ref := range scan.TypeRefs {
		if ref.Self {
			ordered = append(ordered, ref)
		}
	}
	for _, ref := range scan.TypeRefs {
		if !ref.Self {
			ordered = append(ordered, ref)
		}
	}

	finals := make(map[int]int, len(ordered)+len(scan.Links))
	for i := range ordered {
		ordered[i].Final = i + 1
		finals[ordered[i].Provisional] = ordered[i].Final
	}

	links := make([]Reference, len(scan.Links))
	for i, link := range scan.Links {
		link.Final = link.Provisional - scan.Base + 1
		finals[link.Provisional] = link.Final
		links[i] = link
	}

	return Sequenced{
		Text:     scan.rewrite(finals),
		TypeRefs: ordered,
		Links:    links,
	}
}

func (s Scan) rewrite(finals map[int]int) string {
	if len(s.placeholders) == 0 {
		return sourceUnescaper.Replace(s.Text)
	}
	var b strings.Builder
	b.Grow(len(s.Text))
	rest := s.Text
	for {
		open := strings.IndexRune(rest, placeholderOpen)
		if open < 0 {
			b.WriteString(rest)
			break
		}
		tail := rest[open+len(string(placeholderOpen)):]
		closing := strings.IndexRune(tail, placeholderClose)
		if closing < 0 {
			b.WriteString(rest)
			break
		}
		id, err := strconv.Atoi(tail[:closing])
		if err != nil || id < 0 || id >= len(s.placeholders) {
			b.WriteString(rest[:open+len(string(placeholderOpen))])
			rest = tail
			continue
		}
		b.WriteString(rest[:open])
		ph := s.placeholders[id]
		b.WriteString(ph.style.Marker(finals[ph.provisional]))
		rest = tail[closing+len(string(placeholderClose)):]
	}
	return sourceUnescaper.Replace(b.String())
}
