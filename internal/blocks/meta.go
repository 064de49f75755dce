package blocks

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/goliatone/go-schemadocs/internal/validation"
)

const metaPrefix = "//meta:"

// Meta holds the flag records declared for one type, stored last-declared
// first so later records win on key conflicts.
type Meta []map[string]any

// Lookup returns the value for key from the highest priority record holding it.
func (m Meta) Lookup(key string) (any, bool) {
	for _, record := range m {
		if value, ok := record[key]; ok {
			return value, true
		}
	}
	return nil, false
}

// Bool reports whether key resolves to the boolean true.
func (m Meta) Bool(key string) bool {
	value, ok := m.Lookup(key)
	if !ok {
		return false
	}
	flag, ok := value.(bool)
	return ok && flag
}

// ParseMeta reads the first `//meta:<name>:<json>` line in content. A missing
// marker yields an empty Meta and no error. A malformed payload yields an
// empty Meta and an error wrapping ErrMetaMalformed; callers log it and carry on.
func ParseMeta(content, name string) (Meta, error) {
	prefix := metaPrefix + name + ":"
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimRight(line, "\r")
		if !strings.HasPrefix(line, prefix) {
			continue
		}
		payload := line[len(prefix):]
		if payload == "" {
			continue
		}
		return decodeMeta(payload)
	}
	return Meta{}, nil
}

func decodeMeta(payload string) (Meta, error) {
	if _, err := validation.MetaRecords.ValidateJSON([]byte(payload)); err != nil {
		return Meta{}, fmt.Errorf("%w: %w", ErrMetaMalformed, err)
	}
	var records []map[string]any
	if err := json.Unmarshal([]byte(payload), &records); err != nil {
		return Meta{}, fmt.Errorf("%w: %w", ErrMetaMalformed, err)
	}
	meta := make(Meta, 0, len(records))
	for i := len(records) - 1; i >= 0; i-- {
		meta = append(meta, records[i])
	}
	return meta, nil
}
