package blocks

import "errors"

var (
	// ErrBlockNotFound indicates the begin/end marker pair for a type is absent.
	ErrBlockNotFound = errors.New("blocks: block not found")
	// ErrSourceRead wraps filesystem failures while loading a source file.
	ErrSourceRead = errors.New("blocks: source read failed")
	// ErrMetaMalformed reports a meta marker whose payload cannot be used.
	ErrMetaMalformed = errors.New("blocks: meta payload malformed")
)

const (
	textCodeBlockNotFound = "BLOCK_NOT_FOUND"
	textCodeSourceRead    = "SOURCE_READ_FAILED"
)
