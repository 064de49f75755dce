package pages

import "errors"

var (
	ErrProcessorRequired = errors.New("pages: page processor is required")
	ErrDocsDirRequired   = errors.New("pages: docs directory is required")
	ErrOutputDirRequired = errors.New("pages: output directory is required")
)
