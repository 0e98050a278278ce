package batch

import "errors"

var (
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrMalformedInput      = errors.New("malformed CSV input")
	ErrMissingColumn       = errors.New("missing text column")
)
