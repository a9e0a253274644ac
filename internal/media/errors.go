// Package media classifies uploaded files and normalizes image bytes into the
// single canonical format the vision service accepts.
package media

import "errors"

// Domain errors for media classification and normalization.
var (
	ErrInvalidImage      = errors.New("image is corrupted or empty")
	ErrUnsupportedFormat = errors.New("unsupported image format")
)
