// Package assessments is the core of the service: it orchestrates batch
// uploads through classification, normalization, frame sampling, and model
// assessment, and persists the resulting condition records.
package assessments

import (
	"errors"
	"net/http"
)

// Domain errors for assessment operations.
var (
	ErrNotFound      = errors.New("assessment not found")
	ErrDuplicate     = errors.New("assessment already exists")
	ErrNoFiles       = errors.New("no files submitted")
	ErrTooManyFiles  = errors.New("too many files in one batch")
	ErrFileTooLarge  = errors.New("file exceeds the upload size limit")
	ErrMalformedForm = errors.New("malformed multipart body")
	ErrInvalidFilter = errors.New("invalid search filter")
)

// MapHTTPStatus maps domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, ErrNoFiles),
		errors.Is(err, ErrTooManyFiles),
		errors.Is(err, ErrMalformedForm),
		errors.Is(err, ErrInvalidFilter):
		return http.StatusBadRequest
	case errors.Is(err, ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge
	default:
		return http.StatusInternalServerError
	}
}
