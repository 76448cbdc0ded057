package domain

import "errors"

// ErrNotFound is returned by repo and service functions when the requested
// resource does not exist in the database. This covers both a missing note
// and a tag that is not attached to the note being modified.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when input fails business
// rule validation (e.g. missing title, title over the length limit).
// Handlers should map this to HTTP 400.
var ErrValidation = errors.New("validation error")

// ErrConflict is returned when an update loses an optimistic concurrency
// check: the row changed since the caller read it.
// Handlers should map this to HTTP 409.
var ErrConflict = errors.New("conflict")
