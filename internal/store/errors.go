package store

import "errors"

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("not found")

// ErrVersionConflict is returned when a conditional update loses the
// race against a concurrent writer (stale version token).
var ErrVersionConflict = errors.New("version conflict")

// ErrDuplicateEmail is returned when a profile email is already taken.
var ErrDuplicateEmail = errors.New("email already registered")
