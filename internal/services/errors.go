package services

import "errors"

// ErrUnauthorized is returned when the acting role may not invoke the
// requested operation.
var ErrUnauthorized = errors.New("unauthorized")

// ErrInvalidTransition is returned when an action is not legal from the
// entity's current status.
var ErrInvalidTransition = errors.New("invalid transition")

// ErrValidation is returned when request input fails a required-field
// or enumeration check. Wrapped errors carry the specific field.
var ErrValidation = errors.New("validation failed")
