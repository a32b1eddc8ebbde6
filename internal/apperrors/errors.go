package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrPersistence indicates that the remote tabular store failed a write after
// the in-memory state was already mutated. A store returning this has already
// rolled back to its pre-mutation snapshot.
var ErrPersistence = errors.New("persistence failure")
