package domain

import "errors"

// ErrInvalidInput is returned when an empty or unparsable array is supplied.
var ErrInvalidInput = errors.New("invalid input")

// ErrUnknownAlgorithm is returned when an algorithm tag is not recognized.
var ErrUnknownAlgorithm = errors.New("unknown algorithm")

// ErrCancelled reports that a run stopped early because its session was cancelled.
// It is a normal outcome, not a failure: the array is left in a valid intermediate state.
var ErrCancelled = errors.New("run cancelled")

// ErrRunNotFound is returned when a run ID cannot be found in the store.
var ErrRunNotFound = errors.New("run not found")
