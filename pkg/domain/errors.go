package domain

import "errors"

// Common domain errors
var (
	// ErrInvalidArgument is returned when an operation receives malformed input,
	// such as a non-positive batch size or a missing account field.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrNotFound is returned when a requested resource is not found
	ErrNotFound = errors.New("resource not found")
	// ErrConflict is returned when a unique field (the account number) is already taken
	ErrConflict = errors.New("resource already exists")
	// ErrAggregationFailed is returned when one or more balance batches could not be summed
	ErrAggregationFailed = errors.New("aggregation failed")
	// ErrUnavailable is returned when the underlying store is unreachable or timed out
	ErrUnavailable = errors.New("store unavailable")
)
