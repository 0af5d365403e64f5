package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotImplemented indicates functionality is not yet available.
	ErrNotImplemented = errors.New("not implemented")

	// ErrUnsupportedType indicates a content type the pipeline cannot process locally.
	ErrUnsupportedType = errors.New("unsupported type")

	// Record decode errors.

	// ErrMissingField indicates a record lacks a required key.
	ErrMissingField = errors.New("missing required field")

	// ErrInvalidValue indicates a record field holds an unusable value,
	// such as an unrecognised enum string or a mistyped primitive.
	ErrInvalidValue = errors.New("invalid value")

	// ErrInvalidTimestamp indicates a timestamp string could not be parsed.
	ErrInvalidTimestamp = errors.New("malformed timestamp")
)
