package document

import "errors"

// Document model errors.
var (
	// ErrTypeExists is returned when a schema type name is registered twice.
	ErrTypeExists = errors.New("schema type already registered")

	// ErrUnknownType is returned when a type name is not in the schema.
	ErrUnknownType = errors.New("unknown schema type")

	// ErrUnknownStep is returned when deserializing an unrecognized step type.
	ErrUnknownStep = errors.New("unknown step type")

	// ErrRangeInvalid is returned when a step range is inverted or out of bounds.
	ErrRangeInvalid = errors.New("invalid document range")
)
