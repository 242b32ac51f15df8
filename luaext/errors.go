package luaext

import "errors"

// Script loading errors.
var (
	// ErrMissingName is returned when a script never declares its
	// extension name.
	ErrMissingName = errors.New("script declares no extension name")

	// ErrBadKind is returned for an unrecognized extension kind.
	ErrBadKind = errors.New("unknown extension kind")
)
