package manager

import "errors"

// Manager errors.
var (
	// ErrDuplicateExtension is returned when two extensions share a name.
	ErrDuplicateExtension = errors.New("duplicate extension name")

	// ErrDuplicateCommand is returned when two extensions declare the
	// same command name.
	ErrDuplicateCommand = errors.New("duplicate command name")

	// ErrDuplicateHelper is returned when two extensions declare the
	// same helper name.
	ErrDuplicateHelper = errors.New("duplicate helper name")

	// ErrDuplicateSchemaType is returned when two schema fragments use
	// the same type name.
	ErrDuplicateSchemaType = errors.New("duplicate schema type name")

	// ErrViewNotAttached is returned when a view-dependent operation runs
	// before AttachView.
	ErrViewNotAttached = errors.New("view is not attached")

	// ErrViewAttached is returned when AttachView is called twice.
	ErrViewAttached = errors.New("view is already attached")

	// ErrManagerDestroyed is returned for any operation after Destroy.
	ErrManagerDestroyed = errors.New("manager is destroyed")

	// ErrUnknownCommand is returned when a command name is not registered.
	ErrUnknownCommand = errors.New("unknown command")

	// ErrUnknownHelper is returned when a helper name is not registered.
	ErrUnknownHelper = errors.New("unknown helper")

	// ErrUnknownActive is returned when an active-state query names no
	// mark or node extension.
	ErrUnknownActive = errors.New("no active-state query for name")

	// ErrNotChainable is returned when a command declared with
	// DisableChaining is invoked through the chain surface.
	ErrNotChainable = errors.New("command is not chainable")

	// ErrStoreLocked is returned when the store is written outside a
	// lifecycle hook.
	ErrStoreLocked = errors.New("store is writable only during lifecycle hooks")

	// ErrStoreKeyFrozen is returned when writing a store key frozen at
	// view attach.
	ErrStoreKeyFrozen = errors.New("store key is frozen")

	// ErrNilView is returned when AttachView receives a nil view.
	ErrNilView = errors.New("view is nil")
)
