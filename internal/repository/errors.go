package repository

import "errors"

var (
	// ErrNotFound indicates the requested row does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict indicates an update lost an optimistic concurrency
	// race: the stored version no longer matches the loaded one.
	ErrConflict = errors.New("version conflict")

	// ErrDuplicate indicates a unique constraint rejected an insert.
	ErrDuplicate = errors.New("duplicate")
)
