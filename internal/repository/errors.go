package repository

import "errors"

var (
	// ErrNotFound is returned when the requested row does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrStatusMismatch is returned by a conditional status update whose precondition no longer holds.
	ErrStatusMismatch = errors.New("report status changed since it was read")
	// ErrDuplicate is returned when a unique constraint rejects an insert.
	ErrDuplicate = errors.New("record already exists")
)
