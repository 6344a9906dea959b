package repository

import "errors"

var (
	// ErrNotFound indicates the requested row does not exist in the active store.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateEmail indicates an account with the same email already exists.
	ErrDuplicateEmail = errors.New("email already registered")
	// ErrDuplicateName indicates a uniquely named row already exists.
	ErrDuplicateName = errors.New("name already taken")
)
