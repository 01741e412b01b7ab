package model

import "errors"

var (
	// ErrNotFound is returned when a resource is not found (including the
	// Blender executable after exhausting every discovery tier).
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists is returned when a resource already exists.
	ErrAlreadyExists = errors.New("already exists")
	// ErrNotValid is returned when a resource or request is not valid.
	ErrNotValid = errors.New("not valid")
)
