package domain

import (
	"errors"
)

var (
	// ErrNotFound signals a missing document.
	ErrNotFound = errors.New("not found")

	// ErrProjectNotFound signals a task referencing a project that does
	// not exist. Creation-side aggregation surfaces it as a partial
	// success; the task itself stands.
	ErrProjectNotFound = errors.New("project not found")
)
