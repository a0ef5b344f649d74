package evidence

import "errors"

var (
	// ErrPackNotFound indicates the requested audit pack does not exist.
	ErrPackNotFound = errors.New("audit pack not found")
)
