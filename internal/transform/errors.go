package transform

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedOperation indicates a Patch's astOp is not one of the
	// operations this engine implements.
	ErrUnsupportedOperation = errors.New("unsupported operation")

	// ErrInvalidSelector indicates a selector string falls outside the
	// attribute-predicate grammar this engine recognizes.
	ErrInvalidSelector = errors.New("invalid selector")

	// ErrParse indicates a file could not be parsed for its language.
	ErrParse = errors.New("parse error")

	// ErrUnknownInvariantType indicates an Invariant's type is not one of
	// the five recognized kinds.
	ErrUnknownInvariantType = errors.New("unknown invariant type")
)

// ParseError wraps ErrParse with the offending file path.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return ErrParse }

// SelectorError wraps ErrInvalidSelector with the offending selector text.
type SelectorError struct {
	Selector string
}

func (e *SelectorError) Error() string {
	return fmt.Sprintf("invalid selector %q", e.Selector)
}

func (e *SelectorError) Unwrap() error { return ErrInvalidSelector }
