package mission

import "errors"

var (
	// ErrMissionNotFound indicates no mission exists with the given ID.
	ErrMissionNotFound = errors.New("mission not found")

	// ErrCheckpointNotFound indicates a mission has no checkpoint with the
	// given name.
	ErrCheckpointNotFound = errors.New("checkpoint not found")

	// ErrBatchNotFound indicates no batch exists with the given ID.
	ErrBatchNotFound = errors.New("batch not found")

	// ErrCheckpointNotPending indicates an approve call targeted a
	// checkpoint that is not currently pending.
	ErrCheckpointNotPending = errors.New("checkpoint is not pending")

	// ErrSecurityBlock indicates a critical-severity redactor finding
	// aborted an applyCheckpoint call before any file was touched.
	ErrSecurityBlock = errors.New("security block: critical finding in apply input")
)

// SecurityBlockError carries the redactor findings that triggered a
// SecurityBlock, so callers can attach them to the rejected checkpoint's
// evidence without re-scanning.
type SecurityBlockError struct {
	File    string
	Message string
}

func (e *SecurityBlockError) Error() string {
	return "security block (" + e.File + "): " + e.Message
}

func (e *SecurityBlockError) Unwrap() error { return ErrSecurityBlock }
