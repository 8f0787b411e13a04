package pipeline

import (
	"errors"
	"fmt"
)

// ErrNoRecords ends a run that has nothing to brief. It is not a failure: no synthesis
// or delivery is attempted.
var ErrNoRecords = errors.New("no records to brief")

// StageError represents a fatal failure in one pipeline stage.
type StageError struct {
	Stage   string
	Message string
	Cause   error
}

func (e *StageError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Stage, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Stage, e.Message)
}

func (e *StageError) Unwrap() error {
	return e.Cause
}
