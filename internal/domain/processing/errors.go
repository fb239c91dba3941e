package processing

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrProcessRuined is returned when collecting a process destroyed by temperature
	ErrProcessRuined = errors.New("process ruined by temperature")

	// ErrProcessNotReady is returned when collecting a process that has not finished
	ErrProcessNotReady = errors.New("process not ready for pickup")
)

// DefinitionError indicates an authored process definition is malformed
type DefinitionError struct {
	DefinitionID string
	Field        string
	Reason       string
}

func (e *DefinitionError) Error() string {
	id := e.DefinitionID
	if id == "" {
		id = "<unnamed>"
	}
	return fmt.Sprintf("invalid process definition %s: %s: %s", id, e.Field, e.Reason)
}

// UnknownDefinitionError indicates a definition ID that is not in the catalog
type UnknownDefinitionError struct {
	DefinitionID string
	Suggestions  []string
}

func (e *UnknownDefinitionError) Error() string {
	if len(e.Suggestions) > 0 {
		return fmt.Sprintf("unknown process definition %s (did you mean %s?)",
			e.DefinitionID, strings.Join(e.Suggestions, ", "))
	}
	return fmt.Sprintf("unknown process definition %s", e.DefinitionID)
}

// DefinitionLockedError indicates a definition whose research prerequisites are not finished
type DefinitionLockedError struct {
	DefinitionID string
	Missing      []string
}

func (e *DefinitionLockedError) Error() string {
	return fmt.Sprintf("process definition %s is locked: missing research %v",
		e.DefinitionID, e.Missing)
}

// ProcessNotFoundError indicates a process ID that is not queued on the unit
type ProcessNotFoundError struct {
	UnitID    string
	ProcessID string
}

func (e *ProcessNotFoundError) Error() string {
	return fmt.Sprintf("process %s not found on unit %s", e.ProcessID, e.UnitID)
}
