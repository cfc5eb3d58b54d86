package rewind

import (
	"errors"
	"fmt"
)

type (
	// ConsistencyError reports that a history entry validated at execute
	// time could not be undone or redone. It indicates a broken invariant
	// rather than bad input, and unwraps to the underlying cause
	ConsistencyError struct {
		Err       error
		Kind      TransitionKind
		Operation Operation
		Index     int
	}
)

// Arithmetic errors
var (
	ErrCannotIncreaseByZero = errors.New("cannot increase by zero")
	ErrCannotDecreaseByZero = errors.New("cannot decrease by zero")
	ErrIntegerOverflow      = errors.New("integer overflow")
	ErrIntegerUnderflow     = errors.New("integer underflow")
)

// Text errors
var (
	ErrInputStringIsEmpty         = errors.New("input string is empty")
	ErrCannotRemoveZeroCharacters = errors.New("cannot remove zero characters")
	ErrAmountLargerThanString     = errors.New("amount larger than string")
)

// History errors
var (
	ErrInvalidOperationTypeOnData = errors.New(
		"invalid operation type on data",
	)
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrNothingToRedo = errors.New("nothing to redo")

	// ErrInconsistentHistory matches any *ConsistencyError
	ErrInconsistentHistory = errors.New("inconsistent history")

	// ErrHistoryDiverged indicates that undoing or re-applying a history entry
	// did not match the stored operation
	ErrHistoryDiverged = errors.New("history entry diverged")
)

func (e *ConsistencyError) Error() string {
	return fmt.Sprintf(
		"inconsistent history: %s of %s at index %d: %v",
		e.Kind, e.Operation, e.Index, e.Err,
	)
}

func (e *ConsistencyError) Unwrap() error {
	return e.Err
}

// Is allows errors.Is(err, ErrInconsistentHistory) to match
func (e *ConsistencyError) Is(target error) bool {
	return target == ErrInconsistentHistory
}
