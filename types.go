package rewind

import (
	"fmt"
	"time"
)

type (
	// OperationType identifies the kind of an Operation
	OperationType string

	// Operation describes one reversible action and its parameters. Only the
	// fields relevant to Type are meaningful. Removed is filled in when a
	// Truncate is recorded into history and is empty before that
	Operation struct {
		Type    OperationType `json:"type"`
		Amount  uint32        `json:"amount,omitempty"`
		Text    string        `json:"text,omitempty"`
		Removed string        `json:"removed,omitempty"`
	}

	// TransitionKind names the processor call that produced a Transition
	TransitionKind string

	// Transition describes a successful Execute, Undo, or Redo
	Transition struct {
		Timestamp time.Time      `json:"timestamp"`
		Processor string         `json:"processor"`
		Kind      TransitionKind `json:"kind"`
		Operation Operation      `json:"operation"`
		Value     any            `json:"value"`
		Sequence  int64          `json:"sequence"`
		Position  int            `json:"position"`
		Length    int            `json:"length"`
	}
)

const (
	OpIncrement OperationType = "increment"
	OpDecrement OperationType = "decrement"
	OpAppend    OperationType = "append"
	OpTruncate  OperationType = "truncate"
)

const (
	KindExecute TransitionKind = "execute"
	KindUndo    TransitionKind = "undo"
	KindRedo    TransitionKind = "redo"
)

// NewIncrement creates an Operation that adds amount to a counter
func NewIncrement(amount uint32) Operation {
	return Operation{Type: OpIncrement, Amount: amount}
}

// NewDecrement creates an Operation that subtracts amount from a counter
func NewDecrement(amount uint32) Operation {
	return Operation{Type: OpDecrement, Amount: amount}
}

// NewAppend creates an Operation that appends text to a text buffer
func NewAppend(text string) Operation {
	return Operation{Type: OpAppend, Text: text}
}

// NewTruncate creates an Operation that removes the last amount characters
// from a text buffer
func NewTruncate(amount uint32) Operation {
	return Operation{Type: OpTruncate, Amount: amount}
}

func (op Operation) String() string {
	switch op.Type {
	case OpIncrement, OpDecrement:
		return fmt.Sprintf("%s(%d)", op.Type, op.Amount)
	case OpAppend:
		return fmt.Sprintf("%s(%q)", op.Type, op.Text)
	case OpTruncate:
		if op.Removed != "" {
			return fmt.Sprintf("%s(%d, %q)", op.Type, op.Amount, op.Removed)
		}
		return fmt.Sprintf("%s(%d)", op.Type, op.Amount)
	default:
		return string(op.Type)
	}
}
