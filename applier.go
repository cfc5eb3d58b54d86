package rewind

import "strings"

type (
	// Applier is the pair of functions that move a value of type T forward
	// and backward across one kind of Operation. Apply returns the new value
	// and the Operation as it should be recorded in history, including any
	// payload that Revert will need later
	Applier[T any] struct {
		Apply  func(T, Operation) (T, Operation, error)
		Revert func(T, Operation) (T, error)
	}

	// Appliers is the set of Operation kinds a value type accepts
	Appliers[T any] map[OperationType]Applier[T]
)

// CounterAppliers accept Increment and Decrement on a uint32
var CounterAppliers = Appliers[uint32]{
	OpIncrement: {
		Apply:  MakeApply(Increase),
		Revert: MakeRevert(Decrease),
	},
	OpDecrement: {
		Apply:  MakeApply(Decrease),
		Revert: MakeRevert(Increase),
	},
}

// TextAppliers accept Append and Truncate on a string
var TextAppliers = Appliers[string]{
	OpAppend: {
		Apply:  applyAppend,
		Revert: revertAppend,
	},
	OpTruncate: {
		Apply:  applyTruncate,
		Revert: revertTruncate,
	},
}

// MakeApply adapts an amount-based catalogue function into an Apply
// function that records the Operation unchanged
func MakeApply[T any](
	fn func(T, uint32) (T, error),
) func(T, Operation) (T, Operation, error) {
	return func(val T, op Operation) (T, Operation, error) {
		res, err := fn(val, op.Amount)
		if err != nil {
			return val, op, err
		}
		return res, op, nil
	}
}

// MakeRevert adapts an amount-based catalogue function into a Revert
// function
func MakeRevert[T any](
	fn func(T, uint32) (T, error),
) func(T, Operation) (T, error) {
	return func(val T, op Operation) (T, error) {
		return fn(val, op.Amount)
	}
}

// Supports reports whether the Appliers accept the given Operation kind
func (a Appliers[_]) Supports(typ OperationType) bool {
	_, ok := a[typ]
	return ok
}

func applyAppend(val string, op Operation) (string, Operation, error) {
	res, err := Append(val, op.Text)
	if err != nil {
		return val, op, err
	}
	return res, Operation{Type: OpAppend, Text: op.Text}, nil
}

func revertAppend(val string, op Operation) (string, error) {
	res, ok := strings.CutSuffix(val, op.Text)
	if !ok || op.Text == "" {
		return val, ErrHistoryDiverged
	}
	return res, nil
}

func applyTruncate(val string, op Operation) (string, Operation, error) {
	res, removed, err := Cut(val, op.Amount)
	if err != nil {
		return val, op, err
	}
	return res, Operation{
		Type:    OpTruncate,
		Amount:  op.Amount,
		Removed: removed,
	}, nil
}

func revertTruncate(val string, op Operation) (string, error) {
	return Append(val, op.Removed)
}
