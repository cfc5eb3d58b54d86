// Package rewind implements a generic undo/redo command processor. A
// Processor owns a single value, a linear history of executed Operations,
// and a cursor separating applied operations from undone ones. Executing a
// new Operation after an undo discards the abandoned future.
//
// Typical usage looks like:
//   - Create a Processor around an initial value and a set of Appliers
//     (NewCounter and NewText cover the built-in value types)
//   - Drive it with Execute, Undo and Redo
//   - Optionally observe Transitions, or feed them to a Journal that writes
//     an audit trail to Redis, bbolt, or PostgreSQL
//   - Use a Registry when many named processors are shared between
//     goroutines
//
// The examples/ directory contains a runnable program that exercises the
// API with both value types.
package rewind
