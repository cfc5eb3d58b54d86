package rewind

import (
	"slices"
	"time"

	"go.uber.org/zap"
)

type (
	// Processor owns a value, the ordered history of Operations executed
	// against it, and a cursor marking how many of those Operations are
	// currently applied. The value always equals the initial value with
	// History()[:Position()] applied in order. It is not safe for concurrent
	// use; see Registry for serialized access
	Processor[T any] struct {
		value     T
		appliers  Appliers[T]
		history   []Operation
		position  int
		sequence  int64
		name      string
		logger    *zap.Logger
		observers []Observer
	}

	// Option configures a Processor
	Option func(*options)

	options struct {
		name      string
		logger    *zap.Logger
		observers []Observer
		sequence  int64
	}
)

// WithName sets the name reported in Transitions and log entries
func WithName(name string) Option {
	return func(o *options) {
		o.name = name
	}
}

// WithSequence sets the last Transition sequence already issued under this
// Processor's name, so that the next Transition continues after it
func WithSequence(last int64) Option {
	return func(o *options) {
		o.sequence = max(last, 0)
	}
}

// WithLogger sets the logger used to report transitions
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithObserver registers an Observer that is called after every successful
// Execute, Undo, and Redo
func WithObserver(obs Observer) Option {
	return func(o *options) {
		if obs != nil {
			o.observers = append(o.observers, obs)
		}
	}
}

// NewProcessor creates a Processor around the initial value that accepts
// the Operation kinds found in apps
func NewProcessor[T any](
	initial T, apps Appliers[T], opts ...Option,
) *Processor[T] {
	o := &options{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(o)
	}
	return &Processor[T]{
		value:     initial,
		appliers:  apps,
		history:   []Operation{},
		sequence:  o.sequence,
		name:      o.name,
		logger:    o.logger.With(zap.String("processor", o.name)),
		observers: o.observers,
	}
}

// NewCounter creates a Processor over a bounded unsigned counter
func NewCounter(initial uint32, opts ...Option) *Processor[uint32] {
	return NewProcessor(initial, CounterAppliers, opts...)
}

// NewText creates a Processor over a text buffer
func NewText(initial string, opts ...Option) *Processor[string] {
	return NewProcessor(initial, TextAppliers, opts...)
}

// Name returns the name the Processor was created with
func (p *Processor[_]) Name() string {
	return p.name
}

// Value returns the current value
func (p *Processor[T]) Value() T {
	return p.value
}

// Len returns the number of Operations in history, including undone ones
func (p *Processor[_]) Len() int {
	return len(p.history)
}

// Position returns the number of Operations currently applied
func (p *Processor[_]) Position() int {
	return p.position
}

// History returns a copy of the recorded Operations
func (p *Processor[_]) History() []Operation {
	return slices.Clone(p.history)
}

// CanUndo returns true if there is an applied Operation to undo
func (p *Processor[_]) CanUndo() bool {
	return p.position > 0
}

// CanRedo returns true if there is an undone Operation to redo
func (p *Processor[_]) CanRedo() bool {
	return p.position < len(p.history)
}

// Execute applies op to the value and records it at the cursor. Any undone
// Operations beyond the cursor are discarded and can no longer be redone.
// On failure the value, history, and cursor are left untouched
func (p *Processor[T]) Execute(op Operation) error {
	app, ok := p.appliers[op.Type]
	if !ok {
		p.logger.Debug("operation rejected",
			zap.Stringer("operation", op),
			zap.Error(ErrInvalidOperationTypeOnData),
		)
		return ErrInvalidOperationTypeOnData
	}

	next, rec, err := app.Apply(p.value, op)
	if err != nil {
		p.logger.Debug("operation failed",
			zap.Stringer("operation", op),
			zap.Error(err),
		)
		return err
	}

	if discarded := len(p.history) - p.position; discarded > 0 {
		clear(p.history[p.position:])
		p.logger.Debug("future discarded", zap.Int("count", discarded))
	}
	p.history = append(p.history[:p.position], rec)
	p.position++
	p.value = next
	p.notify(KindExecute, rec)
	return nil
}

// Undo reverts the most recently applied Operation
func (p *Processor[T]) Undo() error {
	if p.position == 0 {
		return ErrNothingToUndo
	}

	idx := p.position - 1
	op := p.history[idx]
	app, ok := p.appliers[op.Type]
	if !ok {
		return p.inconsistent(KindUndo, idx, ErrInvalidOperationTypeOnData)
	}

	prev, err := app.Revert(p.value, op)
	if err != nil {
		return p.inconsistent(KindUndo, idx, err)
	}

	p.value = prev
	p.position = idx
	p.notify(KindUndo, op)
	return nil
}

// Redo re-applies the most recently undone Operation. History is not
// modified; the stored Operation, including any captured payload, is
// reused as is
func (p *Processor[T]) Redo() error {
	if p.position >= len(p.history) {
		return ErrNothingToRedo
	}

	idx := p.position
	op := p.history[idx]
	app, ok := p.appliers[op.Type]
	if !ok {
		return p.inconsistent(KindRedo, idx, ErrInvalidOperationTypeOnData)
	}

	next, rec, err := app.Apply(p.value, op)
	if err != nil {
		return p.inconsistent(KindRedo, idx, err)
	}
	if rec != op {
		return p.inconsistent(KindRedo, idx, ErrHistoryDiverged)
	}

	p.value = next
	p.position++
	p.notify(KindRedo, op)
	return nil
}

func (p *Processor[T]) inconsistent(
	kind TransitionKind, idx int, err error,
) error {
	cerr := &ConsistencyError{
		Err:       err,
		Kind:      kind,
		Operation: p.history[idx],
		Index:     idx,
	}
	p.logger.Error("inconsistent history", zap.Error(cerr))
	return cerr
}

func (p *Processor[T]) notify(kind TransitionKind, op Operation) {
	p.sequence++
	p.logger.Debug("transition",
		zap.String("kind", string(kind)),
		zap.Stringer("operation", op),
		zap.Int("position", p.position),
		zap.Int("length", len(p.history)),
		zap.Int64("sequence", p.sequence),
	)
	if len(p.observers) == 0 {
		return
	}

	tr := &Transition{
		Timestamp: time.Now(),
		Processor: p.name,
		Kind:      kind,
		Operation: op,
		Value:     p.value,
		Sequence:  p.sequence,
		Position:  p.position,
		Length:    len(p.history),
	}
	for _, obs := range p.observers {
		obs(tr)
	}
}
