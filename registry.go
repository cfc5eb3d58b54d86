package rewind

type (
	// Registry holds named Processors and serializes access to each one with
	// its own mutex. Once more than the configured number of Processors are
	// held, the least recently used idle one is dropped along with its
	// history. A Processor is never dropped while a call is using or waiting
	// on it, so the Registry can briefly hold more than its size
	Registry[T any] struct {
		cache     *lruCache[*Processor[T]]
		construct func(string) *Processor[T]
	}
)

// NewRegistry creates a Registry that builds missing Processors with
// construct
func NewRegistry[T any](
	size int, construct func(name string) *Processor[T],
) *Registry[T] {
	return &Registry[T]{
		cache:     newLRUCache[*Processor[T]](size),
		construct: construct,
	}
}

// With runs fn against the named Processor while holding its lock,
// constructing the Processor first if it is not held
func (r *Registry[T]) With(name string, fn func(*Processor[T]) error) error {
	entry := r.cache.Get(name, func() *Processor[T] {
		return r.construct(name)
	})
	defer r.cache.Release(entry)

	entry.mu.Lock()
	defer entry.mu.Unlock()
	return fn(entry.value)
}

// Execute runs Processor.Execute on the named Processor
func (r *Registry[T]) Execute(name string, op Operation) error {
	return r.With(name, func(p *Processor[T]) error {
		return p.Execute(op)
	})
}

// Undo runs Processor.Undo on the named Processor
func (r *Registry[T]) Undo(name string) error {
	return r.With(name, func(p *Processor[T]) error {
		return p.Undo()
	})
}

// Redo runs Processor.Redo on the named Processor
func (r *Registry[T]) Redo(name string) error {
	return r.With(name, func(p *Processor[T]) error {
		return p.Redo()
	})
}

// Value returns the current value of the named Processor
func (r *Registry[T]) Value(name string) T {
	var res T
	_ = r.With(name, func(p *Processor[T]) error {
		res = p.Value()
		return nil
	})
	return res
}

// Forget drops the named Processor, reporting whether it was dropped. A
// Processor that is currently in use is not dropped
func (r *Registry[_]) Forget(name string) bool {
	return r.cache.Remove(name)
}

// Names returns the held Processor names, most recently used first
func (r *Registry[_]) Names() []string {
	return r.cache.Keys()
}

// Len returns the number of held Processors
func (r *Registry[_]) Len() int {
	return r.cache.Len()
}
