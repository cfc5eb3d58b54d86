package rewind

// Observer receives each Transition after the Processor has committed it.
// The same Transition is shared by every Observer and is read-only
type Observer func(*Transition)

// MakeDispatcher routes Transitions to the Observer registered for their
// kind. Transitions of other kinds are ignored
func MakeDispatcher(observers map[TransitionKind]Observer) Observer {
	return func(tr *Transition) {
		if fn, ok := observers[tr.Kind]; ok {
			fn(tr)
		}
	}
}

// MakeFanout combines Observers into one that calls each in order
func MakeFanout(observers ...Observer) Observer {
	return func(tr *Transition) {
		for _, fn := range observers {
			fn(tr)
		}
	}
}
