// Package signal provides a minimal current-value-plus-subscribers
// abstraction. Ledger stores publish their authoritative collections through
// it and derived engines read the current value on demand; there is no
// buffering and no replay beyond the latest value.
package signal

import "sync"

// Signal holds a current value and a set of subscribers. Set publishes
// synchronously: every subscriber runs on the caller's goroutine before Set
// returns, which preserves the "publish the new collection to observers
// synchronously" ordering the mutation protocol relies on.
type Signal[T any] struct {
	mu     sync.Mutex
	value  T
	subs   map[int]func(T)
	nextID int
}

// New creates a Signal seeded with an initial value.
func New[T any](initial T) *Signal[T] {
	return &Signal[T]{
		value: initial,
		subs:  map[int]func(T){},
	}
}

// Get returns the current value.
func (s *Signal[T]) Get() T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value
}

// Set stores a new current value and notifies all subscribers.
// Subscribers are invoked outside the lock so they may call Get or
// Subscribe without deadlocking.
func (s *Signal[T]) Set(value T) {
	s.mu.Lock()
	s.value = value
	subs := make([]func(T), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(value)
	}
}

// Subscribe registers fn for future publications and returns a cancel
// function. fn is not called with the current value; callers wanting it
// should Get first.
func (s *Signal[T]) Subscribe(fn func(T)) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}
