package orchestrator

import "sync"

// Snapshot is the UI-facing state of one capability. Value and Err come from the most
// recently issued request that has settled; InFlight reports whether that request or a
// newer one is still pending.
type Snapshot[T any] struct {
	Generation uint64
	InFlight   bool
	Ready      bool
	Value      T
	Err        error
}

// slot fences one capability: only the latest issued generation may settle into it.
type slot[T any] struct {
	mu     sync.Mutex
	issued uint64
	snap   Snapshot[T]
}

// begin issues the next generation.
func (s *slot[T]) begin() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.issued++
	s.snap.InFlight = true
	return s.issued
}

// settle stores the outcome of generation gen if it is still the latest issued and
// reports whether it did. A failed outcome carries no value.
func (s *slot[T]) settle(gen uint64, v T, err error) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.issued {
		return false
	}
	if err != nil {
		var zero T
		v = zero
	}
	s.snap = Snapshot[T]{Generation: gen, Ready: true, Value: v, Err: err}
	return true
}

func (s *slot[T]) snapshot() Snapshot[T] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap
}
