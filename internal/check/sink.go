package check

import "sync"

// Sink serializes per-item completion callbacks fired from concurrent
// workers. Callers hand in a plain function; workers call Emit from any
// goroutine and invocations never overlap.
type Sink[T any] struct {
	mu sync.Mutex
	fn func(T)
}

// NewSink wraps fn in a Sink. A nil fn yields a no-op sink.
func NewSink[T any](fn func(T)) *Sink[T] {
	return &Sink[T]{fn: fn}
}

// Emit invokes the wrapped function under the sink's lock. Safe on a nil
// sink and with a nil function.
func (s *Sink[T]) Emit(v T) {
	if s == nil || s.fn == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fn(v)
}
