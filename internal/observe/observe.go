// Package observe fans state snapshots out to subscribers.
package observe

import "sync"

// Subscribers holds callbacks interested in snapshots of type S
type Subscribers[S any] struct {
	mu     sync.Mutex
	next   int
	subs   map[int]func(S)
	notify sync.Mutex
}

// Subscribe registers fn and returns a function that removes it.
// The returned function is safe to call more than once.
func (s *Subscribers[S]) Subscribe(fn func(S)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.subs == nil {
		s.subs = make(map[int]func(S))
	}
	id := s.next
	s.next++
	s.subs[id] = fn

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// Len returns the number of registered subscribers
func (s *Subscribers[S]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subs)
}

// Publish delivers snapshot to every subscriber.
// Deliveries from concurrent publishers do not interleave.
func (s *Subscribers[S]) Publish(snapshot S) {
	s.mu.Lock()
	fns := make([]func(S), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	s.notify.Lock()
	defer s.notify.Unlock()
	for _, fn := range fns {
		fn(snapshot)
	}
}
