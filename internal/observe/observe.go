// Package observe implements the subscribe/notify mechanism the stores expose.
package observe

import (
	"slices"
	"sync"
)

// Subject fans a value out to its subscribers. The zero value is ready to use.
type Subject[T any] struct {
	mu   sync.Mutex
	next int
	subs map[int]func(T)
}

// Subscribe registers fn and returns a function that removes it. The returned
// function is safe to call more than once.
func (s *Subject[T]) Subscribe(fn func(T)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.subs == nil {
		s.subs = make(map[int]func(T))
	}
	id := s.next
	s.next++
	s.subs[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
		})
	}
}

// Publish calls every subscriber with v, in subscription order.
// Subscribers run outside the lock and may subscribe or unsubscribe.
func (s *Subject[T]) Publish(v T) {
	s.mu.Lock()
	ids := make([]int, 0, len(s.subs))
	for id := range s.subs {
		ids = append(ids, id)
	}
	fns := make(map[int]func(T), len(s.subs))
	for id, fn := range s.subs {
		fns[id] = fn
	}
	s.mu.Unlock()

	slices.Sort(ids)
	for _, id := range ids {
		fns[id](v)
	}
}

// Len returns the number of active subscribers
func (s *Subject[T]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subs)
}

// SubscribeSelected notifies fn only when the selected slice of the state changes.
// The first published value is always delivered.
func SubscribeSelected[T, V any](s *Subject[T], selector func(T) V, equal func(a, b V) bool, fn func(V)) func() {
	var (
		mu   sync.Mutex
		last V
		seen bool
	)
	return s.Subscribe(func(state T) {
		v := selector(state)
		mu.Lock()
		changed := !seen || !equal(last, v)
		last, seen = v, true
		mu.Unlock()
		if changed {
			fn(v)
		}
	})
}

