// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package observable provides a single current value that can be watched by
any number of subscribers.

Semantics:

  - Latest-value-wins: a slow subscriber never blocks [Value.Set]; an
    undelivered value is replaced by the newer one.
  - No history: a subscriber joining late receives only the current value.
  - Explicit lifecycle: every [Value.Subscribe] returns a cancel function that
    must be called when the observer goes away.
*/
package observable

import "sync"

// Value holds the current value of type T and broadcasts changes.
//
// The zero value is not usable; construct with [New].
type Value[T any] struct {
	mu      sync.Mutex
	current T
	nextID  int
	subs    map[int]chan T
	closed  bool
}

// New creates a [Value] holding initial.
func New[T any](initial T) *Value[T] {
	return &Value[T]{
		current: initial,
		subs:    make(map[int]chan T),
	}
}

// Get returns the current value.
func (v *Value[T]) Get() T {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.current
}

// Set replaces the current value and notifies every subscriber.
func (v *Value[T]) Set(value T) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.current = value
	for _, ch := range v.subs {
		offer(ch, value)
	}
}

// Subscribe registers a new observer.
//
// The returned channel immediately holds the current value. Calling cancel
// unsubscribes and closes the channel; it is safe to call more than once.
func (v *Value[T]) Subscribe() (<-chan T, func()) {
	v.mu.Lock()
	defer v.mu.Unlock()

	ch := make(chan T, 1)
	if v.closed {
		close(ch)
		return ch, func() {}
	}

	id := v.nextID
	v.nextID++
	v.subs[id] = ch
	ch <- v.current

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			v.mu.Lock()
			defer v.mu.Unlock()
			if sub, ok := v.subs[id]; ok {
				delete(v.subs, id)
				close(sub)
			}
		})
	}

	return ch, cancel
}

// Subscribers reports how many observers are currently registered.
func (v *Value[T]) Subscribers() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.subs)
}

// Close closes every subscriber channel. Later subscriptions receive an
// already-closed channel. The current value stays readable through [Value.Get].
func (v *Value[T]) Close() {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.closed {
		return
	}
	v.closed = true
	for id, ch := range v.subs {
		delete(v.subs, id)
		close(ch)
	}
}

// offer delivers value without blocking, dropping any stale pending value.
// Callers hold the lock, so there is a single producer per channel.
func offer[T any](ch chan T, value T) {
	select {
	case <-ch:
	default:
	}
	ch <- value
}
