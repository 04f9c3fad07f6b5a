// Package cache provides small TTL-based memoization for values that are
// cheap to refetch but read on every re-render, such as category
// suggestions on the expense entry screen.
package cache

import (
	"sync"
	"time"
)

// Memo caches a single value until its TTL elapses or it is invalidated.
type Memo[T any] struct {
	mu        sync.Mutex
	ttl       time.Duration
	value     T
	fetchedAt time.Time
	valid     bool

	now func() time.Time // overridable in tests
}

func NewMemo[T any](ttl time.Duration) *Memo[T] {
	return &Memo[T]{ttl: ttl, now: time.Now}
}

// Get returns the cached value and whether it is still fresh.
func (m *Memo[T]) Get() (T, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var zero T
	if !m.valid {
		return zero, false
	}
	if m.now().Sub(m.fetchedAt) > m.ttl {
		m.valid = false
		m.value = zero
		return zero, false
	}
	return m.value, true
}

// Set stores a freshly fetched value.
func (m *Memo[T]) Set(value T) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.value = value
	m.fetchedAt = m.now()
	m.valid = true
}

// Invalidate drops the cached value. Called after writes that change the
// underlying data.
func (m *Memo[T]) Invalidate() {
	m.mu.Lock()
	defer m.mu.Unlock()

	var zero T
	m.value = zero
	m.valid = false
}
