package telemetry

import "sync"

// DefaultMaxPoints is the default chart history length.
const DefaultMaxPoints = 30

// RingBuffer is a fixed-capacity FIFO; pushing onto a full buffer evicts the oldest item.
// It is safe for concurrent use.
type RingBuffer[T any] struct {
	mu    sync.RWMutex
	items []T
	start int
	size  int
}

// NewRingBuffer returns an empty buffer. A non-positive capacity falls back to DefaultMaxPoints.
func NewRingBuffer[T any](capacity int) *RingBuffer[T] {
	if capacity <= 0 {
		capacity = DefaultMaxPoints
	}
	return &RingBuffer[T]{items: make([]T, capacity)}
}

// Push appends v, evicting the oldest item when full.
func (b *RingBuffer[T]) Push(v T) {
	b.mu.Lock()
	defer b.mu.Unlock()

	capacity := len(b.items)
	if b.size < capacity {
		b.items[(b.start+b.size)%capacity] = v
		b.size++
		return
	}
	b.items[b.start] = v
	b.start = (b.start + 1) % capacity
}

// Replace swaps the contents for items, keeping only the newest Cap of them.
func (b *RingBuffer[T]) Replace(items []T) {
	b.mu.Lock()
	defer b.mu.Unlock()

	capacity := len(b.items)
	if len(items) > capacity {
		items = items[len(items)-capacity:]
	}
	clear(b.items)
	copy(b.items, items)
	b.start = 0
	b.size = len(items)
}

// Items returns a copy of the contents, oldest first.
func (b *RingBuffer[T]) Items() []T {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]T, b.size)
	for i := 0; i < b.size; i++ {
		out[i] = b.items[(b.start+i)%len(b.items)]
	}
	return out
}

// Len returns the number of stored items.
func (b *RingBuffer[T]) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.size
}

// Cap returns the fixed capacity.
func (b *RingBuffer[T]) Cap() int { return len(b.items) }
