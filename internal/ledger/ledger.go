// Package ledger provides a fixed-capacity, recency-ordered container.
package ledger

// Ledger holds the most recent Cap() items pushed into it. Pushing onto a
// full ledger evicts the oldest item. Storage is a ring buffer allocated
// once, so Push is O(1) and never reallocates.
//
// Ledger is not safe for concurrent use; callers serialize access.
type Ledger[T any] struct {
	buf   []T
	next  int // write position; the newest item sits at next-1
	count int
}

// New creates a ledger holding at most capacity items.
func New[T any](capacity int) *Ledger[T] {
	if capacity < 1 {
		capacity = 1
	}
	return &Ledger[T]{buf: make([]T, capacity)}
}

// Push inserts item as the most recent entry. When the ledger was already
// full the evicted oldest item is returned with ok=true.
func (l *Ledger[T]) Push(item T) (evicted T, ok bool) {
	if l.count == len(l.buf) {
		evicted, ok = l.buf[l.next], true
	} else {
		l.count++
	}
	l.buf[l.next] = item
	l.next = (l.next + 1) % len(l.buf)
	return evicted, ok
}

// Len returns the number of resident items.
func (l *Ledger[T]) Len() int { return l.count }

// Cap returns the fixed capacity.
func (l *Ledger[T]) Cap() int { return len(l.buf) }

// Snapshot returns a copy of the resident items, newest first.
func (l *Ledger[T]) Snapshot() []T {
	out := make([]T, 0, l.count)
	for i := 0; i < l.count; i++ {
		out = append(out, l.buf[l.index(i)])
	}
	return out
}

// Update calls fn on every resident item, newest first, allowing in-place
// mutation.
func (l *Ledger[T]) Update(fn func(*T)) {
	for i := 0; i < l.count; i++ {
		fn(&l.buf[l.index(i)])
	}
}

// Clear removes every item.
func (l *Ledger[T]) Clear() {
	var zero T
	for i := range l.buf {
		l.buf[i] = zero // drop references for GC
	}
	l.next = 0
	l.count = 0
}

// index maps a recency position (0 = newest) to a slot in buf.
func (l *Ledger[T]) index(pos int) int {
	n := len(l.buf)
	return ((l.next-1-pos)%n + n) % n
}
