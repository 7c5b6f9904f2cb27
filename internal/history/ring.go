// Package history provides fixed-capacity sample buffers.
package history

// Ring is a FIFO of at most Cap items; pushing onto a full ring drops the
// oldest item. Not safe for concurrent use.
type Ring[T any] struct {
	buf     []T
	head    int // next write position
	count   int
	dropped uint64
}

// DefaultCapacity is used when a non-positive capacity is requested.
const DefaultCapacity = 100

// New returns an empty ring holding up to capacity items.
func New[T any](capacity int) *Ring[T] {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Ring[T]{buf: make([]T, capacity)}
}

// Push appends v, overwriting the oldest item when full.
func (r *Ring[T]) Push(v T) {
	r.buf[r.head] = v
	r.head = (r.head + 1) % len(r.buf)
	if r.count == len(r.buf) {
		r.dropped++
		return
	}
	r.count++
}

// Last returns the newest item.
func (r *Ring[T]) Last() (T, bool) {
	var zero T
	if r.count == 0 {
		return zero, false
	}
	return r.buf[(r.head-1+len(r.buf))%len(r.buf)], true
}

// Items returns a copy of the contents, oldest first.
func (r *Ring[T]) Items() []T {
	if r.count == 0 {
		return nil
	}
	out := make([]T, r.count)
	start := (r.head - r.count + len(r.buf)) % len(r.buf)
	for i := 0; i < r.count; i++ {
		out[i] = r.buf[(start+i)%len(r.buf)]
	}
	return out
}

func (r *Ring[T]) Len() int        { return r.count }
func (r *Ring[T]) Cap() int        { return len(r.buf) }
func (r *Ring[T]) Dropped() uint64 { return r.dropped }

// Reset empties the ring without reallocating.
func (r *Ring[T]) Reset() {
	var zero T
	for i := range r.buf {
		r.buf[i] = zero
	}
	r.head, r.count, r.dropped = 0, 0, 0
}
