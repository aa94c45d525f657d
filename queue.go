package arco

import "sync/atomic"

// RingQueue is a fixed-capacity, lock-free single-producer
// single-consumer ring buffer. It is the transport for both the inbound
// control-message queue (host -> audio thread) and the outbound reply
// queue (audio thread -> host), per spec.md §5: "the two message queues
// are the only cross-thread resources and use relaxed-then-release/
// acquire pairing appropriate for SPSC ring buffers."
//
// No pack dependency fits this role cleanly: github.com/smallnest/ringbuffer
// (seen in the retrieval pack's tphakala-birdnet-go manifest) is a
// byte-oriented, mutex-guarded ring meant for streaming raw bytes, not a
// typed SPSC queue safe to push from a real-time thread without a lock.
// No other pack dependency offers a lock-free generic queue, so this is
// one of the few intentionally stdlib-only (sync/atomic) components; see
// DESIGN.md for the explicit justification.
type RingQueue[T any] struct {
	buf   []T
	mask  uint64
	head  atomic.Uint64 // next slot the consumer will read
	tail  atomic.Uint64 // next slot the producer will write
}

// NewRingQueue creates a queue whose usable capacity is the next power
// of two >= capacity (head and tail are free-running counters, so every
// slot is usable and none is left empty to tell full from empty).
func NewRingQueue[T any](capacity int) *RingQueue[T] {
	if capacity < 1 {
		capacity = 1
	}
	n := 1
	for n < capacity {
		n <<= 1
	}
	return &RingQueue[T]{buf: make([]T, n), mask: uint64(n - 1)}
}

// TryPush appends v without blocking. It returns ErrQueueFull if the
// queue is at capacity; the caller (always the producer side) must treat
// this as "drop the message", never as a reason to retry or block.
func (q *RingQueue[T]) TryPush(v T) error {
	tail := q.tail.Load()
	head := q.head.Load()
	if tail-head >= uint64(len(q.buf)) {
		return ErrQueueFull
	}
	q.buf[tail&q.mask] = v
	q.tail.Store(tail + 1)
	return nil
}

// TryPop removes and returns the oldest element without blocking. ok is
// false if the queue was empty.
func (q *RingQueue[T]) TryPop() (v T, ok bool) {
	head := q.head.Load()
	tail := q.tail.Load()
	if head == tail {
		return v, false
	}
	v = q.buf[head&q.mask]
	var zero T
	q.buf[head&q.mask] = zero
	q.head.Store(head + 1)
	return v, true
}

// Len reports the number of elements currently queued. It is advisory:
// under concurrent use from the opposing end the result may be stale by
// the time the caller acts on it.
func (q *RingQueue[T]) Len() int {
	return int(q.tail.Load() - q.head.Load())
}
