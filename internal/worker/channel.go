package worker

import (
	"errors"
	"sync"
	"sync/atomic"
)

var (
	// ErrReceiverClosed is raised when sending to a queue whose consumer is gone.
	ErrReceiverClosed = errors.New("worker: receiver closed")
	// ErrSenderClosed is raised when using a sender after Close.
	ErrSenderClosed = errors.New("worker: sender closed")
)

// queue is an unbounded FIFO shared by any number of senders and one receiver.
type queue[T any] struct {
	mu      sync.Mutex
	items   []T
	senders int
	closed  bool // every sender released
	gone    bool // receiver released

	// ready holds at most one wake-up token for the receiver.
	ready chan struct{}
}

func (q *queue[T]) push(v T) error {
	q.mu.Lock()
	switch {
	case q.gone:
		q.mu.Unlock()
		return ErrReceiverClosed
	case q.closed:
		q.mu.Unlock()
		return ErrSenderClosed
	}
	q.items = append(q.items, v)
	q.mu.Unlock()
	q.signal()
	return nil
}

func (q *queue[T]) signal() {
	select {
	case q.ready <- struct{}{}:
	default:
	}
}

// pop removes the head. done reports a closed and drained queue.
func (q *queue[T]) pop() (v T, ok, done bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) > 0 {
		v = q.items[0]
		var zero T
		q.items[0] = zero
		q.items = q.items[1:]
		return v, true, false
	}
	return v, false, q.closed
}

func (q *queue[T]) release() {
	q.mu.Lock()
	q.senders--
	if q.senders == 0 {
		q.closed = true
	}
	q.mu.Unlock()
	q.signal()
}

// Sender is the producing half of a channel. It never blocks.
type Sender[T any] struct {
	q      *queue[T]
	closed atomic.Bool
}

// Receiver is the consuming half of a channel. It must have a single consumer.
type Receiver[T any] struct {
	q *queue[T]
}

// NewChannel creates an unbounded, ordered, multi-producer single-consumer
// channel and returns its two halves.
func NewChannel[T any]() (*Sender[T], *Receiver[T]) {
	q := &queue[T]{
		senders: 1,
		ready:   make(chan struct{}, 1),
	}
	return &Sender[T]{q: q}, &Receiver[T]{q: q}
}

// Send enqueues v. It panics if the receiver was closed or the sender was
// already closed: both are programming errors.
func (s *Sender[T]) Send(v T) {
	if err := s.TrySend(v); err != nil {
		panic(err)
	}
}

// TrySend enqueues v, reporting ErrReceiverClosed or ErrSenderClosed instead
// of panicking.
func (s *Sender[T]) TrySend(v T) error {
	if s.closed.Load() {
		return ErrSenderClosed
	}
	return s.q.push(v)
}

// Clone returns another producer for the same queue. The queue stays open
// until every producer has been closed.
func (s *Sender[T]) Clone() *Sender[T] {
	if s.closed.Load() {
		panic(ErrSenderClosed)
	}
	s.q.mu.Lock()
	s.q.senders++
	s.q.mu.Unlock()
	return &Sender[T]{q: s.q}
}

// Close releases this producer. Closing the last one closes the queue;
// the receiver still gets every value sent before that.
func (s *Sender[T]) Close() {
	if s.closed.CompareAndSwap(false, true) {
		s.q.release()
	}
}

// Recv blocks until a value is available. It returns false once every
// sender is closed and the queue is drained.
func (r *Receiver[T]) Recv() (T, bool) {
	for {
		v, ok, done := r.q.pop()
		if ok {
			return v, true
		}
		if done {
			return v, false
		}
		<-r.q.ready
	}
}

// TryRecv returns the next value without blocking.
func (r *Receiver[T]) TryRecv() (T, bool) {
	v, ok, _ := r.q.pop()
	return v, ok
}

// Drain returns every queued value in order without blocking.
func (r *Receiver[T]) Drain() []T {
	r.q.mu.Lock()
	defer r.q.mu.Unlock()
	if len(r.q.items) == 0 {
		return nil
	}
	out := make([]T, len(r.q.items))
	copy(out, r.q.items)
	r.q.items = nil
	return out
}

// Len returns the number of queued values.
func (r *Receiver[T]) Len() int {
	r.q.mu.Lock()
	defer r.q.mu.Unlock()
	return len(r.q.items)
}

// Close drops the consumer. Queued values are discarded and later sends
// fail with ErrReceiverClosed.
func (r *Receiver[T]) Close() {
	r.q.mu.Lock()
	r.q.gone = true
	r.q.items = nil
	r.q.mu.Unlock()
}

// post enqueues without holding a producer reference. It fails once the
// queue is closed.
func (r *Receiver[T]) post(v T) bool {
	return r.q.push(v) == nil
}
