// Package pipeline moves SystemMetrics snapshots from the sampling
// goroutine to the single UI-side consumer.
//
// The producer runs a Loop that pushes into a Sender; the consumer drains
// the matching Receiver from a Consumer tick. Closing the Receiver is the
// only way to stop the Loop.
package pipeline

import (
	"errors"
	"sync"

	"sysmonbar/internal/system"
)

// ErrConsumerGone is returned by Send once the Receiver has been closed.
var ErrConsumerGone = errors.New("pipeline: consumer closed")

type handoff struct {
	mu     sync.Mutex
	queue  []system.SystemMetrics
	closed bool
	done   chan struct{}
}

// Sender is the producer end of a hand-off.
type Sender struct {
	h *handoff
}

// Receiver is the consumer end of a hand-off.
type Receiver struct {
	h *handoff
}

// NewHandoff returns both ends of an unbounded single-producer,
// single-consumer FIFO of snapshots.
func NewHandoff() (*Sender, *Receiver) {
	h := &handoff{done: make(chan struct{})}
	return &Sender{h: h}, &Receiver{h: h}
}

// Send queues a snapshot without waiting for the consumer. The snapshot is
// deep-copied so the caller keeps no reference into what it sent.
func (s *Sender) Send(m system.SystemMetrics) error {
	s.h.mu.Lock()
	defer s.h.mu.Unlock()
	if s.h.closed {
		return ErrConsumerGone
	}
	s.h.queue = append(s.h.queue, m.Clone())
	return nil
}

// Done is closed when the Receiver is closed.
func (s *Sender) Done() <-chan struct{} {
	return s.h.done
}

// TryTake pops the oldest queued snapshot. It never blocks.
func (r *Receiver) TryTake() (system.SystemMetrics, bool) {
	r.h.mu.Lock()
	defer r.h.mu.Unlock()
	if len(r.h.queue) == 0 {
		return system.SystemMetrics{}, false
	}
	m := r.h.queue[0]
	r.h.queue[0] = system.SystemMetrics{}
	r.h.queue = r.h.queue[1:]
	return m, true
}

func (r *Receiver) Len() int {
	r.h.mu.Lock()
	defer r.h.mu.Unlock()
	return len(r.h.queue)
}

// Close drops the consumer end and discards anything still queued.
// Subsequent Sends fail with ErrConsumerGone. Close is idempotent.
func (r *Receiver) Close() {
	r.h.mu.Lock()
	defer r.h.mu.Unlock()
	if r.h.closed {
		return
	}
	r.h.closed = true
	r.h.queue = nil
	close(r.h.done)
}
