package ksync

import (
	"github.com/ruixuezhao890/vortexrt/critsect"
	"github.com/ruixuezhao890/vortexrt/kernel"
	"github.com/ruixuezhao890/vortexrt/ringbuf"
)

// Message is the single-slot typed message: a one-item mailbox for
// any payload type T, the generic sibling of Event the same way
// ringbuf.Ring[T] is the generic sibling of ringbuf.Bytes - backed by
// a Ring[T] of capacity 1 rather than a hand-rolled bool/value pair, so
// the slot-full bookkeeping is exactly the ring's own Count(), not a
// parallel copy of it. Send never blocks: it unconditionally overwrites
// whatever payload is sitting in the slot and wakes every receiver,
// matching TBaseMessage's store-and-resume_all shape rather than a
// bounded producer/consumer queue.
type Message[T any] struct {
	k        *kernel.Kernel
	q        *ringbuf.Ring[T]
	notEmpty kernel.WaitSet
}

// NewMessage constructs an empty message slot bound to k.
func NewMessage[T any](k *kernel.Kernel) *Message[T] {
	return &Message[T]{k: k, q: ringbuf.NewRing[T](1)}
}

// Send stores v in the slot, discarding any value already there, and
// wakes every waiting receiver. It never blocks.
func (m *Message[T]) Send(v T) {
	g := critsect.Enter()
	defer g.Leave()
	m.send(v)
	m.notEmpty.ResumeAll(m.k)
}

// SendISR is Send's ISR-callable twin (send_isr): same effect, routed
// through an IsrGuard so the eventual reschedule runs via schedISR
// rather than the thread-context scheduler.
func (m *Message[T]) SendISR(v T) {
	g := m.k.IsrEnter()
	defer g.Leave()
	m.send(v)
	m.notEmpty.ResumeAllISR(m.k)
}

func (m *Message[T]) send(v T) {
	if m.q.Count() > 0 {
		m.q.Clear()
	}
	m.q.PushBack(v)
}

// Receive blocks until the slot holds a value, or timeout ticks
// elapse (0 blocks forever). ok is false if it gave up due to timeout.
func (m *Message[T]) Receive(timeout uint16) (v T, ok bool) {
	g := critsect.Enter()
	defer g.Leave()

	for m.q.Count() == 0 {
		if m.notEmpty.Suspend(m.k, timeout) {
			var zero T
			return zero, false
		}
	}
	v = m.q.PopFront()
	return v, true
}

// Full reports whether the slot currently holds a value.
func (m *Message[T]) Full() bool {
	g := critsect.Enter()
	defer g.Leave()
	return m.q.Count() > 0
}
