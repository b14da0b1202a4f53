package ksync

import (
	"github.com/ruixuezhao890/vortexrt/critsect"
	"github.com/ruixuezhao890/vortexrt/kernel"
	"github.com/ruixuezhao890/vortexrt/ringbuf"
)

// Channel is the byte channel: a bounded ring buffer with two
// wait-sets, one for producers blocked on a full buffer and one for
// consumers blocked on an empty one. A woken waiter always re-checks
// its condition rather than assuming the wakeup satisfied it - between
// a Suspend call returning and this goroutine actually resuming, a
// different activity may have run and changed the buffer again, since
// critsect only orders operations within a single running activity,
// not across the parked ones (see critsect package docs).
type Channel struct {
	k        *kernel.Kernel
	buf      *ringbuf.Bytes
	notFull  kernel.WaitSet
	notEmpty kernel.WaitSet
}

// NewChannel constructs a byte channel of the given capacity
// (1..256, see ringbuf.NewBytes).
func NewChannel(k *kernel.Kernel, capacity int) *Channel {
	return &Channel{k: k, buf: ringbuf.NewBytes(capacity)}
}

// Send blocks until there is room for b, or timeout ticks elapse (0
// blocks forever). Returns true if it gave up due to timeout without
// sending.
//
// A timeout that fires after a partial wait restarts with the
// original timeout value rather than the remainder - this channel
// does not track elapsed ticks across repeated Suspend calls.
func (c *Channel) Send(b byte, timeout uint16) bool {
	g := critsect.Enter()
	defer g.Leave()

	for c.buf.FreeSize() == 0 {
		if c.notFull.Suspend(c.k, timeout) {
			return true
		}
	}
	c.buf.Put(b)
	c.notEmpty.ResumeAll(c.k)
	return false
}

// Receive blocks until a byte is available, or timeout ticks elapse (0
// blocks forever). ok is false if it gave up due to timeout.
func (c *Channel) Receive(timeout uint16) (b byte, ok bool) {
	g := critsect.Enter()
	defer g.Leave()

	for c.buf.Count() == 0 {
		if c.notEmpty.Suspend(c.k, timeout) {
			return 0, false
		}
	}
	b = c.buf.Get()
	c.notFull.ResumeAll(c.k)
	return b, true
}

// Count returns the number of bytes currently buffered.
func (c *Channel) Count() int {
	g := critsect.Enter()
	defer g.Leave()
	return c.buf.Count()
}

// Cap returns the channel's fixed capacity.
func (c *Channel) Cap() int { return c.buf.Cap() }
