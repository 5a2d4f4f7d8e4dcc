package kernel

import (
	"runtime"
	"sync/atomic"
)

const mailboxSlots = 64

type slot[T any] struct {
	// seq is stored minus the slot index so the zero value means "free for lap 0".
	seq atomic.Uint32
	val T
}

// Mailbox is a fixed-size multi-producer, single-consumer FIFO queue.
//
// The zero value is ready to use. It never allocates and never blocks on
// TrySend/TryRecv; a full mailbox drops the message and reports false.
type Mailbox[T any] struct {
	_     [0]func() // prevent accidental copying.
	head  atomic.Uint32
	tail  atomic.Uint32
	slots [mailboxSlots]slot[T]
}

// TrySend attempts to enqueue a message, returning false if the mailbox is full.
func (mb *Mailbox[T]) TrySend(v T) bool {
	for {
		head := mb.head.Load()
		idx := head % mailboxSlots
		s := &mb.slots[idx]
		diff := int32(s.seq.Load() + idx - head)
		switch {
		case diff == 0:
			if !mb.head.CompareAndSwap(head, head+1) {
				continue
			}
			s.val = v
			s.seq.Store(head + 1 - idx)
			return true
		case diff < 0:
			return false
		default:
			// Another producer claimed this position; reload head.
			runtime.Gosched()
		}
	}
}

// Send enqueues a message, blocking until it succeeds.
func (mb *Mailbox[T]) Send(v T) {
	for !mb.TrySend(v) {
		runtime.Gosched()
	}
}

// TryRecv attempts to dequeue one message, returning false if empty.
//
// Only one goroutine may receive at a time.
func (mb *Mailbox[T]) TryRecv() (T, bool) {
	var zero T
	tail := mb.tail.Load()
	idx := tail % mailboxSlots
	s := &mb.slots[idx]
	if s.seq.Load()+idx != tail+1 {
		return zero, false
	}

	v := s.val
	s.val = zero
	s.seq.Store(tail + mailboxSlots - idx)
	mb.tail.Store(tail + 1)
	return v, true
}

// Recv blocks until one message is available.
func (mb *Mailbox[T]) Recv() T {
	for {
		v, ok := mb.TryRecv()
		if ok {
			return v
		}
		runtime.Gosched()
	}
}

// Len reports the number of queued messages. It is a snapshot and may be stale
// by the time the caller looks at it.
func (mb *Mailbox[T]) Len() int {
	n := int32(mb.head.Load() - mb.tail.Load())
	if n < 0 {
		return 0
	}
	return int(n)
}

// Cap returns the number of slots.
func (mb *Mailbox[T]) Cap() int { return mailboxSlots }
