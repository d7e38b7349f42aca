package ble

import "sync/atomic"

const (
	// QueueSlots is the number of commands buffered between radio callbacks
	// and the control loop
	QueueSlots = 8

	// MaxPayload is the longest command accepted. The longest valid command,
	// a NUMBER: update with an international number, is well below it.
	MaxPayload = 32
)

type slot struct {
	n    uint8
	data [MaxPayload]byte
}

// CommandQueue carries command payloads from the radio callback, which may
// run in interrupt context, to the control loop. It is a single-producer
// single-consumer ring; Push never allocates or blocks.
type CommandQueue struct {
	slots   [QueueSlots]slot
	head    atomic.Uint32 // next slot to write
	tail    atomic.Uint32 // next slot to read
	dropped atomic.Uint32
}

// Push copies p into the queue. It reports false, and counts a drop, when
// the queue is full or p is empty or too long.
func (q *CommandQueue) Push(p []byte) bool {
	if len(p) == 0 || len(p) > MaxPayload {
		q.dropped.Add(1)
		return false
	}
	head := q.head.Load()
	if head-q.tail.Load() >= QueueSlots {
		q.dropped.Add(1)
		return false
	}
	s := &q.slots[head%QueueSlots]
	s.n = uint8(copy(s.data[:], p))
	q.head.Store(head + 1)
	return true
}

// Pop returns a copy of the oldest payload
func (q *CommandQueue) Pop() ([]byte, bool) {
	tail := q.tail.Load()
	if tail == q.head.Load() {
		return nil, false
	}
	s := &q.slots[tail%QueueSlots]
	out := make([]byte, s.n)
	copy(out, s.data[:s.n])
	q.tail.Store(tail + 1)
	return out, true
}

// Len returns the number of queued payloads
func (q *CommandQueue) Len() int {
	return int(q.head.Load() - q.tail.Load())
}

// Dropped returns how many payloads were rejected since creation
func (q *CommandQueue) Dropped() uint32 {
	return q.dropped.Load()
}
