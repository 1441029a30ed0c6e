package item

import "time"

// Item is a single unit of work tracked by a queue.
//
// ID is minted by the queue at Enqueue time and is distinct from Payload;
// it is the handle returned by Next and accepted by Done, Extend, Expire
// and TTL.
//
// EnqueueOrder is assigned once, at initial enqueue, and is preserved
// across any number of Pending -> Queued re-insertions caused by Expire or
// lease timeout. It is the sole ordering key for the Queued FIFO.
//
// LeaseDeadline is only meaningful while Status is Pending; it is cleared
// on every other transition.
//
// Item values handed back by queue methods are snapshots. Mutating a
// returned Item does not affect the owning queue's state.
type Item struct {
	ID            string
	Payload       []byte
	Status        Status
	LeaseDeadline time.Time
	EnqueueOrder  uint64
	EnqueuedAt    time.Time
	UpdatedAt     time.Time
}

// Snapshot returns a shallow copy of the item, safe to hand to callers
// outside the owning queue's lock.
func (it *Item) Snapshot() *Item {
	cp := *it
	return &cp
}
