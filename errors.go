package queue

import "errors"

var (
	// ErrQueueExists is returned by Registry.Create when the requested
	// queue id is already present.
	ErrQueueExists = errors.New("queue already exists")

	// ErrQueueNotFound is returned by Registry.Delete and Registry.Lookup
	// when the requested queue id is not present.
	ErrQueueNotFound = errors.New("queue not found")

	// ErrItemNotFound is returned by Done, Extend, Expire and TTL when the
	// referenced item id does not exist in the queue.
	ErrItemNotFound = errors.New("item not found")

	// ErrNotPending is returned by Done, Extend, Expire and TTL when the
	// referenced item exists but is not currently Pending. This includes
	// the race where the lease already expired and the Expirer reclaimed
	// the item before the caller's request was processed.
	ErrNotPending = errors.New("item not pending")

	// ErrBadInput is returned by Enqueue when given an empty payload.
	ErrBadInput = errors.New("bad input")
)
