// Package queue provides an in-memory, concurrency-safe work queue with a
// three-state job lifecycle and time-based lease expiry.
//
// # Overview
//
// queue models a set of independent named queues, each holding items that
// move through Queued -> Pending -> Done. It is the storage-and-scheduling
// core behind a small HTTP work-queue service (see the httpapi package);
// queue itself has no knowledge of HTTP.
//
// # Delivery Semantics
//
// A worker calls Next to lease the oldest Queued item, receiving its id.
// While leased, the item is Pending and invisible to other callers of
// Next. The worker must call Done before the lease expires, or Extend to
// push the deadline out further. If neither happens, the Expirer
// transitions the item back to Queued automatically, ahead of anything
// that was originally enqueued after it.
//
// Because a lease can expire concurrently with a worker's Done/Extend
// call, at-least-once delivery is the only guarantee: a Done or Extend
// issued after the Expirer has already reclaimed the item fails with
// ErrNotPending. This is by design and visible to callers.
//
// # State Machine
//
//	Queued  -> Pending        (Next)
//	Pending -> Done           (Done, terminal)
//	Pending -> Queued         (Expire, manual or lease timeout)
//
// # Concurrency Model
//
// Each Queue is guarded by its own mutex; the Registry that owns a set of
// Queues is guarded by a separate mutex. A holder of a Queue's lock never
// acquires the Registry's lock. No operation performs I/O or sleeps while
// holding either lock.
//
// # Components
//
//	Queue    — the per-named-queue state machine and transition operations
//	Registry — process-wide id -> Queue directory
//	Expirer  — background activity that reclaims expired leases
//	Clock    — injectable time source, for deterministic tests
//
// The httpapi package adapts these to HTTP; the archive package is an
// optional, best-effort audit sink for terminal transitions.
package queue
