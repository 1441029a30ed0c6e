// Package item defines the stateful representation of a queued payload
// within a single queue's lifecycle.
//
// An Item holds a server-minted id, the caller's opaque payload, and the
// delivery-state fields (Status, EnqueueOrder, LeaseDeadline) maintained by
// the owning queue. Item values returned to callers are snapshots; mutating
// them does not affect the underlying queue. Transitions must be performed
// through the owning queue's methods.
package item
