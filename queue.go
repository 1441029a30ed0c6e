package queue

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ccp0101/queues/item"
)

// DefaultLease is the lease duration granted to an item on Next and
// refreshed by Extend, unless a Queue is constructed with a different
// value (tests use shorter leases to avoid real sleeps).
const DefaultLease = 300 * time.Second

// ArchiveEvent describes a terminal transition worth recording for
// administrative inspection. See the archive package.
type ArchiveEvent struct {
	QueueID string
	ItemID  string
	Payload []byte
	Status  item.Status
	At      time.Time
}

// ArchiveSink receives best-effort notifications of terminal transitions.
// Publish must never block and must never be called while a Queue lock is
// held for longer than it takes to enqueue the event internally;
// implementations are expected to buffer and drain asynchronously.
type ArchiveSink interface {
	Publish(ArchiveEvent)
}

type noopSink struct{}

func (noopSink) Publish(ArchiveEvent) {}

// Queue is one named FIFO work queue with Queued/Pending/Done item sets.
//
// All transition operations take the Queue's mutex for their full
// duration. No operation performs I/O or blocks on anything but the lock
// itself while holding it.
type Queue struct {
	mu sync.Mutex

	id    string
	clock Clock
	log   *slog.Logger
	sink  ArchiveSink

	defaultLease time.Duration
	counter      uint64

	items   map[string]*item.Item
	queued  []string // item ids, ordered by EnqueueOrder ascending
	pending map[string]struct{}
	done    map[string]struct{}
}

// NewQueue creates an empty Queue identified by id. A nil clock defaults
// to SystemClock(); a nil logger defaults to slog.Default(); a nil sink
// discards archive events.
func NewQueue(id string, clock Clock, log *slog.Logger, sink ArchiveSink) *Queue {
	if clock == nil {
		clock = SystemClock()
	}
	if log == nil {
		log = slog.Default()
	}
	if sink == nil {
		sink = noopSink{}
	}
	return &Queue{
		id:           id,
		clock:        clock,
		log:          log,
		sink:         sink,
		defaultLease: DefaultLease,
		items:        make(map[string]*item.Item),
		pending:      make(map[string]struct{}),
		done:         make(map[string]struct{}),
	}
}

// WithDefaultLease overrides the lease duration. Registry.Create uses it to
// apply the registry's lease; tests use it for shorter leases. The new
// duration applies to leases granted or extended after the call; deadlines
// already set are left as they are.
func (q *Queue) WithDefaultLease(d time.Duration) *Queue {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.defaultLease = d
	return q
}

// ID returns the queue's identifier.
func (q *Queue) ID() string {
	return q.id
}

func (q *Queue) insertQueued(id string) {
	order := q.items[id].EnqueueOrder
	idx := sort.Search(len(q.queued), func(i int) bool {
		return q.items[q.queued[i]].EnqueueOrder > order
	})
	q.queued = append(q.queued, "")
	copy(q.queued[idx+1:], q.queued[idx:])
	q.queued[idx] = id
}

// Enqueue appends a new item with the given payload to the Queued FIFO and
// returns its server-minted id. payload must be non-empty.
func (q *Queue) Enqueue(payload []byte) (string, error) {
	if len(payload) == 0 {
		return "", ErrBadInput
	}
	q.mu.Lock()
	defer q.mu.Unlock()

	now := q.clock.Now()
	q.counter++
	id := uuid.NewString()
	it := &item.Item{
		ID:           id,
		Payload:      append([]byte(nil), payload...),
		Status:       item.Queued,
		EnqueueOrder: q.counter,
		EnqueuedAt:   now,
		UpdatedAt:    now,
	}
	q.items[id] = it
	q.insertQueued(id)
	q.log.Debug("item enqueued", "queue", q.id, "item", id, "order", it.EnqueueOrder)
	return id, nil
}

// Next leases the oldest Queued item, transitioning it to Pending with a
// fresh lease deadline, and returns its id. If the queue has no Queued
// items, Next returns ("", nil): an empty id is not an error.
func (q *Queue) Next() (string, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.queued) == 0 {
		return "", nil
	}
	id := q.queued[0]
	q.queued = q.queued[1:]

	now := q.clock.Now()
	it := q.items[id]
	it.Status = item.Pending
	it.LeaseDeadline = now.Add(q.defaultLease)
	it.UpdatedAt = now
	q.pending[id] = struct{}{}
	q.log.Debug("item leased", "queue", q.id, "item", id)
	return id, nil
}

func (q *Queue) lookupPending(id string) (*item.Item, error) {
	it, ok := q.items[id]
	if !ok {
		return nil, ErrItemNotFound
	}
	if _, ok := q.pending[id]; !ok {
		return nil, ErrNotPending
	}
	return it, nil
}

// Done marks a leased item complete. The item must currently be Pending.
func (q *Queue) Done(id string) error {
	q.mu.Lock()
	it, err := q.lookupPending(id)
	if err != nil {
		q.mu.Unlock()
		return err
	}
	now := q.clock.Now()
	delete(q.pending, id)
	q.done[id] = struct{}{}
	it.Status = item.Done
	it.LeaseDeadline = time.Time{}
	it.UpdatedAt = now
	snap := it.Snapshot()
	q.mu.Unlock()

	q.log.Debug("item done", "queue", q.id, "item", id)
	q.sink.Publish(ArchiveEvent{
		QueueID: q.id,
		ItemID:  id,
		Payload: snap.Payload,
		Status:  snap.Status,
		At:      now,
	})
	return nil
}

// Extend refreshes the lease deadline of a Pending item to now + the
// queue's default lease.
func (q *Queue) Extend(id string) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	it, err := q.lookupPending(id)
	if err != nil {
		return err
	}
	now := q.clock.Now()
	it.LeaseDeadline = now.Add(q.defaultLease)
	it.UpdatedAt = now
	q.log.Debug("lease extended", "queue", q.id, "item", id)
	return nil
}

// expireLocked moves a Pending item back to Queued, preserving its
// original EnqueueOrder. Caller must hold q.mu.
func (q *Queue) expireLocked(id string) {
	it := q.items[id]
	delete(q.pending, id)
	it.Status = item.Queued
	it.LeaseDeadline = time.Time{}
	it.UpdatedAt = q.clock.Now()
	q.insertQueued(id)
}

// Expire force-returns a Pending item to Queued, at the position its
// original EnqueueOrder dictates (ahead of anything enqueued later). It is
// the same transition the Expirer performs on lease timeout.
func (q *Queue) Expire(id string) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if _, err := q.lookupPending(id); err != nil {
		return err
	}
	q.expireLocked(id)
	q.log.Debug("item expired", "queue", q.id, "item", id)
	return nil
}

// TTL reports the number of whole seconds remaining on a Pending item's
// lease, clamped to zero. It never exceeds the queue's default lease.
func (q *Queue) TTL(id string) (int64, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	it, err := q.lookupPending(id)
	if err != nil {
		return 0, err
	}
	remaining := it.LeaseDeadline.Sub(q.clock.Now())
	if remaining < 0 {
		remaining = 0
	}
	return int64(remaining / time.Second), nil
}

// Counts reports the four counters shown by Show.
type Counts struct {
	Done    int
	Pending int
	Queued  int
}

// All returns Done + Pending + Queued.
func (c Counts) All() int {
	return c.Done + c.Pending + c.Queued
}

// Show returns the queue's Done/Pending/Queued/All counters.
func (q *Queue) Show() Counts {
	q.mu.Lock()
	defer q.mu.Unlock()
	return Counts{
		Done:    len(q.done),
		Pending: len(q.pending),
		Queued:  len(q.queued),
	}
}

// ShowText renders Show's counters in the contract-mandated literal
// format: "Done: D. Pending: P. Queued: Q. All: A."
func (q *Queue) ShowText() string {
	c := q.Show()
	return fmt.Sprintf("Done: %d. Pending: %d. Queued: %d. All: %d.", c.Done, c.Pending, c.Queued, c.All())
}

// ShowPending returns the ids of every currently Pending item, in
// unspecified order.
func (q *Queue) ShowPending() []string {
	q.mu.Lock()
	defer q.mu.Unlock()
	ids := make([]string, 0, len(q.pending))
	for id := range q.pending {
		ids = append(ids, id)
	}
	return ids
}

// ExpireDue sweeps every Pending item whose lease has passed back to
// Queued. It is called by the Expirer; it is also safe to call directly
// in tests driven by a FakeClock instead of waiting on the background
// scanner. ExpireDue returns the ids it reclaimed.
func (q *Queue) ExpireDue() []string {
	q.mu.Lock()
	defer q.mu.Unlock()

	now := q.clock.Now()
	var due []string
	for id := range q.pending {
		if !q.items[id].LeaseDeadline.After(now) {
			due = append(due, id)
		}
	}
	for _, id := range due {
		q.expireLocked(id)
	}
	if len(due) > 0 {
		q.log.Debug("leases expired", "queue", q.id, "count", len(due))
	}
	return due
}
