package queue

import (
	"log/slog"
	"sort"
	"sync"
	"time"
)

// Registry is the process-wide directory of named queues. It is guarded by
// its own lock, independent of any Queue's lock: a holder of a Queue lock
// never acquires the Registry lock, and a holder of the Registry lock only
// ever takes a Queue lock to initialize or tear one down.
type Registry struct {
	mu     sync.RWMutex
	queues map[string]*Queue

	clock        Clock
	log          *slog.Logger
	sink         ArchiveSink
	defaultLease time.Duration
}

// NewRegistry creates an empty Registry. A nil clock defaults to
// SystemClock(); a nil logger defaults to slog.Default(); a nil sink
// discards archive events; a zero defaultLease defaults to
// queue.DefaultLease. Every Queue later created by Create inherits these.
func NewRegistry(clock Clock, log *slog.Logger, sink ArchiveSink, defaultLease time.Duration) *Registry {
	if clock == nil {
		clock = SystemClock()
	}
	if log == nil {
		log = slog.Default()
	}
	if sink == nil {
		sink = noopSink{}
	}
	if defaultLease <= 0 {
		defaultLease = DefaultLease
	}
	return &Registry{
		queues:       make(map[string]*Queue),
		clock:        clock,
		log:          log,
		sink:         sink,
		defaultLease: defaultLease,
	}
}

// Create installs a fresh, empty queue under qid. It fails with
// ErrQueueExists if qid is already present.
func (r *Registry) Create(qid string) (*Queue, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.queues[qid]; ok {
		return nil, ErrQueueExists
	}
	q := NewQueue(qid, r.clock, r.log, r.sink).WithDefaultLease(r.defaultLease)
	r.queues[qid] = q
	r.log.Info("queue created", "queue", qid)
	return q, nil
}

// Delete removes qid and drops all of its items and lease tracking. It
// fails with ErrQueueNotFound if qid is absent.
func (r *Registry) Delete(qid string) error {
	r.mu.Lock()
	q, ok := r.queues[qid]
	if !ok {
		r.mu.Unlock()
		return ErrQueueNotFound
	}
	delete(r.queues, qid)
	r.mu.Unlock()

	r.log.Info("queue deleted", "queue", qid)
	r.sink.Publish(ArchiveEvent{
		QueueID: qid,
		At:      r.clock.Now(),
	})
	_ = q
	return nil
}

// Lookup resolves qid to its Queue. It fails with ErrQueueNotFound if qid
// is absent.
func (r *Registry) Lookup(qid string) (*Queue, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	q, ok := r.queues[qid]
	if !ok {
		return nil, ErrQueueNotFound
	}
	return q, nil
}

// List returns a snapshot of the current queue ids, sorted for stable
// output (the spec leaves ordering unspecified; a stable order makes the
// /queues endpoint pleasant to read and test).
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.queues))
	for id := range r.queues {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Snapshot returns the current set of Queue pointers, used by the Expirer
// to fan a sweep out across queues without holding the Registry lock for
// the duration of the sweep itself.
func (r *Registry) Snapshot() []*Queue {
	r.mu.RLock()
	defer r.mu.RUnlock()

	qs := make([]*Queue, 0, len(r.queues))
	for _, q := range r.queues {
		qs = append(qs, q)
	}
	return qs
}
