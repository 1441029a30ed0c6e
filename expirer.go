package queue

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/ccp0101/queues/internal"
)

// Errors returned by Expirer's Start/Stop lifecycle guard.
var (
	ErrAlreadyStarted = errors.New("queue: expirer already started")
	ErrNotStarted     = errors.New("queue: expirer not started")
	ErrStopTimeout    = errors.New("queue: expirer stop timed out")
)

// ExpirerConfig controls the Expirer's scan cadence and concurrency.
//
// Interval is how often the Registry is swept for expired Pending items.
// Concurrency is the number of queues swept in parallel per tick.
type ExpirerConfig struct {
	Interval    time.Duration
	Concurrency int
}

// DefaultExpirerConfig returns reasonable defaults: a 1s scan interval,
// matching the "well under default_lease" granularity the spec requires,
// with modest fan-out.
func DefaultExpirerConfig() ExpirerConfig {
	return ExpirerConfig{
		Interval:    time.Second,
		Concurrency: 4,
	}
}

const (
	expirerStopped int32 = iota
	expirerRunning
)

// Expirer is the background activity that returns Pending items with
// expired leases to Queued. It fans a per-tick sweep out across a bounded
// pool of workers so that one slow or heavily-contended queue cannot delay
// the sweep of the others; each queue's lock is held only for the
// duration of that single queue's sweep.
//
// A queue deleted from the Registry concurrently with an in-flight sweep
// is simply absent from the next snapshot; Expirer never holds a stale
// reference across ticks, so a deleted queue's sweep just finishes
// against the Queue value it already had and is dropped afterward.
//
// Start/Stop are guarded directly on Expirer by a CAS state flag rather
// than through a shared reusable lifecycle type: Expirer is the only
// thing in this package with a background loop to guard, so the guard
// lives next to the loop it protects.
type Expirer struct {
	state atomic.Int32

	registry *Registry
	pool     *internal.Pool[*Queue]
	log      *slog.Logger
	interval time.Duration

	cancel context.CancelFunc
	done   chan struct{}
}

// NewExpirer creates an Expirer for registry. A nil logger defaults to
// slog.Default().
func NewExpirer(registry *Registry, cfg ExpirerConfig, log *slog.Logger) *Expirer {
	if log == nil {
		log = slog.Default()
	}
	return &Expirer{
		registry: registry,
		pool:     internal.NewPool[*Queue](cfg.Concurrency, log),
		log:      log,
		interval: cfg.Interval,
	}
}

func (e *Expirer) sweepOne(_ context.Context, q *Queue) {
	if expired := q.ExpireDue(); len(expired) > 0 {
		e.log.Debug("expirer reclaimed items", "queue", q.ID(), "count", len(expired))
	}
}

func (e *Expirer) tick() {
	for _, q := range e.registry.Snapshot() {
		if !e.pool.Push(q) {
			return // pool stopped mid-scan; remaining queues wait for the next tick
		}
	}
}

func (e *Expirer) loop(ctx context.Context) {
	defer close(e.done)
	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			e.tick()
		}
	}
}

// Start begins periodic scanning. It returns ErrAlreadyStarted if already
// running.
func (e *Expirer) Start(ctx context.Context) error {
	if !e.state.CompareAndSwap(expirerStopped, expirerRunning) {
		return ErrAlreadyStarted
	}
	runCtx, cancel := context.WithCancel(ctx)
	e.cancel = cancel
	e.done = make(chan struct{})
	e.pool.Start(runCtx, e.sweepOne)
	go e.loop(runCtx)
	return nil
}

// Stop gracefully shuts the Expirer down: it stops scheduling new scans,
// lets any in-flight queue sweeps finish, and returns ErrStopTimeout if
// that does not happen within timeout. It returns ErrNotStarted if the
// Expirer was never successfully started.
func (e *Expirer) Stop(timeout time.Duration) error {
	if !e.state.CompareAndSwap(expirerRunning, expirerStopped) {
		return ErrNotStarted
	}
	e.cancel()

	stopped := make(chan struct{})
	go func() {
		<-e.done
		e.pool.Stop()
		close(stopped)
	}()

	select {
	case <-stopped:
		return nil
	case <-time.After(timeout):
		return ErrStopTimeout
	}
}
