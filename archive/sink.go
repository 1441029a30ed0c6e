package archive

import (
	"context"
	"log/slog"
	"sync"

	"github.com/ccp0101/queues"
	"github.com/uptrace/bun"
)

// Sink is a queue.ArchiveSink backed by a bun.DB. It buffers events in an
// internal slice and writes them from a single background goroutine,
// woken through a channel, so Publish never blocks on I/O and is safe to call while a
// Queue or Registry lock is held by the caller (though callers are still
// expected to publish only after releasing it, per convention).
//
// When the buffer is full, Sink drops the oldest buffered event to make
// room for the new one; a saturated archive loses history rather than
// applying backpressure to the engine it is observing.
type Sink struct {
	db  *bun.DB
	log *slog.Logger

	mu      sync.Mutex
	buf     []queue.ArchiveEvent
	signal  chan struct{}
	cap     int
	cancel  context.CancelFunc
	stopped chan struct{}
}

// NewSink creates a Sink that writes to db using up to capacity buffered
// events. A nil logger defaults to slog.Default().
func NewSink(db *bun.DB, capacity int, log *slog.Logger) *Sink {
	if log == nil {
		log = slog.Default()
	}
	if capacity <= 0 {
		capacity = 1024
	}
	return &Sink{
		db:     db,
		log:    log,
		cap:    capacity,
		signal: make(chan struct{}, 1),
	}
}

// Publish enqueues evt for writing. It never blocks.
func (s *Sink) Publish(evt queue.ArchiveEvent) {
	s.mu.Lock()
	if len(s.buf) >= s.cap {
		s.buf = s.buf[1:]
	}
	s.buf = append(s.buf, evt)
	s.mu.Unlock()

	select {
	case s.signal <- struct{}{}:
	default:
	}
}

func (s *Sink) drain() []queue.ArchiveEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.buf) == 0 {
		return nil
	}
	out := s.buf
	s.buf = nil
	return out
}

func (s *Sink) writeBatch(ctx context.Context, events []queue.ArchiveEvent) {
	records := make([]*Record, len(events))
	for i, e := range events {
		records[i] = &Record{
			QueueID: e.QueueID,
			ItemID:  e.ItemID,
			Status:  uint8(e.Status),
			Payload: e.Payload,
			At:      e.At,
		}
	}
	if _, err := s.db.NewInsert().Model(&records).Exec(ctx); err != nil {
		s.log.Error("archive write failed", "err", err, "count", len(records))
	}
}

func (s *Sink) run(ctx context.Context) {
	defer close(s.stopped)
	for {
		select {
		case <-ctx.Done():
			s.writeBatch(context.Background(), s.drain())
			return
		case <-s.signal:
			s.writeBatch(context.WithoutCancel(ctx), s.drain())
		}
	}
}

// Start launches the background writer goroutine.
func (s *Sink) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)
	s.stopped = make(chan struct{})
	go s.run(ctx)
}

// Stop signals the writer to flush any buffered events and stop, and
// blocks until it has.
func (s *Sink) Stop() {
	if s.cancel == nil {
		return
	}
	s.cancel()
	<-s.stopped
}

// Recent returns up to limit of the most recently archived events for
// qid, newest first.
func (s *Sink) Recent(ctx context.Context, qid string, limit int) ([]Record, error) {
	var records []Record
	err := s.db.NewSelect().
		Model(&records).
		Where("queue_id = ?", qid).
		OrderExpr("id DESC").
		Limit(limit).
		Scan(ctx)
	return records, err
}
