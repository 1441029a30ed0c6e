package archive_test

import (
	"context"
	"testing"
	"time"

	"github.com/ccp0101/queues/archive"
	queue "github.com/ccp0101/queues"
	"github.com/ccp0101/queues/item"
)

func TestSinkPublishAndRecent(t *testing.T) {
	ctx := context.Background()
	db, err := archive.Open(ctx, "file::memory:")
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	sink := archive.NewSink(db, 16, nil)
	sink.Start(ctx)

	sink.Publish(queue.ArchiveEvent{
		QueueID: "orders",
		ItemID:  "item-1",
		Payload: []byte("hello"),
		Status:  item.Done,
		At:      time.Now(),
	})
	sink.Publish(queue.ArchiveEvent{
		QueueID: "orders",
		ItemID:  "item-2",
		Payload: []byte("world"),
		Status:  item.Done,
		At:      time.Now(),
	})
	sink.Stop()

	records, err := sink.Recent(ctx, "orders", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].ItemID != "item-2" {
		t.Errorf("expected newest-first order, got %+v", records)
	}
}

func TestSinkDropsOldestWhenFull(t *testing.T) {
	ctx := context.Background()
	db, err := archive.Open(ctx, "file::memory:")
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	sink := archive.NewSink(db, 2, nil)
	// Publish before Start: events accumulate in the buffer untouched by
	// the writer goroutine, exercising the drop-oldest path directly.
	sink.Publish(queue.ArchiveEvent{QueueID: "q", ItemID: "a", At: time.Now()})
	sink.Publish(queue.ArchiveEvent{QueueID: "q", ItemID: "b", At: time.Now()})
	sink.Publish(queue.ArchiveEvent{QueueID: "q", ItemID: "c", At: time.Now()})

	sink.Start(ctx)
	sink.Stop()

	records, err := sink.Recent(ctx, "q", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 surviving records after drop, got %d", len(records))
	}
	for _, r := range records {
		if r.ItemID == "a" {
			t.Errorf("expected oldest event %q to have been dropped", "a")
		}
	}
}
