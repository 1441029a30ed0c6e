package queue_test

import (
	"errors"
	"testing"

	queue "github.com/ccp0101/queues"
)

func TestRegistryCreateRejectsDuplicate(t *testing.T) {
	r := queue.NewRegistry(nil, nil, nil, 0)
	if _, err := r.Create("orders"); err != nil {
		t.Fatal(err)
	}
	if _, err := r.Create("orders"); !errors.Is(err, queue.ErrQueueExists) {
		t.Fatalf("expected ErrQueueExists, got %v", err)
	}
}

func TestRegistryDeleteRequiresExisting(t *testing.T) {
	r := queue.NewRegistry(nil, nil, nil, 0)
	if err := r.Delete("missing"); !errors.Is(err, queue.ErrQueueNotFound) {
		t.Fatalf("expected ErrQueueNotFound, got %v", err)
	}
	r.Create("orders")
	if err := r.Delete("orders"); err != nil {
		t.Fatal(err)
	}
	if _, err := r.Lookup("orders"); !errors.Is(err, queue.ErrQueueNotFound) {
		t.Fatalf("expected deleted queue to be gone, got %v", err)
	}
}

func TestRegistryListIsSorted(t *testing.T) {
	r := queue.NewRegistry(nil, nil, nil, 0)
	r.Create("b")
	r.Create("a")
	r.Create("c")

	got := r.List()
	want := []string{"a", "b", "c"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestRegistryDeletePublishesArchiveEvent(t *testing.T) {
	sink := &recordingSink{}
	r := queue.NewRegistry(nil, nil, sink, 0)
	r.Create("orders")
	if err := r.Delete("orders"); err != nil {
		t.Fatal(err)
	}
	if len(sink.events) != 1 || sink.events[0].QueueID != "orders" {
		t.Fatalf("expected one delete event for orders, got %+v", sink.events)
	}
}

func TestRegistrySnapshotIsIndependentOfFutureMutation(t *testing.T) {
	r := queue.NewRegistry(nil, nil, nil, 0)
	r.Create("a")
	snap := r.Snapshot()
	r.Create("b")
	if len(snap) != 1 {
		t.Fatalf("expected snapshot to have 1 queue, got %d", len(snap))
	}
}
