package item_test

import (
	"testing"

	"github.com/ccp0101/queues/item"
)

func TestStatusStringRoundTrip(t *testing.T) {
	cases := []item.Status{item.Unknown, item.Queued, item.Pending, item.Done}
	for _, s := range cases {
		text := s.String()
		got, err := item.ParseStatus(text)
		if err != nil {
			t.Fatalf("ParseStatus(%q): %v", text, err)
		}
		if got != s {
			t.Fatalf("round trip mismatch: %v -> %q -> %v", s, text, got)
		}
	}
}

func TestParseStatusRejectsUnknownText(t *testing.T) {
	if _, err := item.ParseStatus("Processing"); err == nil {
		t.Fatal("expected an error for an unrecognized status string")
	}
}

func TestMarshalUnmarshalText(t *testing.T) {
	s := item.Pending
	text, err := s.MarshalText()
	if err != nil {
		t.Fatal(err)
	}
	var got item.Status
	if err := got.UnmarshalText(text); err != nil {
		t.Fatal(err)
	}
	if got != s {
		t.Fatalf("got %v, want %v", got, s)
	}
}
