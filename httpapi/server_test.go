package httpapi_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	queue "github.com/ccp0101/queues"
	"github.com/ccp0101/queues/httpapi"
)

func newTestServer(t *testing.T) (*httptest.Server, *queue.Registry, *queue.FakeClock) {
	t.Helper()
	clock := queue.NewFakeClock(time.Unix(0, 0))
	reg := queue.NewRegistry(clock, nil, nil, 0)
	srv := httptest.NewServer(httpapi.NewServer(reg, nil, nil))
	t.Cleanup(srv.Close)
	return srv, reg, clock
}

func post(t *testing.T, srv *httptest.Server, path string, form url.Values) *http.Response {
	t.Helper()
	resp, err := http.PostForm(srv.URL+path, form)
	if err != nil {
		t.Fatal(err)
	}
	return resp
}

func get(t *testing.T, srv *httptest.Server, path string) *http.Response {
	t.Helper()
	resp, err := http.Get(srv.URL + path)
	if err != nil {
		t.Fatal(err)
	}
	return resp
}

func body(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	var sb strings.Builder
	buf := make([]byte, 512)
	for {
		n, err := resp.Body.Read(buf)
		sb.Write(buf[:n])
		if err != nil {
			break
		}
	}
	return sb.String()
}

func TestBannerAndHealthz(t *testing.T) {
	srv, _, _ := newTestServer(t)
	if resp := get(t, srv, "/"); resp.StatusCode != http.StatusOK {
		t.Fatalf("banner: got %d", resp.StatusCode)
	}
	resp := get(t, srv, "/healthz")
	if resp.StatusCode != http.StatusOK || body(t, resp) != "ok" {
		t.Fatalf("healthz: got %d", resp.StatusCode)
	}
}

func TestDuplicateCreateMissingDelete(t *testing.T) {
	srv, _, _ := newTestServer(t)

	if resp := post(t, srv, "/new/q", nil); resp.StatusCode != http.StatusOK {
		t.Fatalf("first create: got %d", resp.StatusCode)
	}
	if resp := post(t, srv, "/new/q", nil); resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("duplicate create: got %d, want 400", resp.StatusCode)
	}
	if resp := post(t, srv, "/delete/q", nil); resp.StatusCode != http.StatusOK {
		t.Fatalf("delete: got %d", resp.StatusCode)
	}
	if resp := post(t, srv, "/delete/q", nil); resp.StatusCode != http.StatusNotFound {
		t.Fatalf("missing delete: got %d, want 404", resp.StatusCode)
	}
}

func TestEnqueueNextDoneLifecycle(t *testing.T) {
	srv, _, _ := newTestServer(t)
	post(t, srv, "/new/orders", nil)

	if resp := post(t, srv, "/enqueue/orders", url.Values{"item": {"payload-1"}}); resp.StatusCode != http.StatusOK {
		t.Fatalf("enqueue: got %d", resp.StatusCode)
	}

	if resp := get(t, srv, "/show/orders"); body(t, resp) != "Done: 0. Pending: 0. Queued: 1. All: 1." {
		t.Fatalf("show before next: %q", body(t, resp))
	}

	resp := post(t, srv, "/next/orders", nil)
	id := body(t, resp)
	if id == "" {
		t.Fatal("expected a leased item id")
	}

	if resp := get(t, srv, "/show/orders"); body(t, resp) != "Done: 0. Pending: 1. Queued: 0. All: 1." {
		t.Fatalf("show after next: %q", body(t, resp))
	}

	if resp := post(t, srv, "/done/orders", url.Values{"item": {id}}); resp.StatusCode != http.StatusOK {
		t.Fatalf("done: got %d", resp.StatusCode)
	}
	if resp := post(t, srv, "/done/orders", url.Values{"item": {id}}); resp.StatusCode != http.StatusConflict {
		t.Fatalf("second done: got %d, want 409", resp.StatusCode)
	}

	if resp := get(t, srv, "/show/orders"); body(t, resp) != "Done: 1. Pending: 0. Queued: 0. All: 1." {
		t.Fatalf("show after done: %q", body(t, resp))
	}
}

func TestExtendAndTTL(t *testing.T) {
	srv, reg, clock := newTestServer(t)
	post(t, srv, "/new/orders", nil)
	q, err := reg.Lookup("orders")
	if err != nil {
		t.Fatal(err)
	}
	q.WithDefaultLease(10 * time.Second)

	post(t, srv, "/enqueue/orders", url.Values{"item": {"x"}})
	id := body(t, post(t, srv, "/next/orders", nil))

	clock.Advance(4 * time.Second)
	if resp := post(t, srv, "/ttl/orders", url.Values{"item": {id}}); body(t, resp) != "6" {
		t.Fatalf("ttl: got %q", body(t, resp))
	}

	if resp := post(t, srv, "/extend/orders", url.Values{"item": {id}}); resp.StatusCode != http.StatusOK {
		t.Fatalf("extend: got %d", resp.StatusCode)
	}
	if resp := post(t, srv, "/ttl/orders", url.Values{"item": {id}}); body(t, resp) != "10" {
		t.Fatalf("ttl after extend: got %q", body(t, resp))
	}
}

func TestExpireReturnsItemToQueued(t *testing.T) {
	srv, _, _ := newTestServer(t)
	post(t, srv, "/new/orders", nil)
	post(t, srv, "/enqueue/orders", url.Values{"item": {"x"}})
	id := body(t, post(t, srv, "/next/orders", nil))

	if resp := post(t, srv, "/expire/orders", url.Values{"item": {id}}); resp.StatusCode != http.StatusOK {
		t.Fatalf("expire: got %d", resp.StatusCode)
	}
	if resp := get(t, srv, "/show/orders"); body(t, resp) != "Done: 0. Pending: 0. Queued: 1. All: 1." {
		t.Fatalf("show after expire: %q", body(t, resp))
	}
	if resp := post(t, srv, "/expire/orders", url.Values{"item": {id}}); resp.StatusCode != http.StatusConflict {
		t.Fatalf("second expire: got %d, want 409", resp.StatusCode)
	}
}

func TestOperationsOnUnknownQueue(t *testing.T) {
	srv, _, _ := newTestServer(t)
	for _, call := range []func() *http.Response{
		func() *http.Response { return get(t, srv, "/show/missing") },
		func() *http.Response { return post(t, srv, "/next/missing", nil) },
		func() *http.Response { return post(t, srv, "/enqueue/missing", url.Values{"item": {"x"}}) },
	} {
		if resp := call(); resp.StatusCode != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", resp.StatusCode)
		}
	}
}

func TestListQueues(t *testing.T) {
	srv, _, _ := newTestServer(t)
	post(t, srv, "/new/b", nil)
	post(t, srv, "/new/a", nil)
	resp := get(t, srv, "/queues")
	if got := body(t, resp); got != "a\nb" {
		t.Fatalf("queues: got %q", got)
	}
}

func TestShowArchiveDisabledByDefault(t *testing.T) {
	srv, _, _ := newTestServer(t)
	post(t, srv, "/new/orders", nil)
	resp := get(t, srv, "/show/orders/archive")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 when archive disabled, got %d", resp.StatusCode)
	}
}
