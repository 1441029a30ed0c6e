package httpapi

import (
	"context"
	"log/slog"
	"net/http"

	queue "github.com/ccp0101/queues"
)

// Registry is the subset of *queue.Registry that Server needs, narrowed
// to an interface so tests can substitute a fake.
type Registry interface {
	Create(qid string) (*queue.Queue, error)
	Delete(qid string) error
	Lookup(qid string) (*queue.Queue, error)
	List() []string
}

// ArchiveReader serves the read side of the optional archive sink. A nil
// ArchiveReader makes /show/{qid}/archive answer 404, as if the archive
// were never enabled.
type ArchiveReader interface {
	Recent(ctx context.Context, qid string, limit int) ([]ArchivedEvent, error)
}

// ArchivedEvent is the subset of an archived record the HTTP layer
// renders; it exists so httpapi does not need to import the archive
// package's storage-specific Record type.
type ArchivedEvent struct {
	QueueID string
	ItemID  string
	Status  string
	At      string
}

// Server adapts a Registry to HTTP. The zero value is not usable; build
// one with NewServer.
type Server struct {
	registry Registry
	archive  ArchiveReader
	log      *slog.Logger
	mux      *http.ServeMux
}

// NewServer builds a Server routing against registry. A nil archive
// disables the /show/{qid}/archive endpoint. A nil logger defaults to
// slog.Default().
func NewServer(registry Registry, archive ArchiveReader, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	s := &Server{
		registry: registry,
		archive:  archive,
		log:      log,
		mux:      http.NewServeMux(),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /{$}", s.handleBanner)
	s.mux.HandleFunc("GET /queues", s.handleListQueues)
	s.mux.HandleFunc("POST /new/{qid}", s.handleNew)
	s.mux.HandleFunc("POST /delete/{qid}", s.handleDelete)
	s.mux.HandleFunc("GET /show/{qid}", s.handleShow)
	s.mux.HandleFunc("GET /show/{qid}/pending", s.handleShowPending)
	s.mux.HandleFunc("GET /show/{qid}/archive", s.handleShowArchive)
	s.mux.HandleFunc("POST /enqueue/{qid}", s.handleEnqueue)
	s.mux.HandleFunc("POST /next/{qid}", s.handleNext)
	s.mux.HandleFunc("POST /done/{qid}", s.handleDone)
	s.mux.HandleFunc("POST /expire/{qid}", s.handleExpire)
	s.mux.HandleFunc("POST /extend/{qid}", s.handleExtend)
	s.mux.HandleFunc("POST /ttl/{qid}", s.handleTTL)
	s.mux.HandleFunc("GET /healthz", s.handleHealthz)
}

// ServeHTTP makes Server an http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}
