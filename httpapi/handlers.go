package httpapi

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
)

const banner = "queued: an in-memory work queue service\n"

func (s *Server) handleBanner(w http.ResponseWriter, r *http.Request) {
	writeText(w, http.StatusOK, banner)
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeText(w, http.StatusOK, "ok")
}

func (s *Server) handleListQueues(w http.ResponseWriter, r *http.Request) {
	ids := s.registry.List()
	writeText(w, http.StatusOK, strings.Join(ids, "\n"))
}

func (s *Server) handleNew(w http.ResponseWriter, r *http.Request) {
	qid := r.PathValue("qid")
	if _, err := s.registry.Create(qid); err != nil {
		writeError(w, err)
		return
	}
	writeText(w, http.StatusOK, "")
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	qid := r.PathValue("qid")
	if err := s.registry.Delete(qid); err != nil {
		writeError(w, err)
		return
	}
	writeText(w, http.StatusOK, "")
}

func (s *Server) handleShow(w http.ResponseWriter, r *http.Request) {
	qid := r.PathValue("qid")
	q, err := s.registry.Lookup(qid)
	if err != nil {
		writeError(w, err)
		return
	}
	writeText(w, http.StatusOK, q.ShowText())
}

func (s *Server) handleShowPending(w http.ResponseWriter, r *http.Request) {
	qid := r.PathValue("qid")
	q, err := s.registry.Lookup(qid)
	if err != nil {
		writeError(w, err)
		return
	}
	writeText(w, http.StatusOK, strings.Join(q.ShowPending(), "\n"))
}

const archiveListLimit = 100

func (s *Server) handleShowArchive(w http.ResponseWriter, r *http.Request) {
	qid := r.PathValue("qid")
	if _, err := s.registry.Lookup(qid); err != nil {
		writeError(w, err)
		return
	}
	if s.archive == nil {
		http.Error(w, "archive not enabled", http.StatusNotFound)
		return
	}
	records, err := s.archive.Recent(r.Context(), qid, archiveListLimit)
	if err != nil {
		s.log.Error("archive read failed", "queue", qid, "err", err)
		http.Error(w, "archive unavailable", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/x-ndjson")
	w.WriteHeader(http.StatusOK)
	for _, rec := range records {
		fmt.Fprintf(w, `{"queue":%q,"item":%q,"status":%q,"at":%q}`+"\n",
			rec.QueueID, rec.ItemID, rec.Status, rec.At)
	}
}

func readItemPayload(r *http.Request) ([]byte, error) {
	if err := r.ParseForm(); err != nil {
		return nil, err
	}
	if v := r.PostForm.Get("item"); v != "" {
		return []byte(v), nil
	}
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, err
	}
	return body, nil
}

func readItemID(r *http.Request) (string, error) {
	if err := r.ParseForm(); err != nil {
		return "", err
	}
	return r.PostForm.Get("item"), nil
}

func (s *Server) handleEnqueue(w http.ResponseWriter, r *http.Request) {
	qid := r.PathValue("qid")
	q, err := s.registry.Lookup(qid)
	if err != nil {
		writeError(w, err)
		return
	}
	payload, err := readItemPayload(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if _, err := q.Enqueue(payload); err != nil {
		writeError(w, err)
		return
	}
	writeText(w, http.StatusOK, "")
}

func (s *Server) handleNext(w http.ResponseWriter, r *http.Request) {
	qid := r.PathValue("qid")
	q, err := s.registry.Lookup(qid)
	if err != nil {
		writeError(w, err)
		return
	}
	id, err := q.Next()
	if err != nil {
		writeError(w, err)
		return
	}
	writeText(w, http.StatusOK, id)
}

func (s *Server) handleItemOp(w http.ResponseWriter, r *http.Request, op func(id string) error) {
	id, err := readItemID(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if id == "" {
		http.Error(w, "missing item id", http.StatusBadRequest)
		return
	}
	if err := op(id); err != nil {
		writeError(w, err)
		return
	}
	writeText(w, http.StatusOK, "")
}

func (s *Server) handleDone(w http.ResponseWriter, r *http.Request) {
	qid := r.PathValue("qid")
	q, err := s.registry.Lookup(qid)
	if err != nil {
		writeError(w, err)
		return
	}
	s.handleItemOp(w, r, q.Done)
}

func (s *Server) handleExpire(w http.ResponseWriter, r *http.Request) {
	qid := r.PathValue("qid")
	q, err := s.registry.Lookup(qid)
	if err != nil {
		writeError(w, err)
		return
	}
	s.handleItemOp(w, r, q.Expire)
}

func (s *Server) handleExtend(w http.ResponseWriter, r *http.Request) {
	qid := r.PathValue("qid")
	q, err := s.registry.Lookup(qid)
	if err != nil {
		writeError(w, err)
		return
	}
	s.handleItemOp(w, r, q.Extend)
}

func (s *Server) handleTTL(w http.ResponseWriter, r *http.Request) {
	qid := r.PathValue("qid")
	q, err := s.registry.Lookup(qid)
	if err != nil {
		writeError(w, err)
		return
	}
	id, err := readItemID(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if id == "" {
		http.Error(w, "missing item id", http.StatusBadRequest)
		return
	}
	ttl, err := q.TTL(id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeText(w, http.StatusOK, strconv.FormatInt(ttl, 10))
}
