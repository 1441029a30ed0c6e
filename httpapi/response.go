package httpapi

import (
	"errors"
	"net/http"

	queue "github.com/ccp0101/queues"
)

// statusFor maps the queue package's sentinel errors to the HTTP status
// codes spec.md's route table mandates. Any other error is treated as an
// unexpected storage fault and reported as 500.
func statusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, queue.ErrQueueExists):
		return http.StatusBadRequest
	case errors.Is(err, queue.ErrQueueNotFound), errors.Is(err, queue.ErrItemNotFound):
		return http.StatusNotFound
	case errors.Is(err, queue.ErrNotPending):
		return http.StatusConflict
	case errors.Is(err, queue.ErrBadInput):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	http.Error(w, err.Error(), statusFor(err))
}

func writeText(w http.ResponseWriter, code int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(code)
	_, _ = w.Write([]byte(body))
}
