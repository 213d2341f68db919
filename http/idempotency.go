package http

import (
	"bytes"
	"net/http"

	"github.com/stacksx402/gateway"
	"github.com/stacksx402/gateway/cache"
)

// storedHeaders are the response headers replayed from the idempotency cache.
var storedHeaders = []string{"Content-Type", gateway.HeaderPaymentResponse}

// StoredResponse is a cached reply eligible for idempotent replay.
type StoredResponse struct {
	Status int
	Header http.Header
	Body   []byte
}

// NewIdempotency returns the pipeline's first stage. Requests carrying an
// idempotency-key header replay the cached response verbatim on a hit; on a
// miss the eventual response is captured, but only if it is a 2xx. A 402
// must never be stored under an idempotency key, or the client could lock
// itself out of paying.
func NewIdempotency(store *cache.Cache[string, StoredResponse]) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := r.Header.Get(gateway.HeaderIdempotencyKey)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			key := r.Method + "|" + r.URL.Path + "|" + token
			if stored, ok := store.Get(key); ok {
				for name, values := range stored.Header {
					for _, v := range values {
						w.Header().Add(name, v)
					}
				}
				w.WriteHeader(stored.Status)
				_, _ = w.Write(stored.Body)
				return
			}

			rec := &captureWriter{ResponseWriter: w}
			next.ServeHTTP(rec, r)

			if rec.status >= 200 && rec.status < 300 {
				store.Set(key, StoredResponse{
					Status: rec.status,
					Header: rec.snapshot,
					Body:   rec.body.Bytes(),
				})
			}
		})
	}
}

// captureWriter streams the response through while recording the status,
// selected headers and body for later replay.
type captureWriter struct {
	http.ResponseWriter
	status   int
	wrote    bool
	body     bytes.Buffer
	snapshot http.Header
}

func (cw *captureWriter) WriteHeader(status int) {
	if cw.wrote {
		return
	}
	cw.wrote = true
	cw.status = status

	cw.snapshot = make(http.Header, len(storedHeaders))
	for _, name := range storedHeaders {
		if values := cw.Header().Values(name); len(values) > 0 {
			cw.snapshot[http.CanonicalHeaderKey(name)] = append([]string(nil), values...)
		}
	}

	cw.ResponseWriter.WriteHeader(status)
}

func (cw *captureWriter) Write(b []byte) (int, error) {
	if !cw.wrote {
		cw.WriteHeader(http.StatusOK)
	}
	cw.body.Write(b)
	return cw.ResponseWriter.Write(b)
}

func (cw *captureWriter) Flush() {
	if flusher, ok := cw.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}
