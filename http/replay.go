package http

import (
	"log/slog"
	"net/http"

	"github.com/stacksx402/gateway"
	"github.com/stacksx402/gateway/cache"
)

// NewReplayGuard returns the nonce replay stage. The nonce key is recorded
// with an atomic insert-if-absent before settlement runs, so two concurrent
// requests sharing a (nonce, memo) pair result in exactly one passing and
// one 409. A nonce stays consumed even if settlement later fails.
func NewReplayGuard(nonces *cache.Cache[string, struct{}]) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get(gateway.HeaderPaymentSignature) == "" {
				next.ServeHTTP(w, r)
				return
			}

			payload, ok := PaymentFrom(r.Context())
			if !ok {
				// Signature validation already rejected the payload.
				next.ServeHTTP(w, r)
				return
			}

			// The memo suffix lets a caller reuse a nonce for a distinct
			// memo deliberately.
			key := payload.Nonce
			if payload.Memo != "" {
				key += "|" + payload.Memo
			}

			if !nonces.SetIfAbsent(key, struct{}{}) {
				slog.Default().Warn("payment replay rejected", "path", r.URL.Path, "nonce", payload.Nonce)
				writeError(w, http.StatusConflict, gateway.ErrReplayDetected.Error()+": nonce already consumed")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
