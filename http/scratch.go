// Package http implements the gateway's request pipeline: idempotency,
// signature validation, replay protection, payment enforcement, the upstream
// proxy and the discovery document. Stages communicate through a per-request
// scratch area carried in the request context.
package http

import (
	"context"
	"net/http"

	"github.com/stacksx402/gateway"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const scratchContextKey = contextKey("x402_scratch")

// scratch is the per-request state written by earlier pipeline stages and
// read by later ones. It is discarded when the response is sent; no state
// crosses request boundaries through it.
type scratch struct {
	payload *gateway.PaymentPayload
	receipt *gateway.PaymentReceipt
}

// withScratch attaches a fresh scratch area to the request unless one is
// already present.
func withScratch(r *http.Request) *http.Request {
	if scratchFrom(r.Context()) != nil {
		return r
	}
	return r.WithContext(context.WithValue(r.Context(), scratchContextKey, &scratch{}))
}

func scratchFrom(ctx context.Context) *scratch {
	sc, _ := ctx.Value(scratchContextKey).(*scratch)
	return sc
}

// PaymentFrom returns the validated payment payload attached by the
// signature validation stage, if any.
func PaymentFrom(ctx context.Context) (*gateway.PaymentPayload, bool) {
	sc := scratchFrom(ctx)
	if sc == nil || sc.payload == nil {
		return nil, false
	}
	return sc.payload, true
}

// ReceiptFrom returns the payment receipt attached by the payment gate, if
// any. Handlers include it in their JSON envelope.
func ReceiptFrom(ctx context.Context) (*gateway.PaymentReceipt, bool) {
	sc := scratchFrom(ctx)
	if sc == nil || sc.receipt == nil {
		return nil, false
	}
	return sc.receipt, true
}
