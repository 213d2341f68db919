package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stacksx402/gateway"
	"github.com/stacksx402/gateway/encoding"
	"github.com/stacksx402/gateway/facilitator"
	"github.com/stacksx402/gateway/policy"
)

const (
	testNetwork = "stacks:2147483648"
	testPayTo   = "ST1PQHQKV0RJXZFY1DGX8MNSNYVE3VGZJSRTPGZGM"
	testBaseURL = "http://localhost:3000"
)

func echoPolicy(t *testing.T) *policy.Policy {
	t.Helper()
	p, err := policy.NewBuilder("/v1/premium/echo").
		Method("GET").
		Network(testNetwork).
		Price("100000", "STX").
		PayTo(testPayTo).
		Description("Premium echo endpoint").
		Build()
	if err != nil {
		t.Fatalf("failed to build policy: %v", err)
	}
	return p
}

func testRegistry(t *testing.T) *policy.Registry {
	t.Helper()
	r := policy.NewRegistry("")
	r.MustRegister(echoPolicy(t))

	weather, err := policy.NewBuilder("/proxy/api/weather").
		Method("GET").
		Network(testNetwork).
		Price("100000", "STX").
		PayTo(testPayTo).
		Description("Current weather for a city").
		Build()
	if err != nil {
		t.Fatalf("failed to build policy: %v", err)
	}
	r.MustRegister(weather)

	summarize, err := policy.NewBuilder("/proxy/api/summarize").
		Method("POST").
		Network(testNetwork).
		Price("50", "STX").
		PayTo(testPayTo).
		Description("Summarize a document").
		Build()
	if err != nil {
		t.Fatalf("failed to build policy: %v", err)
	}
	r.MustRegister(summarize)

	return r
}

func validTestPayload(amount, nonce string) gateway.PaymentPayload {
	return gateway.PaymentPayload{
		X402Version: 2,
		Scheme:      "exact",
		Network:     testNetwork,
		Asset:       "STX",
		PayTo:       testPayTo,
		Amount:      amount,
		Nonce:       nonce,
		Signature:   "deadbeef",
		Resource:    testBaseURL + "/v1/premium/echo",
	}
}

func encodeTestPayload(t *testing.T, payload gateway.PaymentPayload) string {
	t.Helper()
	encoded, err := encoding.EncodePayload(payload)
	if err != nil {
		t.Fatalf("failed to encode payload: %v", err)
	}
	return encoded
}

// requestWithPayment attaches a validated payload to the request scratch,
// simulating a request that already passed signature validation.
func requestWithPayment(r *http.Request, payload *gateway.PaymentPayload) *http.Request {
	r = withScratch(r)
	scratchFrom(r.Context()).payload = payload
	return r
}

// fakeFacilitator is a scriptable in-process facilitator.
type fakeFacilitator struct {
	verify    *facilitator.VerifyResponse
	verifyErr error
	settle    *facilitator.SettleResponse
	settleErr error

	verifyCalls int
	settleCalls int
	lastSig     string
	lastOffer   gateway.PaymentAccept
}

func (f *fakeFacilitator) Verify(ctx context.Context, sig string, offer gateway.PaymentAccept) (*facilitator.VerifyResponse, error) {
	f.verifyCalls++
	f.lastSig = sig
	f.lastOffer = offer
	if f.verifyErr != nil {
		return nil, f.verifyErr
	}
	return f.verify, nil
}

func (f *fakeFacilitator) Settle(ctx context.Context, sig string, offer gateway.PaymentAccept) (*facilitator.SettleResponse, error) {
	f.settleCalls++
	if f.settleErr != nil {
		return nil, f.settleErr
	}
	return f.settle, nil
}

func decodeBody(rec *httptest.ResponseRecorder, v interface{}) error {
	return json.Unmarshal(rec.Body.Bytes(), v)
}

// okHandler is a terminal stage that records it ran.
func okHandler(ran *bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*ran = true
		writeJSON(w, http.StatusOK, map[string]string{"ok": "true"})
	})
}
