package http

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/stacksx402/gateway"
	"github.com/stacksx402/gateway/policy"
)

// hopByHopHeaders are connection-scoped and never cross the proxy in either
// direction.
var hopByHopHeaders = map[string]bool{
	"Connection":          true,
	"Keep-Alive":          true,
	"Proxy-Authenticate":  true,
	"Proxy-Authorization": true,
	"Te":                  true,
	"Trailer":             true,
	"Transfer-Encoding":   true,
	"Upgrade":             true,
}

// paymentHeaders is the x402 header set stripped from upstream traffic. This
// is the enforcement point for the "upstream sees no x402" invariant.
var paymentHeaders = map[string]bool{
	http.CanonicalHeaderKey(gateway.HeaderPaymentRequired):  true,
	http.CanonicalHeaderKey(gateway.HeaderPaymentSignature): true,
	http.CanonicalHeaderKey(gateway.HeaderPaymentResponse):  true,
	http.CanonicalHeaderKey(gateway.HeaderIdempotencyKey):   true,
}

// Proxy forwards paid requests under the proxy prefix to the upstream base
// URL. The upstream sees an ordinary HTTP request with every payment header
// removed; the response comes back wrapped in the gateway envelope when it
// is JSON and a receipt exists.
type Proxy struct {
	upstream string
	prefix   string
	client   *http.Client
}

// NewProxy creates a proxy handler for the given upstream base URL and path
// prefix (DefaultProxyPrefix when empty).
func NewProxy(upstreamBaseURL, prefix string) *Proxy {
	if prefix == "" {
		prefix = policy.DefaultProxyPrefix
	}
	return &Proxy{
		upstream: strings.TrimRight(upstreamBaseURL, "/"),
		prefix:   prefix,
		client:   &http.Client{},
	}
}

func (p *Proxy) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, p.prefix)
	target := p.upstream + "/" + rest
	if r.URL.RawQuery != "" {
		target += "?" + r.URL.RawQuery
	}

	req, err := http.NewRequestWithContext(r.Context(), r.Method, target, r.Body)
	if err != nil {
		writeError(w, http.StatusBadGateway, fmt.Sprintf("%s: %v", gateway.ErrUpstreamUnavailable, err))
		return
	}

	for name, values := range r.Header {
		if dropFromUpstreamRequest(name) {
			continue
		}
		req.Header.Set(name, strings.Join(values, ", "))
	}
	// ContentLength 0 means no body; -1 means a body of unknown length.
	if r.ContentLength != 0 && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := p.client.Do(req)
	if err != nil {
		slog.Default().Error("upstream request failed", "target", target, "error", err)
		writeError(w, http.StatusBadGateway, fmt.Sprintf("%s: %v", gateway.ErrUpstreamUnavailable, err))
		return
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		writeError(w, http.StatusBadGateway, fmt.Sprintf("%s: %v", gateway.ErrUpstreamUnavailable, err))
		return
	}

	for name, values := range resp.Header {
		if dropFromClientResponse(name) {
			continue
		}
		for _, v := range values {
			w.Header().Add(name, v)
		}
	}
	// The gateway's own payment-response header, set by the payment gate,
	// survives: upstream copies of payment headers were dropped above.

	receipt, hasReceipt := ReceiptFrom(r.Context())
	if hasReceipt && isJSONContentType(resp.Header.Get("Content-Type")) && json.Valid(body) {
		writeJSON(w, resp.StatusCode, gateway.Envelope{
			Success: resp.StatusCode >= 200 && resp.StatusCode < 300,
			Data:    json.RawMessage(body),
			Receipt: receipt,
		})
		return
	}

	w.WriteHeader(resp.StatusCode)
	_, _ = w.Write(body)
}

func dropFromUpstreamRequest(name string) bool {
	canonical := http.CanonicalHeaderKey(name)
	// Host and Content-Length are owned by the outbound transport; the body
	// is re-serialized.
	return hopByHopHeaders[canonical] || paymentHeaders[canonical] ||
		canonical == "Host" || canonical == "Content-Length"
}

func dropFromClientResponse(name string) bool {
	canonical := http.CanonicalHeaderKey(name)
	return hopByHopHeaders[canonical] || paymentHeaders[canonical] || canonical == "Content-Length"
}
