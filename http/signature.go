package http

import (
	"fmt"
	"log/slog"
	"math/big"
	"net/http"
	"strings"

	"github.com/stacksx402/gateway"
	"github.com/stacksx402/gateway/encoding"
	"github.com/stacksx402/gateway/policy"
)

// NewSignatureValidation returns the structural validation stage. It decodes
// the payment-signature header and cross-references it against the route's
// offer, rejecting malformed or mismatched payloads with a 400 before the
// facilitator is ever contacted. Requests without the header pass through;
// the payment gate issues the 402.
func NewSignatureValidation(registry *policy.Registry) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get(gateway.HeaderPaymentSignature)
			if header == "" {
				next.ServeHTTP(w, r)
				return
			}

			payload, err := encoding.DecodePayload(header)
			if err != nil {
				slog.Default().Warn("malformed payment header", "path", r.URL.Path, "error", err)
				writeError(w, http.StatusBadRequest, gateway.ErrMalformedHeader.Error())
				return
			}

			if missing := payload.MissingFields(); len(missing) > 0 {
				writeError(w, http.StatusBadRequest,
					"payment payload missing required fields: "+strings.Join(missing, ", "))
				return
			}

			if payload.X402Version != gateway.X402Version {
				writeError(w, http.StatusBadRequest,
					fmt.Sprintf("%s: %d", gateway.ErrUnsupportedVersion, payload.X402Version))
				return
			}

			amount, ok := new(big.Int).SetString(payload.Amount, 10)
			if !ok {
				writeError(w, http.StatusBadRequest,
					fmt.Sprintf("%s: %q is not a decimal integer", gateway.ErrInvalidAmount, payload.Amount))
				return
			}

			if pol, found := registry.Match(r.Method, r.URL.Path); found {
				var mismatches []string
				if payload.Scheme != pol.Scheme {
					mismatches = append(mismatches, fmt.Sprintf("scheme: want %s, got %s", pol.Scheme, payload.Scheme))
				}
				if payload.Network != pol.Network {
					mismatches = append(mismatches, fmt.Sprintf("network: want %s, got %s", pol.Network, payload.Network))
				}
				if payload.Asset != pol.Asset {
					mismatches = append(mismatches, fmt.Sprintf("asset: want %s, got %s", pol.Asset, payload.Asset))
				}
				if payload.PayTo != pol.PayTo {
					mismatches = append(mismatches, fmt.Sprintf("payTo: want %s, got %s", pol.PayTo, payload.PayTo))
				}
				if len(mismatches) > 0 {
					writeError(w, http.StatusBadRequest,
						gateway.ErrOfferMismatch.Error()+": "+strings.Join(mismatches, "; "))
					return
				}

				// Overpayment is permitted, never refunded.
				if amount.Cmp(pol.MinAmount()) < 0 {
					writeError(w, http.StatusBadRequest,
						fmt.Sprintf("%s: required %s, got %s", gateway.ErrInsufficientAmount, pol.Amount, payload.Amount))
					return
				}
			}

			r = withScratch(r)
			scratchFrom(r.Context()).payload = &payload
			next.ServeHTTP(w, r)
		})
	}
}
