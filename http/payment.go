package http

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/stacksx402/gateway"
	"github.com/stacksx402/gateway/encoding"
	"github.com/stacksx402/gateway/facilitator"
	"github.com/stacksx402/gateway/policy"
)

// mockPayer is the placeholder payer address emitted in mock mode. It is
// unrelated to any signing identity; clients must not depend on it.
const mockPayer = "ST1MOCKPAYERADDRESS0000000000000000"

// GateConfig configures the payment gate stage.
type GateConfig struct {
	// Registry answers the route policy lookup on every request.
	Registry *policy.Registry

	// Facilitator verifies and settles payments in live mode.
	Facilitator facilitator.Facilitator

	// Mock bypasses the facilitator and synthesizes settled receipts.
	Mock bool

	// BaseURL is the canonical base used in resource URLs of 402 offers.
	BaseURL string
}

// NewPaymentGate returns the payment enforcement stage. Priced routes
// without a validated payload receive a 402 carrying the offer; validated
// payloads are settled (or mocked) and the receipt is attached to the
// scratch area and the payment-response header. Routes without a policy
// pass through unpaid.
func NewPaymentGate(cfg GateConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			pol, ok := cfg.Registry.Match(r.Method, r.URL.Path)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			payload, ok := PaymentFrom(r.Context())
			if !ok {
				sendPaymentRequired(w, pol, cfg.BaseURL)
				return
			}

			var receipt *gateway.PaymentReceipt
			if cfg.Mock {
				receipt = &gateway.PaymentReceipt{
					TxHash:    mockTxHash(),
					Network:   pol.Network,
					Payer:     mockPayer,
					Amount:    payload.Amount,
					Timestamp: time.Now().UnixMilli(),
					Settled:   true,
				}
			} else {
				var failed bool
				receipt, failed = settle(w, r, pol, cfg)
				if failed {
					return
				}
			}

			if encoded, err := encoding.EncodeReceipt(*receipt); err == nil {
				w.Header().Set(gateway.HeaderPaymentResponse, encoded)
			}
			scratchFrom(r.Context()).receipt = receipt

			next.ServeHTTP(w, r)
		})
	}
}

// settle runs the live verify/settle sequence against the facilitator. On
// failure it writes the client response and reports failed=true.
func settle(w http.ResponseWriter, r *http.Request, pol *policy.Policy, cfg GateConfig) (*gateway.PaymentReceipt, bool) {
	logger := slog.Default()

	ctx, cancel := context.WithTimeout(r.Context(), time.Duration(pol.MaxTimeoutSeconds)*time.Second)
	defer cancel()

	rawSignature := r.Header.Get(gateway.HeaderPaymentSignature)
	offer := pol.Accept(cfg.BaseURL)

	verification, err := cfg.Facilitator.Verify(ctx, rawSignature, offer)
	if err != nil {
		logger.Error("facilitator verify failed", "path", r.URL.Path, "error", err)
		writeError(w, http.StatusBadGateway, err.Error())
		return nil, true
	}
	if !verification.Valid {
		logger.Warn("payment signature rejected", "path", r.URL.Path, "reason", verification.InvalidReason)
		writeError(w, http.StatusUnauthorized, gateway.ErrVerificationFailed.Error())
		return nil, true
	}

	settlement, err := cfg.Facilitator.Settle(ctx, rawSignature, offer)
	if err != nil {
		logger.Error("facilitator settle failed", "path", r.URL.Path, "error", err)
		writeError(w, http.StatusBadGateway, err.Error())
		return nil, true
	}

	logger.Info("payment settled",
		"path", r.URL.Path, "payer", verification.Payer, "txHash", settlement.TxHash)

	// The receipt is the union of both calls: payer and amount come from
	// verify, everything else from settle. If the two disagree on network,
	// settle wins.
	return &gateway.PaymentReceipt{
		TxHash:    settlement.TxHash,
		Network:   settlement.Network,
		Payer:     verification.Payer,
		Amount:    verification.Amount,
		Timestamp: settlement.Timestamp,
		Settled:   settlement.Settled,
	}, false
}

// sendPaymentRequired writes the 402 response: the offer goes out both as
// the payment-required header and as the JSON body.
func sendPaymentRequired(w http.ResponseWriter, pol *policy.Policy, baseURL string) {
	requirements := pol.Requirements(baseURL)
	encoded, err := encoding.EncodeRequirements(requirements)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to encode payment requirements")
		return
	}
	w.Header().Set(gateway.HeaderPaymentRequired, encoded)
	writeJSON(w, http.StatusPaymentRequired, requirements)
}

func mockTxHash() string {
	return "0xmock" + strings.ReplaceAll(uuid.NewString(), "-", "")
}
