// Package gin provides Gin-compatible middleware for the gateway's payment
// pipeline. This package is a thin adapter that translates gin.Context to
// stdlib http patterns and delegates all validation, replay and settlement
// logic to the http package.
package gin

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/stacksx402/gateway/cache"
	"github.com/stacksx402/gateway/facilitator"
	gatewayhttp "github.com/stacksx402/gateway/http"
	"github.com/stacksx402/gateway/policy"
)

// Config configures the Gin payment middleware.
type Config struct {
	Registry    *policy.Registry
	Facilitator facilitator.Facilitator
	Mock        bool
	BaseURL     string

	// Nonces is the replay-protection cache. A fresh cache with the
	// standard TTL is created when nil; share one across middlewares to
	// share the replay window.
	Nonces *cache.Cache[string, struct{}]
}

// NewPaymentMiddleware creates a Gin middleware enforcing the x402 payment
// pipeline: signature validation, replay guard, payment gate. Handlers read
// the receipt through gatewayhttp.ReceiptFrom(c.Request.Context()).
func NewPaymentMiddleware(cfg Config) gin.HandlerFunc {
	nonces := cfg.Nonces
	if nonces == nil {
		nonces = cache.New[string, struct{}](gatewayhttp.NonceTTL)
	}

	signature := gatewayhttp.NewSignatureValidation(cfg.Registry)
	replay := gatewayhttp.NewReplayGuard(nonces)
	gate := gatewayhttp.NewPaymentGate(gatewayhttp.GateConfig{
		Registry:    cfg.Registry,
		Facilitator: cfg.Facilitator,
		Mock:        cfg.Mock,
		BaseURL:     cfg.BaseURL,
	})

	pipeline := func(next http.Handler) http.Handler {
		return signature(replay(gate(next)))
	}
	return WrapMiddleware(pipeline)
}

// WrapMiddleware adapts a stdlib middleware chain to a gin.HandlerFunc. The
// chain decides whether the request proceeds; context values it attaches are
// preserved for downstream Gin handlers.
func WrapMiddleware(mw func(http.Handler) http.Handler) gin.HandlerFunc {
	return func(c *gin.Context) {
		passed := false
		mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			passed = true
			c.Request = r
		})).ServeHTTP(c.Writer, c.Request)

		if !passed {
			// The chain already wrote the 4xx/5xx response.
			c.Abort()
			return
		}
		c.Next()
	}
}
