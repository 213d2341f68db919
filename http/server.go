package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/stacksx402/gateway"
	"github.com/stacksx402/gateway/cache"
	"github.com/stacksx402/gateway/facilitator"
	"github.com/stacksx402/gateway/policy"
)

// Cache lifetimes for the two shared stores.
const (
	// IdempotencyTTL bounds how long a cached 2xx reply is replayed.
	IdempotencyTTL = 10 * time.Minute

	// NonceTTL bounds the replay-protection window.
	NonceTTL = 5 * time.Minute
)

// Options configures a Gateway.
type Options struct {
	Config   *gateway.Config
	Registry *policy.Registry

	// Facilitator is required unless Config.MockPayments is set.
	Facilitator facilitator.Facilitator

	// Discovery document metadata.
	Name        string
	Description string
	Image       string
}

// Gateway is the composed HTTP server: the middleware pipeline, the proxy
// mount, the discovery route and the two TTL caches it owns.
type Gateway struct {
	router   chi.Router
	receipts *cache.Cache[string, StoredResponse]
	nonces   *cache.Cache[string, struct{}]
}

// New composes the gateway. The pipeline runs in fixed order: idempotency,
// signature validation, replay guard, payment gate, handler. Register local
// paid routes on Router before serving.
func New(opts Options) *Gateway {
	cfg := opts.Config
	receipts := cache.New[string, StoredResponse](IdempotencyTTL)
	nonces := cache.New[string, struct{}](NonceTTL)

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	// Recoverer is the pipeline boundary: a panicking request becomes a 500
	// instead of crashing the server.
	r.Use(chimiddleware.Recoverer)

	r.Use(NewIdempotency(receipts))
	r.Use(NewSignatureValidation(opts.Registry))
	r.Use(NewReplayGuard(nonces))
	r.Use(NewPaymentGate(GateConfig{
		Registry:    opts.Registry,
		Facilitator: opts.Facilitator,
		Mock:        cfg.MockPayments,
		BaseURL:     cfg.BaseURL,
	}))

	r.Get("/healthz", HealthHandler)
	r.Get(DiscoveryPath, NewDiscoveryHandler(DiscoveryConfig{
		Registry:      opts.Registry,
		Name:          opts.Name,
		Description:   opts.Description,
		Image:         opts.Image,
		PublicBaseURL: cfg.PublicBaseURL,
	}))

	proxy := NewProxy(cfg.UpstreamURL, opts.Registry.ProxyPrefix())
	r.Handle(opts.Registry.ProxyPrefix()+"*", proxy)

	return &Gateway{router: r, receipts: receipts, nonces: nonces}
}

// Router exposes the underlying router for mounting local paid routes.
func (g *Gateway) Router() chi.Router {
	return g.router
}

// ServeHTTP implements http.Handler.
func (g *Gateway) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	g.router.ServeHTTP(w, r)
}

// Close stops the background cache sweepers. Requests in flight are not
// affected; reads keep expiring entries lazily.
func (g *Gateway) Close() {
	g.receipts.Destroy()
	g.nonces.Destroy()
}
