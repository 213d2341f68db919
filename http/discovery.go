package http

import (
	"net/http"

	"github.com/stacksx402/gateway"
	"github.com/stacksx402/gateway/policy"
)

// DiscoveryPath is the well-known location of the discovery document.
const DiscoveryPath = "/.well-known/x402"

// DiscoveryConfig configures the discovery document generator.
type DiscoveryConfig struct {
	Registry    *policy.Registry
	Name        string
	Description string
	Image       string

	// PublicBaseURL is the HTTPS base used in the resource fields.
	PublicBaseURL string
}

// NewDiscoveryHandler returns the handler for GET /.well-known/x402. The
// document is assembled from the policy registry on every request; it lists
// every registered route and is cacheable for five minutes.
func NewDiscoveryHandler(cfg DiscoveryConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		policies := cfg.Registry.List()
		accepts := make([]gateway.PaymentAccept, 0, len(policies))
		for _, pol := range policies {
			accept := pol.Accept(cfg.PublicBaseURL)

			// Discovery entries use the short token form even though the
			// 402 offer carries the full chain identifier.
			accept.Network = gateway.ShortNetworkName(accept.Network)

			if accept.OutputSchema == nil {
				accept.OutputSchema = fallbackSchema(pol.Method)
			}
			accepts = append(accepts, accept)
		}

		doc := gateway.DiscoveryDocument{
			X402Version: gateway.X402Version,
			Name:        cfg.Name,
			Description: cfg.Description,
			Image:       cfg.Image,
			URL:         cfg.PublicBaseURL,
			Accepts:     accepts,
		}

		w.Header().Set("Cache-Control", "public, max-age=300")
		writeJSON(w, http.StatusOK, doc)
	}
}

// fallbackSchema is synthesized for policies without an explicit schema.
func fallbackSchema(method string) *gateway.OutputSchema {
	return &gateway.OutputSchema{
		Input: gateway.InputSchema{
			Type:   "http",
			Method: method,
		},
		Output: map[string]gateway.FieldDef{
			"data": {Type: "object"},
		},
	}
}
