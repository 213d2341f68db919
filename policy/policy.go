// Package policy holds the gateway's route pricing catalogue. Policies are
// registered once at startup and are immutable thereafter; the registry's
// match path runs on every request.
package policy

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/stacksx402/gateway"
)

// Policy is the pricing and schema configuration for one paid route.
type Policy struct {
	// Path is the route path, compared literally (no wildcard expansion).
	Path string

	// Method is the HTTP method, stored upper-cased.
	Method string

	// Scheme is the payment scheme identifier.
	Scheme string

	// Network is the chain identifier used in the offer.
	Network string

	// Asset is the asset symbol.
	Asset string

	// Amount is the minimum payment in atomic units as a decimal integer
	// string. May exceed 64-bit precision.
	Amount string

	// PayTo is the recipient address.
	PayTo string

	// Description is the human-readable offer description.
	Description string

	// MimeType is the response content type advertised in the offer.
	MimeType string

	// MaxTimeoutSeconds bounds how long the gateway awaits settlement.
	MaxTimeoutSeconds int

	// Extra is optional metadata forwarded to the facilitator.
	Extra map[string]interface{}

	// Schema is the optional I/O schema surfaced through discovery.
	Schema *gateway.OutputSchema
}

// MinAmount returns the policy minimum as a big integer.
func (p *Policy) MinAmount() *big.Int {
	amount := new(big.Int)
	amount.SetString(p.Amount, 10)
	return amount
}

// Accept renders the policy into the wire form used by the 402 offer. The
// resource URL is built from the given canonical base URL.
func (p *Policy) Accept(baseURL string) gateway.PaymentAccept {
	return gateway.PaymentAccept{
		Scheme:            p.Scheme,
		Network:           p.Network,
		MaxAmountRequired: p.Amount,
		Asset:             p.Asset,
		PayTo:             p.PayTo,
		Resource:          strings.TrimRight(baseURL, "/") + p.Path,
		Description:       p.Description,
		MimeType:          p.MimeType,
		MaxTimeoutSeconds: p.MaxTimeoutSeconds,
		Extra:             p.Extra,
		OutputSchema:      p.Schema,
	}
}

// Requirements renders the full 402 body for this policy.
func (p *Policy) Requirements(baseURL string) gateway.PaymentRequirements {
	return gateway.PaymentRequirements{
		X402Version: gateway.X402Version,
		Accepts:     []gateway.PaymentAccept{p.Accept(baseURL)},
	}
}

// Builder assembles a Policy fluently. Zero-value optional fields receive
// defaults at Build time.
type Builder struct {
	policy Policy
}

// NewBuilder starts a policy for the given route path.
func NewBuilder(path string) *Builder {
	return &Builder{policy: Policy{Path: path}}
}

// Method sets the HTTP method (case-insensitive).
func (b *Builder) Method(method string) *Builder {
	b.policy.Method = strings.ToUpper(method)
	return b
}

// Scheme sets the payment scheme. Defaults to "exact".
func (b *Builder) Scheme(scheme string) *Builder {
	b.policy.Scheme = scheme
	return b
}

// Network sets the chain identifier.
func (b *Builder) Network(network string) *Builder {
	b.policy.Network = network
	return b
}

// Price sets the minimum amount in atomic units and the asset symbol.
func (b *Builder) Price(amount, asset string) *Builder {
	b.policy.Amount = amount
	b.policy.Asset = asset
	return b
}

// PayTo sets the recipient address.
func (b *Builder) PayTo(address string) *Builder {
	b.policy.PayTo = address
	return b
}

// Description sets the human-readable offer description.
func (b *Builder) Description(description string) *Builder {
	b.policy.Description = description
	return b
}

// MimeType sets the advertised response content type. Defaults to
// "application/json".
func (b *Builder) MimeType(mimeType string) *Builder {
	b.policy.MimeType = mimeType
	return b
}

// MaxTimeout sets the settlement timeout in seconds. Defaults to 60.
func (b *Builder) MaxTimeout(seconds int) *Builder {
	b.policy.MaxTimeoutSeconds = seconds
	return b
}

// Extra sets metadata forwarded to the facilitator.
func (b *Builder) Extra(extra map[string]interface{}) *Builder {
	b.policy.Extra = extra
	return b
}

// Schema sets the I/O schema surfaced through discovery.
func (b *Builder) Schema(schema *gateway.OutputSchema) *Builder {
	b.policy.Schema = schema
	return b
}

// Build validates the policy and applies defaults.
func (b *Builder) Build() (*Policy, error) {
	p := b.policy

	if p.Path == "" {
		return nil, fmt.Errorf("policy path is required")
	}
	if p.Method == "" {
		return nil, fmt.Errorf("policy %s: method is required", p.Path)
	}
	if p.Network == "" {
		return nil, fmt.Errorf("policy %s: network is required", p.Path)
	}
	if p.Amount == "" || p.Asset == "" {
		return nil, fmt.Errorf("policy %s: amount and asset are required", p.Path)
	}
	if _, ok := new(big.Int).SetString(p.Amount, 10); !ok {
		return nil, fmt.Errorf("policy %s: amount %q is not a decimal integer", p.Path, p.Amount)
	}
	if p.PayTo == "" {
		return nil, fmt.Errorf("policy %s: payTo is required", p.Path)
	}
	if p.Description == "" {
		return nil, fmt.Errorf("policy %s: description is required", p.Path)
	}

	if p.Scheme == "" {
		p.Scheme = "exact"
	}
	if p.MimeType == "" {
		p.MimeType = "application/json"
	}
	if p.MaxTimeoutSeconds == 0 {
		p.MaxTimeoutSeconds = 60
	}

	return &p, nil
}
