package policy

import (
	"fmt"
	"strings"
)

// DefaultProxyPrefix is the reserved path prefix for proxied routes.
const DefaultProxyPrefix = "/proxy/"

// Registry is the route-keyed policy catalogue. Register all policies at
// startup; the registry is read-only afterwards and is not synchronized for
// concurrent registration.
type Registry struct {
	policies    map[string]*Policy
	order       []*Policy
	proxyPrefix string
}

// NewRegistry creates an empty registry using the given proxy prefix, or
// DefaultProxyPrefix when empty.
func NewRegistry(proxyPrefix string) *Registry {
	if proxyPrefix == "" {
		proxyPrefix = DefaultProxyPrefix
	}
	return &Registry{
		policies:    make(map[string]*Policy),
		proxyPrefix: proxyPrefix,
	}
}

func routeKey(method, path string) string {
	return strings.ToUpper(method) + " " + path
}

// Register adds a policy. At most one policy may exist per (path, method).
func (r *Registry) Register(p *Policy) error {
	key := routeKey(p.Method, p.Path)
	if _, exists := r.policies[key]; exists {
		return fmt.Errorf("duplicate policy for %s %s", p.Method, p.Path)
	}
	r.policies[key] = p
	r.order = append(r.order, p)
	return nil
}

// MustRegister is Register that panics on error, for startup wiring.
func (r *Registry) MustRegister(p *Policy) {
	if err := r.Register(p); err != nil {
		panic(err)
	}
}

// Match returns the policy for an exact (path, method) pair. Methods are
// compared case-insensitively; paths literally.
func (r *Registry) Match(method, path string) (*Policy, bool) {
	p, ok := r.policies[routeKey(method, path)]
	return p, ok
}

// List returns all registered policies in registration order.
func (r *Registry) List() []*Policy {
	out := make([]*Policy, len(r.order))
	copy(out, r.order)
	return out
}

// InProxySubtree reports whether the path belongs to the proxied subtree.
func (r *Registry) InProxySubtree(path string) bool {
	return strings.HasPrefix(path, r.proxyPrefix)
}

// ProxyPrefix returns the reserved proxy path prefix.
func (r *Registry) ProxyPrefix() string {
	return r.proxyPrefix
}
