package gateway

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds the gateway's environment-driven configuration. All values
// are resolved once at startup.
type Config struct {
	// Network is the chain identifier used in 402 offers.
	Network string

	// FacilitatorURL is the base URL for the verify/settle service.
	FacilitatorURL string

	// PayTo is the payment recipient address. Required in live mode.
	PayTo string

	// Amount is the default route amount in atomic units. Required in live mode.
	Amount string

	// MockPayments bypasses the facilitator and synthesizes receipts.
	MockPayments bool

	// Port is the listen port.
	Port int

	// UpstreamURL is the proxy target base URL.
	UpstreamURL string

	// BaseURL is the canonical base used in resource URLs of 402 offers.
	BaseURL string

	// PublicBaseURL is the HTTPS base used in discovery resource fields.
	PublicBaseURL string
}

// Defaults for optional configuration.
const (
	DefaultFacilitatorURL = "https://facilitator.stacksx402.com"
	DefaultPort           = 3000
	DefaultUpstreamURL    = "http://localhost:4000"
)

// LoadConfig reads configuration from the process environment.
func LoadConfig() (*Config, error) {
	return LoadConfigFrom(os.Getenv)
}

// LoadConfigFrom reads configuration through the given lookup function.
// Missing required variables produce an error naming the variable.
func LoadConfigFrom(getenv func(string) string) (*Config, error) {
	cfg := &Config{
		Network:        getenv("NETWORK"),
		FacilitatorURL: getenv("FACILITATOR_URL"),
		PayTo:          getenv("PAY_TO"),
		Amount:         getenv("AMOUNT_MICROSTX"),
		UpstreamURL:    getenv("UPSTREAM_URL"),
		BaseURL:        getenv("BASE_URL"),
		PublicBaseURL:  getenv("PUBLIC_BASE_URL"),
		Port:           DefaultPort,
	}

	if cfg.Network == "" {
		cfg.Network = DefaultNetwork
	}
	if cfg.FacilitatorURL == "" {
		cfg.FacilitatorURL = DefaultFacilitatorURL
	}
	if cfg.UpstreamURL == "" {
		cfg.UpstreamURL = DefaultUpstreamURL
	}

	switch getenv("MOCK_PAYMENTS") {
	case "true", "1":
		cfg.MockPayments = true
	}

	if port := getenv("PORT"); port != "" {
		p, err := strconv.Atoi(port)
		if err != nil || p <= 0 || p > 65535 {
			return nil, fmt.Errorf("invalid PORT value: %q", port)
		}
		cfg.Port = p
	}

	if cfg.BaseURL == "" {
		cfg.BaseURL = fmt.Sprintf("http://localhost:%d", cfg.Port)
	}
	if cfg.PublicBaseURL == "" {
		cfg.PublicBaseURL = cfg.BaseURL
	}

	// Live mode settles real payments, so the recipient and price must be
	// configured explicitly.
	if !cfg.MockPayments {
		if cfg.PayTo == "" {
			return nil, fmt.Errorf("missing required environment variable PAY_TO")
		}
		if cfg.Amount == "" {
			return nil, fmt.Errorf("missing required environment variable AMOUNT_MICROSTX")
		}
	}

	return cfg, nil
}
