package gateway

import (
	"strings"
	"testing"
)

func envLookup(vars map[string]string) func(string) string {
	return func(name string) string { return vars[name] }
}

func TestLoadConfig_MockDefaults(t *testing.T) {
	cfg, err := LoadConfigFrom(envLookup(map[string]string{
		"MOCK_PAYMENTS": "true",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Network != "stacks:2147483648" {
		t.Errorf("unexpected default network: %s", cfg.Network)
	}
	if cfg.FacilitatorURL != "https://facilitator.stacksx402.com" {
		t.Errorf("unexpected default facilitator: %s", cfg.FacilitatorURL)
	}
	if cfg.Port != 3000 {
		t.Errorf("unexpected default port: %d", cfg.Port)
	}
	if cfg.UpstreamURL != "http://localhost:4000" {
		t.Errorf("unexpected default upstream: %s", cfg.UpstreamURL)
	}
	if cfg.BaseURL != "http://localhost:3000" {
		t.Errorf("unexpected default base URL: %s", cfg.BaseURL)
	}
	if cfg.PublicBaseURL != cfg.BaseURL {
		t.Errorf("expected public base URL to default to base URL, got %s", cfg.PublicBaseURL)
	}
	if !cfg.MockPayments {
		t.Error("expected mock payments enabled")
	}
}

func TestLoadConfig_MockFlagVariants(t *testing.T) {
	for _, value := range []string{"true", "1"} {
		cfg, err := LoadConfigFrom(envLookup(map[string]string{"MOCK_PAYMENTS": value}))
		if err != nil {
			t.Fatalf("unexpected error for %q: %v", value, err)
		}
		if !cfg.MockPayments {
			t.Errorf("expected MOCK_PAYMENTS=%q to enable mock mode", value)
		}
	}

	// Unrecognized values fall back to live mode, which then demands PAY_TO.
	if _, err := LoadConfigFrom(envLookup(map[string]string{"MOCK_PAYMENTS": "yes"})); err == nil {
		t.Error("expected MOCK_PAYMENTS=yes to be treated as live mode")
	}
}

func TestLoadConfig_LiveModeRequiresPayTo(t *testing.T) {
	_, err := LoadConfigFrom(envLookup(map[string]string{
		"AMOUNT_MICROSTX": "100000",
	}))
	if err == nil {
		t.Fatal("expected error for missing PAY_TO")
	}
	if !strings.Contains(err.Error(), "PAY_TO") {
		t.Errorf("expected error naming PAY_TO, got %q", err)
	}
}

func TestLoadConfig_LiveModeRequiresAmount(t *testing.T) {
	_, err := LoadConfigFrom(envLookup(map[string]string{
		"PAY_TO": "ST1PQHQKV0RJXZFY1DGX8MNSNYVE3VGZJSRTPGZGM",
	}))
	if err == nil {
		t.Fatal("expected error for missing AMOUNT_MICROSTX")
	}
	if !strings.Contains(err.Error(), "AMOUNT_MICROSTX") {
		t.Errorf("expected error naming AMOUNT_MICROSTX, got %q", err)
	}
}

func TestLoadConfig_LiveModeComplete(t *testing.T) {
	cfg, err := LoadConfigFrom(envLookup(map[string]string{
		"PAY_TO":          "ST1PQHQKV0RJXZFY1DGX8MNSNYVE3VGZJSRTPGZGM",
		"AMOUNT_MICROSTX": "100000",
		"NETWORK":         "stacks:1",
		"PORT":            "8080",
		"BASE_URL":        "https://api.example.com",
		"PUBLIC_BASE_URL": "https://api.example.com",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Network != "stacks:1" || cfg.Port != 8080 {
		t.Errorf("overrides not applied: %+v", cfg)
	}
}

func TestLoadConfig_InvalidPort(t *testing.T) {
	for _, port := range []string{"abc", "-1", "0", "70000"} {
		_, err := LoadConfigFrom(envLookup(map[string]string{
			"MOCK_PAYMENTS": "true",
			"PORT":          port,
		}))
		if err == nil {
			t.Errorf("expected error for PORT=%q", port)
		}
	}
}
