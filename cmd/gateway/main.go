// Command gateway runs the x402 reverse-proxy payment gateway: a single HTTP
// server that prices configured routes, enforces the x402 v2 protocol and
// forwards paid requests to the upstream with all payment headers stripped.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/stacksx402/gateway"
	"github.com/stacksx402/gateway/facilitator"
	gatewayhttp "github.com/stacksx402/gateway/http"
	"github.com/stacksx402/gateway/policy"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := gateway.LoadConfig()
	if err != nil {
		logger.Error("configuration error", "error", err)
		os.Exit(1)
	}

	registry, err := buildRegistry(cfg)
	if err != nil {
		logger.Error("route registration failed", "error", err)
		os.Exit(1)
	}

	var fac facilitator.Facilitator
	if !cfg.MockPayments {
		fac = facilitator.NewClient(cfg.FacilitatorURL)
	}

	gw := gatewayhttp.New(gatewayhttp.Options{
		Config:      cfg,
		Registry:    registry,
		Facilitator: fac,
		Name:        "stacksx402 gateway",
		Description: "x402 payment gateway for priced HTTP APIs",
	})
	defer gw.Close()

	gw.Router().Get("/v1/premium/echo", gatewayhttp.EchoHandler)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           gw,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("gateway listening",
			"port", cfg.Port,
			"network", cfg.Network,
			"upstream", cfg.UpstreamURL,
			"mock", cfg.MockPayments)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
}

// buildRegistry registers the demo route set: a local premium echo plus the
// proxied weather and summarize endpoints.
func buildRegistry(cfg *gateway.Config) (*policy.Registry, error) {
	payTo := cfg.PayTo
	if payTo == "" {
		// Mock mode only; live mode requires PAY_TO at load time.
		payTo = "ST1PQHQKV0RJXZFY1DGX8MNSNYVE3VGZJSRTPGZGM"
	}
	amount := cfg.Amount
	if amount == "" {
		amount = "100000"
	}

	registry := policy.NewRegistry(policy.DefaultProxyPrefix)

	echo, err := policy.NewBuilder("/v1/premium/echo").
		Method(http.MethodGet).
		Network(cfg.Network).
		Price(amount, "STX").
		PayTo(payTo).
		Description("Premium echo endpoint").
		Schema(&gateway.OutputSchema{
			Input: gateway.InputSchema{
				Type:   "http",
				Method: http.MethodGet,
				QueryParams: map[string]gateway.FieldDef{
					"msg": {Type: "string", Description: "Message to echo back"},
				},
			},
			Output: map[string]gateway.FieldDef{
				"echo": {Type: "string"},
				"ts":   {Type: "string", Description: "ISO 8601 timestamp"},
			},
		}).
		Build()
	if err != nil {
		return nil, err
	}

	weather, err := policy.NewBuilder("/proxy/api/weather").
		Method(http.MethodGet).
		Network(cfg.Network).
		Price(amount, "STX").
		PayTo(payTo).
		Description("Current weather for a city").
		Build()
	if err != nil {
		return nil, err
	}

	summarize, err := policy.NewBuilder("/proxy/api/summarize").
		Method(http.MethodPost).
		Network(cfg.Network).
		Price(amount, "STX").
		PayTo(payTo).
		Description("Summarize a document").
		Build()
	if err != nil {
		return nil, err
	}

	for _, p := range []*policy.Policy{echo, weather, summarize} {
		if err := registry.Register(p); err != nil {
			return nil, err
		}
	}
	return registry, nil
}
