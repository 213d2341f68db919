// Package encoding provides utilities for encoding and decoding x402 payment
// data. It handles the base64(JSON) framing used by the payment-required,
// payment-signature and payment-response headers.
package encoding

import (
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/stacksx402/gateway"
)

// EncodePayload converts a PaymentPayload to a base64-encoded JSON string
// suitable for the payment-signature header.
func EncodePayload(payload gateway.PaymentPayload) (string, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal payment payload: %w", err)
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

// DecodePayload converts a base64-encoded JSON string to a PaymentPayload.
//
// Returns an error if base64 decoding or JSON unmarshaling fails.
func DecodePayload(encoded string) (gateway.PaymentPayload, error) {
	var payload gateway.PaymentPayload

	decoded, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return payload, fmt.Errorf("failed to decode base64: %w", err)
	}

	if err := json.Unmarshal(decoded, &payload); err != nil {
		return payload, fmt.Errorf("failed to unmarshal payment payload: %w", err)
	}

	return payload, nil
}

// EncodeRequirements converts PaymentRequirements to base64-encoded JSON
// suitable for the payment-required header.
func EncodeRequirements(requirements gateway.PaymentRequirements) (string, error) {
	data, err := json.Marshal(requirements)
	if err != nil {
		return "", fmt.Errorf("failed to marshal payment requirements: %w", err)
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

// DecodeRequirements converts base64-encoded JSON to PaymentRequirements.
func DecodeRequirements(encoded string) (gateway.PaymentRequirements, error) {
	var requirements gateway.PaymentRequirements

	decoded, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return requirements, fmt.Errorf("failed to decode base64: %w", err)
	}

	if err := json.Unmarshal(decoded, &requirements); err != nil {
		return requirements, fmt.Errorf("failed to unmarshal payment requirements: %w", err)
	}

	return requirements, nil
}

// EncodeReceipt converts a PaymentReceipt to base64-encoded JSON suitable for
// the payment-response header.
func EncodeReceipt(receipt gateway.PaymentReceipt) (string, error) {
	data, err := json.Marshal(receipt)
	if err != nil {
		return "", fmt.Errorf("failed to marshal payment receipt: %w", err)
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

// DecodeReceipt converts a base64-encoded JSON string to a PaymentReceipt.
func DecodeReceipt(encoded string) (gateway.PaymentReceipt, error) {
	var receipt gateway.PaymentReceipt

	decoded, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return receipt, fmt.Errorf("failed to decode base64: %w", err)
	}

	if err := json.Unmarshal(decoded, &receipt); err != nil {
		return receipt, fmt.Errorf("failed to unmarshal payment receipt: %w", err)
	}

	return receipt, nil
}
