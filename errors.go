package gateway

import "errors"

// Standard gateway error definitions

var (
	// ErrMalformedHeader indicates the payment-signature header is not valid
	// base64-encoded JSON.
	ErrMalformedHeader = errors.New("payment-signature header is not valid base64-encoded JSON")

	// ErrUnsupportedVersion indicates an unsupported x402 protocol version.
	ErrUnsupportedVersion = errors.New("unsupported x402Version")

	// ErrMissingFields indicates required payment payload fields are empty.
	ErrMissingFields = errors.New("missing required payment fields")

	// ErrOfferMismatch indicates the payload does not match the route's offer.
	ErrOfferMismatch = errors.New("payment does not match offer")

	// ErrInvalidAmount indicates the payment amount is not a decimal integer.
	ErrInvalidAmount = errors.New("invalid payment amount")

	// ErrInsufficientAmount indicates the payment is below the route minimum.
	ErrInsufficientAmount = errors.New("insufficient payment amount")

	// ErrReplayDetected indicates the payment nonce was already consumed.
	ErrReplayDetected = errors.New("replay detected")

	// ErrVerificationFailed indicates the facilitator rejected the signature.
	ErrVerificationFailed = errors.New("payment signature verification failed")

	// ErrFacilitatorUnavailable indicates the facilitator could not be reached
	// or returned a non-2xx response.
	ErrFacilitatorUnavailable = errors.New("facilitator unavailable")

	// ErrUpstreamUnavailable indicates the proxied upstream request failed.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
)
