// Package gateway defines the x402 v2 wire types and protocol constants
// shared by the payment middleware pipeline, the facilitator client and the
// discovery generator.
package gateway

// X402Version is the x402 protocol version this gateway speaks.
const X402Version = 2

// x402 protocol headers. Matching on input is case-insensitive; the gateway
// always emits the lowercase form.
const (
	// HeaderPaymentRequired carries base64(JSON PaymentRequirements) on a 402.
	HeaderPaymentRequired = "payment-required"

	// HeaderPaymentSignature carries base64(JSON PaymentPayload) from the client.
	HeaderPaymentSignature = "payment-signature"

	// HeaderPaymentResponse carries base64(JSON PaymentReceipt) on a paid 200.
	HeaderPaymentResponse = "payment-response"

	// HeaderIdempotencyKey carries the client's opaque idempotency token.
	HeaderIdempotencyKey = "idempotency-key"
)

// FieldDef defines the schema for a single field in the request or response. (https://www.x402scan.com)
type FieldDef struct {
	Type        string              `json:"type,omitempty"`
	Required    bool                `json:"required,omitempty"`
	Description string              `json:"description,omitempty"`
	Enum        []string            `json:"enum,omitempty"`
	Properties  map[string]FieldDef `json:"properties,omitempty"`
}

// InputSchema defines the expected structure of the client request. (https://www.x402scan.com)
type InputSchema struct {
	Type        string              `json:"type"`
	Method      string              `json:"method"`
	BodyType    string              `json:"bodyType,omitempty"`
	QueryParams map[string]FieldDef `json:"queryParams,omitempty"`
	BodyFields  map[string]FieldDef `json:"bodyFields,omitempty"`
}

// OutputSchema defines the expected structure of the server response. (https://www.x402scan.com)
type OutputSchema struct {
	Input  InputSchema         `json:"input"`
	Output map[string]FieldDef `json:"output,omitempty"`
}

// PaymentAccept is a single payment option advertised in a 402 response.
type PaymentAccept struct {
	// Scheme is the payment scheme identifier (e.g., "exact").
	Scheme string `json:"scheme"`

	// Network is the CAIP-2 style chain identifier (e.g., "stacks:2147483648").
	Network string `json:"network"`

	// MaxAmountRequired is the minimum payment in atomic units as a decimal
	// integer string. Amounts may exceed 64-bit precision.
	MaxAmountRequired string `json:"maxAmountRequired"`

	// Asset is the asset symbol (e.g., "STX").
	Asset string `json:"asset"`

	// PayTo is the recipient address for the payment.
	PayTo string `json:"payTo"`

	// Resource is the absolute URL of the protected resource.
	Resource string `json:"resource"`

	// Description is a human-readable payment description.
	Description string `json:"description"`

	// MimeType is the content type of the protected resource.
	MimeType string `json:"mimeType"`

	// MaxTimeoutSeconds bounds how long the gateway waits for settlement.
	MaxTimeoutSeconds int `json:"maxTimeoutSeconds"`

	// Extra contains scheme-specific additional data forwarded to the facilitator.
	Extra map[string]interface{} `json:"extra,omitempty"`

	// OutputSchema describes the resource's I/O for discovery. (https://www.x402scan.com)
	OutputSchema *OutputSchema `json:"outputSchema,omitempty"`
}

// PaymentRequirements is the complete 402 response body.
type PaymentRequirements struct {
	// X402Version is the protocol version (currently 2).
	X402Version int `json:"x402Version"`

	// Accepts is a non-empty list of payment options the gateway accepts.
	Accepts []PaymentAccept `json:"accepts"`
}

// PaymentPayload is the decoded contents of the payment-signature header.
type PaymentPayload struct {
	// X402Version is the protocol version (must be 2).
	X402Version int `json:"x402Version"`

	// Scheme is the payment scheme identifier.
	Scheme string `json:"scheme"`

	// Network is the chain identifier the payment targets.
	Network string `json:"network"`

	// Asset is the asset symbol being paid.
	Asset string `json:"asset"`

	// PayTo is the recipient address.
	PayTo string `json:"payTo"`

	// Amount is the payment amount in atomic units as a decimal integer string.
	Amount string `json:"amount"`

	// Nonce is the opaque per-payment uniqueness token.
	Nonce string `json:"nonce"`

	// Signature is the opaque signed authorization, verified by the facilitator.
	Signature string `json:"signature"`

	// Resource is the absolute URL of the resource being paid for.
	Resource string `json:"resource"`

	// Memo is optional caller-supplied context. A nonce may be reused with a
	// distinct memo deliberately.
	Memo string `json:"memo,omitempty"`
}

// MissingFields returns the JSON names of required payload fields that are
// empty. X402Version is validated separately.
func (p PaymentPayload) MissingFields() []string {
	var missing []string
	required := []struct {
		name  string
		value string
	}{
		{"scheme", p.Scheme},
		{"network", p.Network},
		{"asset", p.Asset},
		{"payTo", p.PayTo},
		{"amount", p.Amount},
		{"nonce", p.Nonce},
		{"signature", p.Signature},
		{"resource", p.Resource},
	}
	for _, f := range required {
		if f.value == "" {
			missing = append(missing, f.name)
		}
	}
	return missing
}

// PaymentReceipt is what the gateway emits on a paid success. It is encoded
// into the payment-response header and, for JSON responses, embedded in the
// response envelope.
type PaymentReceipt struct {
	// TxHash is the settlement transaction hash, when known.
	TxHash string `json:"txHash,omitempty"`

	// Network is the chain the payment settled on.
	Network string `json:"network"`

	// Payer is the address that made the payment.
	Payer string `json:"payer"`

	// Amount is the paid amount in atomic units.
	Amount string `json:"amount"`

	// Timestamp is the settlement time in Unix milliseconds.
	Timestamp int64 `json:"timestamp"`

	// Settled reports whether the payment was settled on chain.
	Settled bool `json:"settled"`
}

// Envelope is the gateway response wrapper applied to JSON responses when a
// receipt exists.
type Envelope struct {
	Success bool            `json:"success"`
	Data    interface{}     `json:"data"`
	Receipt *PaymentReceipt `json:"receipt,omitempty"`
}

// ErrorResponse is the client-facing error body. It carries only the short
// message, never internal detail.
type ErrorResponse struct {
	Error string `json:"error"`
}

// DiscoveryDocument is the machine-readable service description served at
// /.well-known/x402.
type DiscoveryDocument struct {
	X402Version int             `json:"x402Version"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Image       string          `json:"image,omitempty"`
	URL         string          `json:"url"`
	Accepts     []PaymentAccept `json:"accepts"`
}
