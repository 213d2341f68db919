package http

import (
	"net/http"
	"time"

	"github.com/stacksx402/gateway"
)

// EchoHandler serves the gateway's local paid demo route. It echoes the msg
// query parameter with a timestamp, wrapped in the gateway envelope with the
// receipt minted by the payment gate.
func EchoHandler(w http.ResponseWriter, r *http.Request) {
	data := map[string]string{
		"echo": r.URL.Query().Get("msg"),
		"ts":   time.Now().UTC().Format(time.RFC3339),
	}
	receipt, _ := ReceiptFrom(r.Context())
	writeJSON(w, http.StatusOK, gateway.Envelope{
		Success: true,
		Data:    data,
		Receipt: receipt,
	})
}

// HealthHandler is the unpriced liveness endpoint.
func HealthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
