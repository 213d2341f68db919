package http

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/stacksx402/gateway"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Ignore encoding errors - the status line is already on the wire.
	_ = json.NewEncoder(w).Encode(v)
}

// writeError sends the client-facing error body. Only the short message is
// emitted, never internal detail.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, gateway.ErrorResponse{Error: message})
}

// isJSONContentType matches application/json and suffixed variants like
// application/problem+json, with or without media type parameters.
func isJSONContentType(contentType string) bool {
	mediaType := strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0])
	return mediaType == "application/json" || strings.HasSuffix(mediaType, "+json")
}
