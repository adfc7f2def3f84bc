// Package calcom decodes Cal.com booking webhooks.
package calcom

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strings"
)

// SignatureHeaders are checked in order; the first non-empty one is used.
var SignatureHeaders = []string{"X-Cal-Signature-256", "X-Cal-Signature", "X-Signature"}

// SignatureFromHeaders returns the first signature header present.
func SignatureFromHeaders(h http.Header) string {
	for _, name := range SignatureHeaders {
		if v := strings.TrimSpace(h.Get(name)); v != "" {
			return v
		}
	}
	return ""
}

// VerifySignature checks the hex HMAC-SHA256 of body. A "sha256=" prefix on
// the received value is accepted.
func VerifySignature(body []byte, received, secret string) bool {
	received = strings.TrimPrefix(strings.TrimSpace(received), "sha256=")
	if received == "" {
		return false
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(received))
}
