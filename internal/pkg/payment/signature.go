package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// VerifyRazorpaySignature checks the HMAC-SHA256 hex digest Razorpay delivers
// in X-Razorpay-Signature against the raw request body and the shared webhook
// secret.
func VerifyRazorpaySignature(payload []byte, signatureHeader, webhookSecret string) bool {
	sig := strings.TrimSpace(signatureHeader)
	secret := strings.TrimSpace(webhookSecret)
	if sig == "" || secret == "" {
		return false
	}

	decodedSig, err := hex.DecodeString(strings.ToLower(sig))
	if err != nil {
		return false
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return hmac.Equal(mac.Sum(nil), decodedSig)
}

// SignatureRequired reports whether verification is enforced for a delivery.
// Razorpay is the only provider with a signing scheme here; when no secret is
// configured or the header is absent, verification is skipped rather than
// rejected.
func SignatureRequired(gateway, webhookSecret, signatureHeader string) bool {
	if gateway != GatewayRazorpay {
		return false
	}
	return strings.TrimSpace(webhookSecret) != "" && strings.TrimSpace(signatureHeader) != ""
}
