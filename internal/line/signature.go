package line

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
)

// ValidateSignature checks an inbound webhook body against the
// X-Line-Signature header: base64(HMAC-SHA256(channel secret, body)).
// The comparison is constant-time.
func ValidateSignature(channelSecret string, body []byte, signature string) bool {
	if channelSecret == "" || signature == "" {
		return false
	}
	decoded, err := base64.StdEncoding.DecodeString(signature)
	if err != nil {
		return false
	}
	mac := hmac.New(sha256.New, []byte(channelSecret))
	mac.Write(body)
	return hmac.Equal(decoded, mac.Sum(nil))
}

// Sign computes the webhook signature for a body. Used by tests and tooling.
func Sign(channelSecret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(channelSecret))
	mac.Write(body)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}
