package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// Verify checks a hex-encoded HMAC-SHA256 signature computed over
// "{timestamp}.{payload}". Comparison is constant time; a signature that
// does not decode as hex never matches.
func Verify(payload []byte, signature, timestamp string, secret []byte) bool {
	if len(secret) == 0 || signature == "" || timestamp == "" {
		return false
	}
	provided, err := hex.DecodeString(signature)
	if err != nil {
		return false
	}
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(timestamp))
	mac.Write([]byte("."))
	mac.Write(payload)
	return hmac.Equal(provided, mac.Sum(nil))
}

// Sign produces the hex signature for a payload at a given timestamp.
// Used by tests and by outbound delivery tooling.
func Sign(payload []byte, timestamp string, secret []byte) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(timestamp))
	mac.Write([]byte("."))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}
