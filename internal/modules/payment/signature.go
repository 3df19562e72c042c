package payment

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"strings"
)

// VerifySignature checks the webhook signature header against the
// HMAC-SHA512 hex digest of the exact raw request body. The body must not be
// re-serialized before hashing, any byte difference invalidates the digest.
func VerifySignature(secret string, rawBody []byte, signature string) bool {
	sig, err := hex.DecodeString(strings.TrimSpace(signature))
	if err != nil {
		return false
	}
	mac := hmac.New(sha512.New, []byte(secret))
	mac.Write(rawBody)
	return hmac.Equal(mac.Sum(nil), sig)
}
