package payment

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"strings"
	"testing"
)

func digest(secret string, body []byte) string {
	mac := hmac.New(sha512.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifySignature(t *testing.T) {
	secret := "sk_test_secret"
	body := []byte(`{"event":"charge.success","data":{"reference":"VOYA-1-ABCDEFG"}}`)

	if !VerifySignature(secret, body, digest(secret, body)) {
		t.Fatal("valid signature rejected")
	}
	if !VerifySignature(secret, body, strings.ToUpper(digest(secret, body))) {
		t.Fatal("uppercase hex digest rejected")
	}
	if VerifySignature("other_secret", body, digest(secret, body)) {
		t.Fatal("signature accepted with wrong secret")
	}
	if VerifySignature(secret, body, "not-hex") {
		t.Fatal("non-hex signature accepted")
	}
	if VerifySignature(secret, body, "") {
		t.Fatal("empty signature accepted")
	}
}

func TestVerifySignature_ByteSensitive(t *testing.T) {
	secret := "sk_test_secret"
	body := []byte(`{"event":"charge.success","data":{"amount":25000}}`)
	sig := digest(secret, body)

	mutated := append([]byte(nil), body...)
	mutated[len(mutated)-2] = '1'
	if VerifySignature(secret, mutated, sig) {
		t.Fatal("signature accepted for mutated body")
	}

	// whitespace-only differences change the digest too
	if VerifySignature(secret, append(body, '\n'), sig) {
		t.Fatal("signature accepted for body with trailing newline")
	}
}
