package payment

import (
	"crypto/rand"
	"fmt"
	"time"
)

const (
	referencePrefix = "VOYA"
	referenceSuffix = 7
)

const base36Alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// GenerateReference produces a transaction reference of the form
// VOYA-<unix millis>-<7 random base36 chars>. The timestamp keeps references
// roughly sortable, the random suffix disambiguates same-millisecond calls.
func GenerateReference() string {
	return fmt.Sprintf("%s-%d-%s", referencePrefix, time.Now().UnixMilli(), randomBase36(referenceSuffix))
}

func randomBase36(n int) string {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand never fails on supported platforms
		panic(err)
	}
	out := make([]byte, n)
	for i, b := range buf {
		out[i] = base36Alphabet[int(b)%len(base36Alphabet)]
	}
	return string(out)
}
