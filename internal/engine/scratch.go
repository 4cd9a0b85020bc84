package engine

import (
	"crypto/rand"
	"encoding/hex"
)

// randomSuffix generates the 8-hex-character discriminator the output
// filename grammar requires (`^{engine}-{label}-{8hex}\.(wav|mp3|m4b)$`).
func randomSuffix() string {
	var b [4]byte
	if _, err := rand.Read(b[:]); err != nil {
		// crypto/rand.Read on the standard reader does not fail in
		// practice; a fixed fallback keeps the filename well-formed
		// rather than propagating an error from a cosmetic discriminator.
		return "00000000"
	}
	return hex.EncodeToString(b[:])
}
