package cryptox

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// SecretBytes is the amount of entropy in a generated signing secret. Encoded
// it is 43 characters, enough for any HMAC key length check.
const SecretBytes = 32

// NewSigningSecret returns a random HMAC secret in the same base64url form an
// operator would put in JWT_SECRET.
func NewSigningSecret() (string, error) {
	return randomString(SecretBytes)
}

func randomString(n int) (string, error) {
	if n <= 0 {
		return "", fmt.Errorf("cryptox: random length must be positive, got %d", n)
	}
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("cryptox: read random bytes: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
