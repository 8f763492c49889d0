// Package token generates opaque session tokens.
package token

import (
	"crypto/rand"
	"encoding/base64"
)

const tokenBytes = 32

// New returns a fresh URL-safe random session token.
func New() (string, error) {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
