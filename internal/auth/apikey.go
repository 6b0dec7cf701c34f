// Package auth provides admin API key generation and hashing shared by the
// server and the CLI admin commands.
package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"net/http"
	"strings"
)

// GenerateKey returns a cryptographically random, URL-safe API key string.
func GenerateKey() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// HashKey returns a deterministic SHA-256 hex digest of key + pepper.
// Only the hash is stored; the plaintext key is shown once at creation.
func HashKey(key, pepper string) string {
	sum := sha256.Sum256([]byte(key + ":" + pepper))
	return hex.EncodeToString(sum[:])
}

// BearerToken extracts the Bearer credential from an Authorization header,
// returning "" when absent or malformed.
func BearerToken(r *http.Request) string {
	authz := strings.TrimSpace(r.Header.Get("Authorization"))
	const prefix = "Bearer "
	if !strings.HasPrefix(authz, prefix) {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(authz, prefix))
}
