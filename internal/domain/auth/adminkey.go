// Package auth verifies the shared admin secret.
package auth

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"strings"

	"github.com/go-faster/errors"
)

// ErrUnauthorized is returned for a missing or wrong admin key.
var ErrUnauthorized = errors.New("unauthorized")

// AdminKey checks presented keys against the configured secret. Both sides
// are reduced to an HMAC under a per-process random key and compared in
// constant time.
type AdminKey struct {
	mac    []byte
	digest []byte
}

// NewAdminKey returns a checker for secret. Blank secrets are rejected.
func NewAdminKey(secret string) (*AdminKey, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, errors.New("admin key must not be empty")
	}
	mac := make([]byte, 32)
	if _, err := rand.Read(mac); err != nil {
		return nil, errors.Wrap(err, "generate hmac key")
	}
	k := &AdminKey{mac: mac}
	k.digest = k.sum(secret)
	return k, nil
}

// Check returns ErrUnauthorized unless presented equals the secret.
func (k *AdminKey) Check(presented string) error {
	if presented == "" {
		return ErrUnauthorized
	}
	if !hmac.Equal(k.sum(presented), k.digest) {
		return ErrUnauthorized
	}
	return nil
}

func (k *AdminKey) sum(s string) []byte {
	h := hmac.New(sha256.New, k.mac)
	h.Write([]byte(s))
	return h.Sum(nil)
}
