package listsvc

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
)

// Hasher derives and checks stored credential hashes.
type Hasher interface {
	Hash(secret string) string
	Verify(secret, hash string) bool
}

// SHA256Hasher stores the hex SHA-256 digest of the secret and compares
// digests in constant time.
type SHA256Hasher struct{}

func (SHA256Hasher) Hash(secret string) string {
	sum := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(sum[:])
}

func (h SHA256Hasher) Verify(secret, hash string) bool {
	if hash == "" {
		return false
	}
	candidate := h.Hash(secret)
	return subtle.ConstantTimeCompare([]byte(candidate), []byte(hash)) == 1
}
