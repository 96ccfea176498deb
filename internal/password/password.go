// Package password wraps the one-way credential hashing primitive consumed
// by the identity service.
package password

import "golang.org/x/crypto/bcrypt"

// Hasher hashes and verifies plaintext credentials. Both operations accept
// any input, including the empty string; neither is ever short-circuited.
type Hasher interface {
	Hash(plaintext string) ([]byte, error)
	Verify(plaintext string, hash []byte) bool
}

// BcryptHasher implements Hasher with bcrypt.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher builds a bcrypt hasher. Costs outside the valid bcrypt
// range fall back to the library default.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

// Hash produces a salted one-way digest of the plaintext.
func (h *BcryptHasher) Hash(plaintext string) ([]byte, error) {
	return bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
}

// Verify reports whether the plaintext matches the stored digest using
// bcrypt's constant-time comparison.
func (h *BcryptHasher) Verify(plaintext string, hash []byte) bool {
	return bcrypt.CompareHashAndPassword(hash, []byte(plaintext)) == nil
}
