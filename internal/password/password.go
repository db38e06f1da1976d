// Package password wraps bcrypt hashing of user secrets. Plaintext passwords
// exist only as arguments here; everything stored or returned is a digest.
package password

import "golang.org/x/crypto/bcrypt"

type Hasher struct {
	cost int
}

// NewHasher returns a Hasher with the given bcrypt cost. A cost outside the
// valid bcrypt range falls back to bcrypt.DefaultCost.
func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Hasher{cost: cost}
}

func (h *Hasher) Hash(plaintext string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Verify reports whether plaintext matches the stored digest. A malformed
// digest is a verification failure, not an error.
func Verify(plaintext, hashed string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plaintext)) == nil
}
