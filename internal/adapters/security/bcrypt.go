package security

import (
	"golang.org/x/crypto/bcrypt"
)

// BcryptHasher hashes voter and admin passwords with bcrypt. Only local
// accounts ever hold a hash; federated accounts never pass through here.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher builds a hasher at the given cost, falling back to the
// library default when the configured value is unusable.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost <= 0 {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

func (h *BcryptHasher) Hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func (h *BcryptHasher) Compare(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}
