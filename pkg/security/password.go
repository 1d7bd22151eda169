package security

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrHashingFailed = errors.New("passkey hashing failed")
	ErrMismatch      = errors.New("passkey does not match")
	MinPasskeyLen    = 6
)

// PasswordHasher provides interface for passkey operations
type PasswordHasher interface {
	Hash(passkey string) (string, error)
	Compare(hashedPasskey, passkey string) error
}

type bcryptHasher struct {
	cost int
}

// NewBcryptHasher creates a new hasher using bcrypt
func NewBcryptHasher(cost int) PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &bcryptHasher{cost: cost}
}

func (b *bcryptHasher) Hash(passkey string) (string, error) {
	if len(passkey) < MinPasskeyLen {
		return "", errors.New("passkey too short")
	}

	bytes, err := bcrypt.GenerateFromPassword([]byte(passkey), b.cost)
	if err != nil {
		return "", ErrHashingFailed
	}
	return string(bytes), nil
}

func (b *bcryptHasher) Compare(hashedPasskey, passkey string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hashedPasskey), []byte(passkey)); err != nil {
		return ErrMismatch
	}
	return nil
}
