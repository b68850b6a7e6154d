package service

import (
	"crypto/subtle"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// BcryptCost is the cost factor for bcrypt hashing
const BcryptCost = 10

// PasswordHasher turns a password into its stored form and checks a
// candidate password against it.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(stored, password string) bool
}

// NewPasswordHasher returns the hasher for the configured mode:
// "bcrypt" or "plaintext".
func NewPasswordHasher(mode string) (PasswordHasher, error) {
	switch mode {
	case "", "bcrypt":
		return BcryptHasher{Cost: BcryptCost}, nil
	case "plaintext":
		return PlaintextHasher{}, nil
	default:
		return nil, fmt.Errorf("unsupported password hashing mode %q", mode)
	}
}

// BcryptHasher stores salted bcrypt hashes.
type BcryptHasher struct {
	Cost int
}

func (h BcryptHasher) Hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), h.Cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func (h BcryptHasher) Verify(stored, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(stored), []byte(password)) == nil
}

// PlaintextHasher stores passwords unchanged. It exists for byte-for-byte
// compatibility with databases written by the legacy service.
type PlaintextHasher struct{}

func (PlaintextHasher) Hash(password string) (string, error) {
	return password, nil
}

func (PlaintextHasher) Verify(stored, password string) bool {
	return subtle.ConstantTimeCompare([]byte(stored), []byte(password)) == 1
}
