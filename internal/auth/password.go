// Package auth provides password hashing, token issuance, and caller
// resolution for the API.
package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// ErrEmptySecret indicates an empty password was supplied for hashing.
var ErrEmptySecret = errors.New("secret must not be empty")

// bcryptCost is the fixed work factor for password hashing.
const bcryptCost = bcrypt.DefaultCost

// HashSecret creates a bcrypt hash of the given password.
// The salt is generated per call and embedded in the output, so
// VerifySecret is self-contained.
func HashSecret(secret string) (string, error) {
	if secret == "" {
		return "", ErrEmptySecret
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcryptCost)
	if err != nil {
		return "", err
	}

	return string(hash), nil
}

// VerifySecret checks if the password matches the stored hash.
// Comparison is constant-time. A malformed hash is treated as a
// verification failure, never an error.
func VerifySecret(secret, encodedHash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(encodedHash), []byte(secret)) == nil
}
