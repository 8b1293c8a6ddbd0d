// Package cryptox implements one-way password hashing for stored credentials.
// It wraps bcrypt: each call salts the digest itself, so two hashes of the
// same plaintext are never equal while both still verify.
package cryptox

import (
	"golang.org/x/crypto/bcrypt"
)

// BcryptCost is the fixed work factor for password hashing. It is a server
// constant rather than a per-call parameter so that login latency and
// brute-force resistance stay predictable.
const BcryptCost = 10

// HashPassword returns a salted bcrypt digest of the plaintext password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether the plaintext matches the stored digest.
// Malformed digests never cause an error, only a false result, so the caller
// cannot distinguish a corrupt record from a wrong password.
func CheckPassword(password string, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
