package utils

import (
	"crypto/sha256"
	"encoding/base64"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

// compare is swapped in tests to count bcrypt comparisons
var compare = bcrypt.CompareHashAndPassword

// dummyHash is compared against when there is no real hash, so a missing
// account costs the same bcrypt work as a wrong password.
var dummyHash = sync.OnceValue(func() []byte {
	hashed, _ := bcrypt.GenerateFromPassword(digest("no account"), bcrypt.DefaultCost)
	return hashed
})

// digest pre-hashes the password: bcrypt rejects input over 72 bytes.
func digest(password string) []byte {
	sum := sha256.Sum256([]byte(password))
	return []byte(base64.StdEncoding.EncodeToString(sum[:]))
}

// HashPassword returns the bcrypt hash of password. Any length is accepted.
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword(digest(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// CheckPassword reports whether password matches hash. An empty hash
// (unknown account, or one created through Google sign-in) never matches
// but still pays for a comparison.
func CheckPassword(hash, password string) bool {
	if hash == "" {
		_ = compare(dummyHash(), digest(password))
		return false
	}
	return compare([]byte(hash), digest(password)) == nil
}
