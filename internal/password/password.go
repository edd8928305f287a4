package password

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// cost matches the work factor the service has always used; raising it
// invalidates nothing (bcrypt embeds the cost in the hash) but slows logins.
const cost = 10

// Hash returns a bcrypt hash of plain with a per-call random salt.
func Hash(plain string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(h), nil
}

// Verify reports whether plain matches hash. Any failure, including a
// malformed hash, is treated as a mismatch.
func Verify(plain, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
