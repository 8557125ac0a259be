package auth

import "golang.org/x/crypto/bcrypt"

// DefaultBcryptCost matches the work factor the service has always used.
const DefaultBcryptCost = 12

// HashPassword returns the bcrypt hash of password at the given cost.
func HashPassword(password string, cost int) (string, error) {
	if cost <= 0 {
		cost = DefaultBcryptCost
	}
	h, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

// VerifyPassword reports whether password matches hash. A malformed stored
// hash reads as a mismatch rather than leaking detail to the caller.
func VerifyPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
