// Package refnum generates the human-facing reference numbers assigned to
// policies and claims: a type prefix followed by ten decimal digits.
package refnum

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
)

const (
	// PolicyPrefix starts every policy number.
	PolicyPrefix = "POL"
	// ClaimPrefix starts every claim number.
	ClaimPrefix = "CLM"

	digits      = 10
	maxAttempts = 10
)

var digitCeiling = new(big.Int).Exp(big.NewInt(10), big.NewInt(digits), nil)

// Generate returns prefix followed by ten random decimal digits.
func Generate(prefix string) (string, error) {
	n, err := rand.Int(rand.Reader, digitCeiling)
	if err != nil {
		return "", fmt.Errorf("generate reference number: %w", err)
	}
	return fmt.Sprintf("%s%0*d", prefix, digits, n), nil
}

// Unique generates a number not currently present per the exists check,
// retrying on collision. Collisions are practically negligible, but the
// contract is retry-on-conflict, never silent reuse. After maxAttempts the
// error escalates to the caller as an internal failure.
func Unique(ctx context.Context, prefix string, exists func(ctx context.Context, number string) (bool, error)) (string, error) {
	for attempt := 0; attempt < maxAttempts; attempt++ {
		number, err := Generate(prefix)
		if err != nil {
			return "", err
		}
		taken, err := exists(ctx, number)
		if err != nil {
			return "", err
		}
		if !taken {
			return number, nil
		}
	}
	return "", fmt.Errorf("exhausted %d attempts generating a unique %s number", maxAttempts, prefix)
}
