package otpcode

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// Generator produces fixed-width numeric one-time codes.
type Generator interface {
	// Generate returns a new code padded to the configured width.
	Generate() (string, error)
}

// Numeric generates codes uniformly over [0, 10^digits) using crypto/rand,
// so "000123" is as likely as "999123".
type Numeric struct {
	digits int
	max    *big.Int
}

// NewNumeric constructs a Numeric generator. Widths outside 4..10 fall back
// to the common 6 digits.
func NewNumeric(digits int) *Numeric {
	if digits < 4 || digits > 10 {
		digits = 6
	}

	max := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(digits)), nil)

	return &Numeric{digits: digits, max: max}
}

// Digits returns the configured code width.
func (n *Numeric) Digits() int {
	return n.digits
}

// Generate returns a new zero-padded numeric code.
func (n *Numeric) Generate() (string, error) {
	v, err := rand.Int(rand.Reader, n.max)
	if err != nil {
		return "", fmt.Errorf("otpcode: generate: %w", err)
	}

	return fmt.Sprintf("%0*d", n.digits, v), nil
}
