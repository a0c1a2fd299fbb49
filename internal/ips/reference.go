package ips

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

// randomDigitsMax bounds the random suffix to 8 decimal digits.
var randomDigitsMax = big.NewInt(100_000_000)

// NewReference produces a 16-digit settlement reference: the creation
// date as YYYYMMDD followed by 8 random digits. References are used as
// bearer-style lookup keys during verification, so the suffix comes
// from crypto/rand.
func NewReference(now time.Time) (string, error) {
	n, err := rand.Int(rand.Reader, randomDigitsMax)
	if err != nil {
		return "", fmt.Errorf("reference entropy: %w", err)
	}
	return fmt.Sprintf("%s%08d", now.Format("20060102"), n.Int64()), nil
}
