// Package refgen generates display-facing identifiers: transaction reference
// numbers and account numbers. Values are drawn from crypto/rand so they are
// not derivable from sequential counters; uniqueness is still enforced by the
// storing repositories, which retry on collision.
package refgen

import (
	"crypto/rand"
	"fmt"
)

const (
	// ReferencePrefix prefixes every transaction reference number
	ReferencePrefix = "TXN"

	// ReferenceLength is the number of random characters after the prefix
	ReferenceLength = 12

	// AccountNumberLength is the number of digits in an account number
	AccountNumberLength = 10

	referenceAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	digitAlphabet     = "0123456789"
)

// Generator produces reference numbers for transactions and account numbers
// for accounts.
type Generator interface {
	TransactionReference() (string, error)
	AccountNumber() (string, error)
}

// RandomGenerator implements Generator using crypto/rand
type RandomGenerator struct{}

// NewGenerator creates a crypto/rand backed Generator
func NewGenerator() Generator {
	return &RandomGenerator{}
}

// TransactionReference returns "TXN" followed by ReferenceLength upper-case
// alphanumeric characters, e.g. "TXN4K7Q2ZB81XCD".
func (g *RandomGenerator) TransactionReference() (string, error) {
	suffix, err := randomString(referenceAlphabet, ReferenceLength)
	if err != nil {
		return "", fmt.Errorf("failed to generate transaction reference: %w", err)
	}
	return ReferencePrefix + suffix, nil
}

// AccountNumber returns a string of AccountNumberLength decimal digits.
// A leading zero is allowed; account numbers are opaque display strings.
func (g *RandomGenerator) AccountNumber() (string, error) {
	number, err := randomString(digitAlphabet, AccountNumberLength)
	if err != nil {
		return "", fmt.Errorf("failed to generate account number: %w", err)
	}
	return number, nil
}

func randomString(alphabet string, length int) (string, error) {
	// Rejection sampling keeps the draw uniform: bytes above the largest
	// multiple of len(alphabet) are discarded instead of wrapped.
	limit := byte(256 - 256%len(alphabet))
	out := make([]byte, 0, length)
	buf := make([]byte, length)
	for len(out) < length {
		if _, err := rand.Read(buf); err != nil {
			return "", err
		}
		for _, b := range buf {
			if b >= limit {
				continue
			}
			out = append(out, alphabet[int(b)%len(alphabet)])
			if len(out) == length {
				break
			}
		}
	}
	return string(out), nil
}
