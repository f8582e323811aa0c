package auth

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"
)

// CodeLength is the number of digits in a verification code.
const CodeLength = 8

var (
	codeMin   = big.NewInt(10_000_000)
	codeRange = big.NewInt(90_000_000)
)

// CodeGenerator produces verification codes.
type CodeGenerator func() (string, error)

// NewVerificationCode returns an 8-digit code drawn uniformly from
// [10000000, 99999999].
func NewVerificationCode() (string, error) {
	return newCodeFrom(rand.Reader)
}

func newCodeFrom(r io.Reader) (string, error) {
	n, err := rand.Int(r, codeRange)
	if err != nil {
		return "", fmt.Errorf("generate verification code: %w", err)
	}
	return n.Add(n, codeMin).String(), nil
}
