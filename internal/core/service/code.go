package service

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const (
	codeAlphabet      = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
	DefaultCodeLength = 6
)

var alphabetSize = big.NewInt(int64(len(codeAlphabet)))

// GenerateCode returns a recovery code of the given length, each character
// drawn independently and uniformly from the 62-symbol alphanumeric alphabet.
// A non-positive length selects DefaultCodeLength.
func GenerateCode(length int) (string, error) {
	if length <= 0 {
		length = DefaultCodeLength
	}

	b := make([]byte, length)
	for i := range b {
		n, err := rand.Int(rand.Reader, alphabetSize)
		if err != nil {
			return "", fmt.Errorf("generate code: %w", err)
		}
		b[i] = codeAlphabet[n.Int64()]
	}
	return string(b), nil
}
