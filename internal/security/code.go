package security

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// CodeAlphabet leaves out characters that read alike (0/O, 1/I/L).
const CodeAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

const (
	MinCodeLength = 5
	MaxCodeLength = 6
)

// GenerateVerificationCode draws a pickup code of the given length from
// CodeAlphabet using crypto/rand.
func GenerateVerificationCode(length int) (string, error) {
	if length < MinCodeLength || length > MaxCodeLength {
		return "", fmt.Errorf("verification code length must be between %d and %d", MinCodeLength, MaxCodeLength)
	}

	max := big.NewInt(int64(len(CodeAlphabet)))
	b := make([]byte, length)
	for i := range b {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to generate verification code: %w", err)
		}
		b[i] = CodeAlphabet[n.Int64()]
	}
	return string(b), nil
}

// IsCodeShaped reports whether s could have been produced by
// GenerateVerificationCode.
func IsCodeShaped(s string) bool {
	if len(s) < MinCodeLength || len(s) > MaxCodeLength {
		return false
	}
	for i := 0; i < len(s); i++ {
		found := false
		for j := 0; j < len(CodeAlphabet); j++ {
			if s[i] == CodeAlphabet[j] {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
