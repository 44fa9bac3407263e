package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// GeneratePasswordResetToken generates a random 64-character hex token used
// for single-use password resets.
func GeneratePasswordResetToken() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}

	return hex.EncodeToString(bytes), nil
}
