package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// TokenKeyLength is the length of an issued key in hex characters.
const TokenKeyLength = 40

// GenerateTokenKey returns a fresh opaque key of TokenKeyLength hex characters.
func GenerateTokenKey() (string, error) {
	b := make([]byte, TokenKeyLength/2)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate token key: %w", err)
	}
	return hex.EncodeToString(b), nil
}
