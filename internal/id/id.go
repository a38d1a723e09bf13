package id

import (
	"crypto/rand"
	"encoding/hex"

	"github.com/google/uuid"
)

// Short generates a random 16-character lowercase hex id (8 random bytes).
func Short() string {
	b := make([]byte, 8)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

// Request generates a UUID v4 string for request correlation.
func Request() string {
	return uuid.NewString()
}
