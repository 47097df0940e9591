package util

import (
	"crypto/rand"
	"fmt"
)

const alphanumeric = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// commentIDLength is the random part of a comment ID, excluding the prefix.
const commentIDLength = 10

// GenerateShortID returns an n-character alphanumeric string using cryptographic randomness.
func GenerateShortID(n int) (string, error) {
	if n <= 0 {
		return "", fmt.Errorf("invalid id length %d", n)
	}

	bytes := make([]byte, n)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}

	for i := range bytes {
		bytes[i] = alphanumeric[int(bytes[i])%len(alphanumeric)]
	}

	return string(bytes), nil
}

// NewCommentID returns a comment ID in the format c_XXXXXXXXXX.
func NewCommentID() (string, error) {
	id, err := GenerateShortID(commentIDLength)
	if err != nil {
		return "", err
	}
	return "c_" + id, nil
}
