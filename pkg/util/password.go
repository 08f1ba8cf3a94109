package util

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

const (
	// BCryptCost is the cost factor for bcrypt hashing.
	BCryptCost = 12
	// InviteTokenBytes is the length of the random part of invite tokens.
	InviteTokenBytes = 32
)

// HashPassword hashes a plaintext password with bcrypt.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), BCryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// VerifyPassword compares a plaintext password with its stored hash.
func VerifyPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// GenerateInviteToken returns a URL-safe random token with format inv_<base64>.
func GenerateInviteToken() (string, error) {
	randomBytes := make([]byte, InviteTokenBytes)
	if _, err := rand.Read(randomBytes); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}
	return fmt.Sprintf("inv_%s", base64.RawURLEncoding.EncodeToString(randomBytes)), nil
}
