package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

// PasswordVerifier compares a stored credential against a submitted password.
// All password handling goes through this seam so a hardened scheme is a
// drop-in replacement without touching callers.
type PasswordVerifier interface {
	Verify(stored, candidate string) error
}

// PlaintextVerifier compares credentials stored as given for exact
// equality, without hashing. This is the shipped default.
type PlaintextVerifier struct{}

func (PlaintextVerifier) Verify(stored, candidate string) error {
	if stored != candidate {
		return ErrInvalidCredentials
	}
	return nil
}

// Argon2Verifier verifies argon2id-encoded credentials. It exists as the
// hardened drop-in for PlaintextVerifier; the shipped default does not use it.
type Argon2Verifier struct{}

func (Argon2Verifier) Verify(stored, candidate string) error {
	parts := strings.Split(stored, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return ErrInvalidCredentials
	}
	var memory, iterations uint32
	var parallelism uint8
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &iterations, &parallelism); err != nil {
		return ErrInvalidCredentials
	}
	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return ErrInvalidCredentials
	}
	want, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return ErrInvalidCredentials
	}
	got := argon2.IDKey([]byte(candidate), salt, iterations, memory, parallelism, uint32(len(want)))
	if subtle.ConstantTimeCompare(got, want) != 1 {
		return ErrInvalidCredentials
	}
	return nil
}

// HashPassword produces an argon2id-encoded credential for the hardened
// verifier variant.
func HashPassword(password string) (string, error) {
	const (
		memory      = 64 * 1024
		iterations  = 2
		parallelism = 1
		keyLength   = 32
		saltLength  = 16
	)
	if password == "" {
		return "", errors.New("password is empty")
	}
	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}
	hash := argon2.IDKey([]byte(password), salt, iterations, memory, parallelism, keyLength)
	return fmt.Sprintf(
		"$argon2id$v=19$m=%d,t=%d,p=%d$%s$%s",
		memory,
		iterations,
		parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(hash),
	), nil
}
