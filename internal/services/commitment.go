package services

import (
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"math/big"

	"github.com/owizdom/eigen-hotcold-lotto/internal/models"
)

// commitmentDomain separates commitment hashes from every other use of
// sha256 in the protocol. Changing it, or the field order below, breaks
// independent verification.
const commitmentDomain = "hotcold/v1/commitment"

// SecretDigits is the fixed width of the secret and of every guess. Width is
// semantic: leading zeros are part of the value.
const SecretDigits = 12

var secretBound = new(big.Int).Exp(big.NewInt(10), big.NewInt(SecretDigits), nil)

// GenerateSecret draws a uniform 12-digit decimal numeral from crypto/rand,
// zero-padded to fixed width.
func GenerateSecret() (string, error) {
	n, err := rand.Int(rand.Reader, secretBound)
	if err != nil {
		return "", fmt.Errorf("randomness source exhausted: %w", err)
	}
	return fmt.Sprintf("%0*d", SecretDigits, n), nil
}

func GenerateSalt() ([32]byte, error) {
	var salt [32]byte
	if _, err := rand.Read(salt[:]); err != nil {
		return salt, fmt.Errorf("randomness source exhausted: %w", err)
	}
	return salt, nil
}

// ComputeCommitment binds the secret to a round before any guess is taken:
//
//	sha256(domain || 0x00 || secret-text || 0x00 || roundID-text || 0x00 || salt)
//
// Verifiers recompute this exact byte layout at reveal time.
func ComputeCommitment(secret, roundID string, salt [32]byte) models.Hash32 {
	h := sha256.New()
	h.Write([]byte(commitmentDomain))
	h.Write([]byte{0})
	h.Write([]byte(secret))
	h.Write([]byte{0})
	h.Write([]byte(roundID))
	h.Write([]byte{0})
	h.Write(salt[:])

	var out models.Hash32
	copy(out[:], h.Sum(nil))
	return out
}
