package services

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/sha3"

	"github.com/owizdom/eigen-hotcold-lotto/internal/models"
)

const (
	SignerModeConfigured = "configured"
	SignerModeEphemeral  = "ephemeral"
)

// Signer is the opaque signing capability: give it bytes, get a signature
// and a stable public identity back. Key storage and attestation hardware
// live behind this interface.
type Signer interface {
	Sign(payload []byte) ([]byte, error)
	PublicKey() []byte
	Address() models.Address
	Mode() string
}

type EnclaveSigner struct {
	priv ed25519.PrivateKey
	addr models.Address
	mode string
}

// NewEnclaveSigner builds the ed25519 signer. With an empty seed it generates
// an ephemeral key; otherwise the seed must be 32 hex-encoded bytes so the
// identity is stable across restarts.
func NewEnclaveSigner(seedHex string) (*EnclaveSigner, error) {
	var priv ed25519.PrivateKey
	mode := SignerModeEphemeral

	if seedHex == "" {
		_, generated, err := ed25519.GenerateKey(rand.Reader)
		if err != nil {
			return nil, fmt.Errorf("failed to generate signing key: %w", err)
		}
		priv = generated
	} else {
		seed, err := hex.DecodeString(seedHex)
		if err != nil {
			return nil, fmt.Errorf("invalid signer seed: %w", err)
		}
		if len(seed) != ed25519.SeedSize {
			return nil, fmt.Errorf("signer seed must be %d bytes, got %d", ed25519.SeedSize, len(seed))
		}
		priv = ed25519.NewKeyFromSeed(seed)
		mode = SignerModeConfigured
	}

	return &EnclaveSigner{
		priv: priv,
		addr: deriveAddress(priv.Public().(ed25519.PublicKey)),
		mode: mode,
	}, nil
}

// deriveAddress takes the last 20 bytes of keccak256(pubkey), the same shape
// on-chain verifiers use for account addresses.
func deriveAddress(pub ed25519.PublicKey) models.Address {
	h := sha3.NewLegacyKeccak256()
	h.Write(pub)
	digest := h.Sum(nil)

	var addr models.Address
	copy(addr[:], digest[12:])
	return addr
}

func (s *EnclaveSigner) Sign(payload []byte) ([]byte, error) {
	return ed25519.Sign(s.priv, payload), nil
}

func (s *EnclaveSigner) PublicKey() []byte {
	pub := s.priv.Public().(ed25519.PublicKey)
	out := make([]byte, len(pub))
	copy(out, pub)
	return out
}

func (s *EnclaveSigner) Address() models.Address {
	return s.addr
}

func (s *EnclaveSigner) Mode() string {
	return s.mode
}
