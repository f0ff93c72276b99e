package services

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"io"
	"math/big"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/owizdom/eigen-hotcold-lotto/internal/models"
)

// Message kind tags. The tag leads every canonical encoding so a signature
// over one kind can never be replayed as another.
const (
	msgKindRoundStart  byte = 0x01
	msgKindHint        byte = 0x02
	msgKindPriceUpdate byte = 0x03
	msgKindWinner      byte = 0x04
	msgKindRootAnchor  byte = 0x05
)

const attestationDomain = "hotcold/v1/attest"

// NonceCounter issues the process-wide strictly increasing nonce shared by
// all rounds and message kinds. 0 is reserved; the first issued nonce is 1.
type NonceCounter struct {
	n atomic.Uint64
}

func NewNonceCounter() *NonceCounter {
	return &NonceCounter{}
}

func (c *NonceCounter) Next() uint64 {
	return c.n.Add(1)
}

func (c *NonceCounter) Current() uint64 {
	return c.n.Load()
}

// AttestationService builds the canonical byte encoding for each event kind,
// binds a fresh nonce to it, and signs it. The nonce counter lives for the
// process; a restart starts a new sequence under a new session id, which
// verifiers use to scope their consumed-nonce sets.
type AttestationService struct {
	signer    Signer
	nonces    *NonceCounter
	sessionID string
}

func NewAttestationService(signer Signer, nonces *NonceCounter) (*AttestationService, error) {
	if signer == nil {
		return nil, models.ErrSignerUnavailable
	}
	if nonces == nil {
		nonces = NewNonceCounter()
	}
	return &AttestationService{
		signer:    signer,
		nonces:    nonces,
		sessionID: uuid.New().String(),
	}, nil
}

func (a *AttestationService) Identity() models.AttestationIdentity {
	return models.AttestationIdentity{
		Address:   a.signer.Address(),
		PublicKey: hex.EncodeToString(a.signer.PublicKey()),
		Mode:      a.signer.Mode(),
		SessionID: a.sessionID,
	}
}

func (a *AttestationService) AttestRoundStart(roundID string, commitment models.Hash32, baseBuyIn *big.Int) (*models.SignedRoundStart, error) {
	nonce := a.nonces.Next()
	sig, err := a.signer.Sign(EncodeRoundStart(roundID, commitment, baseBuyIn, nonce))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrSignerUnavailable, err)
	}
	return &models.SignedRoundStart{
		RoundID:    roundID,
		Commitment: commitment,
		BaseBuyIn:  new(big.Int).Set(baseBuyIn),
		Nonce:      nonce,
		Signature:  sig,
	}, nil
}

func (a *AttestationService) AttestHint(roundID string, player models.Address, hint models.Hint) (*models.SignedHint, error) {
	nonce := a.nonces.Next()
	msg := EncodeHint(roundID, player, uint8(hint.DigitsCorrect), uint8(hint.DigitsInPlace), hint.NumericDistance, nonce)
	sig, err := a.signer.Sign(msg)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrSignerUnavailable, err)
	}
	return &models.SignedHint{
		RoundID:         roundID,
		Player:          player,
		DigitsCorrect:   uint8(hint.DigitsCorrect),
		DigitsInPlace:   uint8(hint.DigitsInPlace),
		NumericDistance: hint.NumericDistance,
		Nonce:           nonce,
		Signature:       sig,
	}, nil
}

func (a *AttestationService) AttestPriceUpdate(roundID string, newBuyIn *big.Int) (*models.SignedPriceUpdate, error) {
	nonce := a.nonces.Next()
	sig, err := a.signer.Sign(EncodePriceUpdate(roundID, newBuyIn, nonce))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrSignerUnavailable, err)
	}
	return &models.SignedPriceUpdate{
		RoundID:   roundID,
		NewBuyIn:  new(big.Int).Set(newBuyIn),
		Nonce:     nonce,
		Signature: sig,
	}, nil
}

func (a *AttestationService) AttestWinner(roundID string, winner models.Address) (*models.SignedWinnerDeclaration, error) {
	nonce := a.nonces.Next()
	sig, err := a.signer.Sign(EncodeWinner(roundID, winner, nonce))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrSignerUnavailable, err)
	}
	return &models.SignedWinnerDeclaration{
		RoundID:   roundID,
		Winner:    winner,
		Nonce:     nonce,
		Signature: sig,
	}, nil
}

func (a *AttestationService) AttestRootAnchor(roundID string, root models.Hash32, entryCount uint64) (*models.SignedRootAnchor, error) {
	nonce := a.nonces.Next()
	sig, err := a.signer.Sign(EncodeRootAnchor(roundID, root, entryCount, nonce))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrSignerUnavailable, err)
	}
	return &models.SignedRootAnchor{
		RoundID:    roundID,
		MerkleRoot: root,
		EntryCount: entryCount,
		Nonce:      nonce,
		Signature:  sig,
	}, nil
}

// Canonical encodings. Shared layout: domain text, kind tag, then the kind's
// fields in their documented order. Text fields carry a u16be length prefix,
// amounts are 32-byte big-endian words, smaller uints are fixed-width
// big-endian. Verifiers rebuild these bytes and check the signature over
// them; any reordering is a protocol break.

func EncodeRoundStart(roundID string, commitment models.Hash32, baseBuyIn *big.Int, nonce uint64) []byte {
	var buf []byte
	buf = appendHeader(buf, msgKindRoundStart)
	buf = appendText16(buf, roundID)
	buf = append(buf, commitment[:]...)
	buf = appendAmount(buf, baseBuyIn)
	buf = appendUint64(buf, nonce)
	return buf
}

func EncodeHint(roundID string, player models.Address, digitsCorrect, digitsInPlace uint8, distance, nonce uint64) []byte {
	var buf []byte
	buf = appendHeader(buf, msgKindHint)
	buf = appendText16(buf, roundID)
	buf = append(buf, player[:]...)
	buf = append(buf, digitsCorrect, digitsInPlace)
	buf = appendUint64(buf, distance)
	buf = appendUint64(buf, nonce)
	return buf
}

func EncodePriceUpdate(roundID string, newBuyIn *big.Int, nonce uint64) []byte {
	var buf []byte
	buf = appendHeader(buf, msgKindPriceUpdate)
	buf = appendText16(buf, roundID)
	buf = appendAmount(buf, newBuyIn)
	buf = appendUint64(buf, nonce)
	return buf
}

func EncodeWinner(roundID string, winner models.Address, nonce uint64) []byte {
	var buf []byte
	buf = appendHeader(buf, msgKindWinner)
	buf = appendText16(buf, roundID)
	buf = append(buf, winner[:]...)
	buf = appendUint64(buf, nonce)
	return buf
}

func EncodeRootAnchor(roundID string, root models.Hash32, entryCount, nonce uint64) []byte {
	var buf []byte
	buf = appendHeader(buf, msgKindRootAnchor)
	buf = appendText16(buf, roundID)
	buf = append(buf, root[:]...)
	buf = appendUint64(buf, entryCount)
	buf = appendUint64(buf, nonce)
	return buf
}

func appendHeader(buf []byte, kind byte) []byte {
	buf = append(buf, []byte(attestationDomain)...)
	return append(buf, kind)
}

func appendText16(buf []byte, s string) []byte {
	var l [2]byte
	binary.BigEndian.PutUint16(l[:], uint16(len(s)))
	buf = append(buf, l[:]...)
	return append(buf, s...)
}

func appendUint64(buf []byte, v uint64) []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	return append(buf, b[:]...)
}

// appendAmount emits a 32-byte big-endian word, the uint256 layout the
// on-chain verifier expects.
func appendAmount(buf []byte, v *big.Int) []byte {
	var word [32]byte
	v.FillBytes(word[:])
	return append(buf, word[:]...)
}

// Hash-side writer variants used by the audit ledger.

func writeUint64(w io.Writer, v uint64) {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	w.Write(b[:])
}

func writeText16(w io.Writer, s string) {
	var l [2]byte
	binary.BigEndian.PutUint16(l[:], uint16(len(s)))
	w.Write(l[:])
	w.Write([]byte(s))
}
