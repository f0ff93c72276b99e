package models

import "math/big"

// Signed message records. Each carries the exact fields that went into the
// canonical encoding, the nonce bound to it, and the raw signature, so an
// external verifier can rebuild the encoding and check the signature without
// talking to the enclave.

type SignedRoundStart struct {
	RoundID    string   `json:"round_id"`
	Commitment Hash32   `json:"commitment"`
	BaseBuyIn  *big.Int `json:"base_buy_in"`
	Nonce      uint64   `json:"nonce"`
	Signature  []byte   `json:"signature"`
}

type SignedHint struct {
	RoundID         string  `json:"round_id"`
	Player          Address `json:"player"`
	DigitsCorrect   uint8   `json:"digits_correct"`
	DigitsInPlace   uint8   `json:"digits_in_place"`
	NumericDistance uint64  `json:"numeric_distance"`
	Nonce           uint64  `json:"nonce"`
	Signature       []byte  `json:"signature"`
}

type SignedPriceUpdate struct {
	RoundID   string   `json:"round_id"`
	NewBuyIn  *big.Int `json:"new_buy_in"`
	Nonce     uint64   `json:"nonce"`
	Signature []byte   `json:"signature"`
}

type SignedWinnerDeclaration struct {
	RoundID   string  `json:"round_id"`
	Winner    Address `json:"winner"`
	Nonce     uint64  `json:"nonce"`
	Signature []byte  `json:"signature"`
}

type SignedRootAnchor struct {
	RoundID    string `json:"round_id"`
	MerkleRoot Hash32 `json:"merkle_root"`
	EntryCount uint64 `json:"entry_count"`
	Nonce      uint64 `json:"nonce"`
	Signature  []byte `json:"signature"`
}

// AttestationIdentity is what verifiers need to check signatures: the stable
// address, the raw public key, the signer mode, and a per-process session id
// for scoping nonce replay sets across restarts.
type AttestationIdentity struct {
	Address   Address `json:"address"`
	PublicKey string  `json:"public_key"`
	Mode      string  `json:"mode"`
	SessionID string  `json:"session_id"`
}

// GuessResult is everything one accepted guess produces. PriceUpdate and
// Winner are present only when the guess escalated pricing or won the round.
type GuessResult struct {
	Hint        Hint                     `json:"hint"`
	SignedHint  *SignedHint              `json:"signed_hint"`
	PriceUpdate *SignedPriceUpdate       `json:"price_update,omitempty"`
	Winner      *SignedWinnerDeclaration `json:"winner,omitempty"`
}
