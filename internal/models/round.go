package models

import (
	"math/big"
	"time"
)

type RoundStatus string

const (
	RoundStatusActive    RoundStatus = "active"
	RoundStatusCompleted RoundStatus = "completed"
)

// Tier is a pricing bracket keyed by how close guesses have come to the
// secret. Severity only ever increases within a round.
type Tier string

const (
	TierBase      Tier = "base"
	TierWarm      Tier = "warm"
	TierHot       Tier = "hot"
	TierScorching Tier = "scorching"
)

type Round struct {
	ID           string        `json:"id"`
	Commitment   Hash32        `json:"commitment"`
	BaseBuyIn    *big.Int      `json:"base_buy_in"`
	CurrentBuyIn *big.Int      `json:"current_buy_in"`
	CurrentTier  Tier          `json:"current_tier"`
	Pool         *big.Int      `json:"pool"`
	Guesses      []GuessRecord `json:"guesses"`
	Status       RoundStatus   `json:"status"`
	Winner       *Address      `json:"winner,omitempty"`
	StartedAt    time.Time     `json:"started_at"`
	EndedAt      time.Time     `json:"ended_at,omitempty"`
}

type GuessRecord struct {
	Player    Address   `json:"player"`
	Guess     string    `json:"guess"`
	Hint      Hint      `json:"hint"`
	BuyInPaid *big.Int  `json:"buy_in_paid"`
	Timestamp time.Time `json:"timestamp"`
}

// Hint is the scored result of one guess. DigitsInPlace are exact positional
// matches, DigitsCorrect are right digits in the wrong position.
type Hint struct {
	DigitsInPlace   int    `json:"digits_in_place"`
	DigitsCorrect   int    `json:"digits_correct"`
	NumericDistance uint64 `json:"numeric_distance"`
	IsExactMatch    bool   `json:"is_exact_match"`
	PriceTier       Tier   `json:"price_tier"`
}
