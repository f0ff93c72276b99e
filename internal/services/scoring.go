package services

import (
	"fmt"
	"strconv"

	"github.com/owizdom/eigen-hotcold-lotto/internal/models"
)

// ValidateGuess checks the fixed-width decimal format shared by secrets and
// guesses.
func ValidateGuess(guess string) error {
	if len(guess) != SecretDigits {
		return fmt.Errorf("%w: got %d characters", models.ErrInvalidGuessFormat, len(guess))
	}
	for i := 0; i < len(guess); i++ {
		if guess[i] < '0' || guess[i] > '9' {
			return fmt.Errorf("%w: non-digit at position %d", models.ErrInvalidGuessFormat, i)
		}
	}
	return nil
}

// Score computes the hint for a guess against the secret. Pure and
// deterministic; the cow matching is order-dependent on purpose, so the same
// pair always produces the same hint:
//
//  1. one pass marks positional matches and removes them from both sides;
//  2. each remaining guess digit, left to right, consumes the first unused
//     equal digit left in the secret;
//  3. distance is |secret - guess| over the values as base-10 integers.
func Score(secret, guess string, pricing *PricingEngine) (models.Hint, error) {
	if err := ValidateGuess(guess); err != nil {
		return models.Hint{}, err
	}
	if len(secret) != SecretDigits {
		return models.Hint{}, fmt.Errorf("%w: secret has wrong width", models.ErrInvalidGuessFormat)
	}

	var usedSecret, usedGuess [SecretDigits]bool
	bulls := 0
	for i := 0; i < SecretDigits; i++ {
		if secret[i] == guess[i] {
			bulls++
			usedSecret[i] = true
			usedGuess[i] = true
		}
	}

	cows := 0
	for i := 0; i < SecretDigits; i++ {
		if usedGuess[i] {
			continue
		}
		for j := 0; j < SecretDigits; j++ {
			if !usedSecret[j] && secret[j] == guess[i] {
				cows++
				usedSecret[j] = true
				break
			}
		}
	}

	// 12 digits fit in uint64 with room to spare, so the subtraction is
	// exact. Floating point would not be.
	secretVal, err := strconv.ParseUint(secret, 10, 64)
	if err != nil {
		return models.Hint{}, fmt.Errorf("unparseable secret: %w", err)
	}
	guessVal, err := strconv.ParseUint(guess, 10, 64)
	if err != nil {
		return models.Hint{}, fmt.Errorf("%w: %v", models.ErrInvalidGuessFormat, err)
	}

	var distance uint64
	if secretVal >= guessVal {
		distance = secretVal - guessVal
	} else {
		distance = guessVal - secretVal
	}

	return models.Hint{
		DigitsInPlace:   bulls,
		DigitsCorrect:   cows,
		NumericDistance: distance,
		IsExactMatch:    bulls == SecretDigits,
		PriceTier:       pricing.TierFor(distance),
	}, nil
}
