package services_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/owizdom/eigen-hotcold-lotto/internal/models"
	"github.com/owizdom/eigen-hotcold-lotto/internal/services"
)

func newPricing(t *testing.T) *services.PricingEngine {
	t.Helper()
	pricing, err := services.NewPricingEngine(nil)
	if err != nil {
		t.Fatalf("failed to build pricing engine: %v", err)
	}
	return pricing
}

func TestScoreExactMatch(t *testing.T) {
	pricing := newPricing(t)

	secrets := []string{"123456789012", "000000000000", "999999999999", "012345000000"}
	for _, s := range secrets {
		hint, err := services.Score(s, s, pricing)
		if err != nil {
			t.Fatalf("Score(%q, %q) failed: %v", s, s, err)
		}
		if hint.DigitsInPlace != 12 || hint.DigitsCorrect != 0 {
			t.Errorf("self-score of %q: bulls=%d cows=%d, want 12/0", s, hint.DigitsInPlace, hint.DigitsCorrect)
		}
		if hint.NumericDistance != 0 || !hint.IsExactMatch {
			t.Errorf("self-score of %q: distance=%d exact=%v", s, hint.NumericDistance, hint.IsExactMatch)
		}
	}
}

func TestScoreScenarios(t *testing.T) {
	pricing := newPricing(t)
	secret := "123456789012"

	tests := []struct {
		guess    string
		bulls    int
		cows     int
		distance uint64
	}{
		{"123456789012", 12, 0, 0},
		{"123000000000", 4, 0, 456789012},
		{"210000000000", 1, 2, 86543210988},
	}

	for _, tc := range tests {
		hint, err := services.Score(secret, tc.guess, pricing)
		if err != nil {
			t.Fatalf("Score(%q) failed: %v", tc.guess, err)
		}
		if hint.DigitsInPlace != tc.bulls {
			t.Errorf("guess %q: bulls=%d, want %d", tc.guess, hint.DigitsInPlace, tc.bulls)
		}
		if hint.DigitsCorrect != tc.cows {
			t.Errorf("guess %q: cows=%d, want %d", tc.guess, hint.DigitsCorrect, tc.cows)
		}
		if hint.NumericDistance != tc.distance {
			t.Errorf("guess %q: distance=%d, want %d", tc.guess, hint.NumericDistance, tc.distance)
		}
	}
}

func TestScoreBullsCowsBound(t *testing.T) {
	pricing := newPricing(t)
	secret := "112233445566"

	guesses := []string{
		"112233445566",
		"665544332211",
		"111111111111",
		"123456789012",
		"000000000000",
	}
	for _, g := range guesses {
		hint, err := services.Score(secret, g, pricing)
		if err != nil {
			t.Fatalf("Score(%q) failed: %v", g, err)
		}
		if hint.DigitsInPlace+hint.DigitsCorrect > 12 {
			t.Errorf("guess %q: bulls+cows = %d exceeds 12", g, hint.DigitsInPlace+hint.DigitsCorrect)
		}
		if hint.IsExactMatch != (g == secret) {
			t.Errorf("guess %q: exact=%v, want %v", g, hint.IsExactMatch, g == secret)
		}
	}
}

func TestScoreDistanceSymmetry(t *testing.T) {
	pricing := newPricing(t)

	a, b := "000000000000", "999999999999"

	ab, err := services.Score(a, b, pricing)
	if err != nil {
		t.Fatal(err)
	}
	ba, err := services.Score(b, a, pricing)
	if err != nil {
		t.Fatal(err)
	}

	if ab.NumericDistance != ba.NumericDistance {
		t.Errorf("distance not symmetric: %d vs %d", ab.NumericDistance, ba.NumericDistance)
	}
	if ab.NumericDistance != 999999999999 {
		t.Errorf("extremal distance = %d, want 999999999999", ab.NumericDistance)
	}
}

func TestScoreCowTieBreak(t *testing.T) {
	pricing := newPricing(t)

	// Guess has two '1's competing for one remaining '1' in the secret:
	// only the first (leftmost) guess position may claim it.
	hint, err := services.Score("102222222222", "011333333333", pricing)
	if err != nil {
		t.Fatal(err)
	}
	if hint.DigitsInPlace != 0 {
		t.Errorf("bulls=%d, want 0", hint.DigitsInPlace)
	}
	// '0' at guess[0] matches secret's '0', first '1' matches secret's '1',
	// the second '1' finds nothing.
	if hint.DigitsCorrect != 2 {
		t.Errorf("cows=%d, want 2", hint.DigitsCorrect)
	}
}

func TestScoreInvalidFormat(t *testing.T) {
	pricing := newPricing(t)

	bad := []string{"", "12345678901", "1234567890123", "12345678901a", "12345678901 "}
	for _, g := range bad {
		_, err := services.Score("123456789012", g, pricing)
		if !errors.Is(err, models.ErrInvalidGuessFormat) {
			t.Errorf("Score(%q): err = %v, want ErrInvalidGuessFormat", g, err)
		}
	}
}

func TestValidateGuess(t *testing.T) {
	if err := services.ValidateGuess("000000000001"); err != nil {
		t.Errorf("valid guess rejected: %v", err)
	}
	if err := services.ValidateGuess(fmt.Sprintf("%012d", 0)); err != nil {
		t.Errorf("all-zero guess rejected: %v", err)
	}
	if err := services.ValidateGuess("99999999999"); err == nil {
		t.Error("11-digit guess accepted")
	}
}
