package models

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/google/uuid"
)

func GenerateRoundID() string {
	return uuid.New().String()
}

// ParseAmount parses a decimal wei-scale amount. Amounts travel as strings on
// the wire because buy-ins routinely exceed what a JSON number can carry.
func ParseAmount(s string) (*big.Int, error) {
	s = strings.TrimSpace(s)
	amount, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, fmt.Errorf("%w: %q is not a decimal amount", ErrInvalidBuyIn, s)
	}
	if amount.Sign() <= 0 {
		return nil, ErrInvalidBuyIn
	}
	return amount, nil
}

func FormatAmount(a *big.Int) string {
	if a == nil {
		return "0"
	}
	return a.String()
}
