package models

import "errors"

var (
	ErrRoundNotFound      = errors.New("round not found")
	ErrRoundNotActive     = errors.New("round is not active")
	ErrInsufficientBuyIn  = errors.New("paid amount is below the current buy-in")
	ErrInvalidGuessFormat = errors.New("guess must be exactly 12 decimal digits")
	ErrInvalidPlayer      = errors.New("invalid player identity")
	ErrInvalidBuyIn       = errors.New("base buy-in must be a positive amount")
	ErrSignerUnavailable  = errors.New("signing capability is not configured")
	ErrIntegrityViolation = errors.New("audit chain integrity violation")
)
