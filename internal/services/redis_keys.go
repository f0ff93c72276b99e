package services

import "time"

const (
	KeyRoundArchive    = "round:archive:%s"
	KeyCompletedRounds = "rounds:completed"
	KeyRateLimit       = "ratelimit:%s:%s"

	TTLRoundArchive = 30 * 24 * time.Hour

	DefaultRateLimitGuesses = 30 // per player per minute
)
