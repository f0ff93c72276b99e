package services

import (
	"math/big"
	"sync"

	"github.com/owizdom/eigen-hotcold-lotto/internal/models"
)

// RoundStore holds round snapshots for the query surface. The engine is the
// only writer; it puts a fresh snapshot after every mutation, so readers
// never observe a half-applied guess. Swappable for a persistent backend
// without touching the state machine.
type RoundStore interface {
	Put(round models.Round)
	Get(id string) (models.Round, bool)
}

type MemoryRoundStore struct {
	mu     sync.RWMutex
	rounds map[string]models.Round
}

func NewMemoryRoundStore() *MemoryRoundStore {
	return &MemoryRoundStore{
		rounds: make(map[string]models.Round),
	}
}

func (s *MemoryRoundStore) Put(round models.Round) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rounds[round.ID] = round
}

func (s *MemoryRoundStore) Get(id string) (models.Round, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	round, ok := s.rounds[id]
	return round, ok
}

// CloneRound deep-copies a round so a stored snapshot cannot alias the
// engine's live state.
func CloneRound(r *models.Round) models.Round {
	out := *r
	out.BaseBuyIn = new(big.Int).Set(r.BaseBuyIn)
	out.CurrentBuyIn = new(big.Int).Set(r.CurrentBuyIn)
	out.Pool = new(big.Int).Set(r.Pool)

	out.Guesses = make([]models.GuessRecord, len(r.Guesses))
	for i, g := range r.Guesses {
		g.BuyInPaid = new(big.Int).Set(g.BuyInPaid)
		out.Guesses[i] = g
	}

	if r.Winner != nil {
		w := *r.Winner
		out.Winner = &w
	}
	return out
}
