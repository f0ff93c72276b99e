package services_test

import (
	"fmt"
	"math/big"
	"testing"
	"time"

	"github.com/owizdom/eigen-hotcold-lotto/internal/models"
	"github.com/owizdom/eigen-hotcold-lotto/internal/services"
)

func TestRedisService(t *testing.T) {
	redisService, err := services.NewRedisService("localhost:6379", "", 0)
	if err != nil {
		t.Skipf("Redis not available: %v", err)
	}
	defer redisService.Close()

	player := "0x00000000000000000000000000000000000000aa"
	action := fmt.Sprintf("test_guess_%d", time.Now().UnixNano())

	allowed, err := redisService.CheckRateLimit(player, action, 2, time.Minute)
	if err != nil {
		t.Fatalf("rate limit check failed: %v", err)
	}
	if !allowed {
		t.Error("first action must be allowed")
	}

	redisService.CheckRateLimit(player, action, 2, time.Minute)
	allowed, _ = redisService.CheckRateLimit(player, action, 2, time.Minute)
	if allowed {
		t.Error("third action within the window must be rejected")
	}

	winner, _ := models.ParseAddress(player)
	round := models.Round{
		ID:           models.GenerateRoundID(),
		BaseBuyIn:    big.NewInt(100),
		CurrentBuyIn: big.NewInt(500),
		CurrentTier:  models.TierHot,
		Pool:         big.NewInt(1500),
		Status:       models.RoundStatusCompleted,
		Winner:       &winner,
		StartedAt:    time.Now().Add(-time.Minute),
		EndedAt:      time.Now(),
	}

	if err := redisService.ArchiveRound(round); err != nil {
		t.Fatalf("failed to archive round: %v", err)
	}

	rounds, err := redisService.GetRoundHistory(10)
	if err != nil {
		t.Fatalf("failed to fetch history: %v", err)
	}

	found := false
	for _, r := range rounds {
		if r.ID == round.ID {
			found = true
			if r.Status != models.RoundStatusCompleted {
				t.Errorf("archived status = %s", r.Status)
			}
			if r.Pool.Cmp(round.Pool) != 0 {
				t.Errorf("archived pool = %s, want %s", r.Pool, round.Pool)
			}
		}
	}
	if !found {
		t.Error("archived round missing from history")
	}
}
