package services

import "github.com/owizdom/eigen-hotcold-lotto/internal/models"

type Broadcaster interface {
	BroadcastRoundStarted(roundID string, commitment models.Hash32, currentBuyIn string)
	BroadcastHint(roundID string, player models.Address, hint models.Hint)
	BroadcastPriceUpdate(roundID string, tier models.Tier, newBuyIn string)
	BroadcastWinner(roundID string, winner models.Address, pool string)
}
