package services

import (
	"fmt"
	"log/slog"
	"math/big"
	"sync"
	"time"

	"github.com/owizdom/eigen-hotcold-lotto/internal/models"
)

// GameEngine owns every round's lifecycle. Each round is mutated only inside
// its own critical section: buy-in check, guess append, scoring, escalation,
// winner declaration and every audit append and signature happen under one
// per-round lock, so two concurrent guesses cannot both pass a stale buy-in
// check or both be declared winner. Guesses against different rounds run in
// parallel.
type GameEngine struct {
	log      *slog.Logger
	store    RoundStore
	ledger   *AuditLedger
	pricing  *PricingEngine
	attestor *AttestationService

	broadcaster Broadcaster

	mu     sync.RWMutex
	states map[string]*roundState
}

// roundState is the engine-private side of a round: the secret never leaves
// this struct, and the embedded mutex is the round's critical section.
type roundState struct {
	mu     sync.Mutex
	secret string
	salt   [32]byte
	round  *models.Round
}

func NewGameEngine(logger *slog.Logger, store RoundStore, ledger *AuditLedger, pricing *PricingEngine, attestor *AttestationService) (*GameEngine, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if attestor == nil {
		return nil, models.ErrSignerUnavailable
	}
	return &GameEngine{
		log:      logger,
		store:    store,
		ledger:   ledger,
		pricing:  pricing,
		attestor: attestor,
		states:   make(map[string]*roundState),
	}, nil
}

// SetBroadcaster wires the live event feed. Optional; a nil broadcaster
// disables it.
func (ge *GameEngine) SetBroadcaster(b Broadcaster) {
	ge.broadcaster = b
}

func (ge *GameEngine) Identity() models.AttestationIdentity {
	return ge.attestor.Identity()
}

// StartRound generates the secret and commitment, opens the round at the
// base tier, and emits the RoundStart audit entry and attestation.
func (ge *GameEngine) StartRound(baseBuyIn *big.Int) (models.Round, *models.SignedRoundStart, error) {
	if baseBuyIn == nil || baseBuyIn.Sign() <= 0 {
		return models.Round{}, nil, models.ErrInvalidBuyIn
	}

	roundID := models.GenerateRoundID()

	secret, err := GenerateSecret()
	if err != nil {
		return models.Round{}, nil, err
	}
	salt, err := GenerateSalt()
	if err != nil {
		return models.Round{}, nil, err
	}
	commitment := ComputeCommitment(secret, roundID, salt)

	round := &models.Round{
		ID:           roundID,
		Commitment:   commitment,
		BaseBuyIn:    new(big.Int).Set(baseBuyIn),
		CurrentBuyIn: new(big.Int).Mul(baseBuyIn, new(big.Int).SetUint64(ge.pricing.MultiplierFor(models.TierBase))),
		CurrentTier:  models.TierBase,
		Pool:         new(big.Int),
		Status:       models.RoundStatusActive,
		StartedAt:    time.Now(),
	}

	st := &roundState{secret: secret, salt: salt, round: round}

	st.mu.Lock()
	defer st.mu.Unlock()

	if _, err := ge.ledger.Append(roundID, models.EventRoundStart, models.RoundStartPayload{
		Commitment: commitment,
		BaseBuyIn:  models.FormatAmount(baseBuyIn),
	}); err != nil {
		return models.Round{}, nil, err
	}

	signed, err := ge.attestor.AttestRoundStart(roundID, commitment, baseBuyIn)
	if err != nil {
		return models.Round{}, nil, err
	}

	ge.mu.Lock()
	ge.states[roundID] = st
	ge.mu.Unlock()

	snapshot := CloneRound(round)
	ge.store.Put(snapshot)

	ge.log.Info("round started",
		"round_id", roundID,
		"commitment", commitment.String(),
		"base_buy_in", baseBuyIn.String(),
		"nonce", signed.Nonce,
	)

	if ge.broadcaster != nil {
		ge.broadcaster.BroadcastRoundStarted(roundID, commitment, round.CurrentBuyIn.String())
	}

	return snapshot, signed, nil
}

// Guess processes one guess as an atomic unit. Validation failures leave the
// round untouched; an accepted guess appends the record, scores it, emits
// Guess and Hint audit entries and the signed hint, then applies escalation
// and winner effects when they fire.
func (ge *GameEngine) Guess(roundID string, player models.Address, guess string, buyInPaid *big.Int) (*models.GuessResult, error) {
	if err := ValidateGuess(guess); err != nil {
		return nil, err
	}
	if buyInPaid == nil || buyInPaid.Sign() < 0 {
		return nil, models.ErrInsufficientBuyIn
	}

	st := ge.state(roundID)
	if st == nil {
		return nil, models.ErrRoundNotFound
	}

	st.mu.Lock()
	defer st.mu.Unlock()

	round := st.round
	if round.Status != models.RoundStatusActive {
		return nil, models.ErrRoundNotActive
	}
	if buyInPaid.Cmp(round.CurrentBuyIn) < 0 {
		return nil, fmt.Errorf("%w: need %s, got %s",
			models.ErrInsufficientBuyIn, round.CurrentBuyIn, buyInPaid)
	}

	hint, err := Score(st.secret, guess, ge.pricing)
	if err != nil {
		return nil, err
	}

	record := models.GuessRecord{
		Player:    player,
		Guess:     guess,
		Hint:      hint,
		BuyInPaid: new(big.Int).Set(buyInPaid),
		Timestamp: time.Now(),
	}
	round.Guesses = append(round.Guesses, record)
	round.Pool.Add(round.Pool, buyInPaid)

	if _, err := ge.ledger.Append(roundID, models.EventGuess, models.GuessPayload{
		Player:    player,
		Guess:     guess,
		BuyInPaid: models.FormatAmount(buyInPaid),
	}); err != nil {
		return nil, err
	}
	if _, err := ge.ledger.Append(roundID, models.EventHint, models.HintPayload{
		Player:          player,
		DigitsInPlace:   hint.DigitsInPlace,
		DigitsCorrect:   hint.DigitsCorrect,
		NumericDistance: hint.NumericDistance,
		PriceTier:       hint.PriceTier,
	}); err != nil {
		return nil, err
	}

	signedHint, err := ge.attestor.AttestHint(roundID, player, hint)
	if err != nil {
		return nil, err
	}

	result := &models.GuessResult{
		Hint:       hint,
		SignedHint: signedHint,
	}

	if ge.pricing.ShouldEscalate(round.CurrentTier, hint.NumericDistance) {
		oldTier := round.CurrentTier
		round.CurrentTier = ge.pricing.TierFor(hint.NumericDistance)
		round.CurrentBuyIn = ge.pricing.BuyInFor(round.BaseBuyIn, hint.NumericDistance)

		if _, err := ge.ledger.Append(roundID, models.EventPriceChange, models.PriceChangePayload{
			OldTier:  oldTier,
			NewTier:  round.CurrentTier,
			NewBuyIn: models.FormatAmount(round.CurrentBuyIn),
			Distance: hint.NumericDistance,
			GuessIdx: len(round.Guesses) - 1,
		}); err != nil {
			return nil, err
		}

		priceUpdate, err := ge.attestor.AttestPriceUpdate(roundID, round.CurrentBuyIn)
		if err != nil {
			return nil, err
		}
		result.PriceUpdate = priceUpdate
	}

	if hint.IsExactMatch {
		round.Status = models.RoundStatusCompleted
		winner := player
		round.Winner = &winner
		round.EndedAt = time.Now()

		if _, err := ge.ledger.Append(roundID, models.EventWinner, models.WinnerPayload{
			Winner: player,
			Pool:   models.FormatAmount(round.Pool),
		}); err != nil {
			return nil, err
		}

		declaration, err := ge.attestor.AttestWinner(roundID, player)
		if err != nil {
			return nil, err
		}
		result.Winner = declaration

		ge.log.Info("round completed",
			"round_id", roundID,
			"winner", player.String(),
			"pool", round.Pool.String(),
			"guesses", len(round.Guesses),
		)
	}

	ge.store.Put(CloneRound(round))

	ge.publish(roundID, player, result, round)

	return result, nil
}

// AnchorAuditRoot signs the round's current merkle root and entry count,
// then records the anchor itself in the trail.
func (ge *GameEngine) AnchorAuditRoot(roundID string) (*models.SignedRootAnchor, error) {
	st := ge.state(roundID)
	if st == nil {
		return nil, models.ErrRoundNotFound
	}

	st.mu.Lock()
	defer st.mu.Unlock()

	root := ge.ledger.MerkleRoot(roundID)
	count := ge.ledger.EntryCount(roundID)

	anchor, err := ge.attestor.AttestRootAnchor(roundID, root, count)
	if err != nil {
		return nil, err
	}

	if _, err := ge.ledger.Append(roundID, models.EventRootAnchor, models.RootAnchorPayload{
		MerkleRoot: root,
		EntryCount: count,
		Nonce:      anchor.Nonce,
	}); err != nil {
		return nil, err
	}

	ge.log.Info("audit root anchored",
		"round_id", roundID,
		"merkle_root", root.String(),
		"entries", count,
	)

	return anchor, nil
}

// GetRound returns the latest stored snapshot.
func (ge *GameEngine) GetRound(roundID string) (models.Round, error) {
	round, ok := ge.store.Get(roundID)
	if !ok {
		return models.Round{}, models.ErrRoundNotFound
	}
	return round, nil
}

func (ge *GameEngine) AuditTrail(roundID string) (*models.AuditTrailResponse, error) {
	if ge.state(roundID) == nil {
		return nil, models.ErrRoundNotFound
	}
	return &models.AuditTrailResponse{
		RoundID:    roundID,
		Entries:    ge.ledger.Entries(roundID),
		MerkleRoot: ge.ledger.MerkleRoot(roundID),
	}, nil
}

// VerifyAudit re-checks the round's hash chain. Read-only; a failed check is
// reported to the caller and logged, never repaired.
func (ge *GameEngine) VerifyAudit(roundID string) (*models.ChainVerification, error) {
	if ge.state(roundID) == nil {
		return nil, models.ErrRoundNotFound
	}

	valid := ge.ledger.VerifyChain(roundID)
	if !valid {
		ge.log.Error("audit chain verification failed", "round_id", roundID)
	}

	return &models.ChainVerification{
		RoundID:    roundID,
		Valid:      valid,
		EntryCount: ge.ledger.EntryCount(roundID),
		MerkleRoot: ge.ledger.MerkleRoot(roundID),
	}, nil
}

func (ge *GameEngine) state(roundID string) *roundState {
	ge.mu.RLock()
	defer ge.mu.RUnlock()
	return ge.states[roundID]
}

func (ge *GameEngine) publish(roundID string, player models.Address, result *models.GuessResult, round *models.Round) {
	if ge.broadcaster == nil {
		return
	}
	ge.broadcaster.BroadcastHint(roundID, player, result.Hint)
	if result.PriceUpdate != nil {
		ge.broadcaster.BroadcastPriceUpdate(roundID, round.CurrentTier, round.CurrentBuyIn.String())
	}
	if result.Winner != nil {
		ge.broadcaster.BroadcastWinner(roundID, player, round.Pool.String())
	}
}
