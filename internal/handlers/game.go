package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/owizdom/eigen-hotcold-lotto/internal/models"
	"github.com/owizdom/eigen-hotcold-lotto/internal/services"
)

type GameHandler struct {
	engine       *services.GameEngine
	redisService *services.RedisService // nil when redis is not configured
}

func NewGameHandler(engine *services.GameEngine, redisService *services.RedisService) *GameHandler {
	return &GameHandler{
		engine:       engine,
		redisService: redisService,
	}
}

func (h *GameHandler) StartRound(c *gin.Context) {
	var req models.StartRoundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request",
			"details": err.Error(),
		})
		return
	}

	baseBuyIn, err := models.ParseAmount(req.BaseBuyIn)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	round, signed, err := h.engine.StartRound(baseBuyIn)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":     true,
		"round":       roundView(round),
		"attestation": signed,
	})
}

func (h *GameHandler) SubmitGuess(c *gin.Context) {
	roundID := c.Param("id")

	var req models.GuessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request",
			"details": err.Error(),
		})
		return
	}

	player, err := models.ParseAddress(req.Player)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	paid, err := models.ParseAmount(req.BuyInPaid)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if h.redisService != nil {
		allowed, err := h.redisService.CheckRateLimit(player.String(), "guess",
			services.DefaultRateLimitGuesses, time.Minute)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Rate limit check failed"})
			return
		}
		if !allowed {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "Too many guesses. Please wait."})
			return
		}
	}

	result, err := h.engine.Guess(roundID, player, req.Guess, paid)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	if result.Winner != nil && h.redisService != nil {
		if round, rerr := h.engine.GetRound(roundID); rerr == nil {
			h.redisService.ArchiveRound(round)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"result":  result,
	})
}

func (h *GameHandler) GetRound(c *gin.Context) {
	round, err := h.engine.GetRound(c.Param("id"))
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"round":   roundView(round),
	})
}

func (h *GameHandler) GetAuditTrail(c *gin.Context) {
	trail, err := h.engine.AuditTrail(c.Param("id"))
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"trail":   trail,
	})
}

func (h *GameHandler) VerifyAuditTrail(c *gin.Context) {
	verification, err := h.engine.VerifyAudit(c.Param("id"))
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"verification": verification,
	})
}

func (h *GameHandler) AnchorAuditRoot(c *gin.Context) {
	anchor, err := h.engine.AnchorAuditRoot(c.Param("id"))
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"anchor":  anchor,
	})
}

func (h *GameHandler) GetIdentity(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"identity": h.engine.Identity(),
	})
}

func (h *GameHandler) GetHistory(c *gin.Context) {
	if h.redisService == nil {
		c.JSON(http.StatusOK, gin.H{"success": true, "rounds": []models.Round{}})
		return
	}

	limit, _ := strconv.ParseInt(c.DefaultQuery("limit", "50"), 10, 64)

	rounds, err := h.redisService.GetRoundHistory(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to fetch round history",
			"details": err.Error(),
		})
		return
	}

	views := make([]gin.H, 0, len(rounds))
	for _, round := range rounds {
		views = append(views, roundView(round))
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"rounds":  views,
	})
}

// roundView is the public shape of a round. The secret is never part of the
// model; guesses are summarized to a count.
func roundView(round models.Round) gin.H {
	view := gin.H{
		"id":             round.ID,
		"status":         round.Status,
		"commitment":     round.Commitment,
		"base_buy_in":    round.BaseBuyIn.String(),
		"current_buy_in": round.CurrentBuyIn.String(),
		"current_tier":   round.CurrentTier,
		"pool":           round.Pool.String(),
		"guess_count":    len(round.Guesses),
		"started_at":     round.StartedAt,
	}
	if round.Winner != nil {
		view["winner"] = round.Winner.String()
		view["ended_at"] = round.EndedAt
	}
	return view
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrRoundNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrRoundNotActive):
		return http.StatusConflict
	case errors.Is(err, models.ErrInsufficientBuyIn):
		return http.StatusPaymentRequired
	case errors.Is(err, models.ErrInvalidGuessFormat),
		errors.Is(err, models.ErrInvalidPlayer),
		errors.Is(err, models.ErrInvalidBuyIn):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrSignerUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
