package handlers

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/owizdom/eigen-hotcold-lotto/internal/models"
	"github.com/owizdom/eigen-hotcold-lotto/internal/services"
)

type OperatorHandler struct {
	jwtService  *services.JWTService
	operatorKey string
}

func NewOperatorHandler(jwtService *services.JWTService, operatorKey string) *OperatorHandler {
	return &OperatorHandler{
		jwtService:  jwtService,
		operatorKey: operatorKey,
	}
}

// IssueToken exchanges the configured operator key for a bearer token.
func (h *OperatorHandler) IssueToken(c *gin.Context) {
	var req models.OperatorTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request",
			"details": err.Error(),
		})
		return
	}

	if subtle.ConstantTimeCompare([]byte(req.Key), []byte(h.operatorKey)) != 1 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid operator key"})
		return
	}

	token, err := h.jwtService.GenerateOperatorToken()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to issue token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"token":   token,
	})
}
