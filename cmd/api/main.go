package main

import (
	"log"
	"log/slog"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/owizdom/eigen-hotcold-lotto/internal/config"
	"github.com/owizdom/eigen-hotcold-lotto/internal/handlers"
	"github.com/owizdom/eigen-hotcold-lotto/internal/middleware"
	"github.com/owizdom/eigen-hotcold-lotto/internal/services"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	signer, err := services.NewEnclaveSigner(cfg.SignerSeed)
	if err != nil {
		log.Fatalf("Failed to initialize signer: %v", err)
	}

	attestor, err := services.NewAttestationService(signer, services.NewNonceCounter())
	if err != nil {
		log.Fatalf("Failed to initialize attestation service: %v", err)
	}

	pricing, err := loadPricing(cfg.PricingPath)
	if err != nil {
		log.Fatalf("Failed to load pricing config: %v", err)
	}

	engine, err := services.NewGameEngine(
		logger,
		services.NewMemoryRoundStore(),
		services.NewAuditLedger(),
		pricing,
		attestor,
	)
	if err != nil {
		log.Fatalf("Failed to initialize game engine: %v", err)
	}

	var redisService *services.RedisService
	if cfg.RedisAddr != "" {
		redisService, err = services.NewRedisService(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redisService.Close()
	} else {
		log.Println("REDIS_ADDR not set, running without rate limits and round history")
	}

	jwtService := services.NewJWTService(cfg.JWTSecret, 0)

	wsHandler := handlers.NewWebSocketHandler(logger)
	engine.SetBroadcaster(wsHandler)

	gameHandler := handlers.NewGameHandler(engine, redisService)
	operatorHandler := handlers.NewOperatorHandler(jwtService, cfg.OperatorKey)

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()

	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	router.POST("/operator/token", operatorHandler.IssueToken)

	router.GET("/ws", wsHandler.HandleWebSocket)
	router.GET("/attestation/identity", gameHandler.GetIdentity)

	rounds := router.Group("/rounds")
	{
		rounds.POST("/:id/guesses", gameHandler.SubmitGuess)
		rounds.GET("/:id", gameHandler.GetRound)
		rounds.GET("/:id/audit", gameHandler.GetAuditTrail)
		rounds.GET("/:id/audit/verify", gameHandler.VerifyAuditTrail)
		rounds.GET("/history", gameHandler.GetHistory)

		operator := rounds.Group("")
		operator.Use(middleware.OperatorAuth(jwtService))
		{
			operator.POST("", gameHandler.StartRound)
			operator.POST("/:id/anchor", gameHandler.AnchorAuditRoot)
		}
	}

	identity := engine.Identity()
	log.Printf("Enclave identity %s (%s mode), session %s",
		identity.Address, identity.Mode, identity.SessionID)

	log.Printf("Server starting on port %s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func loadPricing(path string) (*services.PricingEngine, error) {
	if path == "" {
		return services.NewPricingEngine(nil)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return services.NewPricingEngineFromYAML(data)
}
