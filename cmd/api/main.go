package main

import (
	"context"
	"database/sql"
	"log"
	"os"

	"github.com/AguMoya889/Pago-en-Linea/internal/command"
	"github.com/AguMoya889/Pago-en-Linea/internal/config"
	"github.com/AguMoya889/Pago-en-Linea/internal/events"
	"github.com/AguMoya889/Pago-en-Linea/internal/handler"
	"github.com/AguMoya889/Pago-en-Linea/internal/middleware"
	"github.com/AguMoya889/Pago-en-Linea/internal/query"
	appredis "github.com/AguMoya889/Pago-en-Linea/internal/redis"
	"github.com/AguMoya889/Pago-en-Linea/internal/repository"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	_ "github.com/lib/pq"
)

func main() {
	cfg := config.Load()

	// Database connection
	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	}

	// Redis connection
	redis, err := appredis.NewClient(cfg.RedisAddr, "", cfg.RedisDB)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redis.Close()

	publisher := events.NewPublisher(redis.Client)

	// Repositories
	userRepo := repository.NewUserRepository(db)
	accountReadRepo := repository.NewAccountReadRepository(db, redis.Client)
	ledgerRepo := repository.NewLedgerRepository(db)
	transactionReadRepo := repository.NewTransactionReadRepository(db, redis.Client)

	// Command + Query services
	registerSvc := command.NewRegisterCommandService(userRepo, publisher)
	transferSvc := command.NewTransferCommandService(accountReadRepo, ledgerRepo, transactionReadRepo, publisher)
	authSvc := query.NewAuthQueryService(userRepo)
	accountSvc := query.NewAccountQueryService(accountReadRepo)
	transactionSvc := query.NewTransactionQueryService(transactionReadRepo, accountReadRepo)

	// Handlers
	authHandler := handler.NewAuthHandler(registerSvc, authSvc)
	accountHandler := handler.NewAccountHandler(accountSvc)
	transferHandler := handler.NewTransferHandler(transferSvc)
	transactionHandler := handler.NewTransactionHandler(transactionSvc)

	// Keep cached account views current when other instances run transfers.
	hostname, _ := os.Hostname()
	subscriber := events.NewSubscriber(redis.Client, events.SubscriberConfig{
		Group:    "pago-api",
		Consumer: hostname,
		Stream:   events.TransferEventsStream,
		Handler:  transferSvc.HandleTransferEvent,
	})
	go func() {
		if err := subscriber.Start(context.Background()); err != nil && err != context.Canceled {
			log.Printf("Transfer event subscriber stopped: %v", err)
		}
	}()

	// Setup router
	router := gin.Default()
	router.Use(middleware.LoggingMiddleware())
	router.Use(cors.Default())

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Auth routes (no authentication required)
	auth := router.Group("/v1/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.RefreshToken)
	}

	// Authenticated routes
	v1 := router.Group("/v1", middleware.AuthMiddleware())
	{
		v1.GET("/accounts/me", accountHandler.GetOwnAccount)
		v1.POST("/transfers", transferHandler.CreateTransfer)
		v1.GET("/transactions", transactionHandler.ListTransactions)
		v1.GET("/transactions/:transactionId", transactionHandler.GetTransaction)
		v1.GET("/transactions/:transactionId/receipt", transactionHandler.GetReceipt)
	}

	log.Printf("Pago en Linea API starting on port %s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
