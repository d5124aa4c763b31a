package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"brokersim/configs"
	"brokersim/internal/adapter"
	"brokersim/internal/cache"
	"brokersim/internal/database"
	delivery "brokersim/internal/delivery/http"
	"brokersim/internal/infra"
	"brokersim/internal/repository"
	"brokersim/internal/service"
	"brokersim/internal/usecase"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	// Load configuration
	cfg := configs.Load()

	ctx := context.Background()

	// Initialize database
	db, err := infra.NewDatabase(ctx, cfg.Database.URL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := database.RunMigrations(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	ledgerRepo := repository.NewLedgerRepository(db)

	// Initialize quote pipeline: HTTP client behind a read-through cache
	quoteClient := adapter.NewQuoteClient(
		cfg.Quote.BaseURL,
		cfg.Quote.APIToken,
		time.Duration(cfg.Quote.TimeoutSeconds)*time.Second,
	)

	cacheTTL := time.Duration(cfg.Quote.CacheTTLSecs) * time.Second
	var quoteCache cache.QuoteCache
	if cfg.Redis.URL != "" {
		opts, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			log.Fatalf("Failed to parse REDIS_URL: %v", err)
		}
		quoteCache = cache.NewRedisQuoteCache(redis.NewClient(opts), cacheTTL)
		log.Println("[OK] Quote cache: Redis")
	} else {
		quoteCache = cache.NewMemoryQuoteCache(cacheTTL)
		log.Println("[OK] Quote cache: in-memory")
	}

	quotes := service.NewCachedQuoteService(quoteClient, quoteCache)

	// Initialize services
	accounts := service.NewAccountService(userRepo, cfg.Trading.StartingCash)
	portfolios := service.NewPortfolioService(ledgerRepo, userRepo, quotes)
	trades := usecase.NewTradeService(ledgerRepo, quotes)

	// Keep quotes for held symbols warm in the background
	warmer := infra.NewQuoteWarmer(ledgerRepo, quotes)
	if err := warmer.Start(); err != nil {
		log.Fatalf("Failed to start quote warmer: %v", err)
	}
	defer warmer.Stop()

	// Initialize HTTP layer
	templates, err := delivery.ParseTemplates()
	if err != nil {
		log.Fatalf("Failed to parse templates: %v", err)
	}

	e := echo.New()
	e.HideBanner = true

	delivery.SetupRoutes(e, &delivery.RouterConfig{
		AuthHandler:      delivery.NewAuthHandler(accounts),
		PortfolioHandler: delivery.NewPortfolioHandler(portfolios, userRepo),
		TradeHandler:     delivery.NewTradeHandler(trades),
		WebHandler:       delivery.NewWebHandler(templates, accounts, portfolios, trades),
		DB:               db,
	})

	addr := ":" + cfg.Server.Port
	log.Printf("Brokersim starting on %s", addr)
	log.Printf("Environment: %s", cfg.Server.Env)
	log.Printf("Starting cash: $%s", cfg.Trading.StartingCash.StringFixed(2))

	// Run server in goroutine
	go func() {
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("[OK] Server exited gracefully")
}
