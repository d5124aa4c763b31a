package http

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	custommiddleware "brokersim/internal/middleware"
)

// Pinger is the slice of the database pool the health check needs
type Pinger interface {
	Ping(ctx context.Context) error
}

// RouterConfig holds all dependencies for routing
type RouterConfig struct {
	AuthHandler      *AuthHandler
	PortfolioHandler *PortfolioHandler
	TradeHandler     *TradeHandler
	WebHandler       *WebHandler
	DB               Pinger
}

// SetupRoutes configures all HTTP routes
func SetupRoutes(e *echo.Echo, config *RouterConfig) {
	// Middleware
	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Skipper: func(c echo.Context) bool {
			// Skip logging for the health poll to reduce noise
			return c.Request().URL.Path == "/health"
		},
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.Secure())

	// Health check
	e.GET("/health", func(c echo.Context) error {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
		defer cancel()

		dbStatus := "healthy"
		if err := config.DB.Ping(ctx); err != nil {
			dbStatus = "unhealthy"
		}

		return c.JSON(http.StatusOK, map[string]interface{}{
			"status":    "healthy",
			"service":   "brokersim",
			"database":  dbStatus,
			"timestamp": time.Now().Format(time.RFC3339),
		})
	})

	// API group
	api := e.Group("/api")

	// Auth routes (public)
	auth := api.Group("/auth")
	{
		auth.POST("/register", config.AuthHandler.Register)
		auth.POST("/login", config.AuthHandler.Login)
		auth.POST("/logout", config.AuthHandler.Logout)
		auth.POST("/password", config.AuthHandler.ChangePassword, custommiddleware.AuthMiddleware)
	}

	// Authenticated API routes
	user := api.Group("", custommiddleware.AuthMiddleware)
	{
		user.GET("/user/me", config.PortfolioHandler.GetMe)
		user.GET("/portfolio", config.PortfolioHandler.GetPortfolio)
		user.GET("/holdings", config.PortfolioHandler.GetHoldings)
		user.GET("/history", config.TradeHandler.GetHistory)
		user.GET("/quote/:symbol", config.TradeHandler.GetQuote)
		user.POST("/trade/buy", config.TradeHandler.Buy)
		user.POST("/trade/sell", config.TradeHandler.Sell)
	}

	// Server-rendered pages
	RegisterWebRoutes(e, config.WebHandler, custommiddleware.WebAuthMiddleware)
}
