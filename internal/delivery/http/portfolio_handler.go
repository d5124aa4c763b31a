package http

import (
	"context"
	"time"

	"github.com/labstack/echo/v4"

	"brokersim/internal/delivery/http/dto"
	"brokersim/internal/domain"
	"brokersim/internal/middleware"
	"brokersim/internal/service"
)

// PortfolioHandler handles portfolio and account read requests
type PortfolioHandler struct {
	portfolios *service.PortfolioService
	userRepo   domain.UserRepository
}

// NewPortfolioHandler creates a new PortfolioHandler
func NewPortfolioHandler(portfolios *service.PortfolioService, userRepo domain.UserRepository) *PortfolioHandler {
	return &PortfolioHandler{
		portfolios: portfolios,
		userRepo:   userRepo,
	}
}

// GetMe returns current user details
// GET /api/user/me
func (h *PortfolioHandler) GetMe(c echo.Context) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return UnauthorizedResponse(c, "User not authenticated")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	user, err := h.userRepo.GetByID(ctx, userID)
	if err != nil {
		return DomainErrorResponse(c, err)
	}

	return SuccessResponse(c, dto.UserOutput{
		ID:       user.ID.String(),
		Username: user.Username,
		Cash:     user.Cash.StringFixed(2),
	})
}

// GetPortfolio returns the full live-priced portfolio valuation
// GET /api/portfolio
func (h *PortfolioHandler) GetPortfolio(c echo.Context) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return UnauthorizedResponse(c, "User not authenticated")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 30*time.Second)
	defer cancel()

	portfolio, err := h.portfolios.PortfolioValue(ctx, userID)
	if err != nil {
		return DomainErrorResponse(c, err)
	}

	out := dto.PortfolioOutput{
		Positions: make([]dto.PositionOutput, 0, len(portfolio.Positions)),
		Cash:      portfolio.Cash.StringFixed(2),
		Total:     portfolio.Total.StringFixed(2),
	}
	for _, p := range portfolio.Positions {
		out.Positions = append(out.Positions, dto.PositionOutput{
			Symbol: p.Symbol,
			Name:   p.Name,
			Shares: p.Shares,
			Price:  p.Price.StringFixed(2),
			Value:  p.Value.StringFixed(2),
		})
	}

	return SuccessResponse(c, out)
}

// GetHoldings returns net share counts per symbol. Pass ?include_closed=true
// to also list symbols whose net position is zero.
// GET /api/holdings
func (h *PortfolioHandler) GetHoldings(c echo.Context) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return UnauthorizedResponse(c, "User not authenticated")
	}

	includeClosed := c.QueryParam("include_closed") == "true"

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	holdings, err := h.portfolios.Holdings(ctx, userID, includeClosed)
	if err != nil {
		return DomainErrorResponse(c, err)
	}

	return SuccessResponse(c, dto.HoldingsOutput{Holdings: holdings})
}
