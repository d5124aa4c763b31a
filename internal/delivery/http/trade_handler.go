package http

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"brokersim/internal/delivery/http/dto"
	"brokersim/internal/domain"
	"brokersim/internal/middleware"
	"brokersim/internal/usecase"
)

// TradeHandler handles trade execution, history and quote requests
type TradeHandler struct {
	trades *usecase.TradeService
}

// NewTradeHandler creates a new TradeHandler
func NewTradeHandler(trades *usecase.TradeService) *TradeHandler {
	return &TradeHandler{
		trades: trades,
	}
}

// Buy executes a buy order at the current quoted price
// POST /api/trade/buy
func (h *TradeHandler) Buy(c echo.Context) error {
	return h.execute(c, h.trades.Buy)
}

// Sell executes a sell order at the current quoted price
// POST /api/trade/sell
func (h *TradeHandler) Sell(c echo.Context) error {
	return h.execute(c, h.trades.Sell)
}

func (h *TradeHandler) execute(
	c echo.Context,
	op func(ctx context.Context, userID uuid.UUID, symbol string, shares int64) (*domain.Transaction, error),
) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return UnauthorizedResponse(c, "User not authenticated")
	}

	var req dto.TradeRequest
	if err := c.Bind(&req); err != nil {
		return BadRequestResponse(c, "Invalid request payload")
	}
	if req.Symbol == "" {
		return BadRequestResponse(c, "Symbol is required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 15*time.Second)
	defer cancel()

	txn, err := op(ctx, userID, req.Symbol, req.Shares)
	if err != nil {
		return DomainErrorResponse(c, err)
	}

	return CreatedResponse(c, transactionOutput(txn))
}

// GetHistory returns the user's full transaction log, newest first
// GET /api/history
func (h *TradeHandler) GetHistory(c echo.Context) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return UnauthorizedResponse(c, "User not authenticated")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	txns, err := h.trades.History(ctx, userID)
	if err != nil {
		return DomainErrorResponse(c, err)
	}

	out := make([]dto.TransactionOutput, 0, len(txns))
	for _, txn := range txns {
		out = append(out, transactionOutput(txn))
	}

	return SuccessResponse(c, out)
}

// GetQuote resolves a symbol to its current quote
// GET /api/quote/:symbol
func (h *TradeHandler) GetQuote(c echo.Context) error {
	symbol := c.Param("symbol")
	if symbol == "" {
		return BadRequestResponse(c, "Symbol is required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 15*time.Second)
	defer cancel()

	quote, err := h.trades.Quote(ctx, symbol)
	if err != nil {
		return DomainErrorResponse(c, err)
	}

	return SuccessResponse(c, dto.QuoteOutput{
		Symbol: quote.Symbol,
		Name:   quote.Name,
		Price:  quote.Price.StringFixed(2),
	})
}

func transactionOutput(txn *domain.Transaction) dto.TransactionOutput {
	return dto.TransactionOutput{
		ID:         txn.ID.String(),
		Symbol:     txn.Symbol,
		Side:       txn.Side(),
		Shares:     txn.Shares,
		Price:      txn.Price.StringFixed(2),
		Amount:     txn.Amount().StringFixed(2),
		ExecutedAt: txn.ExecutedAt.Format(time.RFC3339),
	}
}
