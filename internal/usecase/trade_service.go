package usecase

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"brokersim/internal/domain"
)

// TradeService validates and records buy/sell operations against the ledger.
// Each call is a one-shot accept/reject: every check runs before any
// mutation, and the ledger append plus cash adjustment commit as a unit.
type TradeService struct {
	ledgerRepo domain.LedgerRepository
	quotes     domain.QuoteService
}

// NewTradeService creates a new TradeService
func NewTradeService(ledgerRepo domain.LedgerRepository, quotes domain.QuoteService) *TradeService {
	return &TradeService{
		ledgerRepo: ledgerRepo,
		quotes:     quotes,
	}
}

// Buy purchases shares at the current quoted price, deducting the cost from
// the user's cash balance.
func (s *TradeService) Buy(ctx context.Context, userID uuid.UUID, symbol string, shares int64) (*domain.Transaction, error) {
	if shares <= 0 {
		return nil, domain.ErrInvalidQuantity
	}

	quote, err := s.quotes.Lookup(ctx, symbol)
	if err != nil {
		return nil, err
	}

	cost := quote.Price.Mul(decimal.NewFromInt(shares))
	txn := &domain.Transaction{
		ID:         uuid.New(),
		UserID:     userID,
		Symbol:     quote.Symbol,
		Shares:     shares,
		Price:      quote.Price,
		ExecutedAt: time.Now(),
	}

	if err := s.ledgerRepo.RecordBuy(ctx, txn, cost); err != nil {
		return nil, err
	}

	log.Printf("[TRADE] BUY %d %s @ %s (user=%s, cost=%s)",
		shares, quote.Symbol, quote.Price, userID, cost)

	return txn, nil
}

// Sell sells shares the user holds at the current quoted price, crediting
// the proceeds to the cash balance. A sell never drives net holdings of a
// symbol negative; the repository re-verifies the sum inside the same
// database transaction that appends the entry.
func (s *TradeService) Sell(ctx context.Context, userID uuid.UUID, symbol string, shares int64) (*domain.Transaction, error) {
	if shares <= 0 {
		return nil, domain.ErrInvalidQuantity
	}

	symbol = strings.ToUpper(strings.TrimSpace(symbol))

	held, err := s.ledgerRepo.HoldingForSymbol(ctx, userID, symbol)
	if err != nil {
		return nil, err
	}
	if held < shares {
		return nil, domain.ErrInsufficientShares
	}

	quote, err := s.quotes.Lookup(ctx, symbol)
	if err != nil {
		return nil, err
	}

	proceeds := quote.Price.Mul(decimal.NewFromInt(shares))
	txn := &domain.Transaction{
		ID:         uuid.New(),
		UserID:     userID,
		Symbol:     quote.Symbol,
		Shares:     -shares,
		Price:      quote.Price,
		ExecutedAt: time.Now(),
	}

	if err := s.ledgerRepo.RecordSell(ctx, txn, proceeds); err != nil {
		return nil, err
	}

	log.Printf("[TRADE] SELL %d %s @ %s (user=%s, proceeds=%s)",
		shares, quote.Symbol, quote.Price, userID, proceeds)

	return txn, nil
}

// History returns the user's full transaction log, newest first
func (s *TradeService) History(ctx context.Context, userID uuid.UUID) ([]*domain.Transaction, error) {
	return s.ledgerRepo.History(ctx, userID)
}

// Quote resolves a symbol to its current quote
func (s *TradeService) Quote(ctx context.Context, symbol string) (*domain.Quote, error) {
	return s.quotes.Lookup(ctx, symbol)
}
