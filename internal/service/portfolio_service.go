package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"brokersim/internal/domain"
)

// PortfolioService derives share positions and portfolio valuations from the
// ledger. Nothing here is persisted; every call recomputes from the
// transaction log.
type PortfolioService struct {
	ledgerRepo domain.LedgerRepository
	userRepo   domain.UserRepository
	quotes     domain.QuoteService
}

// NewPortfolioService creates a new PortfolioService
func NewPortfolioService(
	ledgerRepo domain.LedgerRepository,
	userRepo domain.UserRepository,
	quotes domain.QuoteService,
) *PortfolioService {
	return &PortfolioService{
		ledgerRepo: ledgerRepo,
		userRepo:   userRepo,
		quotes:     quotes,
	}
}

// Holdings returns net share counts per symbol. Symbols whose net is exactly
// zero are included only when includeClosed is set.
func (s *PortfolioService) Holdings(ctx context.Context, userID uuid.UUID, includeClosed bool) (map[string]int64, error) {
	rows, err := s.ledgerRepo.Holdings(ctx, userID, includeClosed)
	if err != nil {
		return nil, err
	}

	holdings := make(map[string]int64, len(rows))
	for _, h := range rows {
		holdings[h.Symbol] = h.Shares
	}

	return holdings, nil
}

// PortfolioValue prices every open position live and totals them with the
// cash balance. If any held symbol's quote cannot be fetched the whole
// valuation fails, rather than silently omitting a position.
func (s *PortfolioService) PortfolioValue(ctx context.Context, userID uuid.UUID) (*domain.Portfolio, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	holdings, err := s.ledgerRepo.Holdings(ctx, userID, false)
	if err != nil {
		return nil, err
	}

	portfolio := &domain.Portfolio{
		Positions: make([]domain.Position, 0, len(holdings)),
		Cash:      user.Cash,
		Total:     user.Cash,
	}

	for _, h := range holdings {
		quote, err := s.quotes.Lookup(ctx, h.Symbol)
		if err != nil {
			return nil, fmt.Errorf("pricing %s: %w", h.Symbol, domain.ErrQuoteUnavailable)
		}

		value := quote.Price.Mul(decimal.NewFromInt(h.Shares))
		portfolio.Positions = append(portfolio.Positions, domain.Position{
			Symbol: h.Symbol,
			Name:   quote.Name,
			Shares: h.Shares,
			Price:  quote.Price,
			Value:  value,
		})
		portfolio.Total = portfolio.Total.Add(value)
	}

	return portfolio, nil
}
