package service

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"brokersim/internal/domain"
)

// stubLedger serves a fixed set of holdings
type stubLedger struct {
	holdings []domain.Holding
}

func (s *stubLedger) RecordBuy(context.Context, *domain.Transaction, decimal.Decimal) error {
	return errors.New("not implemented")
}

func (s *stubLedger) RecordSell(context.Context, *domain.Transaction, decimal.Decimal) error {
	return errors.New("not implemented")
}

func (s *stubLedger) History(context.Context, uuid.UUID) ([]*domain.Transaction, error) {
	return nil, nil
}

func (s *stubLedger) Holdings(_ context.Context, _ uuid.UUID, includeClosed bool) ([]domain.Holding, error) {
	if includeClosed {
		return s.holdings, nil
	}
	var open []domain.Holding
	for _, h := range s.holdings {
		if h.Shares != 0 {
			open = append(open, h)
		}
	}
	return open, nil
}

func (s *stubLedger) HoldingForSymbol(_ context.Context, _ uuid.UUID, symbol string) (int64, error) {
	for _, h := range s.holdings {
		if h.Symbol == symbol {
			return h.Shares, nil
		}
	}
	return 0, nil
}

func (s *stubLedger) ActiveSymbols(context.Context) ([]string, error) {
	return nil, nil
}

// stubQuotes serves fixed quotes and counts lookups
type stubQuotes struct {
	quotes map[string]*domain.Quote
	calls  int
}

func (s *stubQuotes) Lookup(_ context.Context, symbol string) (*domain.Quote, error) {
	s.calls++
	q, ok := s.quotes[strings.ToUpper(symbol)]
	if !ok {
		return nil, domain.ErrQuoteUnavailable
	}
	return q, nil
}

func portfolioFixture(t *testing.T) (*PortfolioService, uuid.UUID) {
	t.Helper()

	users := newMemUsers()
	userID := uuid.New()
	users.byID[userID] = &domain.User{
		ID:       userID,
		Username: "alice",
		Cash:     decimal.RequireFromString("8500.00"),
	}

	ledger := &stubLedger{holdings: []domain.Holding{
		{Symbol: "AAPL", Shares: 10},
		{Symbol: "MSFT", Shares: 0},
		{Symbol: "NFLX", Shares: 4},
	}}

	quotes := &stubQuotes{quotes: map[string]*domain.Quote{
		"AAPL": {Symbol: "AAPL", Name: "Apple Inc", Price: decimal.RequireFromString("150.00")},
		"NFLX": {Symbol: "NFLX", Name: "Netflix Inc", Price: decimal.RequireFromString("400.00")},
	}}

	return NewPortfolioService(ledger, users, quotes), userID
}

func TestHoldingsClosedPositionFlag(t *testing.T) {
	svc, userID := portfolioFixture(t)
	ctx := context.Background()

	open, err := svc.Holdings(ctx, userID, false)
	if err != nil {
		t.Fatalf("Holdings failed: %v", err)
	}
	if want := map[string]int64{"AAPL": 10, "NFLX": 4}; !reflect.DeepEqual(open, want) {
		t.Errorf("open holdings = %v, want %v", open, want)
	}

	all, err := svc.Holdings(ctx, userID, true)
	if err != nil {
		t.Fatalf("Holdings failed: %v", err)
	}
	if want := map[string]int64{"AAPL": 10, "MSFT": 0, "NFLX": 4}; !reflect.DeepEqual(all, want) {
		t.Errorf("all holdings = %v, want %v", all, want)
	}
}

func TestPortfolioValue(t *testing.T) {
	svc, userID := portfolioFixture(t)

	portfolio, err := svc.PortfolioValue(context.Background(), userID)
	if err != nil {
		t.Fatalf("PortfolioValue failed: %v", err)
	}

	// 10×150 + 4×400 + 8500 cash; the net-zero MSFT position is not priced
	if len(portfolio.Positions) != 2 {
		t.Fatalf("expected 2 positions, got %d", len(portfolio.Positions))
	}
	if got := portfolio.Positions[0].Value.StringFixed(2); got != "1500.00" {
		t.Errorf("AAPL value = %s, want 1500.00", got)
	}
	if got := portfolio.Total.StringFixed(2); got != "11600.00" {
		t.Errorf("total = %s, want 11600.00", got)
	}
	if got := portfolio.Cash.StringFixed(2); got != "8500.00" {
		t.Errorf("cash = %s, want 8500.00", got)
	}
}

// A single missing quote fails the whole valuation instead of silently
// omitting the position.
func TestPortfolioValueFailsClosed(t *testing.T) {
	users := newMemUsers()
	userID := uuid.New()
	users.byID[userID] = &domain.User{ID: userID, Cash: decimal.RequireFromString("100.00")}

	ledger := &stubLedger{holdings: []domain.Holding{
		{Symbol: "AAPL", Shares: 10},
		{Symbol: "GONE", Shares: 2},
	}}
	quotes := &stubQuotes{quotes: map[string]*domain.Quote{
		"AAPL": {Symbol: "AAPL", Name: "Apple Inc", Price: decimal.RequireFromString("150.00")},
	}}

	svc := NewPortfolioService(ledger, users, quotes)
	_, err := svc.PortfolioValue(context.Background(), userID)
	if !errors.Is(err, domain.ErrQuoteUnavailable) {
		t.Errorf("expected ErrQuoteUnavailable, got %v", err)
	}
}

// Read paths must be idempotent: two calls with no intervening writes yield
// identical results.
func TestReadPathIdempotence(t *testing.T) {
	svc, userID := portfolioFixture(t)
	ctx := context.Background()

	first, err := svc.PortfolioValue(ctx, userID)
	if err != nil {
		t.Fatalf("PortfolioValue failed: %v", err)
	}
	second, err := svc.PortfolioValue(ctx, userID)
	if err != nil {
		t.Fatalf("PortfolioValue failed: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("portfolio valuation not idempotent:\n%+v\n%+v", first, second)
	}

	h1, _ := svc.Holdings(ctx, userID, false)
	h2, _ := svc.Holdings(ctx, userID, false)
	if !reflect.DeepEqual(h1, h2) {
		t.Errorf("holdings not idempotent: %v vs %v", h1, h2)
	}
}
