package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"brokersim/internal/cache"
	"brokersim/internal/domain"
)

func TestCachedQuoteServiceReadThrough(t *testing.T) {
	source := &stubQuotes{quotes: map[string]*domain.Quote{
		"AAPL": {Symbol: "AAPL", Name: "Apple Inc", Price: decimal.RequireFromString("150.00")},
	}}
	svc := NewCachedQuoteService(source, cache.NewMemoryQuoteCache(time.Minute))
	ctx := context.Background()

	first, err := svc.Lookup(ctx, "aapl")
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	second, err := svc.Lookup(ctx, "AAPL")
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}

	if source.calls != 1 {
		t.Errorf("expected 1 source call, got %d", source.calls)
	}
	if !first.Price.Equal(second.Price) || first.Symbol != second.Symbol {
		t.Errorf("cached quote differs: %+v vs %+v", first, second)
	}
}

func TestCachedQuoteServicePropagatesFailure(t *testing.T) {
	source := &stubQuotes{quotes: map[string]*domain.Quote{}}
	svc := NewCachedQuoteService(source, cache.NewMemoryQuoteCache(time.Minute))

	if _, err := svc.Lookup(context.Background(), "NOPE"); err == nil {
		t.Error("expected lookup failure to propagate")
	}
	if source.calls != 1 {
		t.Errorf("expected 1 source call, got %d", source.calls)
	}
}
