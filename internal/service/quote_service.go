package service

import (
	"context"
	"log"
	"strings"

	"brokersim/internal/cache"
	"brokersim/internal/domain"
)

// CachedQuoteService wraps a quote source with a read-through cache. Cache
// failures are logged and ignored; a quote is never served stale past the
// cache TTL and never invented on provider failure.
type CachedQuoteService struct {
	source domain.QuoteService
	cache  cache.QuoteCache
}

// NewCachedQuoteService creates a new CachedQuoteService
func NewCachedQuoteService(source domain.QuoteService, quoteCache cache.QuoteCache) *CachedQuoteService {
	return &CachedQuoteService{
		source: source,
		cache:  quoteCache,
	}
}

// Lookup resolves a symbol via the cache first, falling back to the source
func (s *CachedQuoteService) Lookup(ctx context.Context, symbol string) (*domain.Quote, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))

	if cached, err := s.cache.Get(ctx, symbol); err != nil {
		log.Printf("WARNING: quote cache read failed for %s: %v", symbol, err)
	} else if cached != nil {
		return cached, nil
	}

	quote, err := s.source.Lookup(ctx, symbol)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, quote); err != nil {
		log.Printf("WARNING: quote cache write failed for %s: %v", quote.Symbol, err)
	}

	return quote, nil
}
