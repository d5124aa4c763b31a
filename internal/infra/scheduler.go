package infra

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"brokersim/internal/domain"
)

// QuoteWarmer periodically re-fetches quotes for every symbol with an open
// position somewhere in the system, keeping the quote cache warm so portfolio
// pages rarely wait on the external provider.
type QuoteWarmer struct {
	cron       *cron.Cron
	ledgerRepo domain.LedgerRepository
	quotes     domain.QuoteService
}

// NewQuoteWarmer creates a new QuoteWarmer
func NewQuoteWarmer(ledgerRepo domain.LedgerRepository, quotes domain.QuoteService) *QuoteWarmer {
	return &QuoteWarmer{
		cron:       cron.New(),
		ledgerRepo: ledgerRepo,
		quotes:     quotes,
	}
}

// Start starts the warmer on a one-minute cadence
func (w *QuoteWarmer) Start() error {
	_, err := w.cron.AddFunc("*/1 * * * *", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 45*time.Second)
		defer cancel()

		if err := w.RunOnce(ctx); err != nil {
			log.Printf("ERROR: quote warm-up failed: %v", err)
		}
	})
	if err != nil {
		return err
	}

	w.cron.Start()
	log.Println("[OK] Quote warmer started (every 1 minute)")
	return nil
}

// RunOnce warms the cache for all actively held symbols. Individual lookup
// failures are logged and skipped; a cold cache entry only means the next
// page load pays for the fetch itself.
func (w *QuoteWarmer) RunOnce(ctx context.Context) error {
	symbols, err := w.ledgerRepo.ActiveSymbols(ctx)
	if err != nil {
		return err
	}

	for _, symbol := range symbols {
		if _, err := w.quotes.Lookup(ctx, symbol); err != nil {
			log.Printf("WARNING: quote warm-up skipped %s: %v", symbol, err)
		}
	}

	return nil
}

// Stop stops the warmer gracefully
func (w *QuoteWarmer) Stop() {
	w.cron.Stop()
	log.Println("[OK] Quote warmer stopped")
}
