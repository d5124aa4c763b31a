package domain

import "context"

// QuoteService resolves a ticker symbol to a current quote. Implementations
// must return ErrUnknownSymbol for unrecognised symbols and
// ErrQuoteUnavailable for any other lookup failure.
type QuoteService interface {
	Lookup(ctx context.Context, symbol string) (*Quote, error)
}
