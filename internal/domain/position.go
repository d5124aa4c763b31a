package domain

import (
	"github.com/shopspring/decimal"
)

// Holding is the derived net share count for one user/symbol pair. It is
// never persisted; it is recomputed from the ledger on demand so the ledger
// stays the single source of truth.
type Holding struct {
	Symbol string `json:"symbol"`
	Shares int64  `json:"shares"`
}

// Position is a holding valued at the current market price.
type Position struct {
	Symbol string          `json:"symbol"`
	Name   string          `json:"name"`
	Shares int64           `json:"shares"`
	Price  decimal.Decimal `json:"price"`
	Value  decimal.Decimal `json:"value"` // shares × price
}

// Portfolio is the full valuation of a user's account: every open position
// priced live, plus the cash balance.
type Portfolio struct {
	Positions []Position      `json:"positions"`
	Cash      decimal.Decimal `json:"cash"`
	Total     decimal.Decimal `json:"total"` // Σ position values + cash
}
