package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Transaction is a single entry in the append-only trade ledger.
// Shares is signed: positive for a buy, negative for a sell. Rows are never
// updated or deleted; positions are offset by appending new entries.
type Transaction struct {
	ID         uuid.UUID       `json:"id"`
	UserID     uuid.UUID       `json:"user_id"`
	Symbol     string          `json:"symbol"`
	Shares     int64           `json:"shares"`
	Price      decimal.Decimal `json:"price"` // per-share price at execution
	ExecutedAt time.Time       `json:"executed_at"`
}

// Side reports whether the entry records a buy or a sell.
func (t *Transaction) Side() string {
	if t.Shares < 0 {
		return SideSell
	}
	return SideBuy
}

// Amount is the total cash moved by this entry: |shares| × price.
func (t *Transaction) Amount() decimal.Decimal {
	shares := t.Shares
	if shares < 0 {
		shares = -shares
	}
	return t.Price.Mul(decimal.NewFromInt(shares))
}

// Trade side constants
const (
	SideBuy  = "BUY"
	SideSell = "SELL"
)
