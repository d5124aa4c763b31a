package domain

import (
	"github.com/shopspring/decimal"
)

// Quote is an externally sourced current price for a ticker symbol.
type Quote struct {
	Symbol string          `json:"symbol"`
	Name   string          `json:"name"`
	Price  decimal.Decimal `json:"price"`
}
