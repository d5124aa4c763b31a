package dto

// TradeRequest represents a buy or sell request payload
type TradeRequest struct {
	Symbol string `json:"symbol" validate:"required"`
	Shares int64  `json:"shares" validate:"required,min=1"`
}

// TransactionOutput represents one ledger entry in API responses
type TransactionOutput struct {
	ID         string `json:"id"`
	Symbol     string `json:"symbol"`
	Side       string `json:"side"`
	Shares     int64  `json:"shares"`
	Price      string `json:"price"`
	Amount     string `json:"amount"`
	ExecutedAt string `json:"executed_at"`
}

// QuoteOutput represents a quote in API responses
type QuoteOutput struct {
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
	Price  string `json:"price"`
}
