package dto

// PositionOutput represents one valued position in API responses
type PositionOutput struct {
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
	Shares int64  `json:"shares"`
	Price  string `json:"price"`
	Value  string `json:"value"`
}

// PortfolioOutput represents the full portfolio valuation
type PortfolioOutput struct {
	Positions []PositionOutput `json:"positions"`
	Cash      string           `json:"cash"`
	Total     string           `json:"total"`
}

// HoldingsOutput represents net share counts per symbol
type HoldingsOutput struct {
	Holdings map[string]int64 `json:"holdings"`
}
