package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"brokersim/internal/domain"
)

// QuoteClient fetches live quotes from an IEX-style HTTP API
type QuoteClient struct {
	baseURL    string
	apiToken   string
	httpClient *http.Client
}

// NewQuoteClient creates a new QuoteClient. timeout bounds every lookup; a
// quote past the deadline is treated as failed, not retried.
func NewQuoteClient(baseURL, apiToken string, timeout time.Duration) *QuoteClient {
	return &QuoteClient{
		baseURL:  strings.TrimRight(baseURL, "/"),
		apiToken: apiToken,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// quoteResponse mirrors the provider's wire format
type quoteResponse struct {
	Symbol      string      `json:"symbol"`
	CompanyName string      `json:"companyName"`
	LatestPrice json.Number `json:"latestPrice"`
}

// Lookup resolves a symbol to its current quote. A 404 from the provider
// means the symbol is unknown; any other failure, malformed body included,
// means the quote is unavailable.
func (c *QuoteClient) Lookup(ctx context.Context, symbol string) (*domain.Quote, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return nil, domain.ErrUnknownSymbol
	}

	reqURL := fmt.Sprintf("%s/stock/%s/quote?token=%s",
		c.baseURL, url.PathEscape(symbol), url.QueryEscape(c.apiToken))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create quote request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("quote lookup for %s failed: %w", symbol, domain.ErrQuoteUnavailable)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, domain.ErrUnknownSymbol
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("quote provider returned status %d for %s: %w",
			resp.StatusCode, symbol, domain.ErrQuoteUnavailable)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read quote body for %s: %w", symbol, domain.ErrQuoteUnavailable)
	}

	var qr quoteResponse
	if err := json.Unmarshal(body, &qr); err != nil {
		return nil, fmt.Errorf("malformed quote body for %s: %w", symbol, domain.ErrQuoteUnavailable)
	}

	price, err := decimal.NewFromString(qr.LatestPrice.String())
	if err != nil || price.IsNegative() || qr.Symbol == "" {
		return nil, fmt.Errorf("malformed quote for %s: %w", symbol, domain.ErrQuoteUnavailable)
	}

	return &domain.Quote{
		Symbol: strings.ToUpper(qr.Symbol),
		Name:   qr.CompanyName,
		Price:  price,
	}, nil
}
