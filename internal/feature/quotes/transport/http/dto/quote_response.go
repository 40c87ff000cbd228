// Package dto defines request/response payloads for the quotes endpoints.
package dto

// QuoteItem is the per-ticker element of a batch quote response.
// Price and Volume are null when no usable value was available.
type QuoteItem struct {
	Symbol string   `json:"symbol"`
	Price  *float64 `json:"price"`
	Volume *int64   `json:"volume,omitempty"`
	Error  string   `json:"error,omitempty"`
}

// QuotesResponse is the aggregate response for a batch quote request.
// Tickers preserves the order of TickersRequested.
type QuotesResponse struct {
	Timestamp        string      `json:"timestamp"`
	Tickers          []QuoteItem `json:"tickers"`
	TickersRequested []string    `json:"tickers_requested"`
}

// QuotesRequest is the optional JSON body of a quote request.
type QuotesRequest struct {
	Tickers []string `json:"tickers"`
}
