package dto

// BarResponse is one OHLC bar in an API response.
// Time is a date string ("2006-01-02") for daily and coarser intervals,
// and a Unix timestamp (seconds) for intraday intervals.
type BarResponse struct {
	Time   any     `json:"time"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume int64   `json:"volume"`
}

// HistoryResponse is the payload for GET /api/historical.
type HistoryResponse struct {
	Symbol    string        `json:"symbol"`
	Period    string        `json:"period"`
	Interval  string        `json:"interval"`
	Timestamp string        `json:"timestamp"`
	Data      []BarResponse `json:"data"`
}
