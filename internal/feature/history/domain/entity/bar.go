// Package entity defines the domain models for the history feature.
package entity

import "time"

// ValidPeriods is the set of accepted lookback periods for history queries.
var ValidPeriods = []string{"1d", "5d", "1mo", "3mo", "6mo", "1y", "2y", "5y", "10y", "ytd", "max"}

// ValidIntervals is the set of accepted bar sampling intervals.
var ValidIntervals = []string{"1m", "2m", "5m", "15m", "30m", "60m", "90m", "1h", "1d", "5d", "1wk", "1mo", "3mo"}

// dailyOrCoarser holds the intervals whose bars are identified by a calendar
// date rather than an instant.
var dailyOrCoarser = map[string]bool{
	"1d": true, "5d": true, "1wk": true, "1mo": true, "3mo": true,
}

// Bar represents one OHLCV sample for a symbol over an interval.
// OHLC values are rounded to 2 decimal places during normalization; the
// upstream ordering invariant (high >= open/close/low) is passed through
// without re-validation.
type Bar struct {
	Symbol   string    // Ticker symbol (e.g., "SPY")
	Interval string    // Sampling interval (e.g., "1d", "5m")
	Time     time.Time // Bar timestamp as reported upstream (UTC)
	Open     float64
	High     float64
	Low      float64
	Close    float64
	Volume   int64
}

// TimeKey returns the wire representation of the bar's time: a calendar date
// string ("2006-01-02") for daily-or-coarser intervals, the Unix timestamp in
// seconds otherwise.
func (b Bar) TimeKey() any {
	if IsDailyOrCoarser(b.Interval) {
		return b.Time.Format("2006-01-02")
	}
	return b.Time.Unix()
}

// Date returns the bar's calendar date with the time of day stripped.
// It is the date component of the persistence key (symbol, date, interval).
func (b Bar) Date() time.Time {
	y, m, d := b.Time.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// IsDailyOrCoarser reports whether bars of the given interval are identified
// by calendar dates.
func IsDailyOrCoarser(interval string) bool {
	return dailyOrCoarser[interval]
}

// IsValidPeriod reports whether p is an accepted period value.
func IsValidPeriod(p string) bool {
	for _, v := range ValidPeriods {
		if v == p {
			return true
		}
	}
	return false
}

// IsValidInterval reports whether i is an accepted interval value.
func IsValidInterval(i string) bool {
	for _, v := range ValidIntervals {
		if v == i {
			return true
		}
	}
	return false
}
