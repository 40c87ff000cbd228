// Package entity defines the domain models for the quotes feature.
package entity

// Quote represents a current price/volume snapshot for a single symbol,
// produced by one fetch attempt.
//
// Price and Volume are validated independently: a quote may carry a usable
// price and a nil volume at the same time. Error is set only when the fetch
// as a whole failed (timeout or provider error); a successful fetch that
// returned an unusable price leaves Price nil with an empty Error.
type Quote struct {
	Symbol string   // Ticker symbol (e.g., "SPY", "ES=F")
	Price  *float64 // Last traded price; nil when absent or unusable
	Volume *int64   // Last traded volume; nil when absent or unusable
	Error  string   // Human-readable reason for a wholesale fetch failure
}

// Failed reports whether the fetch for this quote failed as a whole.
func (q Quote) Failed() bool {
	return q.Error != ""
}

// BatchStatus is the three-way aggregate outcome of a batch fetch.
type BatchStatus int

const (
	// BatchSucceeded means every symbol in the batch resolved to a quote.
	BatchSucceeded BatchStatus = iota
	// BatchPartial means some, but not all, symbols failed.
	BatchPartial
	// BatchFailed means every symbol in the batch failed.
	BatchFailed
)

// BatchOutcome aggregates per-symbol quotes for one batch request.
// Results has the same length and order as Requested, regardless of the
// order in which the underlying fetches completed.
type BatchOutcome struct {
	Requested   []string
	Results     []Quote
	FailedCount int
	Status      BatchStatus
}

// ComputeStatus derives the aggregate status from the failure count.
// It is a pure function of (failedCount, total).
func ComputeStatus(failedCount, total int) BatchStatus {
	switch {
	case failedCount == 0:
		return BatchSucceeded
	case failedCount == total:
		return BatchFailed
	default:
		return BatchPartial
	}
}
