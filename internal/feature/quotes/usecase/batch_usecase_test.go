package usecase

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"market_backend/internal/feature/quotes/domain"
	"market_backend/internal/feature/quotes/domain/entity"
)

// mockQuoteFetcher はQuoteFetcherインターフェースのモック実装です。
// FetchBatchは銘柄ごとにgoroutineを起こすため、呼び出し回数はmutexで保護します。
type mockQuoteFetcher struct {
	GetQuoteFunc func(ctx context.Context, symbol string) (entity.Quote, error)

	mu    sync.Mutex
	calls int
}

func (m *mockQuoteFetcher) GetQuote(ctx context.Context, symbol string) (entity.Quote, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	if m.GetQuoteFunc != nil {
		return m.GetQuoteFunc(ctx, symbol)
	}
	return entity.Quote{Symbol: symbol}, nil
}

func (m *mockQuoteFetcher) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func ptr[T any](v T) *T { return &v }

// TestBatchUsecase_FetchBatch_OrderPreserved は完了順に関わらず結果が
// 入力順で返ることを検証します。
func TestBatchUsecase_FetchBatch_OrderPreserved(t *testing.T) {
	t.Parallel()

	symbols := []string{"SPY", "QQQ", "IWM", "DIA"}
	market := &mockQuoteFetcher{
		GetQuoteFunc: func(ctx context.Context, symbol string) (entity.Quote, error) {
			// 先頭の銘柄ほど遅く完了させる
			switch symbol {
			case "SPY":
				time.Sleep(60 * time.Millisecond)
			case "QQQ":
				time.Sleep(40 * time.Millisecond)
			case "IWM":
				time.Sleep(20 * time.Millisecond)
			}
			return entity.Quote{Symbol: symbol, Price: ptr(100.0)}, nil
		},
	}

	uc := NewBatchUsecase(market, time.Second, DefaultMaxSymbols)
	out, err := uc.FetchBatch(context.Background(), symbols)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(out.Results) != len(symbols) {
		t.Fatalf("expected %d results, got %d", len(symbols), len(out.Results))
	}
	for i, s := range symbols {
		if out.Results[i].Symbol != s {
			t.Errorf("results[%d].Symbol = %q, want %q", i, out.Results[i].Symbol, s)
		}
	}
	if out.Status != entity.BatchSucceeded {
		t.Errorf("expected BatchSucceeded, got %v", out.Status)
	}
	if out.FailedCount != 0 {
		t.Errorf("expected FailedCount 0, got %d", out.FailedCount)
	}
}

// TestBatchUsecase_FetchBatch_PartialFailure は一部失敗時にPartialとなり、
// 失敗銘柄にエラー理由が入ることを検証します（SPY成功・BAD$YM失敗のシナリオ）。
func TestBatchUsecase_FetchBatch_PartialFailure(t *testing.T) {
	t.Parallel()

	market := &mockQuoteFetcher{
		GetQuoteFunc: func(ctx context.Context, symbol string) (entity.Quote, error) {
			if symbol == "BAD$YM" {
				return entity.Quote{}, errors.New("no data found for symbol")
			}
			return entity.Quote{Symbol: symbol, Price: ptr(512.34), Volume: ptr(int64(1000))}, nil
		},
	}

	uc := NewBatchUsecase(market, time.Second, DefaultMaxSymbols)
	out, err := uc.FetchBatch(context.Background(), []string{"SPY", "BAD$YM"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if out.Status != entity.BatchPartial {
		t.Fatalf("expected BatchPartial, got %v", out.Status)
	}
	if out.FailedCount != 1 {
		t.Errorf("expected FailedCount 1, got %d", out.FailedCount)
	}
	if out.Results[0].Price == nil || *out.Results[0].Price != 512.34 {
		t.Errorf("expected SPY price 512.34, got %v", out.Results[0].Price)
	}
	if out.Results[1].Error == "" {
		t.Error("expected error reason on BAD$YM result")
	}
	if out.Results[1].Symbol != "BAD$YM" {
		t.Errorf("failed result must keep its symbol, got %q", out.Results[1].Symbol)
	}
}

func TestBatchUsecase_FetchBatch_AllFailed(t *testing.T) {
	t.Parallel()

	market := &mockQuoteFetcher{
		GetQuoteFunc: func(ctx context.Context, symbol string) (entity.Quote, error) {
			return entity.Quote{}, errors.New("upstream down")
		},
	}

	uc := NewBatchUsecase(market, time.Second, DefaultMaxSymbols)
	out, err := uc.FetchBatch(context.Background(), []string{"SPY", "QQQ"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if out.Status != entity.BatchFailed {
		t.Errorf("expected BatchFailed, got %v", out.Status)
	}
	if out.FailedCount != 2 {
		t.Errorf("expected FailedCount 2, got %d", out.FailedCount)
	}
}

// TestBatchUsecase_FetchBatch_SlowSymbolTimesOut は遅い銘柄だけがタイムアウトし、
// 他の銘柄の成功を妨げないことを検証します。
func TestBatchUsecase_FetchBatch_SlowSymbolTimesOut(t *testing.T) {
	t.Parallel()

	market := &mockQuoteFetcher{
		GetQuoteFunc: func(ctx context.Context, symbol string) (entity.Quote, error) {
			if symbol == "SLOW" {
				time.Sleep(500 * time.Millisecond)
			}
			return entity.Quote{Symbol: symbol, Price: ptr(1.0)}, nil
		},
	}

	uc := NewBatchUsecase(market, 30*time.Millisecond, DefaultMaxSymbols)
	out, err := uc.FetchBatch(context.Background(), []string{"SPY", "SLOW"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if out.Results[0].Failed() {
		t.Errorf("SPY should succeed, got error %q", out.Results[0].Error)
	}
	if out.Results[1].Error != "request timed out" {
		t.Errorf("SLOW should time out, got error %q", out.Results[1].Error)
	}
	if out.Status != entity.BatchPartial {
		t.Errorf("expected BatchPartial, got %v", out.Status)
	}
}

// TestBatchUsecase_FetchBatch_TooManySymbols は上限超過時にフェッチを
// 一切行わずにエラーで返すことを検証します（25件, max=20のシナリオ）。
func TestBatchUsecase_FetchBatch_TooManySymbols(t *testing.T) {
	t.Parallel()

	market := &mockQuoteFetcher{}
	uc := NewBatchUsecase(market, time.Second, DefaultMaxSymbols)

	symbols := make([]string, 25)
	for i := range symbols {
		symbols[i] = "SYM" + strings.Repeat("X", i%3)
	}

	_, err := uc.FetchBatch(context.Background(), symbols)
	if !errors.Is(err, domain.ErrTooManySymbols) {
		t.Fatalf("expected ErrTooManySymbols, got %v", err)
	}
	if market.Calls() != 0 {
		t.Errorf("no fetch should be attempted, got %d calls", market.Calls())
	}
}

func TestBatchUsecase_FetchBatch_EmptySymbolRejected(t *testing.T) {
	t.Parallel()

	market := &mockQuoteFetcher{}
	uc := NewBatchUsecase(market, time.Second, DefaultMaxSymbols)

	_, err := uc.FetchBatch(context.Background(), []string{"SPY", ""})
	if !errors.Is(err, domain.ErrEmptySymbol) {
		t.Fatalf("expected ErrEmptySymbol, got %v", err)
	}
	if market.Calls() != 0 {
		t.Errorf("no fetch should be attempted, got %d calls", market.Calls())
	}
}

// TestBatchUsecase_FetchBatch_NoLimitForScheduledRuns はmaxSymbols=0のとき
// 上限チェックが無効になることを検証します（スケジュール実行用）。
func TestBatchUsecase_FetchBatch_NoLimitForScheduledRuns(t *testing.T) {
	t.Parallel()

	market := &mockQuoteFetcher{
		GetQuoteFunc: func(ctx context.Context, symbol string) (entity.Quote, error) {
			return entity.Quote{Symbol: symbol, Price: ptr(1.0)}, nil
		},
	}
	uc := NewBatchUsecase(market, time.Second, 0)

	symbols := make([]string, 30)
	for i := range symbols {
		symbols[i] = "S"
	}

	out, err := uc.FetchBatch(context.Background(), symbols)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out.Results) != 30 {
		t.Errorf("expected 30 results, got %d", len(out.Results))
	}
}
