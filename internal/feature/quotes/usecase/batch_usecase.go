// Package usecase は複数銘柄の現在値を隔離フェッチで束ねるビジネスロジックを実装します。
package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"market_backend/internal/feature/quotes/domain"
	"market_backend/internal/feature/quotes/domain/entity"
	"market_backend/internal/shared/isolate"
)

const (
	// DefaultMaxSymbols は1リクエストで受け付ける銘柄数の上限です。
	DefaultMaxSymbols = 20
	// DefaultFetchTimeout は銘柄1件あたりの取得タイムアウトです。
	DefaultFetchTimeout = 10 * time.Second

	// timeoutReason はタイムアウトした銘柄の結果に入る理由文字列です。
	timeoutReason = "request timed out"
)

// QuoteFetcher は1銘柄の現在値を取得するリポジトリのインターフェイスです。
// 外部 API の実装を抽象化します。
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
type QuoteFetcher interface {
	GetQuote(ctx context.Context, symbol string) (entity.Quote, error)
}

// BatchUsecase は銘柄リストに対するバッチ取得のユースケースを定義します。
type BatchUsecase struct {
	market     QuoteFetcher
	timeout    time.Duration
	maxSymbols int // 0以下なら無制限（スケジュール実行用）
}

// NewBatchUsecase は新しいBatchUsecaseを生成します。
// timeoutが0以下の場合はDefaultFetchTimeoutを使用します。
func NewBatchUsecase(market QuoteFetcher, timeout time.Duration, maxSymbols int) *BatchUsecase {
	if timeout <= 0 {
		timeout = DefaultFetchTimeout
	}
	return &BatchUsecase{market: market, timeout: timeout, maxSymbols: maxSymbols}
}

// FetchBatch は各銘柄を並行に取得し、結果を入力と同じ順序で集約します。
//
// 各銘柄の取得は専用のタイムアウト境界（isolate.Run）で隔離されるため、
// 1銘柄の遅延が他の銘柄の結果を遅らせることはありません。個別の失敗は
// 結果内のErrorとして表現され、バッチ全体を中断しません。
// バリデーション違反（銘柄数超過・空銘柄）はフェッチ開始前にエラーで返します。
func (u *BatchUsecase) FetchBatch(ctx context.Context, symbols []string) (entity.BatchOutcome, error) {
	if u.maxSymbols > 0 && len(symbols) > u.maxSymbols {
		return entity.BatchOutcome{}, fmt.Errorf("%w: got %d, max %d",
			domain.ErrTooManySymbols, len(symbols), u.maxSymbols)
	}
	for _, s := range symbols {
		if s == "" {
			return entity.BatchOutcome{}, domain.ErrEmptySymbol
		}
	}

	results := make([]entity.Quote, len(symbols))
	var wg sync.WaitGroup
	for i, symbol := range symbols {
		wg.Add(1)
		go func(i int, symbol string) {
			defer wg.Done()
			results[i] = u.fetchOne(ctx, symbol)
		}(i, symbol)
	}
	wg.Wait()

	failed := 0
	for _, r := range results {
		if r.Failed() {
			failed++
		}
	}

	return entity.BatchOutcome{
		Requested:   symbols,
		Results:     results,
		FailedCount: failed,
		Status:      entity.ComputeStatus(failed, len(symbols)),
	}, nil
}

// fetchOne は1銘柄を隔離境界内で取得し、3種類の結果を必ずQuoteに畳み込みます。
func (u *BatchUsecase) fetchOne(ctx context.Context, symbol string) entity.Quote {
	out := isolate.Run(ctx, u.timeout, func(ctx context.Context) (entity.Quote, error) {
		return u.market.GetQuote(ctx, symbol)
	})

	switch out.State {
	case isolate.Succeeded:
		return out.Value
	case isolate.TimedOut:
		return entity.Quote{Symbol: symbol, Error: timeoutReason}
	default:
		return entity.Quote{Symbol: symbol, Error: out.Err.Error()}
	}
}
