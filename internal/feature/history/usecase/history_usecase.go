// Package usecase はOHLC履歴データ取得と正規化のビジネスロジックを実装します。
package usecase

import (
	"context"
	"fmt"
	"math"
	"time"

	"market_backend/internal/feature/history/domain"
	"market_backend/internal/feature/history/domain/entity"
	"market_backend/internal/shared/isolate"
)

const (
	// DefaultPeriod は履歴クエリのデフォルト取得期間です。
	DefaultPeriod = "1mo"
	// DefaultInterval は履歴クエリのデフォルト時間間隔です。
	DefaultInterval = "1d"
	// DefaultHistoryTimeout は履歴取得1件あたりのタイムアウトです。
	DefaultHistoryTimeout = 15 * time.Second
)

// MarketRepository は履歴データを取得するリポジトリのインターフェイスです。
// 外部 API の実装を抽象化します。
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
type MarketRepository interface {
	GetHistory(ctx context.Context, symbol, period, interval string) ([]entity.Bar, error)
}

// HistoryUsecase は履歴データ取得のユースケースを定義します。
type HistoryUsecase struct {
	market  MarketRepository
	timeout time.Duration
}

// NewHistoryUsecase は新しいHistoryUsecaseを生成します。
// timeoutが0以下の場合はDefaultHistoryTimeoutを使用します。
func NewHistoryUsecase(market MarketRepository, timeout time.Duration) *HistoryUsecase {
	if timeout <= 0 {
		timeout = DefaultHistoryTimeout
	}
	return &HistoryUsecase{market: market, timeout: timeout}
}

// GetHistory は指定銘柄のOHLC履歴を隔離境界内で取得し、正規化して返します。
//
// パラメータはフェッチ開始前に検証されます。空の結果は「データ無し」であって
// エラーではないため、空スライスをそのまま返します（404への変換はハンドラー側）。
// 取得がタイムアウトした場合はErrFetchTimeoutを返します。
func (u *HistoryUsecase) GetHistory(ctx context.Context, symbol, period, interval string) ([]entity.Bar, error) {
	if symbol == "" {
		return nil, domain.ErrMissingSymbol
	}
	if period == "" {
		period = DefaultPeriod
	}
	if interval == "" {
		interval = DefaultInterval
	}
	if !entity.IsValidPeriod(period) {
		return nil, fmt.Errorf("%w: %q, must be one of %v", domain.ErrInvalidPeriod, period, entity.ValidPeriods)
	}
	if !entity.IsValidInterval(interval) {
		return nil, fmt.Errorf("%w: %q, must be one of %v", domain.ErrInvalidInterval, interval, entity.ValidIntervals)
	}

	out := isolate.Run(ctx, u.timeout, func(ctx context.Context) ([]entity.Bar, error) {
		return u.market.GetHistory(ctx, symbol, period, interval)
	})

	switch out.State {
	case isolate.Succeeded:
		return Normalize(out.Value, symbol, interval), nil
	case isolate.TimedOut:
		return nil, domain.ErrFetchTimeout
	default:
		return nil, out.Err
	}
}

// Normalize は生のOHLC行を正規形に変換します。
// OHLCは小数第2位に丸め（round half away from zero）、銘柄と時間間隔を
// 各バーに設定します。空入力は空の結果です（データ無しはエラーではない)。
func Normalize(bars []entity.Bar, symbol, interval string) []entity.Bar {
	out := make([]entity.Bar, 0, len(bars))
	for _, b := range bars {
		b.Symbol = symbol
		b.Interval = interval
		b.Open = round2(b.Open)
		b.High = round2(b.High)
		b.Low = round2(b.Low)
		b.Close = round2(b.Close)
		out = append(out, b)
	}
	return out
}

// round2 はfloat64を小数第2位に丸めます（五捨五入は絶対値で切り上げ）。
// 丸めは2進表現上の値に対して行われる点に注意してください。
func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
