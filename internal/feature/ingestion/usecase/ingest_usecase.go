// Package usecase は定期実行によるマーケットデータの永続化を実装します。
package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	hentity "market_backend/internal/feature/history/domain/entity"
	qentity "market_backend/internal/feature/quotes/domain/entity"
)

const (
	// historicalPeriod は履歴フェーズで取り込む期間です。直近数日分を
	// 再取得することで、前回実行時の欠損や訂正値を埋め直します。
	historicalPeriod = "5d"
	// historicalInterval は履歴フェーズで取り込む時間間隔です。
	historicalInterval = "1d"
)

// BatchFetcher は現在値をまとめて取得するインターフェースです。
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
type BatchFetcher interface {
	FetchBatch(ctx context.Context, symbols []string) (qentity.BatchOutcome, error)
}

// HistoryProvider はOHLC履歴を取得するインターフェースです。
// 実装側でタイムアウト隔離と正規化が済んでいることを前提とします。
type HistoryProvider interface {
	GetHistory(ctx context.Context, symbol, period, interval string) ([]hentity.Bar, error)
}

// QuoteStore は現在値のスナップショットを永続化するインターフェースです。
type QuoteStore interface {
	InsertBatch(ctx context.Context, quotes []qentity.Quote, ts time.Time) error
}

// BarStore はOHLC履歴を永続化するインターフェースです。
type BarStore interface {
	UpsertBatch(ctx context.Context, bars []hentity.Bar, fetchedAt time.Time) error
}

// IngestUsecase は定期実行1回分の取り込み処理を定義します。
//
// フェーズ1（毎回）: 全銘柄の現在値を取得し、スナップショットとして挿入します。
// フェーズ2（米国東部時間16:25〜16:40の実行時のみ）: 日足の履歴を取得し、
// (symbol, date, interval_type)キーでupsertします。市場クローズ直後の
// 確定値を1日1回だけ取り込むための時間窓です。
type IngestUsecase struct {
	market  BatchFetcher
	history HistoryProvider
	quotes  QuoteStore
	bars    BarStore
	now     func() time.Time
	eastern *time.Location
}

// NewIngestUsecase は新しいIngestUsecaseを作成します。
// 東部時間のタイムゾーンデータが読み込めない環境ではエラーを返します。
func NewIngestUsecase(market BatchFetcher, history HistoryProvider, quotes QuoteStore, bars BarStore, now func() time.Time) (*IngestUsecase, error) {
	eastern, err := time.LoadLocation("America/New_York")
	if err != nil {
		return nil, fmt.Errorf("load US/Eastern timezone: %w", err)
	}
	if now == nil {
		now = time.Now
	}
	return &IngestUsecase{
		market:  market,
		history: history,
		quotes:  quotes,
		bars:    bars,
		now:     now,
		eastern: eastern,
	}, nil
}

// Run は取り込みを1回実行します。
//
// 個々の銘柄の取得失敗はログに出力して処理を続けますが、データベースへの
// 書き込み失敗は実行全体の失敗としてエラーを返します。
func (iu *IngestUsecase) Run(ctx context.Context, symbols []string) error {
	ts := iu.now().UTC()

	out, err := iu.market.FetchBatch(ctx, symbols)
	if err != nil {
		return fmt.Errorf("fetch quotes: %w", err)
	}
	for _, q := range out.Results {
		if q.Failed() {
			slog.Warn("quote fetch failed", "symbol", q.Symbol, "reason", q.Error)
		} else if q.Price == nil {
			slog.Warn("quote has no usable price, skipping", "symbol", q.Symbol)
		}
	}
	if err := iu.quotes.InsertBatch(ctx, out.Results, ts); err != nil {
		return fmt.Errorf("insert quotes: %w", err)
	}
	slog.Info("quote snapshot stored", "symbols", len(symbols), "failed", out.FailedCount)

	if !iu.inHistoricalWindow() {
		return nil
	}

	for _, s := range symbols {
		bars, err := iu.history.GetHistory(ctx, s, historicalPeriod, historicalInterval)
		if err != nil {
			// 1つの銘柄でエラーが発生しても処理を止めずにログに出力し、次の銘柄を続ける
			slog.Error("failed to ingest historical data", "symbol", s, "error", err)
			continue
		}
		if len(bars) == 0 {
			slog.Warn("no historical data returned", "symbol", s)
			continue
		}
		if err := iu.bars.UpsertBatch(ctx, bars, ts); err != nil {
			return fmt.Errorf("upsert historical data for %s: %w", s, err)
		}
		slog.Info("historical data stored", "symbol", s, "bars", len(bars))
	}
	return nil
}

// inHistoricalWindow は現在時刻が米国東部時間の16:25〜16:40に
// 入っているかを判定します。
func (iu *IngestUsecase) inHistoricalWindow() bool {
	et := iu.now().In(iu.eastern)
	return et.Hour() == 16 && et.Minute() >= 25 && et.Minute() <= 40
}
