// Package yahoo はYahoo Financeを外部データソースとするリポジトリ実装を提供します。
package yahoo

import (
	"context"
	"fmt"
	"time"

	finance "github.com/piquette/finance-go"
	"github.com/piquette/finance-go/chart"
	"github.com/piquette/finance-go/datetime"
	"github.com/piquette/finance-go/quote"

	hentity "market_backend/internal/feature/history/domain/entity"
	historyuc "market_backend/internal/feature/history/usecase"
	qentity "market_backend/internal/feature/quotes/domain/entity"
	quotesuc "market_backend/internal/feature/quotes/usecase"
	"market_backend/internal/shared/numeric"
)

// Market はYahoo Financeから現在値とOHLC履歴を取得します。
type Market struct{}

var _ quotesuc.QuoteFetcher = (*Market)(nil)
var _ historyuc.MarketRepository = (*Market)(nil)

// NewMarket は新しいMarketを生成します。
func NewMarket() *Market {
	return &Market{}
}

// GetQuote は1銘柄の現在値を取得します。
//
// 取得自体は成功したが値が検証を通らない場合、そのフィールドをnilにした
// 結果を返します。呼び出し側は「値なし」として扱い、失敗にはカウント
// しません。
func (m *Market) GetQuote(ctx context.Context, symbol string) (qentity.Quote, error) {
	q, err := quote.Get(symbol)
	if err != nil {
		return qentity.Quote{}, fmt.Errorf("yahoo quote %s: %w", symbol, err)
	}
	if q == nil {
		return qentity.Quote{}, fmt.Errorf("yahoo quote %s: no data found", symbol)
	}
	return toQuote(symbol, q), nil
}

// toQuote は取得結果をドメインのQuoteに変換します。
// 価格と出来高は独立して検証されます: 価格は有限な数値かつ0以上、
// 出来高は0以上。片方が不正でももう片方は保持されます。
func toQuote(symbol string, q *finance.Quote) qentity.Quote {
	out := qentity.Quote{Symbol: symbol}
	if numeric.IsUsable(q.RegularMarketPrice) && q.RegularMarketPrice >= 0 {
		price := q.RegularMarketPrice
		out.Price = &price
	}
	if q.RegularMarketVolume >= 0 {
		volume := int64(q.RegularMarketVolume)
		out.Volume = &volume
	}
	return out
}

// GetHistory は指定期間・時間間隔のOHLC履歴を取得します。
// 価格の丸めや銘柄の設定はusecase側の正規化で行われます。
func (m *Market) GetHistory(ctx context.Context, symbol, period, interval string) ([]hentity.Bar, error) {
	end := time.Now()
	start := periodStart(end, period)

	params := &chart.Params{
		Symbol:   symbol,
		Start:    datetime.New(&start),
		End:      datetime.New(&end),
		Interval: datetime.Interval(interval),
	}

	iter := chart.Get(params)

	bars := make([]hentity.Bar, 0)
	for iter.Next() {
		b := iter.Bar()

		open, _ := b.Open.Float64()
		high, _ := b.High.Float64()
		low, _ := b.Low.Float64()
		closePrice, _ := b.Close.Float64()

		bars = append(bars, hentity.Bar{
			Symbol:   symbol,
			Interval: interval,
			Time:     time.Unix(int64(b.Timestamp), 0).UTC(),
			Open:     open,
			High:     high,
			Low:      low,
			Close:    closePrice,
			Volume:   int64(b.Volume),
		})
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("yahoo chart %s: %w", symbol, err)
	}
	return bars, nil
}

// periodStart は取得期間の文字列を開始時刻に変換します。
func periodStart(end time.Time, period string) time.Time {
	switch period {
	case "1d":
		return end.AddDate(0, 0, -1)
	case "5d":
		return end.AddDate(0, 0, -5)
	case "1mo":
		return end.AddDate(0, -1, 0)
	case "3mo":
		return end.AddDate(0, -3, 0)
	case "6mo":
		return end.AddDate(0, -6, 0)
	case "1y":
		return end.AddDate(-1, 0, 0)
	case "2y":
		return end.AddDate(-2, 0, 0)
	case "5y":
		return end.AddDate(-5, 0, 0)
	case "10y":
		return end.AddDate(-10, 0, 0)
	case "ytd":
		return time.Date(end.Year(), time.January, 1, 0, 0, 0, 0, end.Location())
	case "max":
		// Yahooのデータが存在しうる十分過去の時点
		return time.Date(1970, time.January, 1, 0, 0, 0, 0, time.UTC)
	default:
		return end.AddDate(0, -1, 0)
	}
}
