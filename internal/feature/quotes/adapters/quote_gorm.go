package adapters

import (
	"context"
	"time"

	"gorm.io/gorm"

	"market_backend/internal/feature/quotes/domain/entity"
)

type quoteGorm struct {
	db *gorm.DB
}

// NewQuoteRepository は現在値の永続化リポジトリを生成します。
func NewQuoteRepository(db *gorm.DB) *quoteGorm {
	return &quoteGorm{db: db}
}

// QuoteModel はmarket_dataテーブルの行です。
// Volumeは取得できなかった場合にNULLを許容します。Priceは常に有効な値のみ
// 保存されます（価格の無い結果は呼び出し側でスキップされます）。
type QuoteModel struct {
	ID        uint      `gorm:"primaryKey"`
	Symbol    string    `gorm:"size:32;not null;index"`
	Price     float64   `gorm:"not null"`
	Volume    *int64
	Timestamp time.Time `gorm:"not null;index"`
}

func (QuoteModel) TableName() string {
	return "market_data"
}

// InsertBatch は有効な価格を持つ現在値をまとめて1トランザクションで挿入します。
// スナップショットの蓄積が目的のため、更新ではなく常に挿入です。
func (r *quoteGorm) InsertBatch(ctx context.Context, quotes []entity.Quote, ts time.Time) error {
	if len(quotes) == 0 {
		return nil
	}
	ms := make([]QuoteModel, 0, len(quotes))
	for _, q := range quotes {
		if q.Price == nil {
			continue
		}
		ms = append(ms, QuoteModel{
			Symbol:    q.Symbol,
			Price:     *q.Price,
			Volume:    q.Volume,
			Timestamp: ts,
		})
	}
	if len(ms) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&ms).Error
}
