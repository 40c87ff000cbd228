// Package adapters はhistoryフィーチャーの永続化アダプターを提供します。
package adapters

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"market_backend/internal/feature/history/domain/entity"
)

type barGorm struct {
	db *gorm.DB
}

// NewBarRepository はOHLC履歴の永続化リポジトリを生成します。
func NewBarRepository(db *gorm.DB) *barGorm {
	return &barGorm{db: db}
}

// BarModel はhistorical_dataテーブルの行です。
// (symbol, date, interval_type)が自然キーで、同じキーへの書き込みは
// 上書き（upsert）になります。
type BarModel struct {
	ID           uint      `gorm:"primaryKey"`
	Symbol       string    `gorm:"size:32;not null;uniqueIndex:hist_sym_date_int,priority:1"`
	Date         time.Time `gorm:"not null;uniqueIndex:hist_sym_date_int,priority:2"`
	IntervalType string    `gorm:"size:16;not null;uniqueIndex:hist_sym_date_int,priority:3"`

	Open       float64   `gorm:"not null"`
	High       float64   `gorm:"not null"`
	Low        float64   `gorm:"not null"`
	ClosePrice float64   `gorm:"column:close_price;not null"`
	Volume     int64     `gorm:"not null;default:0"`
	FetchedAt  time.Time `gorm:"not null"`
}

func (BarModel) TableName() string {
	return "historical_data"
}

func toModel(b entity.Bar, fetchedAt time.Time) BarModel {
	return BarModel{
		Symbol:       b.Symbol,
		Date:         b.Date(),
		IntervalType: b.Interval,
		Open:         b.Open,
		High:         b.High,
		Low:          b.Low,
		ClosePrice:   b.Close,
		Volume:       b.Volume,
		FetchedAt:    fetchedAt,
	}
}

// UpsertBatch はOHLC履歴をまとめて書き込みます。既存の(symbol, date,
// interval_type)と衝突した行は価格・出来高・fetched_atを新しい値で更新します。
// 同じ日のデータを何度取り込んでも行が重複しない、再実行安全な操作です。
func (r *barGorm) UpsertBatch(ctx context.Context, bars []entity.Bar, fetchedAt time.Time) error {
	if len(bars) == 0 {
		return nil
	}
	ms := make([]BarModel, 0, len(bars))
	for _, b := range bars {
		ms = append(ms, toModel(b, fetchedAt))
	}

	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "symbol"}, {Name: "date"}, {Name: "interval_type"}},
		DoUpdates: clause.AssignmentColumns([]string{"open", "high", "low", "close_price", "volume", "fetched_at"}),
	}).Create(&ms).Error
}
