package yahoo

import (
	"math"
	"testing"
	"time"

	finance "github.com/piquette/finance-go"
)

// TestToQuote は価格と出来高が独立して検証されることを検証します。
// 片方が不正でももう片方の有効な値は結果に残ります。
func TestToQuote(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		price      float64
		volume     int
		wantPrice  *float64
		wantVolume *int64
	}{
		{
			name:       "both valid",
			price:      512.34,
			volume:     98765,
			wantPrice:  ptr(512.34),
			wantVolume: ptr(int64(98765)),
		},
		{
			name:       "NaN price keeps valid volume",
			price:      math.NaN(),
			volume:     98765,
			wantPrice:  nil,
			wantVolume: ptr(int64(98765)),
		},
		{
			name:       "negative price keeps valid volume",
			price:      -1,
			volume:     500,
			wantPrice:  nil,
			wantVolume: ptr(int64(500)),
		},
		{
			name:       "negative volume keeps valid price",
			price:      512.34,
			volume:     -1,
			wantPrice:  ptr(512.34),
			wantVolume: nil,
		},
		{
			name:       "zero values are valid",
			price:      0,
			volume:     0,
			wantPrice:  ptr(0.0),
			wantVolume: ptr(int64(0)),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := &finance.Quote{
				RegularMarketPrice:  tt.price,
				RegularMarketVolume: tt.volume,
			}

			got := toQuote("SPY", q)

			if got.Symbol != "SPY" {
				t.Errorf("Symbol = %q, want SPY", got.Symbol)
			}
			if got.Error != "" {
				t.Errorf("unusable values must not be reported as failures, got Error %q", got.Error)
			}
			if !eqPtr(got.Price, tt.wantPrice) {
				t.Errorf("Price = %v, want %v", fmtPtr(got.Price), fmtPtr(tt.wantPrice))
			}
			if !eqPtr(got.Volume, tt.wantVolume) {
				t.Errorf("Volume = %v, want %v", fmtPtr(got.Volume), fmtPtr(tt.wantVolume))
			}
		})
	}
}

func ptr[T any](v T) *T { return &v }

func eqPtr[T comparable](got, want *T) bool {
	if got == nil || want == nil {
		return got == nil && want == nil
	}
	return *got == *want
}

func fmtPtr[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}

// TestPeriodStart は期間文字列から取得開始時刻への変換を検証します。
func TestPeriodStart(t *testing.T) {
	t.Parallel()

	end := time.Date(2024, 6, 3, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		period string
		want   time.Time
	}{
		{"1d", time.Date(2024, 6, 2, 12, 0, 0, 0, time.UTC)},
		{"5d", time.Date(2024, 5, 29, 12, 0, 0, 0, time.UTC)},
		{"1mo", time.Date(2024, 5, 3, 12, 0, 0, 0, time.UTC)},
		{"3mo", time.Date(2024, 3, 3, 12, 0, 0, 0, time.UTC)},
		{"6mo", time.Date(2023, 12, 3, 12, 0, 0, 0, time.UTC)},
		{"1y", time.Date(2023, 6, 3, 12, 0, 0, 0, time.UTC)},
		{"2y", time.Date(2022, 6, 3, 12, 0, 0, 0, time.UTC)},
		{"5y", time.Date(2019, 6, 3, 12, 0, 0, 0, time.UTC)},
		{"10y", time.Date(2014, 6, 3, 12, 0, 0, 0, time.UTC)},
		{"ytd", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		{"max", time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.period, func(t *testing.T) {
			got := periodStart(end, tt.period)
			if !got.Equal(tt.want) {
				t.Errorf("periodStart(%q) = %v, want %v", tt.period, got, tt.want)
			}
		})
	}
}

// 未知の期間はデフォルト（1ヶ月）にフォールバックします。
func TestPeriodStart_UnknownFallsBack(t *testing.T) {
	t.Parallel()

	end := time.Date(2024, 6, 3, 12, 0, 0, 0, time.UTC)
	got := periodStart(end, "bogus")
	want := end.AddDate(0, -1, 0)
	if !got.Equal(want) {
		t.Errorf("periodStart(bogus) = %v, want %v", got, want)
	}
}
