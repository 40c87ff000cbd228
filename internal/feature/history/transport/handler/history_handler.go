// Package handler はhistoryフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"market_backend/internal/feature/history/domain"
	"market_backend/internal/feature/history/domain/entity"
	"market_backend/internal/feature/history/transport/http/dto"
)

// timestampLayout はレスポンスのタイムスタンプ形式です。
const timestampLayout = "2006-01-02 15:04:05"

// HistoryUsecase は履歴取得のユースケースインターフェースを定義します。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type HistoryUsecase interface {
	GetHistory(ctx context.Context, symbol, period, interval string) ([]entity.Bar, error)
}

// HistoryHandler はOHLC履歴取得のHTTPリクエストを処理します。
type HistoryHandler struct {
	uc HistoryUsecase
}

// NewHistoryHandler は指定されたusecaseでHistoryHandlerの新しいインスタンスを生成します。
func NewHistoryHandler(uc HistoryUsecase) *HistoryHandler {
	return &HistoryHandler{uc: uc}
}

// GetHistory はGET /api/historicalを処理します。
//
// クエリパラメータ: symbol（必須）、period、interval（省略時は1mo/1d）。
// 銘柄は大文字に正規化されます。空の結果は404、取得タイムアウトは504、
// パラメータ違反は400、その他の失敗は500です。
func (h *HistoryHandler) GetHistory(c *gin.Context) {
	symbol := strings.ToUpper(strings.TrimSpace(c.Query("symbol")))
	period := c.Query("period")
	interval := c.Query("interval")

	bars, err := h.uc.GetHistory(c.Request.Context(), symbol, period, interval)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrMissingSymbol),
			errors.Is(err, domain.ErrInvalidPeriod),
			errors.Is(err, domain.ErrInvalidInterval):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, domain.ErrFetchTimeout):
			c.JSON(http.StatusGatewayTimeout, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	if len(bars) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "no historical data found for " + symbol})
		return
	}

	if period == "" {
		period = "1mo"
	}
	if interval == "" {
		interval = "1d"
	}

	data := make([]dto.BarResponse, 0, len(bars))
	for _, b := range bars {
		data = append(data, dto.BarResponse{
			Time:   b.TimeKey(),
			Open:   b.Open,
			High:   b.High,
			Low:    b.Low,
			Close:  b.Close,
			Volume: b.Volume,
		})
	}

	c.JSON(http.StatusOK, dto.HistoryResponse{
		Symbol:    symbol,
		Period:    period,
		Interval:  interval,
		Timestamp: time.Now().UTC().Format(timestampLayout),
		Data:      data,
	})
}
