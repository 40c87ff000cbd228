// Package handler はquotesフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"market_backend/internal/feature/quotes/domain"
	"market_backend/internal/feature/quotes/domain/entity"
	"market_backend/internal/feature/quotes/transport/http/dto"
)

// timestampLayout はレスポンスのタイムスタンプ形式です。
const timestampLayout = "2006-01-02 15:04:05"

// defaultTickers はリクエストで銘柄が指定されなかった場合の既定値です。
var defaultTickers = []string{"SPY", "ES=F"}

// BatchUsecase はバッチ取得のユースケースインターフェースを定義します。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type BatchUsecase interface {
	FetchBatch(ctx context.Context, symbols []string) (entity.BatchOutcome, error)
}

// QuotesHandler は現在値取得のHTTPリクエストを処理します。
type QuotesHandler struct {
	uc BatchUsecase
}

// NewQuotesHandler は指定されたusecaseでQuotesHandlerの新しいインスタンスを生成します。
func NewQuotesHandler(uc BatchUsecase) *QuotesHandler {
	return &QuotesHandler{uc: uc}
}

// GetQuotes は銘柄リストを受け取り、各銘柄の現在値をまとめてJSONで返します。
//
// 銘柄リストの解決順:
//  1. JSONボディの "tickers"（ボディがJSONとして解釈できる場合に優先）
//  2. クエリパラメータ tickers（カンマ区切り）
//  3. どちらも無ければ ["SPY", "ES=F"]
//
// ステータスコードは集約結果で決まります: 全成功=200, 一部失敗=207, 全失敗=500。
// バリデーション違反は400で、フェッチは行われません。
func (h *QuotesHandler) GetQuotes(c *gin.Context) {
	symbols, err := parseTickers(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	out, err := h.uc.FetchBatch(c.Request.Context(), symbols)
	if err != nil {
		if errors.Is(err, domain.ErrTooManySymbols) || errors.Is(err, domain.ErrEmptySymbol) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	items := make([]dto.QuoteItem, 0, len(out.Results))
	for _, q := range out.Results {
		items = append(items, dto.QuoteItem{
			Symbol: q.Symbol,
			Price:  q.Price,
			Volume: q.Volume,
			Error:  q.Error,
		})
	}

	c.JSON(batchHTTPStatus(out.Status), dto.QuotesResponse{
		Timestamp:        time.Now().UTC().Format(timestampLayout),
		Tickers:          items,
		TickersRequested: out.Requested,
	})
}

// batchHTTPStatus は3値の集約結果をHTTPステータスに写します。
func batchHTTPStatus(s entity.BatchStatus) int {
	switch s {
	case entity.BatchSucceeded:
		return http.StatusOK
	case entity.BatchPartial:
		return http.StatusMultiStatus
	default:
		return http.StatusInternalServerError
	}
}

// parseTickers はリクエストから銘柄リストを取り出します。
// JSONとして解釈できないボディは無視してクエリパラメータにフォールバック
// します。ボディはJSONだが "tickers" が文字列のリストでない場合は
// バリデーションエラーです。
func parseTickers(c *gin.Context) ([]string, error) {
	if body := readBody(c); len(body) > 0 {
		var probe map[string]json.RawMessage
		if json.Unmarshal(body, &probe) == nil {
			if raw, ok := probe["tickers"]; ok {
				var tickers []string
				if err := json.Unmarshal(raw, &tickers); err != nil {
					return nil, errors.New("tickers must be a list of strings")
				}
				if len(tickers) > 0 {
					return tickers, nil
				}
			}
		}
	}

	if q := c.Query("tickers"); q != "" {
		var tickers []string
		for _, s := range strings.Split(q, ",") {
			if s = strings.TrimSpace(s); s != "" {
				tickers = append(tickers, s)
			}
		}
		if len(tickers) > 0 {
			return tickers, nil
		}
	}

	return defaultTickers, nil
}

func readBody(c *gin.Context) []byte {
	if c.Request.Body == nil {
		return nil
	}
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return nil
	}
	return body
}
