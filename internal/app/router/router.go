package router

import (
	"github.com/gin-gonic/gin"

	historyhandler "market_backend/internal/feature/history/transport/handler"
	quoteshandler "market_backend/internal/feature/quotes/transport/handler"
	"market_backend/internal/platform/http/handler"
	"market_backend/internal/shared/ratelimiter"
)

// NewRouter はHTTPルーティングを組み立てます。
//
// /api/market は呼び出し元ごとのレートリミットの対象です。GETとPOSTの
// 両方を受け付けます（POSTはJSONボディで銘柄リストを渡す場合に使用）。
func NewRouter(quotes *quoteshandler.QuotesHandler, history *historyhandler.HistoryHandler,
	limiter *ratelimiter.SlidingWindow) *gin.Engine {
	r := gin.Default()

	// 導通確認用
	r.GET("/healthz", handler.Health)

	api := r.Group("/api")
	{
		limited := api.Group("/")
		limited.Use(ratelimiter.Middleware(limiter))
		{
			limited.GET("/market", quotes.GetQuotes)
			limited.POST("/market", quotes.GetQuotes)
		}

		api.GET("/historical", history.GetHistory)
	}

	return r
}
