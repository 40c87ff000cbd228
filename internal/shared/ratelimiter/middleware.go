package ratelimiter

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// anonymousKey は呼び出し元を特定できないリクエストが共有するバケットのキーです。
// X-Forwarded-Forが無い・偽装可能である点は既知の粗さとして許容しています。
const anonymousKey = "anonymous"

// Middleware はSlidingWindowで保護するginミドルウェアを返します。
// キーはX-Forwarded-Forヘッダーの値で、無い場合は全員で1つのバケットを共有します。
// 上限超過時は429を返し、以降のハンドラーを実行しません。
func Middleware(limiter *SlidingWindow) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader("X-Forwarded-For")
		if key == "" {
			key = anonymousKey
		}

		if !limiter.Allow(key, time.Now()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "rate limit exceeded, please wait before retrying",
			})
			return
		}

		c.Next()
	}
}
