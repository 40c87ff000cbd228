package main

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	redisv9 "github.com/redis/go-redis/v9"

	"market_backend/internal/app/di"
	"market_backend/internal/app/router"
	historyhandler "market_backend/internal/feature/history/transport/handler"
	historyusecase "market_backend/internal/feature/history/usecase"
	quoteshandler "market_backend/internal/feature/quotes/transport/handler"
	quotesusecase "market_backend/internal/feature/quotes/usecase"
	infraredis "market_backend/internal/platform/redis"
	"market_backend/internal/shared/ratelimiter"
)

func main() {
	// .envがあれば読み込む（無くてもエラーにしない）
	_ = godotenv.Load()

	// Redis
	var rdb *redisv9.Client
	if tmp, err := infraredis.NewRedisClient(); err != nil {
		log.Println("[WARN] Redis unavailable. Running without cache.")
		rdb = nil
	} else {
		rdb = tmp
		defer func() {
			if err := rdb.Close(); err != nil {
				log.Println("[ERROR] Failed to close Redis client:", err)
			}
		}()
	}

	// データソース（履歴はRedisキャッシュでラップ）
	market := di.NewMarket()
	historyRepo := di.NewHistoryRepository(rdb, 5*time.Minute)

	// Usecase
	quotesUC := quotesusecase.NewBatchUsecase(market, quotesusecase.DefaultFetchTimeout, quotesusecase.DefaultMaxSymbols)
	historyUC := historyusecase.NewHistoryUsecase(historyRepo, historyusecase.DefaultHistoryTimeout)

	// Handler
	quotesH := quoteshandler.NewQuotesHandler(quotesUC)
	historyH := historyhandler.NewHistoryHandler(historyUC)

	// レートリミッタ（環境変数で上書き可能）
	limiter := ratelimiter.NewSlidingWindow(
		envInt("RATE_LIMIT_MAX_REQUESTS", ratelimiter.DefaultMaxRequests),
		time.Duration(envInt("RATE_LIMIT_WINDOW_SECONDS", 60))*time.Second,
	)

	r := router.NewRouter(quotesH, historyH, limiter)

	if err := r.Run(":8080"); err != nil {
		log.Fatal(err)
	}
}

// envInt は整数の環境変数を読み取ります。未設定・不正な値はフォールバックします。
func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("[WARN] invalid %s=%q, using %d", key, v, fallback)
		return fallback
	}
	return n
}
