package main

import (
	"context"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"market_backend/internal/app/di"
	historyadapters "market_backend/internal/feature/history/adapters"
	historyusecase "market_backend/internal/feature/history/usecase"
	ingestusecase "market_backend/internal/feature/ingestion/usecase"
	quoteadapters "market_backend/internal/feature/quotes/adapters"
	quotesusecase "market_backend/internal/feature/quotes/usecase"
	"market_backend/internal/platform/db"
)

// scheduledFetchTimeout は定期実行時の1銘柄あたりのタイムアウトです。
// 対話的なHTTPリクエストより短く抑え、実行全体が長引かないようにします。
const scheduledFetchTimeout = 10 * time.Second

func main() {
	// .envがあれば読み込む（無くてもエラーにしない）
	_ = godotenv.Load()

	gdb := db.OpenDB()
	market := di.NewMarket()

	quotesUC := quotesusecase.NewBatchUsecase(market, scheduledFetchTimeout, 0)
	historyUC := historyusecase.NewHistoryUsecase(market, scheduledFetchTimeout)
	quoteRepo := quoteadapters.NewQuoteRepository(gdb)
	barRepo := historyadapters.NewBarRepository(gdb)

	uc, err := ingestusecase.NewIngestUsecase(quotesUC, historyUC, quoteRepo, barRepo, time.Now)
	if err != nil {
		log.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if err := uc.Run(ctx, tickerList()); err != nil {
		log.Fatal(err)
	}
	log.Println("ingest ok")
}

// tickerList はTICKER_LISTからカンマ区切りの銘柄リストを読み取ります。
// 未設定の場合はS&P 500のETFとE-mini先物を対象にします。
func tickerList() []string {
	raw := os.Getenv("TICKER_LIST")
	if raw == "" {
		raw = "SPY,ES=F"
	}
	var symbols []string
	for _, s := range strings.Split(raw, ",") {
		if s = strings.ToUpper(strings.TrimSpace(s)); s != "" {
			symbols = append(symbols, s)
		}
	}
	return symbols
}
