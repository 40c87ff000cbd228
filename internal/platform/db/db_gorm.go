package db

import (
	"log"
	"os"
	"time"

	gpostgres "gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	historyadapters "market_backend/internal/feature/history/adapters"
	quoteadapters "market_backend/internal/feature/quotes/adapters"
)

// OpenDB はデータベース接続を開きます。
//
// DATABASE_URLが設定されていればPostgreSQLに接続し、無ければローカルの
// SQLiteファイルにフォールバックします（開発・単体運用向け）。接続は
// 60秒を上限にリトライします。RUN_MIGRATIONS=trueの場合はスキーマを
// 自動マイグレーションします。
func OpenDB() *gorm.DB {
	url := os.Getenv("DATABASE_URL")

	open := func() (*gorm.DB, error) {
		if url != "" {
			return gorm.Open(gpostgres.Open(url), &gorm.Config{})
		}
		return gorm.Open(sqlite.Open("market.db"), &gorm.Config{})
	}

	var (
		db  *gorm.DB
		err error
	)

	deadline := time.Now().Add(60 * time.Second)
	for {
		db, err = open()
		if err == nil {
			break
		}
		if time.Now().After(deadline) {
			log.Fatalf("DB connect failed after 60s: %v", err)
		}
		log.Printf("DB connect failed, retrying...: %v", err)
		time.Sleep(3 * time.Second)
	}

	if os.Getenv("RUN_MIGRATIONS") == "true" {
		// マイグレーション（market_data, historical_data）
		if err := db.AutoMigrate(
			&quoteadapters.QuoteModel{},
			&historyadapters.BarModel{},
		); err != nil {
			log.Fatalf("failed to migrate: %v", err)
		}
	}

	return db
}
