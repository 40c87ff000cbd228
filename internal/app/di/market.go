// Package di provides dependency injection factories for creating application components.
package di

import (
	"time"

	"github.com/redis/go-redis/v9"

	historyuc "market_backend/internal/feature/history/usecase"
	"market_backend/internal/platform/cache"
	"market_backend/internal/platform/externalapi/yahoo"
)

// NewMarket creates the Yahoo Finance market data source.
func NewMarket() *yahoo.Market {
	return yahoo.NewMarket()
}

// NewHistoryRepository returns the history data source, decorated with Redis
// caching when a client is available. A nil client yields the raw source.
func NewHistoryRepository(rdb *redis.Client, ttl time.Duration) historyuc.MarketRepository {
	market := yahoo.NewMarket()
	if rdb == nil {
		return market
	}
	return cache.NewCachingHistoryRepository(rdb, ttl, market, "history")
}
