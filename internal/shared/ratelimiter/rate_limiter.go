// Package ratelimiter は呼び出し元単位のスライディングウィンドウ式レートリミットを提供します。
package ratelimiter

import (
	"sync"
	"time"
)

const (
	// DefaultMaxRequests はウィンドウあたりのデフォルト許可リクエスト数です。
	DefaultMaxRequests = 30
	// DefaultWindow はデフォルトの計測ウィンドウ幅です。
	DefaultWindow = 60 * time.Second
)

// SlidingWindow はキーごとに直近ウィンドウ内のリクエスト時刻を記録し、
// 上限を超えた呼び出しを拒否します。状態はプロセスローカルです。
// 複数インスタンス構成では各プロセスが独立して制限します（意図した緩和）。
type SlidingWindow struct {
	mu     sync.Mutex
	limit  int
	window time.Duration
	hits   map[string][]time.Time
}

// NewSlidingWindow は新しいSlidingWindowを生成します。
// limitまたはwindowが0以下の場合はデフォルト値を使用します。
func NewSlidingWindow(limit int, window time.Duration) *SlidingWindow {
	if limit <= 0 {
		limit = DefaultMaxRequests
	}
	if window <= 0 {
		window = DefaultWindow
	}
	return &SlidingWindow{
		limit:  limit,
		window: window,
		hits:   make(map[string][]time.Time),
	}
}

// Allow はkeyのリクエストを許可するか判定します。
// ウィンドウ外の記録を除去したうえで上限と比較し、許可時のみnowを記録します。
// 拒否されたリクエストはクォータを消費しません。
// 判定と記録は単一ロック下で行うため、並行リクエストが同時に上限を
// すり抜けることはありません。
func (l *SlidingWindow) Allow(key string, now time.Time) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := now.Add(-l.window)
	kept := l.hits[key][:0]
	for _, ts := range l.hits[key] {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}

	if len(kept) >= l.limit {
		l.hits[key] = kept
		return false
	}

	l.hits[key] = append(kept, now)
	return true
}
