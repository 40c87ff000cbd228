// Package isolate は1つの取得処理をタイムアウト付きの専用goroutineに隔離して実行します。
// 遅い・ハングした処理がバッチ全体を道連れにしないための隔離境界です。
package isolate

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// State は隔離実行の結果種別です。呼び出し側は3種類すべてを処理します。
type State int

const (
	// Succeeded は処理が期限内に正常終了したことを示します。
	Succeeded State = iota
	// TimedOut は期限内に結果が得られなかったことを示します。
	TimedOut
	// Failed は処理がエラーまたはpanicで終了したことを示します。
	Failed
)

// Outcome は隔離実行の結果です。StateがSucceededのときのみValueが有効で、
// FailedのときはErrに原因が入ります。
type Outcome[T any] struct {
	State State
	Value T
	Err   error
}

// Run はfnを専用のgoroutineで実行し、最大timeoutまで結果を待ちます。
//
// fnには期限付きのcontextが渡されるため、context対応の処理はタイムアウト時に
// 実際に中断されます。contextを無視する処理はバックグラウンドで完走し得ますが、
// その結果は破棄されます（結果チャネルはバッファ付きなのでgoroutineは漏れません）。
// fn内のpanicは回収され、Failedとして報告されます。親contextのキャンセルは
// タイムアウトと区別され、こちらもFailedになります。
func Run[T any](ctx context.Context, timeout time.Duration, fn func(ctx context.Context) (T, error)) Outcome[T] {
	cctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type result struct {
		value T
		err   error
	}
	ch := make(chan result, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				var zero T
				ch <- result{value: zero, err: fmt.Errorf("panic: %v", r)}
			}
		}()
		v, err := fn(cctx)
		ch <- result{value: v, err: err}
	}()

	select {
	case r := <-ch:
		if r.err != nil {
			return Outcome[T]{State: Failed, Err: r.err}
		}
		return Outcome[T]{State: Succeeded, Value: r.value}
	case <-cctx.Done():
		// 親contextのキャンセル（クライアント切断など）はタイムアウトでは
		// ないため、Failedとして区別する
		if errors.Is(cctx.Err(), context.Canceled) {
			return Outcome[T]{State: Failed, Err: cctx.Err()}
		}
		return Outcome[T]{State: TimedOut, Err: cctx.Err()}
	}
}
