// Package domain はhistoryフィーチャーのドメインエラーを定義します。
package domain

import "errors"

var (
	// ErrMissingSymbol はsymbolパラメータが指定されなかったことを示します。
	ErrMissingSymbol = errors.New("symbol parameter is required")

	// ErrInvalidPeriod はperiodが許可された列挙値でないことを示します。
	ErrInvalidPeriod = errors.New("invalid period")

	// ErrInvalidInterval はintervalが許可された列挙値でないことを示します。
	ErrInvalidInterval = errors.New("invalid interval")

	// ErrFetchTimeout は履歴データの取得が隔離境界のタイムアウトを超えたことを示します。
	ErrFetchTimeout = errors.New("request timed out")
)
