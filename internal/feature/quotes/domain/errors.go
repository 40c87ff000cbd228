// Package domain はquotesフィーチャーのドメインエラーを定義します。
package domain

import "errors"

var (
	// ErrTooManySymbols は要求された銘柄数が上限を超えたことを示します。
	// バリデーションはフェッチ開始前に行われ、違反時は一切の取得を行いません。
	ErrTooManySymbols = errors.New("too many symbols requested")

	// ErrEmptySymbol は空文字の銘柄が含まれていたことを示します。
	ErrEmptySymbol = errors.New("symbol must be a non-empty string")
)
