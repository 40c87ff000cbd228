// Package numeric は外部APIから受け取った値が数値として利用可能かを判定します。
package numeric

import (
	"math"
	"strconv"
)

// IsUsable は値が有限な数値に変換できる場合にtrueを返します。
// nil・NaN・±Inf・数値として解釈できない文字列・非数値型はfalseです。
// 外部プロバイダの返却値は本関数を通過するまで信頼しません。
func IsUsable(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case float64:
		return finite(x)
	case float32:
		return finite(float64(x))
	case int:
		return true
	case int32:
		return true
	case int64:
		return true
	case uint:
		return true
	case uint32:
		return true
	case uint64:
		return true
	case string:
		f, err := strconv.ParseFloat(x, 64)
		if err != nil {
			return false
		}
		return finite(f)
	default:
		return false
	}
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
