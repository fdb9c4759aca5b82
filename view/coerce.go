package view

import (
	"encoding/json"
	"math"
)

type coercion uint8

const (
	coerced coercion = iota
	overflowed
	notInteger
)

// coerceInt64 handles JSON decoded numbers (float64, json.Number) and every
// Go integer type. Values that are integers but do not fit int64 report
// overflowed so callers can tell range errors from type errors.
func coerceInt64(value any) (int64, coercion) {
	switch v := value.(type) {
	case int:
		return int64(v), coerced
	case int8:
		return int64(v), coerced
	case int16:
		return int64(v), coerced
	case int32:
		return int64(v), coerced
	case int64:
		return v, coerced
	case uint:
		if uint64(v) > math.MaxInt64 {
			return 0, overflowed
		}
		return int64(v), coerced
	case uint8:
		return int64(v), coerced
	case uint16:
		return int64(v), coerced
	case uint32:
		return int64(v), coerced
	case uint64:
		if v > math.MaxInt64 {
			return 0, overflowed
		}
		return int64(v), coerced
	case float64:
		return coerceFloat(v)
	case float32:
		return coerceFloat(float64(v))
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return n, coerced
		}
		f, err := v.Float64()
		if err != nil {
			return 0, notInteger
		}
		return coerceFloat(f)
	}
	return 0, notInteger
}

func coerceFloat(f float64) (int64, coercion) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, notInteger
	}
	if f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, overflowed
	}
	return int64(f), coerced
}
