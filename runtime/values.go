package runtime

import (
	"fmt"
	"math"
	"strconv"

	"github.com/tetratelabs/wazero/api"
	"go.bytecodealliance.org/wit"

	"github.com/wippyai/wasm-memory/errors"
	"github.com/wippyai/wasm-memory/view"
)

// lowerValue encodes a Go value as a core WASM value. When witType is known
// it selects the accepted range, otherwise the core type alone decides.
func lowerValue(path string, core api.ValueType, witType wit.Type, v any) (uint64, error) {
	if b, ok := v.(bool); ok {
		if core != api.ValueTypeI32 {
			return 0, errors.TypeMismatch(errors.PhaseRuntime, []string{path}, "bool", api.ValueTypeName(core))
		}
		if b {
			return 1, nil
		}
		return 0, nil
	}

	switch core {
	case api.ValueTypeI32:
		n, err := toInt64(path, v)
		if err != nil {
			return 0, err
		}
		if kind, ok := view.KindOfWit(witType); ok {
			if !kind.Fits(n) {
				return 0, errors.ValueOutOfRange(errors.PhaseRuntime, []string{path}, v, kind.String())
			}
		} else if n < math.MinInt32 || n > math.MaxUint32 {
			return 0, errors.ValueOutOfRange(errors.PhaseRuntime, []string{path}, v, "i32")
		}
		return uint64(uint32(n)), nil

	case api.ValueTypeI64:
		if u, ok := v.(uint64); ok {
			return u, nil
		}
		n, err := toInt64(path, v)
		if err != nil {
			return 0, err
		}
		if isU64(witType) && n < 0 {
			return 0, errors.ValueOutOfRange(errors.PhaseRuntime, []string{path}, v, "u64")
		}
		return uint64(n), nil

	case api.ValueTypeF32:
		f, err := toFloat64(path, v)
		if err != nil {
			return 0, err
		}
		return api.EncodeF32(float32(f)), nil

	case api.ValueTypeF64:
		f, err := toFloat64(path, v)
		if err != nil {
			return 0, err
		}
		return api.EncodeF64(f), nil
	}

	return 0, errors.InvalidInput(errors.PhaseRuntime, fmt.Sprintf("%s: unsupported core type %s", path, api.ValueTypeName(core)))
}

// liftValue decodes a core WASM result. Without a WIT type, i32 and i64 are
// returned as int32 and int64.
func liftValue(core api.ValueType, witType wit.Type, raw uint64) any {
	switch core {
	case api.ValueTypeI32:
		if isBool(witType) {
			return uint32(raw) != 0
		}
		if kind, ok := view.KindOfWit(witType); ok {
			switch kind {
			case view.Uint8:
				return uint8(raw)
			case view.Int8:
				return int8(raw)
			case view.Uint16:
				return uint16(raw)
			case view.Int16:
				return int16(raw)
			case view.Uint32:
				return uint32(raw)
			}
		}
		return api.DecodeI32(raw)
	case api.ValueTypeI64:
		if isU64(witType) {
			return raw
		}
		return int64(raw)
	case api.ValueTypeF32:
		return api.DecodeF32(raw)
	case api.ValueTypeF64:
		return api.DecodeF64(raw)
	}
	return raw
}

func toInt64(path string, v any) (int64, error) {
	switch x := v.(type) {
	case int:
		return int64(x), nil
	case int8:
		return int64(x), nil
	case int16:
		return int64(x), nil
	case int32:
		return int64(x), nil
	case int64:
		return x, nil
	case uint:
		if uint64(x) <= math.MaxInt64 {
			return int64(x), nil
		}
	case uint8:
		return int64(x), nil
	case uint16:
		return int64(x), nil
	case uint32:
		return int64(x), nil
	case uint64:
		if x <= math.MaxInt64 {
			return int64(x), nil
		}
	case float64:
		if x != math.Trunc(x) {
			return 0, errors.TypeMismatch(errors.PhaseRuntime, []string{path}, "float64", "integer")
		}
		if x >= math.MinInt64 && x < math.MaxInt64 {
			return int64(x), nil
		}
	case string:
		n, err := strconv.ParseInt(x, 0, 64)
		if err != nil {
			return 0, errors.New(errors.PhaseRuntime, errors.KindTypeMismatch).
				Path(path).
				GoType("string").
				Cause(err).
				Detail("expected an integer literal").
				Build()
		}
		return n, nil
	default:
		return 0, errors.TypeMismatch(errors.PhaseRuntime, []string{path}, fmt.Sprintf("%T", v), "integer")
	}
	return 0, errors.ValueOutOfRange(errors.PhaseRuntime, []string{path}, v, "int64")
}

func toFloat64(path string, v any) (float64, error) {
	switch x := v.(type) {
	case float32:
		return float64(x), nil
	case float64:
		return x, nil
	case string:
		f, err := strconv.ParseFloat(x, 64)
		if err != nil {
			return 0, errors.New(errors.PhaseRuntime, errors.KindTypeMismatch).
				Path(path).
				GoType("string").
				Cause(err).
				Detail("expected a float literal").
				Build()
		}
		return f, nil
	}
	n, err := toInt64(path, v)
	if err != nil {
		return 0, err
	}
	return float64(n), nil
}

func isBool(t wit.Type) bool {
	switch t.(type) {
	case wit.Bool, *wit.Bool:
		return true
	}
	return false
}

func isU64(t wit.Type) bool {
	switch t.(type) {
	case wit.U64, *wit.U64:
		return true
	}
	return false
}
