package layout

import (
	"math"
	"reflect"
)

// Structured values cross the API as `any`: integers in any Go numeric
// width, bool, string, []any (or any slice/array) for repeated fields
// and map[string]any for composites. The helpers below normalize the
// numeric inputs and reject values that do not fit.

func toInt64(v any) (int64, error) {
	switch n := v.(type) {
	case int:
		return int64(n), nil
	case int8:
		return int64(n), nil
	case int16:
		return int64(n), nil
	case int32:
		return int64(n), nil
	case int64:
		return n, nil
	case uint:
		return toInt64(uint64(n))
	case uint8:
		return int64(n), nil
	case uint16:
		return int64(n), nil
	case uint32:
		return int64(n), nil
	case uint64:
		if n > math.MaxInt64 {
			return 0, errRangef("", "value %d overflows signed 64-bit range", n)
		}
		return int64(n), nil
	default:
		return 0, errRangef("", "value %v (%T) is not an integer", v, v)
	}
}

func toUint64(v any) (uint64, error) {
	switch n := v.(type) {
	case uint:
		return uint64(n), nil
	case uint8:
		return uint64(n), nil
	case uint16:
		return uint64(n), nil
	case uint32:
		return uint64(n), nil
	case uint64:
		return n, nil
	case int:
		return toUint64(int64(n))
	case int8:
		return toUint64(int64(n))
	case int16:
		return toUint64(int64(n))
	case int32:
		return toUint64(int64(n))
	case int64:
		if n < 0 {
			return 0, errRangef("", "negative value %d in unsigned field", n)
		}
		return uint64(n), nil
	default:
		return 0, errRangef("", "value %v (%T) is not an integer", v, v)
	}
}

func toFloat64(v any) (float64, error) {
	switch n := v.(type) {
	case float32:
		return float64(n), nil
	case float64:
		return n, nil
	case int:
		return float64(n), nil
	case int8:
		return float64(n), nil
	case int16:
		return float64(n), nil
	case int32:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case uint:
		return float64(n), nil
	case uint8:
		return float64(n), nil
	case uint16:
		return float64(n), nil
	case uint32:
		return float64(n), nil
	case uint64:
		return float64(n), nil
	default:
		return 0, errRangef("", "value %v (%T) is not a number", v, v)
	}
}

func toBool(v any) (bool, error) {
	if b, ok := v.(bool); ok {
		return b, nil
	}
	if n, err := toInt64(v); err == nil {
		return n != 0, nil
	}
	return false, errRangef("", "value %v (%T) is not a boolean", v, v)
}

// toSlice accepts []any directly and any other slice or array through
// reflection, so callers can pass []uint8, [4]int and friends.
func toSlice(v any) ([]any, bool) {
	if items, ok := v.([]any); ok {
		return items, true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}
