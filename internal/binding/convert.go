package binding

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	apperrors "github.com/agbru/numkit/internal/errors"
)

// maxUint64Float is 2^64, the first float64 that does not fit in a uint64.
const maxUint64Float = 18446744073709551616.0

func invalid(field, format string, args ...any) error {
	return apperrors.ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// ToUint64 converts a host value into a uint64. It accepts Go integer
// types, integral float64 values, json.Number and decimal strings.
// Negative, fractional and out-of-range values are rejected.
func ToUint64(field string, v any) (uint64, error) {
	switch x := v.(type) {
	case uint64:
		return x, nil
	case uint:
		return uint64(x), nil
	case uint32:
		return uint64(x), nil
	case uint16:
		return uint64(x), nil
	case uint8:
		return uint64(x), nil
	case int, int8, int16, int32, int64:
		i := toInt64(x)
		if i < 0 {
			return 0, invalid(field, "must be non-negative, got %d", i)
		}
		return uint64(i), nil
	case float64:
		if x != math.Trunc(x) || math.IsInf(x, 0) || math.IsNaN(x) {
			return 0, invalid(field, "must be an integer, got %v", x)
		}
		if x < 0 || x >= maxUint64Float {
			return 0, invalid(field, "out of range for an unsigned 64-bit integer: %v", x)
		}
		return uint64(x), nil
	case json.Number:
		return parseUint64(field, x.String())
	case string:
		return parseUint64(field, x)
	case nil:
		return 0, invalid(field, "missing value")
	default:
		return 0, invalid(field, "expected an unsigned integer, got %T", v)
	}
}

func parseUint64(field, s string) (uint64, error) {
	u, err := strconv.ParseUint(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, invalid(field, "not an unsigned 64-bit integer: %q", s)
	}
	return u, nil
}

// toInt64 widens any signed Go integer. Callers guarantee the dynamic type.
func toInt64(v any) int64 {
	switch x := v.(type) {
	case int:
		return int64(x)
	case int8:
		return int64(x)
	case int16:
		return int64(x)
	case int32:
		return int64(x)
	default:
		return v.(int64)
	}
}

// ToInt32 converts a host value into an int32, rejecting values outside
// the signed 32-bit range.
func ToInt32(field string, v any) (int32, error) {
	var i int64
	switch x := v.(type) {
	case int, int8, int16, int32, int64:
		i = toInt64(x)
	case uint, uint8, uint16, uint32, uint64:
		u, _ := ToUint64(field, x)
		if u > math.MaxInt32 {
			return 0, invalid(field, "out of range for a signed 32-bit integer: %d", u)
		}
		return int32(u), nil
	case float64:
		if x != math.Trunc(x) || math.IsInf(x, 0) || math.IsNaN(x) {
			return 0, invalid(field, "must be an integer, got %v", x)
		}
		if x < math.MinInt32 || x > math.MaxInt32 {
			return 0, invalid(field, "out of range for a signed 32-bit integer: %v", x)
		}
		return int32(x), nil
	case json.Number:
		parsed, err := strconv.ParseInt(x.String(), 10, 64)
		if err != nil {
			return 0, invalid(field, "not an integer: %q", x.String())
		}
		i = parsed
	case string:
		parsed, err := strconv.ParseInt(strings.TrimSpace(x), 10, 64)
		if err != nil {
			return 0, invalid(field, "not an integer: %q", x)
		}
		i = parsed
	case nil:
		return 0, invalid(field, "missing value")
	default:
		return 0, invalid(field, "expected an integer, got %T", v)
	}
	if i < math.MinInt32 || i > math.MaxInt32 {
		return 0, invalid(field, "out of range for a signed 32-bit integer: %d", i)
	}
	return int32(i), nil
}

// ToInt32Slice converts a host sequence into a fresh []int32. Accepted
// inputs are []int32, []int, []int64 and []any whose elements ToInt32
// accepts. A nil value is treated as an empty sequence.
func ToInt32Slice(field string, v any) ([]int32, error) {
	switch x := v.(type) {
	case nil:
		return []int32{}, nil
	case []int32:
		out := make([]int32, len(x))
		copy(out, x)
		return out, nil
	case []int:
		return convertEach(field, x)
	case []int64:
		return convertEach(field, x)
	case []any:
		return convertEach(field, x)
	default:
		return nil, invalid(field, "expected a list of integers, got %T", v)
	}
}

func convertEach[T any](field string, in []T) ([]int32, error) {
	out := make([]int32, len(in))
	for i, elem := range in {
		n, err := ToInt32(fmt.Sprintf("%s[%d]", field, i), elem)
		if err != nil {
			return nil, err
		}
		out[i] = n
	}
	return out, nil
}
