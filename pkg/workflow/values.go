package workflow

import (
	"encoding/json"
	"math"
)

// ParseNumber accepts the numeric shapes a decoded JSON payload or a Go caller
// may carry. Strings are rejected rather than parsed. Failures are reported as
// *InvalidFieldError for field.
func ParseNumber(field string, v any) (float64, error) {
	var n float64
	switch x := v.(type) {
	case float64:
		n = x
	case float32:
		n = float64(x)
	case int:
		n = float64(x)
	case int32:
		n = float64(x)
	case int64:
		n = float64(x)
	case uint:
		n = float64(x)
	case uint32:
		n = float64(x)
	case uint64:
		n = float64(x)
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return 0, invalid(field, "not a number: %q", x.String())
		}
		n = f
	default:
		return 0, invalid(field, "expected a number, got %T", v)
	}
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, invalid(field, "not a finite number")
	}
	return n, nil
}

// RoundMoney rounds to two decimal places, half away from zero.
func RoundMoney(v float64) float64 {
	return math.Round(v*100) / 100
}

// Percent returns part/whole*100 rounded to two decimals. A non-positive whole
// yields ok == false.
func Percent(part, whole float64) (float64, bool) {
	if whole <= 0 {
		return 0, false
	}
	return RoundMoney(part / whole * 100), true
}

// RequirePositive reads key and fails unless it is present and greater than
// zero. A zero or negative amount counts as not supplied; a value that is not
// a number is invalid.
func (in RuleInput) RequirePositive(key string) (float64, error) {
	n, ok, err := in.Number(key)
	if err != nil {
		return 0, err
	}
	if !ok || n <= 0 {
		return 0, missing(key)
	}
	return n, nil
}

// Rate reads a percentage in [0, 100]; absent values default to zero.
func (in RuleInput) Rate(key string) (float64, error) {
	n, ok, err := in.Number(key)
	if err != nil || !ok {
		return 0, err
	}
	if n < 0 || n > 100 {
		return 0, invalid(key, "must be between 0 and 100")
	}
	return n, nil
}
