package jsonutil

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// FlexibleStringValue converts a json.RawMessage to a string, handling cases
// where upstream clients send numbers or booleans instead of strings.
// Returns empty string for null/empty.
func FlexibleStringValue(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}

	// Try string first
	var strVal string
	if err := json.Unmarshal(raw, &strVal); err == nil {
		return strVal
	}

	// Try number
	var numVal float64
	if err := json.Unmarshal(raw, &numVal); err == nil {
		if numVal == float64(int64(numVal)) {
			return fmt.Sprintf("%d", int64(numVal))
		}
		return fmt.Sprintf("%g", numVal)
	}

	// Try boolean
	var boolVal bool
	if err := json.Unmarshal(raw, &boolVal); err == nil {
		return fmt.Sprintf("%t", boolVal)
	}

	// Fallback: return raw string representation
	return string(raw)
}

// FlexibleFloat64 converts a json.RawMessage to a float64, accepting both
// raw numbers and numeric strings ("2500", "2500.75"). Anything else,
// including null, degrades to 0 rather than failing the whole record.
func FlexibleFloat64(raw json.RawMessage) float64 {
	if len(raw) == 0 || string(raw) == "null" {
		return 0
	}

	var numVal float64
	if err := json.Unmarshal(raw, &numVal); err == nil {
		return numVal
	}

	var strVal string
	if err := json.Unmarshal(raw, &strVal); err == nil {
		parsed, err := strconv.ParseFloat(strings.TrimSpace(strVal), 64)
		if err != nil {
			return 0
		}
		return parsed
	}

	return 0
}

// FlexibleInt64 converts a json.RawMessage to an int64 with the same
// leniency as FlexibleFloat64. Fractional values truncate toward zero.
func FlexibleInt64(raw json.RawMessage) int64 {
	return int64(FlexibleFloat64(raw))
}
