// Package convert provides type coercion utilities for raw wire data.
// This package has no dependencies on other internal packages to avoid circular imports.
package convert

import "strconv"

// ToString converts various types to string with a fallback value.
// JSON decoding hands numbers over as float64, so integral floats render
// without a decimal point (ids like 12345 stay "12345").
func ToString(v interface{}, fallback string) string {
	switch val := v.(type) {
	case string:
		return val
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case uint:
		return strconv.FormatUint(uint64(val), 10)
	case uint64:
		return strconv.FormatUint(val, 10)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	}
	return fallback
}

// ToRef converts an optional foreign key to its string form. A nil,
// empty or zero value means "absent" and returns "", never "0" or a
// stringified nil.
func ToRef(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		if val == 0 {
			return ""
		}
		return strconv.FormatFloat(val, 'f', -1, 64)
	case int:
		if val == 0 {
			return ""
		}
		return strconv.Itoa(val)
	case int64:
		if val == 0 {
			return ""
		}
		return strconv.FormatInt(val, 10)
	}
	return ToString(v, "")
}

// ToStringSlice converts a raw list to strings, dropping nil entries.
func ToStringSlice(v interface{}) []string {
	raw, ok := v.([]interface{})
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if item == nil {
			continue
		}
		out = append(out, ToString(item, ""))
	}
	return out
}

// ToInt converts various types to int with a fallback value.
func ToInt(v interface{}, fallback int) int {
	switch val := v.(type) {
	case int:
		return val
	case int64:
		return int(val)
	case uint:
		return int(val)
	case uint64:
		return int(val)
	case float32:
		return int(val)
	case float64:
		return int(val)
	case string:
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return fallback
}
