package jsonutil

import (
	"fmt"
	"strconv"
	"strings"
)

// FlexibleString converts a decoded JSON value to a string, handling cases
// where LLMs send numbers or booleans instead of strings. Returns empty
// string for nil.
func FlexibleString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		if v == float64(int64(v)) {
			return strconv.FormatInt(int64(v), 10)
		}
		return strconv.FormatFloat(v, 'g', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// FlexibleBool converts a decoded JSON value to a bool, accepting the string
// spellings LLMs produce ("true", "yes", "1"). Returns the fallback for nil
// or unrecognized values.
func FlexibleBool(value any, fallback bool) bool {
	switch v := value.(type) {
	case bool:
		return v
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true", "yes", "1":
			return true
		case "false", "no", "0":
			return false
		}
	case float64:
		return v != 0
	}
	return fallback
}

// FlexibleInt converts a decoded JSON value to an int, accepting numeric
// strings. Returns the fallback for nil or unparseable values.
func FlexibleInt(value any, fallback int) int {
	switch v := value.(type) {
	case float64:
		return int(v)
	case int:
		return v
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return n
		}
	}
	return fallback
}
