// Package config loads ammogen settings from flags and an optional config file.
package config

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Config files reach applyConfigSettings as viper's untyped map. JSON numbers
// arrive as float64; YAML integers as int, or int64/uint64 when large. A quoted
// string is accepted wherever a number, bool or duration is expected.

// setting returns the value stored under the first of names present.
// Viper lowercases keys, so names are also tried in lower case.
func setting(settings map[string]any, names ...string) (any, bool) {
	for _, name := range names {
		if v, ok := settings[name]; ok {
			return v, true
		}
		if v, ok := settings[strings.ToLower(name)]; ok {
			return v, true
		}
	}
	return nil, false
}

func toString(value any) (string, error) {
	switch v := value.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	case bool, int, int64, uint64, float64:
		return fmt.Sprint(v), nil
	default:
		return "", fmt.Errorf("want a string, got %T", value)
	}
}

func toInt64(value any) (int64, error) {
	switch v := value.(type) {
	case nil:
		return 0, nil
	case int:
		return int64(v), nil
	case int64:
		return v, nil
	case uint64:
		if v > math.MaxInt64 {
			return 0, fmt.Errorf("%d is out of range", v)
		}
		return int64(v), nil
	case float64:
		if v != math.Trunc(v) || math.Abs(v) >= math.MaxInt64 {
			return 0, fmt.Errorf("%v is not a whole number", v)
		}
		return int64(v), nil
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return 0, nil
		}
		return strconv.ParseInt(s, 10, 64)
	default:
		return 0, fmt.Errorf("want an integer, got %T", value)
	}
}

func toInt(value any) (int, error) {
	n, err := toInt64(value)
	if err != nil {
		return 0, err
	}
	if n != int64(int(n)) {
		return 0, fmt.Errorf("%d is out of range", n)
	}
	return int(n), nil
}

func toFloat(value any) (float64, error) {
	switch v := value.(type) {
	case nil:
		return 0, nil
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case uint64:
		return float64(v), nil
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return 0, nil
		}
		return strconv.ParseFloat(s, 64)
	default:
		return 0, fmt.Errorf("want a number, got %T", value)
	}
}

func toBool(value any) (bool, error) {
	switch v := value.(type) {
	case nil:
		return false, nil
	case bool:
		return v, nil
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return false, nil
		}
		return strconv.ParseBool(s)
	default:
		return false, fmt.Errorf("want a boolean, got %T", value)
	}
}

// toDuration parses strings such as "500ms"; bare numbers are seconds.
func toDuration(value any) (time.Duration, error) {
	if s, ok := value.(string); ok {
		s = strings.TrimSpace(s)
		if s == "" {
			return 0, nil
		}
		return time.ParseDuration(s)
	}
	secs, err := toFloat(value)
	if err != nil {
		return 0, fmt.Errorf("want a duration, got %T", value)
	}
	return time.Duration(secs * float64(time.Second)), nil
}
