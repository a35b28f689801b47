package provider

import (
	"fmt"
	"strconv"
	"time"
)

// Options reads typed values out of a factory config map. Values decoded by
// viper arrive as strings, numbers, or native types depending on the source
// (YAML, env var, or code), so every getter accepts all of them.
type Options map[string]any

// String returns the value for key, or def when absent or empty.
func (o Options) String(key, def string) string {
	v, ok := o[key]
	if !ok || v == nil {
		return def
	}
	s := fmt.Sprint(v)
	if s == "" {
		return def
	}
	return s
}

// Duration accepts a time.Duration, a Go duration string ("90s"), or a
// bare number of seconds.
func (o Options) Duration(key string, def time.Duration) (time.Duration, error) {
	switch v := o[key].(type) {
	case nil:
		return def, nil
	case time.Duration:
		return v, nil
	case int:
		return time.Duration(v) * time.Second, nil
	case int64:
		return time.Duration(v) * time.Second, nil
	case float64:
		return time.Duration(v * float64(time.Second)), nil
	case string:
		if v == "" {
			return def, nil
		}
		if d, err := time.ParseDuration(v); err == nil {
			return d, nil
		}
		secs, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, fmt.Errorf("option %q: invalid duration %q", key, v)
		}
		return time.Duration(secs * float64(time.Second)), nil
	default:
		return 0, fmt.Errorf("option %q: unsupported duration type %T", key, v)
	}
}

// Float returns a float option, or def when absent.
func (o Options) Float(key string, def float64) (float64, error) {
	switch v := o[key].(type) {
	case nil:
		return def, nil
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case string:
		if v == "" {
			return def, nil
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, fmt.Errorf("option %q: invalid number %q", key, v)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("option %q: unsupported number type %T", key, v)
	}
}

// Int returns an integer option, or def when absent.
func (o Options) Int(key string, def int) (int, error) {
	f, err := o.Float(key, float64(def))
	if err != nil {
		return 0, err
	}
	return int(f), nil
}

// Bool returns a boolean option, or def when absent.
func (o Options) Bool(key string, def bool) (bool, error) {
	switch v := o[key].(type) {
	case nil:
		return def, nil
	case bool:
		return v, nil
	case string:
		if v == "" {
			return def, nil
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return false, fmt.Errorf("option %q: invalid bool %q", key, v)
		}
		return b, nil
	default:
		return false, fmt.Errorf("option %q: unsupported bool type %T", key, v)
	}
}
