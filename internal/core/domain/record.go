package domain

import (
	"fmt"
	"time"
)

// Record is the JSON-compatible key-value form of an entity.
//
// Every entity encodes to a Record via its Record method and is rebuilt by
// the matching *FromRecord function. Encoders include derived properties as
// redundant convenience fields; decoders ignore them and recompute. Decoders
// tolerate unknown extra keys and apply documented defaults for missing
// optional keys. Missing required keys, unrecognised enum strings and
// malformed timestamps fail the decode.
type Record map[string]any

// timestampLayouts are accepted on decode. Encoding always uses RFC 3339.
// The zoneless layouts cover records written by tooling that emits naive
// local timestamps.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02",
}

// formatTimestamp renders a timestamp for a Record.
func formatTimestamp(t time.Time) string {
	return t.Format(time.RFC3339Nano)
}

// parseTimestamp parses an ISO-8601 timestamp string.
func parseTimestamp(value string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidTimestamp, value)
}

// asFloat coerces the numeric representations JSON decoding and in-process
// construction produce.
func asFloat(raw any) (float64, bool) {
	switch v := raw.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	default:
		return 0, false
	}
}

// stringField returns the required string stored under key.
func stringField(rec Record, key string) (string, error) {
	raw, ok := rec[key]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrMissingField, key)
	}
	s, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("%w: %s is not a string", ErrInvalidValue, key)
	}
	return s, nil
}

// optionalString returns the string under key, or fallback when absent or null.
func optionalString(rec Record, key, fallback string) (string, error) {
	raw, ok := rec[key]
	if !ok || raw == nil {
		return fallback, nil
	}
	s, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("%w: %s is not a string", ErrInvalidValue, key)
	}
	return s, nil
}

// floatField returns the required numeric value stored under key.
func floatField(rec Record, key string) (float64, error) {
	raw, ok := rec[key]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrMissingField, key)
	}
	f, ok := asFloat(raw)
	if !ok {
		return 0, fmt.Errorf("%w: %s is not a number", ErrInvalidValue, key)
	}
	return f, nil
}

// optionalFloat returns the numeric value under key, or fallback when absent or null.
func optionalFloat(rec Record, key string, fallback float64) (float64, error) {
	raw, ok := rec[key]
	if !ok || raw == nil {
		return fallback, nil
	}
	f, ok := asFloat(raw)
	if !ok {
		return 0, fmt.Errorf("%w: %s is not a number", ErrInvalidValue, key)
	}
	return f, nil
}

// optionalInt returns the integer under key, or fallback when absent or null.
func optionalInt(rec Record, key string, fallback int) (int, error) {
	f, err := optionalFloat(rec, key, float64(fallback))
	if err != nil {
		return 0, err
	}
	return int(f), nil
}

// nullableInt returns the integer under key, or nil when absent or null.
func nullableInt(rec Record, key string) (*int, error) {
	raw, ok := rec[key]
	if !ok || raw == nil {
		return nil, nil
	}
	f, ok := asFloat(raw)
	if !ok {
		return nil, fmt.Errorf("%w: %s is not a number", ErrInvalidValue, key)
	}
	n := int(f)
	return &n, nil
}

// optionalTimestamp returns the timestamp under key, or fallback when absent or null.
func optionalTimestamp(rec Record, key string, fallback time.Time) (time.Time, error) {
	raw, ok := rec[key]
	if !ok || raw == nil {
		return fallback, nil
	}
	s, ok := raw.(string)
	if !ok {
		return time.Time{}, fmt.Errorf("%w: %s is not a string", ErrInvalidValue, key)
	}
	t, err := parseTimestamp(s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s: %w", key, err)
	}
	return t, nil
}

// nullableTimestamp returns the timestamp under key, or nil when absent,
// null or empty.
func nullableTimestamp(rec Record, key string) (*time.Time, error) {
	raw, ok := rec[key]
	if !ok || raw == nil {
		return nil, nil
	}
	s, ok := raw.(string)
	if !ok {
		return nil, fmt.Errorf("%w: %s is not a string", ErrInvalidValue, key)
	}
	if s == "" {
		return nil, nil
	}
	t, err := parseTimestamp(s)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", key, err)
	}
	return &t, nil
}

// metadataField returns the map under key, or an empty map when absent or null.
func metadataField(rec Record, key string) (map[string]any, error) {
	raw, ok := rec[key]
	if !ok || raw == nil {
		return map[string]any{}, nil
	}
	m, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: %s is not a map", ErrInvalidValue, key)
	}
	return m, nil
}

// stringSliceField returns the string list under key, or an empty slice when
// absent or null.
func stringSliceField(rec Record, key string) ([]string, error) {
	raw, ok := rec[key]
	if !ok || raw == nil {
		return []string{}, nil
	}
	switch v := raw.(type) {
	case []string:
		return v, nil
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("%w: %s holds a non-string entry", ErrInvalidValue, key)
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: %s is not a list", ErrInvalidValue, key)
	}
}

// embeddingField returns the float vector under key, or nil when absent or null.
func embeddingField(rec Record, key string) ([]float32, error) {
	raw, ok := rec[key]
	if !ok || raw == nil {
		return nil, nil
	}
	switch v := raw.(type) {
	case []float32:
		return v, nil
	case []float64:
		out := make([]float32, len(v))
		for i, f := range v {
			out[i] = float32(f)
		}
		return out, nil
	case []any:
		out := make([]float32, 0, len(v))
		for _, item := range v {
			f, ok := asFloat(item)
			if !ok {
				return nil, fmt.Errorf("%w: %s holds a non-numeric entry", ErrInvalidValue, key)
			}
			out = append(out, float32(f))
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: %s is not a vector", ErrInvalidValue, key)
	}
}
