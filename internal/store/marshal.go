package store

import (
	"fmt"
	"time"

	"github.com/benchtrack/benchtrack/internal/conf"
)

// timeLayout is the stored form of all timestamp columns. Nanosecond
// precision keeps updated_at strictly advancing across rapid re-marks.
const timeLayout = time.RFC3339Nano

// marshalConfig converts a config document to canonical JSON TEXT for
// storage. Canonical bytes are required: the UNIQUE constraint and equality
// lookups compare this column textually.
func marshalConfig(v conf.Value) (string, error) {
	if v == nil {
		// A row always carries a config; "no config" is the empty object,
		// mirroring how runs without a config file are recorded.
		v = conf.Object{}
	}
	data, err := conf.MarshalCanonical(v)
	if err != nil {
		return "", fmt.Errorf("marshal config: %w", err)
	}
	return string(data), nil
}

// unmarshalConfig parses stored canonical JSON back into a document.
// Failures surface as IntegrityError via the callers.
func unmarshalConfig(data string) (conf.Value, error) {
	v, err := conf.ParseJSON([]byte(data))
	if err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if !conf.IsDocument(v) {
		return nil, fmt.Errorf("unmarshal config: stored value is not an object or array of objects")
	}
	return v, nil
}

// marshalTime formats a timestamp column value.
func marshalTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

// unmarshalTime parses a timestamp column value.
func unmarshalTime(s string) (time.Time, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: %w", s, err)
	}
	return t, nil
}
