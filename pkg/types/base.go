package types

import (
	"encoding/json"
	"time"
)

// JSON is an alias for any, representing any JSON value.
// Use this for input/output fields that accept arbitrary JSON data.
type JSON = any

// TimeLayout is the wire format for every timestamp: millisecond precision
// with an explicit offset.
const TimeLayout = "2006-01-02T15:04:05.000Z07:00"

// Time is a timestamp that marshals in TimeLayout. When the time is zero,
// it marshals to JSON null.
type Time struct {
	time.Time
}

// NewTime wraps t.
func NewTime(t time.Time) Time {
	return Time{Time: t}
}

// IsZero returns true if the time is the zero value.
func (t Time) IsZero() bool {
	return t.Time.IsZero()
}

// String formats the time in TimeLayout, or "" when zero.
func (t Time) String() string {
	if t.Time.IsZero() {
		return ""
	}
	return t.Time.UTC().Format(TimeLayout)
}

// MarshalJSON implements json.Marshaler.
func (t Time) MarshalJSON() ([]byte, error) {
	if t.Time.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.String())
}

// UnmarshalJSON implements json.Unmarshaler. It accepts TimeLayout and RFC 3339.
func (t *Time) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		t.Time = time.Time{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		t.Time = time.Time{}
		return nil
	}
	parsed, err := time.Parse(TimeLayout, s)
	if err != nil {
		parsed, err = time.Parse(time.RFC3339Nano, s)
		if err != nil {
			return err
		}
	}
	t.Time = parsed
	return nil
}
