package config

import (
	"encoding/json"
	"fmt"
	"time"
)

// Duration wraps time.Duration so config fields round-trip through JSON
// as human-readable strings ("30s", "5m", "1h30m") while still accepting
// a bare number of nanoseconds for backward compatibility.
type Duration time.Duration

// UnmarshalJSON implements json.Unmarshaler, accepting either a
// time.ParseDuration string or a raw nanosecond count.
func (d *Duration) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		duration, err := time.ParseDuration(s)
		if err != nil {
			return fmt.Errorf("invalid duration string %q: %w", s, err)
		}
		*d = Duration(duration)
		return nil
	}

	var n int64
	if err := json.Unmarshal(data, &n); err == nil {
		*d = Duration(n)
		return nil
	}

	return fmt.Errorf("duration must be a string (e.g., \"30s\") or number (nanoseconds)")
}

// MarshalJSON implements json.Marshaler, rendering the human-readable form.
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// Duration returns the underlying time.Duration.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// String returns the duration's string form.
func (d Duration) String() string {
	return time.Duration(d).String()
}
