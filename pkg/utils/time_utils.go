package utils

import "time"

// FromUnixMillis converts an epoch value in milliseconds to UTC.
// Returns zero time if t<=0 to let callers decide how to render.
func FromUnixMillis(t int64) time.Time {
	if t <= 0 {
		return time.Time{}
	}
	return time.UnixMilli(t).UTC()
}

// FormatRFC3339 renders t in UTC, "" for the zero time.
func FormatRFC3339(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

// FormatMillis is FormatRFC3339(FromUnixMillis(t)).
func FormatMillis(t int64) string {
	return FormatRFC3339(FromUnixMillis(t))
}
