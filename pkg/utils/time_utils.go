package utils

import "time"

// FromUnixNano turns a stored created_at/updated_at value back into a UTC
// time. Zero and negative values map to the zero time.
func FromUnixNano(ns int64) time.Time {
	if ns <= 0 {
		return time.Time{}
	}
	return time.Unix(0, ns).UTC()
}
