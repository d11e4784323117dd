package repository

import (
	"time"

	"github.com/quizzard-app/roster-api/internal/store"
)

// Field accessors tolerant of wire round-trips: numbers come back from the
// JSON-backed store drivers as float64.

func fieldString(fields store.Fields, key string) string {
	if v, ok := fields[key].(string); ok {
		return v
	}
	return ""
}

func fieldBool(fields store.Fields, key string) bool {
	if v, ok := fields[key].(bool); ok {
		return v
	}
	return false
}

func fieldInt(fields store.Fields, key string) int {
	switch v := fields[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}

func fieldTime(fields store.Fields, key string) time.Time {
	raw, ok := fields[key].(string)
	if !ok {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}
	}
	return t
}
