package summary

import (
	"fmt"
	"time"
)

// CacheBadge renders the server-reported cache age, or "" when not cached.
func CacheBadge(cached bool, ageMinutes int) string {
	if !cached {
		return ""
	}
	if ageMinutes < 60 {
		return fmt.Sprintf("(Cached %s ago)", plural(ageMinutes, "minute"))
	}
	return fmt.Sprintf("(Cached %s ago)", plural(ageMinutes/60, "hour"))
}

// Ago renders the time since t: "just now", "N minute(s) ago" or "N hour(s) ago".
func Ago(t, now time.Time) string {
	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return plural(int(d/time.Minute), "minute") + " ago"
	default:
		return plural(int(d/time.Hour), "hour") + " ago"
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return "1 " + unit
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
