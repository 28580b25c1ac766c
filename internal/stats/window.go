// Package stats turns a raw reading log into the aggregates served to the
// dashboard: daily totals, per-bin statistics, segregation scores and
// rankings. Every function is pure and safe for concurrent use.
package stats

import (
	"strconv"
	"time"

	"waste-monitor-backend/internal/model"
)

const (
	// DefaultDays is the window used when the caller gives none or an invalid one.
	DefaultDays = 7
	// MaxDays caps the window.
	MaxDays = 30
)

// NormalizeDays interprets a raw days parameter. Missing, non-numeric or
// non-positive values yield DefaultDays; values above MaxDays are clamped.
func NormalizeDays(raw string) int {
	days, err := strconv.Atoi(raw)
	if err != nil || days <= 0 {
		return DefaultDays
	}
	if days > MaxDays {
		return MaxDays
	}
	return days
}

// FilterByDays keeps readings whose timestamp is at or after now minus the
// given number of days. Input order is preserved.
func FilterByDays(readings []model.Reading, days int, now time.Time) []model.Reading {
	cutoff := now.Add(-time.Duration(days) * 24 * time.Hour)
	out := make([]model.Reading, 0, len(readings))
	for _, r := range readings {
		if !r.Timestamp.Before(cutoff) {
			out = append(out, r)
		}
	}
	return out
}
