package utils

import "time"

// TimeNowUTC is the single clock of the pipeline. Dedup windows and day
// buckets are all computed in UTC.
func TimeNowUTC() time.Time {
	return time.Now().UTC()
}

// DayStart truncates t to midnight UTC.
func DayStart(t time.Time) time.Time {
	return t.UTC().Truncate(24 * time.Hour)
}
