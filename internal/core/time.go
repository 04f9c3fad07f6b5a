package core

import "time"

// NowMillis returns the current wall clock in epoch milliseconds.
func NowMillis() int64 {
	return time.Now().UnixMilli()
}

// TodayRange returns the inclusive millisecond window covering the local
// calendar day of now: local midnight through the last millisecond before
// the next midnight.
func TodayRange(now time.Time) (from, to int64) {
	y, m, d := now.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	from = start.UnixMilli()
	to = from + 24*60*60*1000 - 1
	return from, to
}
