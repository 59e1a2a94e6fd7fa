package model

import (
	"errors"
	"fmt"
	"strconv"
)

// MaxRunDays bounds the Dimension Key length accepted at the boundary.
// One hundred years of days is far beyond any realistic planning horizon.
const MaxRunDays = 36600

// ErrRunDaysTooLarge is returned by DateKeys when runDays exceeds MaxRunDays.
var ErrRunDaysTooLarge = errors.New("runDays exceeds maximum")

// ComputeDates returns the Dimension Key [startDate, ..., startDate+runDays-1].
// runDays <= 0 yields an empty slice. No upper bound is applied here;
// callers that accept untrusted input should go through DateKeys.
func ComputeDates(startDate, runDays int64) []int64 {
	if runDays <= 0 {
		return []int64{}
	}
	dates := make([]int64, runDays)
	for i := range dates {
		dates[i] = startDate + int64(i)
	}
	return dates
}

// DateKeys returns the Dimension Key of the metadata as wire date keys.
// Nil metadata yields an empty slice.
func DateKeys(meta *ModelMetaData) ([]string, error) {
	if meta == nil {
		return []string{}, nil
	}
	if meta.RunDays > MaxRunDays {
		return nil, fmt.Errorf("date keys: %w (%d > %d)", ErrRunDaysTooLarge, meta.RunDays, MaxRunDays)
	}
	dates := ComputeDates(meta.StartDate, meta.RunDays)
	keys := make([]string, len(dates))
	for i, d := range dates {
		keys[i] = DateKey(d)
	}
	return keys, nil
}

// DateKey encodes a day-number as a wire date key.
func DateKey(day int64) string {
	return strconv.FormatInt(day, 10)
}

// ParseDateKey decodes a wire date key. Only plain decimal integers are accepted.
func ParseDateKey(key string) (int64, error) {
	day, err := strconv.ParseInt(key, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid date key %q: %w", key, err)
	}
	return day, nil
}

// IndexOf returns the position of key in the Dimension Key, or -1.
func IndexOf(keys []string, key string) int {
	for i, k := range keys {
		if k == key {
			return i
		}
	}
	return -1
}
