// Package age derives a client's age in whole years from a birth date.
package age

import (
	"fmt"
	"time"
)

// Age returns the number of whole years between birthday and now. The
// elapsed time is laid out as a date after the Unix epoch and the year
// offset is taken from it, so the result can be one off right around a
// birthday. A birthday that is not before now yields 0.
func Age(birthday, now time.Time) int {
	if !birthday.Before(now) {
		return 0
	}
	elapsed := now.Sub(birthday).Milliseconds()
	years := time.UnixMilli(elapsed).UTC().Year() - 1970
	if years < 0 {
		return -years
	}
	return years
}

// Parse reads a birth date as a calendar date (2006-01-02, taken as UTC
// midnight) or as an RFC 3339 timestamp.
func Parse(s string) (time.Time, error) {
	if t, err := time.ParseInLocation(time.DateOnly, s, time.UTC); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse birth date %q: expected YYYY-MM-DD or RFC 3339", s)
	}
	return t, nil
}

type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// FixedClock always reports the same instant.
type FixedClock time.Time

func (c FixedClock) Now() time.Time { return time.Time(c) }
