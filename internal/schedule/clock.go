package schedule

import (
	"errors"
	"fmt"
	"time"
)

// Clock strings travel through the API as "15:04" and are stored as MySQL
// TIME values ("15:04:05").  Both forms are accepted everywhere; arithmetic
// happens on seconds since midnight.

var errBadClock = errors.New("invalid clock value")

// ParseClock converts "HH:MM" or "HH:MM:SS" into seconds since midnight.
func ParseClock(s string) (int, error) {
	t, err := time.Parse("15:04:05", s)
	if err != nil {
		t, err = time.Parse("15:04", s)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", errBadClock, s)
		}
	}
	return t.Hour()*3600 + t.Minute()*60 + t.Second(), nil
}

// NormalizeClock returns the canonical storage form "HH:MM:SS" of a clock
// string, or an error when the input is not a valid clock value.
func NormalizeClock(s string) (string, error) {
	sec, err := ParseClock(s)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%02d:%02d:%02d", sec/3600, sec%3600/60, sec%60), nil
}

// ClockHHMM renders a clock string as "HH:MM" for messages.  Malformed
// input is returned unchanged; callers only pass values that were
// normalized on the way in.
func ClockHHMM(s string) string {
	sec, err := ParseClock(s)
	if err != nil {
		return s
	}
	return fmt.Sprintf("%02d:%02d", sec/3600, sec%3600/60)
}

// NormalizeDate validates and canonicalizes a "2006-01-02" date string.
func NormalizeDate(s string) (string, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return "", fmt.Errorf("invalid date value %q", s)
	}
	return t.Format("2006-01-02"), nil
}
