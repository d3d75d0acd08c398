// Package normalize turns sheet date and clock text into comparable values in
// a fixed timezone.
package normalize

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"
)

// DayKeyLayout renders a calendar day identity.
const DayKeyLayout = "2006-01-02"

var (
	slashDatePattern = regexp.MustCompile(`^(\d{1,2})[/-](\d{1,2})[/-](\d{4})$`)
	gvizDatePattern  = regexp.MustCompile(`Date\((\d+),(\d+),(\d+)`)
)

// Normalizer parses sheet dates in Source and compares calendar days in Target.
type Normalizer struct {
	Source *time.Location
	Target *time.Location
}

// New loads the named zones. An empty source falls back to the target zone.
func New(target, source string) (*Normalizer, error) {
	targetLoc, err := time.LoadLocation(target)
	if err != nil {
		return nil, fmt.Errorf("loading timezone %q: %w", target, err)
	}

	sourceLoc := targetLoc
	if source != "" {
		if sourceLoc, err = time.LoadLocation(source); err != nil {
			return nil, fmt.Errorf("loading source timezone %q: %w", source, err)
		}
	}

	return &Normalizer{Source: sourceLoc, Target: targetLoc}, nil
}

// ParseDate recognizes "D/M/YYYY" (slash or dash) and the GViz "Date(y,m,d)"
// literal with a zero-based month. The second result is false when neither
// form matches.
//
// A first component of at most 12 paired with a second component above 12 is
// read as month/day, so "03/15/2025" is 15 March.
func (n *Normalizer) ParseDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)

	if m := slashDatePattern.FindStringSubmatch(raw); m != nil {
		day, month, year := atoi(m[1]), atoi(m[2]), atoi(m[3])
		if month > 12 && day <= 12 {
			day, month = month, day
		}
		return time.Date(year, time.Month(month), day, 0, 0, 0, 0, n.Source), true
	}

	if m := gvizDatePattern.FindStringSubmatch(raw); m != nil {
		year, month, day := atoi(m[1]), atoi(m[2]), atoi(m[3])
		return time.Date(year, time.Month(month+1), day, 0, 0, 0, 0, n.Source), true
	}

	return time.Time{}, false
}

// DayKey returns the calendar day of t in the target zone.
func (n *Normalizer) DayKey(t time.Time) string {
	return t.In(n.Target).Format(DayKeyLayout)
}

// TargetDay returns the day key of now in the target zone, or of the
// following calendar day when tomorrow is set.
func (n *Normalizer) TargetDay(now time.Time, tomorrow bool) string {
	local := now.In(n.Target)
	day := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, n.Target)
	if tomorrow {
		day = day.AddDate(0, 0, 1)
	}
	return day.Format(DayKeyLayout)
}

// ClockOffset converts a 12-hour clock such as "02:30 PM" into seconds since
// midnight. Text without a marker is read as a 24-hour clock. Empty text and
// non-numeric components count as zero.
func ClockOffset(s string) int {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return 0
	}

	parts := strings.Split(fields[0], ":")
	hour := atoi(parts[0])
	var minute, second int
	if len(parts) > 1 {
		minute = atoi(parts[1])
	}
	if len(parts) > 2 {
		second = atoi(parts[2])
	}

	if len(fields) > 1 {
		switch strings.ToLower(fields[1]) {
		case "pm":
			if hour != 12 {
				hour += 12
			}
		case "am":
			if hour == 12 {
				hour = 0
			}
		}
	}

	return hour*3600 + minute*60 + second
}

func atoi(s string) int {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return v
}
