// Package timewindow holds the pure time-interval math the scheduling
// services share: wall-clock HH:mm parsing, [start,end) interval geometry
// over minutes of one day, weekly occurrence walks, and interval tiling.
package timewindow

import (
	"fmt"
	"strings"
	"time"
)

const DateLayout = "2006-01-02"

var weekdayIndex = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// ParseClock converts "HH:mm" to minutes past midnight. The input must
// be zero padded; time.Parse alone would accept "9:00".
func ParseClock(s string) (int, error) {
	trimmed := strings.TrimSpace(s)
	if len(trimmed) != 5 || trimmed[2] != ':' {
		return 0, fmt.Errorf("invalid clock time %q: expected HH:mm", s)
	}
	t, err := time.Parse("15:04", trimmed)
	if err != nil {
		return 0, fmt.Errorf("invalid clock time %q: %w", s, err)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// FormatClock converts minutes past midnight back to "HH:mm".
func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// Interval is a half-open [Start,End) range in minutes past midnight.
type Interval struct {
	Start int
	End   int
}

// NewInterval parses two HH:mm bounds into an interval. End must be
// strictly after Start.
func NewInterval(startTime, endTime string) (Interval, error) {
	start, err := ParseClock(startTime)
	if err != nil {
		return Interval{}, err
	}
	end, err := ParseClock(endTime)
	if err != nil {
		return Interval{}, err
	}
	if end <= start {
		return Interval{}, fmt.Errorf("end time %s is not after start time %s", endTime, startTime)
	}
	return Interval{Start: start, End: end}, nil
}

func (iv Interval) Duration() int {
	return iv.End - iv.Start
}

func (iv Interval) Overlaps(other Interval) bool {
	return iv.Start < other.End && iv.End > other.Start
}

// Contains reports whether other lies fully inside iv.
func (iv Interval) Contains(other Interval) bool {
	return other.Start >= iv.Start && other.End <= iv.End
}

func (iv Interval) Equal(other Interval) bool {
	return iv.Start == other.Start && iv.End == other.End
}

func (iv Interval) StartClock() string { return FormatClock(iv.Start) }
func (iv Interval) EndClock() string   { return FormatClock(iv.End) }

// Tile splits iv into consecutive non-overlapping sub-intervals of
// durationMin minutes. A trailing remainder shorter than one full duration
// is dropped.
func Tile(iv Interval, durationMin int) []Interval {
	if durationMin <= 0 {
		return nil
	}

	var tiles []Interval
	for current := iv.Start; current+durationMin <= iv.End; current += durationMin {
		tiles = append(tiles, Interval{Start: current, End: current + durationMin})
	}
	return tiles
}

// NextWeekdayOccurrences walks forward day-by-day from the anchor date and
// collects the next count dates falling on the named weekday. An anchor
// already on that weekday is itself the first occurrence; an anchor on any
// other day is tolerated and skipped until the weekday matches.
func NextWeekdayOccurrences(anchorDate string, weekday string, count int) ([]string, error) {
	target, ok := weekdayIndex[strings.ToLower(strings.TrimSpace(weekday))]
	if !ok {
		return nil, fmt.Errorf("unknown weekday %q", weekday)
	}

	date, err := time.Parse(DateLayout, anchorDate)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: %w", anchorDate, err)
	}

	occurrences := make([]string, 0, count)
	for len(occurrences) < count {
		if date.Weekday() == target {
			occurrences = append(occurrences, date.Format(DateLayout))
			date = date.AddDate(0, 0, 7)
		} else {
			date = date.AddDate(0, 0, 1)
		}
	}
	return occurrences, nil
}

// OccurrenceStart resolves a window occurrence to an absolute instant in
// loc, used for the reschedule lockout check.
func OccurrenceStart(date string, startTime string, loc *time.Location) (time.Time, error) {
	d, err := time.Parse(DateLayout, date)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", date, err)
	}
	minutes, err := ParseClock(startTime)
	if err != nil {
		return time.Time{}, err
	}
	if loc == nil {
		loc = time.Local
	}
	return time.Date(d.Year(), d.Month(), d.Day(), minutes/60, minutes%60, 0, 0, loc), nil
}
