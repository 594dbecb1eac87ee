package timewindow

import (
	"testing"
	"time"
)

func TestParseClock(t *testing.T) {
	tests := []struct {
		input   string
		want    int
		wantErr bool
	}{
		{"09:00", 540, false},
		{"00:00", 0, false},
		{"23:59", 1439, false},
		{" 14:30 ", 870, false},
		{"9:00", 0, true},
		{"24:00", 0, true},
		{"12:60", 0, true},
		{"", 0, true},
		{"banana", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseClock(tt.input)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseClock(%q) expected error, got %d", tt.input, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseClock(%q) unexpected error: %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseClock(%q) = %d, want %d", tt.input, got, tt.want)
		}
	}
}

func TestFormatClock_RoundTrip(t *testing.T) {
	for _, s := range []string{"00:00", "09:05", "13:30", "23:59"} {
		minutes, err := ParseClock(s)
		if err != nil {
			t.Fatalf("ParseClock(%q): %v", s, err)
		}
		if got := FormatClock(minutes); got != s {
			t.Errorf("FormatClock(ParseClock(%q)) = %q", s, got)
		}
	}
}

func TestNewInterval_RejectsInverted(t *testing.T) {
	if _, err := NewInterval("10:00", "09:00"); err == nil {
		t.Error("expected error for end before start")
	}
	if _, err := NewInterval("10:00", "10:00"); err == nil {
		t.Error("expected error for zero-length interval")
	}
}

func TestInterval_Geometry(t *testing.T) {
	mk := func(s, e string) Interval {
		iv, err := NewInterval(s, e)
		if err != nil {
			t.Fatalf("NewInterval(%s, %s): %v", s, e, err)
		}
		return iv
	}

	morning := mk("09:00", "12:00")

	if !morning.Overlaps(mk("11:00", "13:00")) {
		t.Error("expected overlap on shared hour")
	}
	if morning.Overlaps(mk("12:00", "13:00")) {
		t.Error("half-open intervals touching at 12:00 must not overlap")
	}
	if !morning.Contains(mk("09:30", "10:30")) {
		t.Error("expected containment of inner interval")
	}
	if morning.Contains(mk("08:30", "10:00")) {
		t.Error("interval extending left must not be contained")
	}
	if morning.Duration() != 180 {
		t.Errorf("Duration = %d, want 180", morning.Duration())
	}
	if !morning.Equal(mk("09:00", "12:00")) {
		t.Error("expected equality with identical bounds")
	}
}

func TestTile(t *testing.T) {
	iv, _ := NewInterval("09:00", "10:00")

	tiles := Tile(iv, 30)
	if len(tiles) != 2 {
		t.Fatalf("expected 2 tiles, got %d", len(tiles))
	}
	if tiles[0].StartClock() != "09:00" || tiles[0].EndClock() != "09:30" {
		t.Errorf("first tile = %s-%s", tiles[0].StartClock(), tiles[0].EndClock())
	}
	if tiles[1].StartClock() != "09:30" || tiles[1].EndClock() != "10:00" {
		t.Errorf("second tile = %s-%s", tiles[1].StartClock(), tiles[1].EndClock())
	}
}

func TestTile_DropsShortRemainder(t *testing.T) {
	iv, _ := NewInterval("09:00", "10:10")

	tiles := Tile(iv, 25)
	if len(tiles) != 2 {
		t.Fatalf("expected 2 tiles (20min remainder dropped), got %d", len(tiles))
	}
	if tiles[1].EndClock() != "09:50" {
		t.Errorf("last tile ends at %s, want 09:50", tiles[1].EndClock())
	}
}

func TestTile_NeverOverlaps(t *testing.T) {
	iv, _ := NewInterval("08:00", "12:00")

	for _, duration := range []int{10, 15, 25, 45, 90} {
		tiles := Tile(iv, duration)
		for i := 1; i < len(tiles); i++ {
			if tiles[i].Overlaps(tiles[i-1]) {
				t.Errorf("duration %d: tiles %d and %d overlap", duration, i-1, i)
			}
			if tiles[i].Start != tiles[i-1].End {
				t.Errorf("duration %d: gap between consecutive tiles", duration)
			}
		}
		if want := iv.Duration() / duration; len(tiles) != want {
			t.Errorf("duration %d: got %d tiles, want %d", duration, len(tiles), want)
		}
	}
}

func TestNextWeekdayOccurrences(t *testing.T) {
	// 2025-08-04 is a Monday.
	dates, err := NextWeekdayOccurrences("2025-08-04", "monday", 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"2025-08-04", "2025-08-11", "2025-08-18", "2025-08-25"}
	if len(dates) != len(want) {
		t.Fatalf("got %d occurrences, want %d", len(dates), len(want))
	}
	for i := range want {
		if dates[i] != want[i] {
			t.Errorf("occurrence %d = %s, want %s", i, dates[i], want[i])
		}
	}
}

func TestNextWeekdayOccurrences_AnchorOffWeekday(t *testing.T) {
	// Anchor is a Monday but the window recurs on Thursdays: the walk must
	// skip forward to the first Thursday.
	dates, err := NextWeekdayOccurrences("2025-08-04", "thursday", 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dates[0] != "2025-08-07" || dates[1] != "2025-08-14" {
		t.Errorf("got %v, want [2025-08-07 2025-08-14]", dates)
	}
}

func TestNextWeekdayOccurrences_Invalid(t *testing.T) {
	if _, err := NextWeekdayOccurrences("2025-08-04", "moonday", 2); err == nil {
		t.Error("expected error for unknown weekday")
	}
	if _, err := NextWeekdayOccurrences("not-a-date", "monday", 2); err == nil {
		t.Error("expected error for invalid anchor date")
	}
}

func TestOccurrenceStart(t *testing.T) {
	start, err := OccurrenceStart("2025-08-04", "09:30", time.UTC)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := time.Date(2025, 8, 4, 9, 30, 0, 0, time.UTC)
	if !start.Equal(want) {
		t.Errorf("OccurrenceStart = %v, want %v", start, want)
	}
}
