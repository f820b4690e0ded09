package engine

import (
	"errors"
	"testing"
	"time"
)

func TestParseBackfillRange(t *testing.T) {
	day := time.Date(2026, 3, 10, 15, 0, 0, 0, time.Local)

	r, minutes, err := ParseBackfill(day, "23:50", "00:10")
	if err != nil {
		t.Fatal(err)
	}
	if minutes != 20 {
		t.Fatalf("minutes = %d, want 20", minutes)
	}
	if !r.Start.Equal(time.Date(2026, 3, 10, 23, 50, 0, 0, time.Local)) {
		t.Fatalf("start = %v", r.Start)
	}
	if r.End.Sub(r.Start) != 20*time.Minute {
		t.Fatalf("range length = %v", r.End.Sub(r.Start))
	}

	_, minutes, err = ParseBackfill(day, " 09:00 ", "09:45")
	if err != nil || minutes != 45 {
		t.Fatalf("minutes = %d, err = %v", minutes, err)
	}
}

func TestParseClock(t *testing.T) {
	tests := []struct {
		in     string
		h, m   int
		wantOK bool
	}{
		{"00:00", 0, 0, true},
		{"9:05", 9, 5, true},
		{"23:59", 23, 59, true},
		{"24:00", 0, 0, false},
		{"12:60", 0, 0, false},
		{"12:5", 0, 0, false},
		{"ab:cd", 0, 0, false},
		{"", 0, 0, false},
	}
	for _, tt := range tests {
		h, m, err := ParseClock(tt.in)
		if tt.wantOK {
			if err != nil || h != tt.h || m != tt.m {
				t.Errorf("ParseClock(%q) = %d, %d, %v", tt.in, h, m, err)
			}
			continue
		}
		if !errors.Is(err, ErrInvalidClock) {
			t.Errorf("ParseClock(%q) err = %v, want ErrInvalidClock", tt.in, err)
		}
	}
}

func TestMinutesBetweenFloorsAtOne(t *testing.T) {
	base := time.Date(2026, 3, 10, 10, 0, 0, 0, time.Local)
	tests := []struct {
		d    time.Duration
		want int
	}{
		{-10 * time.Minute, 1},
		{0, 1},
		{29 * time.Second, 1},
		{89*time.Second + 999*time.Millisecond, 1},
		{90 * time.Second, 2},
		{45 * time.Minute, 45},
	}
	for _, tt := range tests {
		if got := minutesBetween(base, base.Add(tt.d)); got != tt.want {
			t.Errorf("minutesBetween(%v) = %d, want %d", tt.d, got, tt.want)
		}
	}
}
