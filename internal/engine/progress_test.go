package engine

import (
	"math"
	"testing"
	"time"
)

func at(h, m int) time.Time {
	return time.Date(2026, 3, 10, h, m, 0, 0, time.Local)
}

func TestDayProgress(t *testing.T) {
	tests := []struct {
		name       string
		now        time.Time
		start, end int
		want       float64
	}{
		{"before start", at(8, 59), 9, 18, 0},
		{"at start", at(9, 0), 9, 18, 0},
		{"midday", at(13, 30), 9, 18, 50},
		{"at end", at(18, 0), 9, 18, 100},
		{"after end", at(20, 0), 9, 18, 100},
		{"degenerate morning", at(8, 0), 18, 9, 100},
		{"degenerate evening", at(22, 0), 18, 9, 100},
		{"empty window", at(12, 0), 12, 12, 100},
		{"quarter", at(11, 15), 9, 18, 25},
	}
	for _, tt := range tests {
		got := DayProgress(tt.now, tt.start, tt.end)
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("%s: DayProgress = %v, want %v", tt.name, got, tt.want)
		}
	}
}
