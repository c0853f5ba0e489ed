package dates

import (
	"errors"
	"testing"
	"time"
)

// A Wednesday, mid-afternoon, so truncation to midnight is visible.
var wednesday = time.Date(2024, 9, 25, 15, 30, 0, 0, time.UTC)

func day(offset int) time.Time {
	return time.Date(2024, 9, 25, 0, 0, 0, 0, time.UTC).AddDate(0, 0, offset)
}

func TestResolveRelativeExpressions(t *testing.T) {
	tests := []struct {
		input string
		want  time.Time
	}{
		{"today", day(0)},
		{"tomorrow", day(1)},
		{"next week", day(7)},
		{"in 3 days", day(3)},
		{"in 1 day", day(1)},
		{"friday", day(2)},
		{"saturday", day(3)},
		{"monday", day(5)},
		{"next friday", day(9)},
		{"next monday", day(12)},
		{"Next Monday", day(12)},
		{"what about next monday?", day(12)},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			got, err := Resolve(tc.input, wednesday)
			if err != nil {
				t.Fatalf("Resolve(%q) failed: %v", tc.input, err)
			}
			if !got.Equal(tc.want) {
				t.Fatalf("Resolve(%q) = %v, want %v", tc.input, got, tc.want)
			}
		})
	}
}

func TestResolveBareWeekdayNeverToday(t *testing.T) {
	got, err := Resolve("wednesday", wednesday)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if !got.Equal(day(7)) {
		t.Fatalf("asking for today's weekday must mean next week, got %v", got)
	}
}

func TestResolveAbsoluteDate(t *testing.T) {
	got, err := Resolve("2024-10-03", wednesday)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	want := time.Date(2024, 10, 3, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("Resolve = %v, want %v", got, want)
	}
}

func TestResolveTruncatesToMidnight(t *testing.T) {
	got, err := Resolve("tomorrow", wednesday)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	h, m, s := got.Clock()
	if h != 0 || m != 0 || s != 0 {
		t.Fatalf("expected midnight, got %v", got)
	}
}

func TestResolveUnparseable(t *testing.T) {
	_, err := Resolve("the day my cat learns to fly", wednesday)
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected a *ParseError, got %v", err)
	}
	if parseErr.Text != "the day my cat learns to fly" {
		t.Errorf("ParseError should carry the original input, got %q", parseErr.Text)
	}
}
