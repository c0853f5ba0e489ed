// Package dates normalizes free-text date expressions ("tomorrow", "next
// monday", "in 3 days", "September 26, 2024") into calendar dates anchored at
// a caller-supplied now.
package dates

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
)

// ParseError means no resolution rule matched the input.
type ParseError struct {
	Text string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("unable to parse date: %v", e.Text)
}

// Weekday names indexed Monday=0, matching the upstream convention.
var weekdays = []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

var inDaysPattern = regexp.MustCompile(`(?i)in\s+(\d+)\s+days?`)

var casualParser = func() *when.Parser {
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)
	return w
}()

// Resolve turns text into a date. Rules apply in order, first match wins:
//
//  1. "next week" is now + 7 days.
//  2. A weekday name anywhere in the input resolves to its next occurrence;
//     "next" pushes it a further week out. A bare weekday never resolves to
//     today.
//  3. "in N days" is now + N days.
//  4. Casual phrases ("tomorrow", "this friday evening") go through the when
//     parser, absolute dates through dateparse.
//
// The returned time is truncated to midnight in now's location.
func Resolve(text string, now time.Time) (time.Time, error) {
	input := strings.ToLower(strings.TrimSpace(text))
	today := midnight(now)

	if input == "next week" {
		return today.AddDate(0, 0, 7), nil
	}

	currentDay := (int(now.Weekday()) + 6) % 7 // Monday=0
	for targetDay, name := range weekdays {
		if !strings.Contains(input, name) {
			continue
		}
		if strings.Contains(input, "next") {
			ahead := 7 - currentDay + targetDay
			if ahead >= 7 {
				ahead -= 7
			}
			ahead += 7
			return today.AddDate(0, 0, ahead), nil
		}
		ahead := targetDay - currentDay
		if ahead <= 0 {
			ahead += 7
		}
		return today.AddDate(0, 0, ahead), nil
	}

	if m := inDaysPattern.FindStringSubmatch(input); m != nil {
		n, err := strconv.Atoi(m[1])
		if err == nil {
			return today.AddDate(0, 0, n), nil
		}
	}

	if r, err := casualParser.Parse(input, now); err == nil && r != nil {
		return midnight(r.Time), nil
	}

	if t, err := dateparse.ParseIn(text, now.Location()); err == nil {
		return midnight(t), nil
	}

	return time.Time{}, &ParseError{Text: text}
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
