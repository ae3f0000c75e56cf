package zone

import (
	"errors"
	"time"
)

var (
	ErrNoDays           = errors.New("zone: time window has no days")
	ErrMinuteOutOfRange = errors.New("zone: minute of day must be in [0, 1439]")
	ErrZeroDuration     = errors.New("zone: time window has zero duration")
)

// TimeWindow is a weekly recurring no-tag period. EndMinute < StartMinute
// denotes an overnight wrap, e.g. 22:00-06:00.
type TimeWindow struct {
	Days        []time.Weekday `json:"days"`
	StartMinute int            `json:"start_minute"`
	EndMinute   int            `json:"end_minute"`
}

// Validate rejects malformed windows at configuration time.
func (w TimeWindow) Validate() error {
	if len(w.Days) == 0 {
		return ErrNoDays
	}
	if w.StartMinute < 0 || w.StartMinute > 1439 || w.EndMinute < 0 || w.EndMinute > 1439 {
		return ErrMinuteOutOfRange
	}
	if w.StartMinute == w.EndMinute {
		return ErrZeroDuration
	}
	return nil
}

// Contains reports whether t (interpreted in its own location) falls inside
// the window.
func (w TimeWindow) Contains(t time.Time) bool {
	day := t.Weekday()
	found := false
	for _, d := range w.Days {
		if d == day {
			found = true
			break
		}
	}
	if !found {
		return false
	}

	minute := t.Hour()*60 + t.Minute()
	if w.EndMinute >= w.StartMinute {
		return minute >= w.StartMinute && minute <= w.EndMinute
	}
	// Overnight wrap.
	return minute >= w.StartMinute || minute <= w.EndMinute
}

// InAnyWindow reports whether any window contains t. An empty list matches
// nothing.
func InAnyWindow(t time.Time, windows []TimeWindow) bool {
	for _, w := range windows {
		if w.Contains(t) {
			return true
		}
	}
	return false
}

// ValidateWindows checks every window in the list.
func ValidateWindows(windows []TimeWindow) error {
	for _, w := range windows {
		if err := w.Validate(); err != nil {
			return err
		}
	}
	return nil
}
