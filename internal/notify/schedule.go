package notify

import (
	"fmt"
	"time"
)

// Permitted hour window for randomly-slotted notifications. An explicit hour
// outside this window is a caller bug, not a runtime condition.
const (
	MinHour = 9
	MaxHour = 20
)

type specKind int

const (
	specAbsolute specKind = iota
	specWeekday
	specClock
)

// ScheduleSpec describes when a notification should fire, before resolution
// to an absolute trigger time. Construct with AtTime, OnWeekday or AtClock.
type ScheduleSpec struct {
	kind    specKind
	at      time.Time
	weekday time.Weekday
	hour    int
	minute  int
}

// AtTime schedules at an absolute timestamp.
func AtTime(t time.Time) ScheduleSpec {
	return ScheduleSpec{kind: specAbsolute, at: t}
}

// OnWeekday schedules at hour:minute on the next occurrence of the weekday.
func OnWeekday(day time.Weekday, hour, minute int) ScheduleSpec {
	return ScheduleSpec{kind: specWeekday, weekday: day, hour: hour, minute: minute}
}

// AtClock schedules at hour:minute today, or tomorrow if that has passed.
func AtClock(hour, minute int) ScheduleSpec {
	return ScheduleSpec{kind: specClock, hour: hour, minute: minute}
}

// validate panics on an out-of-window explicit hour. This is a contract
// violation by the caller and must fail before any substrate call.
func (s ScheduleSpec) validate() {
	if s.kind == specAbsolute {
		return
	}
	if s.hour < MinHour || s.hour > MaxHour {
		panic(fmt.Sprintf("notify: hour %d outside permitted window [%d,%d]", s.hour, MinHour, MaxHour))
	}
	if s.minute < 0 || s.minute > 59 {
		panic(fmt.Sprintf("notify: invalid minute %d", s.minute))
	}
}

// Resolve computes the concrete trigger time, strictly in the future
// relative to now. A non-future candidate advances in whole calendar days
// (whole weeks for weekday specs), preserving wall-clock time of day.
func (s ScheduleSpec) Resolve(now time.Time) time.Time {
	s.validate()

	switch s.kind {
	case specAbsolute:
		// The timestamp may be arbitrarily far in the past; advance day by
		// day until it is strictly future, keeping the wall-clock time.
		trigger := s.at
		for !trigger.After(now) {
			trigger = trigger.AddDate(0, 0, 1)
		}
		return trigger

	case specWeekday:
		daysAhead := (int(s.weekday) - int(now.Weekday()) + 7) % 7
		candidate := time.Date(now.Year(), now.Month(), now.Day()+daysAhead, s.hour, s.minute, 0, 0, now.Location())
		if candidate.After(now) {
			return candidate
		}
		return candidate.AddDate(0, 0, 7)

	default: // specClock
		candidate := time.Date(now.Year(), now.Month(), now.Day(), s.hour, s.minute, 0, 0, now.Location())
		if candidate.After(now) {
			return candidate
		}
		return candidate.AddDate(0, 0, 1)
	}
}
