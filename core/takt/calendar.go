package takt

import "time"

// NextWorkingDay advances t to the next Monday-Friday day if it falls on a
// weekend. Working days are fixed to the five-day week; site calendars with
// exotic shifts are handled upstream by the plan store.
func NextWorkingDay(t time.Time) time.Time {
	for t.Weekday() == time.Saturday || t.Weekday() == time.Sunday {
		t = t.AddDate(0, 0, 1)
	}
	return t
}

// AddWorkingDays returns start advanced by days working days. A non-positive
// count returns start snapped to a working day. The start day itself counts as
// day zero.
func AddWorkingDays(start time.Time, days int) time.Time {
	cur := NextWorkingDay(start)
	for added := 0; added < days; {
		cur = cur.AddDate(0, 0, 1)
		if cur.Weekday() != time.Saturday && cur.Weekday() != time.Sunday {
			added++
		}
	}
	return cur
}

// PeriodDates converts a 1-based period number and duration into calendar
// start and end dates relative to the plan start date.
func PeriodDates(start time.Time, period, duration int) (time.Time, time.Time) {
	s := AddWorkingDays(start, period-1)
	e := AddWorkingDays(start, period+duration-2)
	return s, e
}
