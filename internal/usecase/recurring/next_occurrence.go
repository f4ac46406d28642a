package recurring

import (
	"time"

	"github.com/HubFlowSystems/appointments-core/internal/domain/booking"
	"github.com/HubFlowSystems/appointments-core/internal/models"
)

// NextOccurrence computes the next date the template fires on or after
// afterDate (nil = today). Returns nil when the series has ended.
//
// Cadence rules:
//   - daily: the current date itself.
//   - weekly/biweekly: the earliest matching weekday after current; when
//     current already falls on the template's weekday the occurrence advances
//     a full period, never returning the same day.
//   - monthly: the start date's day-of-month, clamped to the target month's
//     length, rolling December into January.
func NextOccurrence(t *models.RecurringAppointment, afterDate *time.Time, today time.Time) *time.Time {
	after := dateOnly(today)
	if afterDate != nil {
		after = dateOnly(*afterDate)
	}

	if t.EndDate != nil && after.After(dateOnly(*t.EndDate)) {
		return nil
	}

	current := dateOnly(t.StartDate)
	if after.After(current) {
		current = after
	}

	switch t.Frequency {
	case models.FrequencyDaily:
		return &current

	case models.FrequencyWeekly:
		if t.DayOfWeek == nil {
			return &current
		}
		next := current.AddDate(0, 0, daysAhead(current, *t.DayOfWeek, 7))
		return &next

	case models.FrequencyBiweekly:
		if t.DayOfWeek == nil {
			return &current
		}
		next := current.AddDate(0, 0, daysAhead(current, *t.DayOfWeek, 14))
		return &next

	case models.FrequencyMonthly:
		next := nextMonthlyDate(current, t.StartDate.Day())
		return &next
	}

	return &current
}

// daysAhead returns how far the target weekday lies from current; a
// non-positive offset wraps a full period so same-weekday-as-current always
// advances.
func daysAhead(current time.Time, dayOfWeek, period int) int {
	ahead := dayOfWeek - booking.WeekdayIndex(current.Weekday())
	if ahead <= 0 {
		ahead += period
	}
	return ahead
}

// nextMonthlyDate returns the anchor day in the current month if still ahead,
// otherwise in the following month, clamping the day to the month's length
// (Jan 31 becomes Feb 28/29).
func nextMonthlyDate(current time.Time, anchorDay int) time.Time {
	next := dateWithClampedDay(current.Year(), current.Month(), anchorDay, current.Location())
	if !next.After(current) {
		year, month := current.Year(), current.Month()
		if month == time.December {
			year, month = year+1, time.January
		} else {
			month++
		}
		next = dateWithClampedDay(year, month, anchorDay, current.Location())
	}
	return next
}

func dateWithClampedDay(year int, month time.Month, day int, loc *time.Location) time.Time {
	if last := daysInMonth(year, month); day > last {
		day = last
	}
	return time.Date(year, month, day, 0, 0, 0, 0, loc)
}

func daysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func dateOnly(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}
