package recurring

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/HubFlowSystems/appointments-core/internal/models"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func intRef(v int) *int { return &v }

func weeklyTemplate(dayOfWeek int, start time.Time) *models.RecurringAppointment {
	return &models.RecurringAppointment{
		Frequency: models.FrequencyWeekly,
		DayOfWeek: intRef(dayOfWeek),
		StartDate: start,
	}
}

func TestNextOccurrenceDaily(t *testing.T) {
	template := &models.RecurringAppointment{
		Frequency: models.FrequencyDaily,
		StartDate: date(2026, 3, 1),
	}

	today := date(2026, 3, 10)
	next := NextOccurrence(template, nil, today)
	require.NotNil(t, next)
	require.Equal(t, today, *next)

	// Before the series starts, the start date itself is next.
	early := date(2026, 2, 20)
	next = NextOccurrence(template, &early, early)
	require.NotNil(t, next)
	require.Equal(t, date(2026, 3, 1), *next)
}

func TestNextOccurrenceWeekly(t *testing.T) {
	// 2026-03-02 is a Monday; day_of_week 1 = Tuesday.
	template := weeklyTemplate(1, date(2026, 3, 2))

	// From a Monday, Tuesday is tomorrow.
	monday := date(2026, 3, 2)
	next := NextOccurrence(template, &monday, monday)
	require.Equal(t, date(2026, 3, 3), *next)

	// From the matching Tuesday itself, the occurrence advances a full week.
	tuesday := date(2026, 3, 3)
	next = NextOccurrence(template, &tuesday, tuesday)
	require.Equal(t, date(2026, 3, 10), *next)

	// From a Thursday, wrap to next Tuesday.
	thursday := date(2026, 3, 5)
	next = NextOccurrence(template, &thursday, thursday)
	require.Equal(t, date(2026, 3, 10), *next)
}

func TestNextOccurrenceBiweekly(t *testing.T) {
	template := weeklyTemplate(1, date(2026, 3, 2))
	template.Frequency = models.FrequencyBiweekly

	// Same-day wraparound adds a full fortnight.
	tuesday := date(2026, 3, 3)
	next := NextOccurrence(template, &tuesday, tuesday)
	require.Equal(t, date(2026, 3, 17), *next)

	// A future weekday in the same week is still the nearest match.
	monday := date(2026, 3, 2)
	next = NextOccurrence(template, &monday, monday)
	require.Equal(t, date(2026, 3, 3), *next)
}

func TestNextOccurrenceMonthlyClampsDay(t *testing.T) {
	template := &models.RecurringAppointment{
		Frequency: models.FrequencyMonthly,
		StartDate: date(2026, 1, 31),
	}

	// February has no 31st; the anchor clamps to the 28th.
	feb := date(2026, 2, 1)
	next := NextOccurrence(template, &feb, feb)
	require.Equal(t, date(2026, 2, 28), *next)

	// After February's clamped date, March reverts to the true anchor.
	afterFeb := date(2026, 3, 1)
	next = NextOccurrence(template, &afterFeb, afterFeb)
	require.Equal(t, date(2026, 3, 31), *next)
}

func TestNextOccurrenceMonthlyDecemberRollsOver(t *testing.T) {
	template := &models.RecurringAppointment{
		Frequency: models.FrequencyMonthly,
		StartDate: date(2026, 1, 15),
	}

	lateDec := date(2026, 12, 20)
	next := NextOccurrence(template, &lateDec, lateDec)
	require.Equal(t, date(2027, 1, 15), *next)
}

func TestNextOccurrenceRespectsEndDate(t *testing.T) {
	end := date(2026, 3, 31)
	template := &models.RecurringAppointment{
		Frequency: models.FrequencyDaily,
		StartDate: date(2026, 3, 1),
		EndDate:   &end,
	}

	after := date(2026, 4, 1)
	require.Nil(t, NextOccurrence(template, &after, after))

	inside := date(2026, 3, 31)
	require.NotNil(t, NextOccurrence(template, &inside, inside))
}
