package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFormatNumber(t *testing.T) {
	day := time.Date(2026, 1, 5, 15, 30, 0, 0, time.UTC)

	require.Equal(t, "APT-20260105", NumberPrefix(day))
	require.Equal(t, "APT-20260105-0001", FormatNumber(day, 1))
	require.Equal(t, "APT-20260105-0042", FormatNumber(day, 42))
	require.Equal(t, "APT-20260105-12345", FormatNumber(day, 12345))
}

func TestNextSequence(t *testing.T) {
	require.Equal(t, 1, NextSequence(""))
	require.Equal(t, 2, NextSequence("APT-20260105-0001"))
	require.Equal(t, 100, NextSequence("APT-20260105-0099"))
	require.Equal(t, 1, NextSequence("garbage"))
}

func TestWeekdayIndexIsMondayBased(t *testing.T) {
	// 2026-03-02 is a Monday.
	monday := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 7; i++ {
		day := monday.AddDate(0, 0, i)
		require.Equal(t, i, WeekdayIndex(day.Weekday()), "day %s", day.Weekday())
	}
}
