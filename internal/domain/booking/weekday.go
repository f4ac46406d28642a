package booking

import "time"

// Day-of-week fields use Monday=0 .. Sunday=6, while time.Weekday is
// Sunday-based. All conversions go through these helpers.

func WeekdayIndex(w time.Weekday) int {
	return (int(w) + 6) % 7
}

var dayNames = [7]string{
	"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday",
}

func DayName(dayOfWeek int) string {
	if dayOfWeek < 0 || dayOfWeek > 6 {
		return ""
	}
	return dayNames[dayOfWeek]
}
