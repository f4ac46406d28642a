package booking

import "time"

type AvailabilityInput struct {
	TenantID        uint
	Date            time.Time
	DurationMinutes int
	StaffID         *uint
	ScheduleID      uint // 0 = use the tenant's default schedule
}

// AvailableSlot is one bookable candidate produced by the availability engine.
type AvailableSlot struct {
	Start     time.Time `json:"start_time"`
	End       time.Time `json:"end_time"`
	Formatted string    `json:"formatted"`
}
