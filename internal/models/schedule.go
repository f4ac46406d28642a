package models

import (
	"time"

	"gorm.io/gorm"
)

// Schedule is a named weekly availability template. At most one schedule per
// tenant may be the default; the write path enforces that atomically.
type Schedule struct {
	ID       uint `gorm:"primaryKey" json:"id"`
	TenantID uint `gorm:"index" json:"tenant_id"`

	Name        string `gorm:"size:100;not null" json:"name"`
	Description string `gorm:"size:255" json:"description"`
	IsDefault   bool   `gorm:"default:false" json:"is_default"`
	IsActive    bool   `gorm:"default:true" json:"is_active"`

	TimeSlots []ScheduleTimeSlot `gorm:"constraint:OnDelete:CASCADE;" json:"time_slots,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// ScheduleTimeSlot is one day-of-week window within a schedule.
// Times are stored as "HH:MM" strings; lexicographic order matches time order.
type ScheduleTimeSlot struct {
	ID         uint `gorm:"primaryKey" json:"id"`
	TenantID   uint `gorm:"index" json:"tenant_id"`
	ScheduleID uint `gorm:"index:idx_schedule_day_start,unique,priority:1" json:"schedule_id"`

	DayOfWeek int    `gorm:"index:idx_schedule_day_start,unique,priority:2" json:"day_of_week"`
	StartTime string `gorm:"size:5;index:idx_schedule_day_start,unique,priority:3" json:"start_time"`
	EndTime   string `gorm:"size:5" json:"end_time"`
	IsActive  bool   `gorm:"default:true" json:"is_active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DurationMinutes returns the window length in minutes.
func (s ScheduleTimeSlot) DurationMinutes() int {
	start, err := time.Parse("15:04", s.StartTime)
	if err != nil {
		return 0
	}
	end, err := time.Parse("15:04", s.EndTime)
	if err != nil {
		return 0
	}
	return int(end.Sub(start).Minutes())
}
