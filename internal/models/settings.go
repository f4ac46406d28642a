package models

import "time"

// TenantSettings holds per-tenant booking configuration. One row per tenant,
// created lazily with defaults on first access.
//
// Units are intentionally heterogeneous: MinBookingNotice is minutes,
// CancellationNoticeHours is hours, MaxAdvanceBooking is days. Callers and
// tests depend on the literal configured magnitudes.
type TenantSettings struct {
	ID       uint `gorm:"primaryKey" json:"id"`
	TenantID uint `gorm:"uniqueIndex;not null" json:"tenant_id"`

	DefaultDuration   int `gorm:"default:60" json:"default_duration"`
	MinBookingNotice  int `gorm:"default:60" json:"min_booking_notice"`
	MaxAdvanceBooking int `gorm:"default:90" json:"max_advance_booking"`

	AllowOverlapping bool `gorm:"default:false" json:"allow_overlapping"`

	SendReminders       bool `gorm:"default:true" json:"send_reminders"`
	ReminderHoursBefore int  `gorm:"default:24" json:"reminder_hours_before"`

	AllowCustomerCancellation bool `gorm:"default:true" json:"allow_customer_cancellation"`
	CancellationNoticeHours   int  `gorm:"default:24" json:"cancellation_notice_hours"`

	CalendarStartHour int `gorm:"default:8" json:"calendar_start_hour"`
	CalendarEndHour   int `gorm:"default:20" json:"calendar_end_hour"`
	SlotInterval      int `gorm:"default:15" json:"slot_interval"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
