package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Appointment is a concrete booking. Customer/staff/service names and the
// price are point-in-time snapshots taken at booking time; they are never
// refreshed from the referenced entities.
//
// EndDatetime is always derived from StartDatetime + DurationMinutes and is
// never set independently.
type Appointment struct {
	ID       uint `gorm:"primaryKey" json:"id"`
	TenantID uint `gorm:"index:idx_appointments_tenant_number,unique,priority:1;index:idx_appointments_tenant_start" json:"tenant_id"`

	AppointmentNumber string `gorm:"size:20;index:idx_appointments_tenant_number,unique,priority:2" json:"appointment_number"`

	CustomerID    *uint  `json:"customer_id"`
	CustomerName  string `gorm:"size:200;not null" json:"customer_name"`
	CustomerPhone string `gorm:"size:50" json:"customer_phone"`
	CustomerEmail string `gorm:"size:100" json:"customer_email"`

	StaffID   *uint  `gorm:"index" json:"staff_id"`
	StaffName string `gorm:"size:200" json:"staff_name"`

	ServiceID    *uint           `json:"service_id"`
	ServiceName  string          `gorm:"size:200;not null" json:"service_name"`
	ServicePrice decimal.Decimal `gorm:"type:numeric(10,2)" json:"service_price"`

	StartDatetime   time.Time `gorm:"index:idx_appointments_tenant_start" json:"start_datetime"`
	EndDatetime     time.Time `json:"end_datetime"`
	DurationMinutes int       `json:"duration_minutes"`

	Status string `gorm:"size:20;default:'pending'" json:"status"`

	Notes         string `gorm:"size:1000" json:"notes"`
	InternalNotes string `gorm:"size:1000" json:"internal_notes"`

	ReminderSent   bool       `gorm:"default:false" json:"reminder_sent"`
	ReminderSentAt *time.Time `json:"reminder_sent_at"`

	BookedOnline bool `gorm:"default:false" json:"booked_online"`

	CancelledAt        *time.Time `json:"cancelled_at"`
	CancellationReason string     `gorm:"size:500" json:"cancellation_reason"`

	CreatedByID *uint `json:"created_by_id"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// RecalcEnd rederives EndDatetime. Must be called whenever StartDatetime or
// DurationMinutes changes.
func (a *Appointment) RecalcEnd() {
	a.EndDatetime = a.StartDatetime.Add(time.Duration(a.DurationMinutes) * time.Minute)
}

// IsPast reports whether the appointment already ended at the given instant.
func (a *Appointment) IsPast(now time.Time) bool {
	return a.EndDatetime.Before(now)
}
