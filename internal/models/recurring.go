package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	FrequencyDaily    = "daily"
	FrequencyWeekly   = "weekly"
	FrequencyBiweekly = "biweekly"
	FrequencyMonthly  = "monthly"
)

// RecurringAppointment is a template that generates appointment instances on
// demand. It is never itself a booking; generated appointments are independent
// entities linked only by the denormalized customer/service fields used for
// deduplication.
type RecurringAppointment struct {
	ID       uint `gorm:"primaryKey" json:"id"`
	TenantID uint `gorm:"index" json:"tenant_id"`

	CustomerID   *uint  `json:"customer_id"`
	CustomerName string `gorm:"size:200;not null" json:"customer_name"`

	ServiceID   *uint  `json:"service_id"`
	ServiceName string `gorm:"size:200;not null" json:"service_name"`

	StaffID   *uint  `json:"staff_id"`
	StaffName string `gorm:"size:200" json:"staff_name"`

	Frequency string `gorm:"size:20;not null" json:"frequency"`
	// DayOfWeek uses Monday=0 .. Sunday=6. Required for weekly and biweekly.
	DayOfWeek       *int   `json:"day_of_week"`
	Time            string `gorm:"size:5;not null" json:"time"`
	DurationMinutes int    `json:"duration_minutes"`

	StartDate      time.Time  `gorm:"not null" json:"start_date"`
	EndDate        *time.Time `json:"end_date"`
	MaxOccurrences *int       `json:"max_occurrences"`

	IsActive bool `gorm:"default:true" json:"is_active"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
