package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	BlockTypeHoliday     = "holiday"
	BlockTypeVacation    = "vacation"
	BlockTypeBreak       = "break"
	BlockTypeMaintenance = "maintenance"
	BlockTypeOther       = "other"
)

// BlockedTime is an ad-hoc exclusion interval (holiday, staff break, ...).
// A nil StaffID means the block applies to every staff member.
type BlockedTime struct {
	ID       uint `gorm:"primaryKey" json:"id"`
	TenantID uint `gorm:"index" json:"tenant_id"`

	Title     string `gorm:"size:200;not null" json:"title"`
	BlockType string `gorm:"size:20;default:'other'" json:"block_type"`

	StartDatetime time.Time `gorm:"index" json:"start_datetime"`
	EndDatetime   time.Time `json:"end_datetime"`
	AllDay        bool      `gorm:"default:false" json:"all_day"`

	StaffID *uint `json:"staff_id"`

	Reason         string `gorm:"size:255" json:"reason"`
	IsRecurring    bool   `gorm:"default:false" json:"is_recurring"`
	RecurrenceRule string `gorm:"size:200" json:"recurrence_rule"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// Duration returns the blocked span.
func (b BlockedTime) Duration() time.Duration {
	return b.EndDatetime.Sub(b.StartDatetime)
}
