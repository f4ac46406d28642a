package models

import (
	"time"

	"gorm.io/datatypes"
)

const (
	HistoryActionCreated     = "created"
	HistoryActionConfirmed   = "confirmed"
	HistoryActionStarted     = "started"
	HistoryActionRescheduled = "rescheduled"
	HistoryActionCancelled   = "cancelled"
	HistoryActionCompleted   = "completed"
	HistoryActionNoShow      = "no_show"
	HistoryActionNoteAdded   = "note_added"
)

// AppointmentHistory is a write-once audit record for one lifecycle event.
// Read back newest-first.
type AppointmentHistory struct {
	ID       uint `gorm:"primaryKey" json:"id"`
	TenantID uint `gorm:"index" json:"tenant_id"`

	AppointmentID uint `gorm:"index;not null" json:"appointment_id"`

	Action      string `gorm:"size:20;not null" json:"action"`
	Description string `gorm:"size:500" json:"description"`

	PerformedByID *uint `json:"performed_by_id"`

	OldValue datatypes.JSON `json:"old_value"`
	NewValue datatypes.JSON `json:"new_value"`

	CreatedAt time.Time `json:"created_at"`
}
