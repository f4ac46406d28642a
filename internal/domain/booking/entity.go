package booking

import (
	"time"

	"github.com/HubFlowSystems/appointments-core/internal/models"
)

// ===============================
// Domain Actions
// ===============================
//
// Transitions mutate the appointment and return true, or leave it untouched
// and return false when the current status does not permit the move. Callers
// must check the result; an illegal transition is an expected outcome, not an
// error.

// Confirm moves pending to confirmed.
func Confirm(ap *models.Appointment) bool {
	if Status(ap.Status) != StatusPending {
		return false
	}
	ap.Status = string(StatusConfirmed)
	return true
}

// Start moves confirmed to in_progress.
func Start(ap *models.Appointment) bool {
	if Status(ap.Status) != StatusConfirmed {
		return false
	}
	ap.Status = string(StatusInProgress)
	return true
}

// Complete moves confirmed or in_progress to completed.
func Complete(ap *models.Appointment) bool {
	switch Status(ap.Status) {
	case StatusConfirmed, StatusInProgress:
		ap.Status = string(StatusCompleted)
		return true
	}
	return false
}

// Cancel moves any non-terminal pre-completion status to cancelled and records
// the reason and timestamp.
func Cancel(ap *models.Appointment, reason string, now time.Time) bool {
	switch Status(ap.Status) {
	case StatusCancelled, StatusCompleted, StatusNoShow:
		return false
	}
	ap.Status = string(StatusCancelled)
	ap.CancelledAt = &now
	ap.CancellationReason = reason
	return true
}

// MarkNoShow moves pending or confirmed to no_show, only once the appointment
// has already ended.
func MarkNoShow(ap *models.Appointment, now time.Time) bool {
	switch Status(ap.Status) {
	case StatusPending, StatusConfirmed:
		if !ap.IsPast(now) {
			return false
		}
		ap.Status = string(StatusNoShow)
		return true
	}
	return false
}

// Reschedule moves the appointment to a new start (and optionally a new
// duration, when newDuration > 0) without changing status. EndDatetime is
// rederived. Only pending and confirmed appointments may move.
func Reschedule(ap *models.Appointment, newStart time.Time, newDuration int) bool {
	switch Status(ap.Status) {
	case StatusPending, StatusConfirmed:
		ap.StartDatetime = newStart
		if newDuration > 0 {
			ap.DurationMinutes = newDuration
		}
		ap.RecalcEnd()
		return true
	}
	return false
}
