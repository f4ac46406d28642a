package appointment

import (
	"context"
	"fmt"
	"time"

	"github.com/HubFlowSystems/appointments-core/internal/audit"
	"github.com/HubFlowSystems/appointments-core/internal/domain/booking"
	"github.com/HubFlowSystems/appointments-core/internal/httperr"
	"github.com/HubFlowSystems/appointments-core/internal/models"
)

type RescheduleAppointment struct {
	repo  booking.Repository
	audit *audit.Dispatcher
}

func NewRescheduleAppointment(repo booking.Repository, auditDispatcher *audit.Dispatcher) *RescheduleAppointment {
	return &RescheduleAppointment{repo: repo, audit: auditDispatcher}
}

// Execute moves a pending or confirmed appointment to a new time, keeping its
// status. newDuration <= 0 keeps the current duration. The new range is
// validated against staff conflicts (when staff is assigned and overlap is
// disallowed) and blocked intervals before anything is persisted.
func (uc *RescheduleAppointment) Execute(
	ctx context.Context,
	tenantID uint,
	appointmentID uint,
	newStart time.Time,
	newDuration int,
	actorID *uint,
) (*models.Appointment, error) {

	ap, err := loadAppointment(ctx, uc.repo, tenantID, appointmentID)
	if err != nil {
		return nil, err
	}

	settings, err := uc.repo.GetSettings(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	duration := newDuration
	if duration <= 0 {
		duration = ap.DurationMinutes
	}
	newEnd := newStart.Add(time.Duration(duration) * time.Minute)

	oldStart := ap.StartDatetime

	err = uc.repo.InTransaction(ctx, func(tx booking.Repository) error {
		checker := NewConflictChecker(tx)

		if ap.StaffID != nil && !settings.AllowOverlapping {
			conflicting, err := checker.FindConflictingAppointment(
				ctx, tenantID, *ap.StaffID, newStart, newEnd, ap.ID,
			)
			if err != nil {
				return err
			}
			if conflicting != nil {
				return httperr.ErrBusinessMeta(
					httperr.CodeStaffConflict,
					fmt.Sprintf("Time slot conflicts with: %s", conflicting.AppointmentNumber),
					map[string]any{"appointment_number": conflicting.AppointmentNumber},
				)
			}
		}

		blocked, err := checker.FindBlockingInterval(ctx, tenantID, newStart, newEnd, ap.StaffID)
		if err != nil {
			return err
		}
		if blocked != nil {
			return httperr.ErrBusinessMeta(
				httperr.CodeTimeBlocked,
				fmt.Sprintf("Time slot is blocked: %s", blocked.Title),
				map[string]any{"blocked_time_id": blocked.ID, "title": blocked.Title},
			)
		}

		if !booking.Reschedule(ap, newStart, newDuration) {
			return httperr.ErrBusiness(httperr.CodeIllegalTransition, "Only pending or confirmed appointments can be rescheduled")
		}

		if err := tx.SaveAppointment(ctx, ap); err != nil {
			return err
		}

		return appendHistory(ctx, tx, ap, models.HistoryActionRescheduled,
			fmt.Sprintf("Rescheduled from %s to %s",
				oldStart.Format("2006-01-02 15:04"), newStart.Format("2006-01-02 15:04")),
			actorID,
			map[string]any{"start_datetime": oldStart.Format(time.RFC3339)},
			map[string]any{"start_datetime": newStart.Format(time.RFC3339)},
		)
	})
	if err != nil {
		return nil, err
	}

	dispatchTransition(ctx, uc.audit, ap, actorID, "appointment_rescheduled")
	return ap, nil
}
