package appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/HubFlowSystems/appointments-core/internal/domain/booking"
	"github.com/HubFlowSystems/appointments-core/internal/httperr"
	"github.com/HubFlowSystems/appointments-core/internal/models"
)

// UpdateInput carries the mutable fields; nil pointers leave a field as-is.
type UpdateInput struct {
	StartDatetime   *time.Time
	DurationMinutes *int

	CustomerName  *string
	CustomerPhone *string
	CustomerEmail *string

	StaffID   *uint
	StaffName *string

	ServiceName  *string
	ServicePrice *decimal.Decimal

	Notes         *string
	InternalNotes *string
}

type UpdateAppointment struct {
	repo booking.Repository
}

func NewUpdateAppointment(repo booking.Repository) *UpdateAppointment {
	return &UpdateAppointment{repo: repo}
}

// Execute applies the changed fields. When timing changes, EndDatetime is
// rederived and the new range is re-validated against staff conflicts
// (excluding this appointment); a failed check aborts the whole update with no
// partial mutation, since all changes land on a copy that is only persisted
// after validation.
func (uc *UpdateAppointment) Execute(
	ctx context.Context,
	tenantID uint,
	appointmentID uint,
	in UpdateInput,
	actorID *uint,
) (*models.Appointment, error) {

	ap, err := uc.repo.GetAppointmentByID(ctx, tenantID, appointmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrBusiness(httperr.CodeNotFound, "Appointment not found")
		}
		return nil, err
	}

	updated := *ap
	oldValues := map[string]any{}
	newValues := map[string]any{}

	setStr := func(field string, dst *string, v *string) {
		if v != nil && *v != *dst {
			oldValues[field] = *dst
			newValues[field] = *v
			*dst = *v
		}
	}

	setStr("customer_name", &updated.CustomerName, in.CustomerName)
	setStr("customer_phone", &updated.CustomerPhone, in.CustomerPhone)
	setStr("customer_email", &updated.CustomerEmail, in.CustomerEmail)
	setStr("staff_name", &updated.StaffName, in.StaffName)
	setStr("service_name", &updated.ServiceName, in.ServiceName)
	setStr("notes", &updated.Notes, in.Notes)
	setStr("internal_notes", &updated.InternalNotes, in.InternalNotes)

	if in.StaffID != nil && (updated.StaffID == nil || *updated.StaffID != *in.StaffID) {
		oldValues["staff_id"] = updated.StaffID
		newValues["staff_id"] = *in.StaffID
		updated.StaffID = in.StaffID
	}

	if in.ServicePrice != nil && !in.ServicePrice.Equal(updated.ServicePrice) {
		oldValues["service_price"] = updated.ServicePrice.String()
		newValues["service_price"] = in.ServicePrice.String()
		updated.ServicePrice = *in.ServicePrice
	}

	timingChanged := false
	if in.StartDatetime != nil && !in.StartDatetime.Equal(updated.StartDatetime) {
		oldValues["start_datetime"] = updated.StartDatetime.Format(time.RFC3339)
		newValues["start_datetime"] = in.StartDatetime.Format(time.RFC3339)
		updated.StartDatetime = *in.StartDatetime
		timingChanged = true
	}
	if in.DurationMinutes != nil && *in.DurationMinutes != updated.DurationMinutes {
		if *in.DurationMinutes <= 0 {
			return nil, httperr.ErrBusiness(httperr.CodeValidation, "Duration must be positive")
		}
		oldValues["duration_minutes"] = updated.DurationMinutes
		newValues["duration_minutes"] = *in.DurationMinutes
		updated.DurationMinutes = *in.DurationMinutes
		timingChanged = true
	}

	if len(newValues) == 0 {
		return ap, nil
	}

	if timingChanged {
		oldValues["end_datetime"] = updated.EndDatetime.Format(time.RFC3339)
		updated.RecalcEnd()
		newValues["end_datetime"] = updated.EndDatetime.Format(time.RFC3339)
	}

	settings, err := uc.repo.GetSettings(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	err = uc.repo.InTransaction(ctx, func(tx booking.Repository) error {
		if timingChanged && updated.StaffID != nil && !settings.AllowOverlapping {
			conflicting, err := tx.FindConflictingAppointment(
				ctx, tenantID, *updated.StaffID,
				updated.StartDatetime, updated.EndDatetime, updated.ID,
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

		if err := tx.SaveAppointment(ctx, &updated); err != nil {
			return err
		}

		action := models.HistoryActionNoteAdded
		if timingChanged {
			action = models.HistoryActionRescheduled
		}
		return appendHistory(ctx, tx, &updated, action, "Appointment updated", actorID, oldValues, newValues)
	})
	if err != nil {
		return nil, err
	}

	*ap = updated
	return ap, nil
}
