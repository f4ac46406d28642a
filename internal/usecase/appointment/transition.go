package appointment

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/HubFlowSystems/appointments-core/internal/audit"
	"github.com/HubFlowSystems/appointments-core/internal/domain/booking"
	"github.com/HubFlowSystems/appointments-core/internal/httperr"
	"github.com/HubFlowSystems/appointments-core/internal/models"
)

func loadAppointment(
	ctx context.Context,
	repo booking.Repository,
	tenantID uint,
	appointmentID uint,
) (*models.Appointment, error) {
	ap, err := repo.GetAppointmentByID(ctx, tenantID, appointmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrBusiness(httperr.CodeNotFound, "Appointment not found")
		}
		return nil, err
	}
	return ap, nil
}

// persistTransition saves the mutated appointment and appends the single
// history entry the transition produces, atomically.
func persistTransition(
	ctx context.Context,
	repo booking.Repository,
	ap *models.Appointment,
	action string,
	description string,
	actorID *uint,
) error {
	return repo.InTransaction(ctx, func(tx booking.Repository) error {
		if err := tx.SaveAppointment(ctx, ap); err != nil {
			return err
		}
		return appendHistory(ctx, tx, ap, action, description, actorID, nil, nil)
	})
}

func dispatchTransition(ctx context.Context, d *audit.Dispatcher, ap *models.Appointment, actorID *uint, action string) {
	if d == nil {
		return
	}
	d.Dispatch(audit.Event{
		TenantID:  ap.TenantID,
		UserID:    actorID,
		Action:    action,
		Entity:    "appointment",
		EntityID:  &ap.ID,
		RequestID: audit.RequestIDFromContext(ctx),
	})
}
