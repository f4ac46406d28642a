package appointment

import (
	"context"

	"github.com/HubFlowSystems/appointments-core/internal/audit"
	"github.com/HubFlowSystems/appointments-core/internal/domain/booking"
	"github.com/HubFlowSystems/appointments-core/internal/httperr"
	"github.com/HubFlowSystems/appointments-core/internal/models"
)

type ConfirmAppointment struct {
	repo  booking.Repository
	audit *audit.Dispatcher
}

func NewConfirmAppointment(repo booking.Repository, auditDispatcher *audit.Dispatcher) *ConfirmAppointment {
	return &ConfirmAppointment{repo: repo, audit: auditDispatcher}
}

func (uc *ConfirmAppointment) Execute(
	ctx context.Context,
	tenantID uint,
	appointmentID uint,
	actorID *uint,
) (*models.Appointment, error) {

	ap, err := loadAppointment(ctx, uc.repo, tenantID, appointmentID)
	if err != nil {
		return nil, err
	}

	if !booking.Confirm(ap) {
		return nil, httperr.ErrBusiness(httperr.CodeIllegalTransition, "Only pending appointments can be confirmed")
	}

	if err := persistTransition(ctx, uc.repo, ap, models.HistoryActionConfirmed, "Appointment confirmed", actorID); err != nil {
		return nil, err
	}

	dispatchTransition(ctx, uc.audit, ap, actorID, "appointment_confirmed")
	return ap, nil
}
