package appointment

import (
	"context"

	"github.com/HubFlowSystems/appointments-core/internal/audit"
	"github.com/HubFlowSystems/appointments-core/internal/domain/booking"
	"github.com/HubFlowSystems/appointments-core/internal/httperr"
	"github.com/HubFlowSystems/appointments-core/internal/models"
)

type StartAppointment struct {
	repo  booking.Repository
	audit *audit.Dispatcher
}

func NewStartAppointment(repo booking.Repository, auditDispatcher *audit.Dispatcher) *StartAppointment {
	return &StartAppointment{repo: repo, audit: auditDispatcher}
}

func (uc *StartAppointment) Execute(
	ctx context.Context,
	tenantID uint,
	appointmentID uint,
	actorID *uint,
) (*models.Appointment, error) {

	ap, err := loadAppointment(ctx, uc.repo, tenantID, appointmentID)
	if err != nil {
		return nil, err
	}

	if !booking.Start(ap) {
		return nil, httperr.ErrBusiness(httperr.CodeIllegalTransition, "Only confirmed appointments can be started")
	}

	if err := persistTransition(ctx, uc.repo, ap, models.HistoryActionStarted, "Appointment started", actorID); err != nil {
		return nil, err
	}

	dispatchTransition(ctx, uc.audit, ap, actorID, "appointment_started")
	return ap, nil
}
