package appointment

import (
	"context"

	"github.com/HubFlowSystems/appointments-core/internal/audit"
	"github.com/HubFlowSystems/appointments-core/internal/domain/booking"
	"github.com/HubFlowSystems/appointments-core/internal/httperr"
	"github.com/HubFlowSystems/appointments-core/internal/models"
)

type CompleteAppointment struct {
	repo  booking.Repository
	audit *audit.Dispatcher
}

func NewCompleteAppointment(repo booking.Repository, auditDispatcher *audit.Dispatcher) *CompleteAppointment {
	return &CompleteAppointment{repo: repo, audit: auditDispatcher}
}

func (uc *CompleteAppointment) Execute(
	ctx context.Context,
	tenantID uint,
	appointmentID uint,
	actorID *uint,
) (*models.Appointment, error) {

	ap, err := loadAppointment(ctx, uc.repo, tenantID, appointmentID)
	if err != nil {
		return nil, err
	}

	if !booking.Complete(ap) {
		return nil, httperr.ErrBusiness(httperr.CodeIllegalTransition, "Only confirmed or in-progress appointments can be completed")
	}

	if err := persistTransition(ctx, uc.repo, ap, models.HistoryActionCompleted, "Appointment completed", actorID); err != nil {
		return nil, err
	}

	dispatchTransition(ctx, uc.audit, ap, actorID, "appointment_completed")
	return ap, nil
}
