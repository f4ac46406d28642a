package appointment

import (
	"context"

	"github.com/HubFlowSystems/appointments-core/internal/audit"
	"github.com/HubFlowSystems/appointments-core/internal/domain/booking"
	"github.com/HubFlowSystems/appointments-core/internal/httperr"
	"github.com/HubFlowSystems/appointments-core/internal/models"
	"github.com/HubFlowSystems/appointments-core/internal/timezone"
)

type CancelAppointment struct {
	repo  booking.Repository
	audit *audit.Dispatcher
}

func NewCancelAppointment(repo booking.Repository, auditDispatcher *audit.Dispatcher) *CancelAppointment {
	return &CancelAppointment{repo: repo, audit: auditDispatcher}
}

func (uc *CancelAppointment) Execute(
	ctx context.Context,
	tenantID uint,
	appointmentID uint,
	reason string,
	actorID *uint,
) (*models.Appointment, error) {

	tenant, err := uc.repo.GetTenantByID(ctx, tenantID)
	if err != nil {
		return nil, httperr.ErrBusiness(httperr.CodeNotFound, "Tenant not found")
	}

	ap, err := loadAppointment(ctx, uc.repo, tenantID, appointmentID)
	if err != nil {
		return nil, err
	}

	now := timezone.NowIn(tenant.Timezone)
	if !booking.Cancel(ap, reason, now) {
		return nil, httperr.ErrBusiness(httperr.CodeIllegalTransition, "Completed or already-cancelled appointments cannot be cancelled")
	}

	description := "Appointment cancelled"
	if reason != "" {
		description = "Appointment cancelled: " + reason
	}

	if err := persistTransition(ctx, uc.repo, ap, models.HistoryActionCancelled, description, actorID); err != nil {
		return nil, err
	}

	dispatchTransition(ctx, uc.audit, ap, actorID, "appointment_cancelled")
	return ap, nil
}
