package appointment

import (
	"context"

	"github.com/HubFlowSystems/appointments-core/internal/audit"
	"github.com/HubFlowSystems/appointments-core/internal/domain/booking"
	"github.com/HubFlowSystems/appointments-core/internal/httperr"
	"github.com/HubFlowSystems/appointments-core/internal/models"
	"github.com/HubFlowSystems/appointments-core/internal/timezone"
)

type MarkNoShow struct {
	repo  booking.Repository
	audit *audit.Dispatcher
}

func NewMarkNoShow(repo booking.Repository, auditDispatcher *audit.Dispatcher) *MarkNoShow {
	return &MarkNoShow{repo: repo, audit: auditDispatcher}
}

// Execute marks the customer as a no-show. Only pending or confirmed
// appointments whose end time has passed qualify.
func (uc *MarkNoShow) Execute(
	ctx context.Context,
	tenantID uint,
	appointmentID uint,
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
	if !booking.MarkNoShow(ap, now) {
		return nil, httperr.ErrBusiness(httperr.CodeIllegalTransition, "Appointment cannot be marked as no-show")
	}

	if err := persistTransition(ctx, uc.repo, ap, models.HistoryActionNoShow, "Customer marked as no-show", actorID); err != nil {
		return nil, err
	}

	dispatchTransition(ctx, uc.audit, ap, actorID, "appointment_no_show")
	return ap, nil
}
