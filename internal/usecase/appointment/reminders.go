package appointment

import (
	"context"
	"time"

	"github.com/HubFlowSystems/appointments-core/internal/domain/booking"
	"github.com/HubFlowSystems/appointments-core/internal/httperr"
	"github.com/HubFlowSystems/appointments-core/internal/models"
	"github.com/HubFlowSystems/appointments-core/internal/timezone"
)

// Reminders exposes the "due for reminder" predicate. Delivery is an external
// concern; this only selects and flags.
type Reminders struct {
	repo booking.Repository
}

func NewReminders(repo booking.Repository) *Reminders {
	return &Reminders{repo: repo}
}

// Due returns pending/confirmed appointments starting within the tenant's
// reminder window that have not been reminded yet. Empty when reminders are
// disabled.
func (r *Reminders) Due(ctx context.Context, tenantID uint) ([]models.Appointment, error) {
	tenant, err := r.repo.GetTenantByID(ctx, tenantID)
	if err != nil {
		return nil, httperr.ErrBusiness(httperr.CodeNotFound, "Tenant not found")
	}
	settings, err := r.repo.GetSettings(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if !settings.SendReminders {
		return []models.Appointment{}, nil
	}

	now := timezone.NowIn(tenant.Timezone)
	until := now.Add(time.Duration(settings.ReminderHoursBefore) * time.Hour)

	return r.repo.ListDueReminders(ctx, tenantID, now, until)
}

// MarkSent flags the appointment so it is not selected again.
func (r *Reminders) MarkSent(ctx context.Context, tenantID, appointmentID uint) error {
	ap, err := loadAppointment(ctx, r.repo, tenantID, appointmentID)
	if err != nil {
		return err
	}

	now := time.Now()
	ap.ReminderSent = true
	ap.ReminderSentAt = &now

	return r.repo.SaveAppointment(ctx, ap)
}
