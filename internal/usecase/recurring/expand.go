package recurring

import (
	"context"
	"fmt"
	"time"

	"github.com/HubFlowSystems/appointments-core/internal/audit"
	"github.com/HubFlowSystems/appointments-core/internal/domain/booking"
	"github.com/HubFlowSystems/appointments-core/internal/httperr"
	"github.com/HubFlowSystems/appointments-core/internal/lock"
	"github.com/HubFlowSystems/appointments-core/internal/models"
	"github.com/HubFlowSystems/appointments-core/internal/timezone"
)

// ======================================================
// INPUT
// ======================================================

type ExpandInput struct {
	TenantID   uint
	TemplateID uint
	UntilDate  time.Time
	ActorID    *uint
}

// ======================================================
// USE CASE
// ======================================================

// Expander materializes template occurrences up to a horizon date as pending
// appointments. Expansion is idempotent: occurrences that already have an
// appointment for the same customer, service and start are skipped, so
// re-running with an overlapping horizon only fills gaps.
type Expander struct {
	repo   booking.Repository
	locker lock.Locker
	audit  *audit.Dispatcher
}

func NewExpander(
	repo booking.Repository,
	locker lock.Locker,
	auditDispatcher *audit.Dispatcher,
) *Expander {
	return &Expander{
		repo:   repo,
		locker: locker,
		audit:  auditDispatcher,
	}
}

func (uc *Expander) Execute(
	ctx context.Context,
	in ExpandInput,
) ([]models.Appointment, error) {

	if in.UntilDate.IsZero() {
		return nil, httperr.ErrBusiness(httperr.CodeValidation, "Until date is required")
	}

	tenant, err := uc.repo.GetTenantByID(ctx, in.TenantID)
	if err != nil {
		return nil, httperr.ErrBusiness(httperr.CodeNotFound, "Tenant not found")
	}

	template, err := uc.repo.GetRecurringByID(ctx, in.TenantID, in.TemplateID)
	if err != nil {
		return nil, httperr.ErrBusiness(httperr.CodeNotFound, "Recurring template not found")
	}
	if !template.IsActive {
		return []models.Appointment{}, nil
	}

	loc := timezone.Location(tenant.Timezone)
	dates := occurrenceDates(template, in.UntilDate.In(loc))
	if len(dates) == 0 {
		return []models.Appointment{}, nil
	}

	// Two locks: the template lock keeps concurrent expansions of the same
	// series from double-creating, the number lock serializes sequence
	// assignment with ad-hoc bookings.
	release, err := uc.locker.Acquire(ctx, templateLockKey(in.TenantID, in.TemplateID), 10*time.Second)
	if err != nil {
		return nil, err
	}
	defer release()

	now := timezone.NowIn(tenant.Timezone)
	releaseNum, err := uc.locker.Acquire(ctx, fmt.Sprintf("aptnum:%d:%s", in.TenantID, now.Format("20060102")), 10*time.Second)
	if err != nil {
		return nil, err
	}
	defer releaseNum()

	var created []models.Appointment
	err = uc.repo.InTransaction(ctx, func(tx booking.Repository) error {
		last, err := tx.MaxAppointmentNumber(ctx, in.TenantID, booking.NumberPrefix(now))
		if err != nil {
			return err
		}
		seq := booking.NextSequence(last)

		for _, date := range dates {
			start := time.Date(
				date.Year(), date.Month(), date.Day(),
				templateHour(template.Time), templateMinute(template.Time), 0, 0, loc,
			)

			exists, err := tx.AppointmentExistsAt(ctx, in.TenantID, template.CustomerID, template.ServiceID, start)
			if err != nil {
				return err
			}
			if exists {
				continue
			}

			ap := models.Appointment{
				TenantID:          in.TenantID,
				AppointmentNumber: booking.FormatNumber(now, seq),
				CustomerID:        template.CustomerID,
				CustomerName:      template.CustomerName,
				StaffID:           template.StaffID,
				StaffName:         template.StaffName,
				ServiceID:         template.ServiceID,
				ServiceName:       template.ServiceName,
				StartDatetime:     start,
				EndDatetime:       start.Add(time.Duration(template.DurationMinutes) * time.Minute),
				DurationMinutes:   template.DurationMinutes,
				Status:            string(booking.InitialStatus()),
				CreatedByID:       in.ActorID,
			}
			if err := tx.CreateAppointment(ctx, &ap); err != nil {
				return err
			}
			seq++

			entry := &models.AppointmentHistory{
				TenantID:      in.TenantID,
				AppointmentID: ap.ID,
				Action:        models.HistoryActionCreated,
				Description:   "Created from recurring appointment",
				PerformedByID: in.ActorID,
			}
			if err := tx.AppendHistory(ctx, entry); err != nil {
				return err
			}

			created = append(created, ap)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if uc.audit != nil && len(created) > 0 {
		uc.audit.Dispatch(audit.Event{
			TenantID:  in.TenantID,
			UserID:    in.ActorID,
			Action:    "recurring_expanded",
			Entity:    "recurring_appointment",
			EntityID:  &template.ID,
			RequestID: audit.RequestIDFromContext(ctx),
			Metadata:  map[string]any{"created": len(created)},
		})
	}

	if created == nil {
		created = []models.Appointment{}
	}
	return created, nil
}

// occurrenceDates walks the series from its start date up to the horizon,
// honoring end_date and max_occurrences. The count covers the whole series,
// so a capped template never grows past its cap no matter how often it is
// expanded.
func occurrenceDates(t *models.RecurringAppointment, until time.Time) []time.Time {
	until = dateOnly(until)
	current := firstOccurrence(t)

	var dates []time.Time
	count := 0
	for !current.After(until) {
		if t.EndDate != nil && current.After(dateOnly(*t.EndDate)) {
			break
		}
		if t.MaxOccurrences != nil && count >= *t.MaxOccurrences {
			break
		}
		dates = append(dates, current)
		count++
		current = advance(t, current)
	}
	return dates
}

// firstOccurrence aligns the series start to the template's weekday for
// weekly/biweekly cadences; a start date already on that weekday counts as
// the first occurrence.
func firstOccurrence(t *models.RecurringAppointment) time.Time {
	start := dateOnly(t.StartDate)
	switch t.Frequency {
	case models.FrequencyWeekly, models.FrequencyBiweekly:
		if t.DayOfWeek != nil {
			ahead := (*t.DayOfWeek - booking.WeekdayIndex(start.Weekday()) + 7) % 7
			return start.AddDate(0, 0, ahead)
		}
	}
	return start
}

func advance(t *models.RecurringAppointment, current time.Time) time.Time {
	switch t.Frequency {
	case models.FrequencyDaily:
		return current.AddDate(0, 0, 1)
	case models.FrequencyWeekly:
		return current.AddDate(0, 0, 7)
	case models.FrequencyBiweekly:
		return current.AddDate(0, 0, 14)
	case models.FrequencyMonthly:
		return nextMonthlyDate(current, t.StartDate.Day())
	}
	return current.AddDate(0, 0, 1)
}

func templateLockKey(tenantID, templateID uint) string {
	return fmt.Sprintf("recur:%d:%d", tenantID, templateID)
}

func templateHour(hm string) int {
	t, _ := time.Parse("15:04", hm)
	return t.Hour()
}

func templateMinute(hm string) int {
	t, _ := time.Parse("15:04", hm)
	return t.Minute()
}
