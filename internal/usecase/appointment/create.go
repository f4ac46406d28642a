package appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

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

type CreateInput struct {
	TenantID uint

	CustomerID    *uint
	CustomerName  string
	CustomerPhone string
	CustomerEmail string

	StaffID   *uint
	StaffName string

	ServiceID    *uint
	ServiceName  string
	ServicePrice decimal.Decimal

	StartDatetime   time.Time
	DurationMinutes int // 0 = tenant default

	Notes        string
	BookedOnline bool
	CreatedByID  *uint
}

// ======================================================
// USE CASE
// ======================================================

type CreateAppointment struct {
	repo     booking.Repository
	conflict *ConflictChecker
	locker   lock.Locker
	audit    *audit.Dispatcher
}

func NewCreateAppointment(
	repo booking.Repository,
	locker lock.Locker,
	auditDispatcher *audit.Dispatcher,
) *CreateAppointment {
	return &CreateAppointment{
		repo:     repo,
		conflict: NewConflictChecker(repo),
		locker:   locker,
		audit:    auditDispatcher,
	}
}

const numberAssignAttempts = 3

func (uc *CreateAppointment) Execute(
	ctx context.Context,
	in CreateInput,
) (*models.Appointment, error) {

	if in.CustomerName == "" {
		return nil, httperr.ErrBusiness(httperr.CodeValidation, "Customer name is required")
	}
	if in.ServiceName == "" {
		return nil, httperr.ErrBusiness(httperr.CodeValidation, "Service name is required")
	}
	if in.StartDatetime.IsZero() {
		return nil, httperr.ErrBusiness(httperr.CodeValidation, "Start datetime is required")
	}

	tenant, err := uc.repo.GetTenantByID(ctx, in.TenantID)
	if err != nil {
		return nil, httperr.ErrBusiness(httperr.CodeNotFound, "Tenant not found")
	}
	settings, err := uc.repo.GetSettings(ctx, in.TenantID)
	if err != nil {
		return nil, err
	}

	duration := in.DurationMinutes
	if duration <= 0 {
		duration = settings.DefaultDuration
	}

	now := timezone.NowIn(tenant.Timezone)
	start := in.StartDatetime.In(timezone.Location(tenant.Timezone))

	minNotice := time.Duration(settings.MinBookingNotice) * time.Minute
	if start.Before(now.Add(minNotice)) {
		return nil, httperr.ErrBusiness(
			httperr.CodeTooSoon,
			fmt.Sprintf("Appointments must be booked at least %d minutes in advance", settings.MinBookingNotice),
		)
	}

	if start.After(now.AddDate(0, 0, settings.MaxAdvanceBooking)) {
		return nil, httperr.ErrBusiness(
			httperr.CodeTooFarAhead,
			fmt.Sprintf("Appointments cannot be booked more than %d days in advance", settings.MaxAdvanceBooking),
		)
	}

	end := start.Add(time.Duration(duration) * time.Minute)

	ap := &models.Appointment{
		TenantID:        in.TenantID,
		CustomerID:      in.CustomerID,
		CustomerName:    in.CustomerName,
		CustomerPhone:   in.CustomerPhone,
		CustomerEmail:   in.CustomerEmail,
		StaffID:         in.StaffID,
		StaffName:       in.StaffName,
		ServiceID:       in.ServiceID,
		ServiceName:     in.ServiceName,
		ServicePrice:    in.ServicePrice,
		StartDatetime:   start,
		EndDatetime:     end,
		DurationMinutes: duration,
		Status:          string(booking.InitialStatus()),
		Notes:           in.Notes,
		BookedOnline:    in.BookedOnline,
		CreatedByID:     in.CreatedByID,
	}

	// Number assignment is a scan-max-then-insert sequence, serialized per
	// tenant+day by the locker; the unique index on (tenant, number) backstops
	// it, and a duplicate insert retries with a fresh scan.
	release, err := uc.locker.Acquire(ctx, numberLockKey(in.TenantID, now), 5*time.Second)
	if err != nil {
		return nil, err
	}
	defer release()

	for attempt := 0; ; attempt++ {
		err = uc.repo.InTransaction(ctx, func(tx booking.Repository) error {
			checker := NewConflictChecker(tx)

			if ap.StaffID != nil && !settings.AllowOverlapping {
				conflicting, err := checker.FindConflictingAppointment(
					ctx, in.TenantID, *ap.StaffID, start, end, 0,
				)
				if err != nil {
					return err
				}
				if conflicting != nil {
					return httperr.ErrBusinessMeta(
						httperr.CodeStaffConflict,
						fmt.Sprintf("Time slot conflicts with existing appointment: %s", conflicting.AppointmentNumber),
						map[string]any{"appointment_number": conflicting.AppointmentNumber},
					)
				}
			}

			blocked, err := checker.FindBlockingInterval(ctx, in.TenantID, start, end, ap.StaffID)
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

			last, err := tx.MaxAppointmentNumber(ctx, in.TenantID, booking.NumberPrefix(now))
			if err != nil {
				return err
			}
			ap.AppointmentNumber = booking.FormatNumber(now, booking.NextSequence(last))

			if err := tx.CreateAppointment(ctx, ap); err != nil {
				return err
			}

			return appendHistory(ctx, tx, ap, models.HistoryActionCreated,
				fmt.Sprintf("Appointment created for %s", in.CustomerName), in.CreatedByID, nil, nil)
		})

		if err == nil || !isUniqueViolation(err) || attempt >= numberAssignAttempts {
			break
		}
	}
	if err != nil {
		return nil, err
	}

	if uc.audit != nil {
		uc.audit.Dispatch(audit.Event{
			TenantID:  in.TenantID,
			UserID:    in.CreatedByID,
			Action:    "appointment_created",
			Entity:    "appointment",
			EntityID:  &ap.ID,
			RequestID: audit.RequestIDFromContext(ctx),
		})
	}

	return ap, nil
}

func numberLockKey(tenantID uint, day time.Time) string {
	return fmt.Sprintf("aptnum:%d:%s", tenantID, day.Format("20060102"))
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
