package booking

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/HubFlowSystems/appointments-core/internal/models"
)

type Repository interface {
	// -------- Tenant / settings --------
	GetTenantByID(
		ctx context.Context,
		id uint,
	) (*models.Tenant, error)

	// GetSettings returns the tenant's settings, creating the row with
	// defaults on first access.
	GetSettings(
		ctx context.Context,
		tenantID uint,
	) (*models.TenantSettings, error)

	SaveSettings(
		ctx context.Context,
		settings *models.TenantSettings,
	) error

	// -------- Schedule --------
	CreateSchedule(
		ctx context.Context,
		schedule *models.Schedule,
	) error

	GetScheduleByID(
		ctx context.Context,
		tenantID uint,
		id uint,
	) (*models.Schedule, error)

	GetDefaultSchedule(
		ctx context.Context,
		tenantID uint,
	) (*models.Schedule, error)

	// SetDefaultSchedule marks one schedule as default and clears the flag on
	// every other schedule of the tenant, atomically.
	SetDefaultSchedule(
		ctx context.Context,
		tenantID uint,
		scheduleID uint,
	) error

	CreateTimeSlot(
		ctx context.Context,
		slot *models.ScheduleTimeSlot,
	) error

	DeleteTimeSlot(
		ctx context.Context,
		tenantID uint,
		slotID uint,
	) error

	// ListTimeSlots returns the active slots for a schedule/day ordered by
	// start time.
	ListTimeSlots(
		ctx context.Context,
		tenantID uint,
		scheduleID uint,
		dayOfWeek int,
	) ([]models.ScheduleTimeSlot, error)

	FindOverlappingTimeSlot(
		ctx context.Context,
		tenantID uint,
		scheduleID uint,
		dayOfWeek int,
		startTime string,
		endTime string,
	) (*models.ScheduleTimeSlot, error)

	// -------- Blocked time --------
	CreateBlockedTime(
		ctx context.Context,
		blocked *models.BlockedTime,
	) error

	DeleteBlockedTime(
		ctx context.Context,
		tenantID uint,
		id uint,
	) error

	ListBlockedTimes(
		ctx context.Context,
		tenantID uint,
		from time.Time,
		to time.Time,
	) ([]models.BlockedTime, error)

	// FindBlockingInterval returns the earliest-starting blocked interval
	// overlapping [start, end) that applies to the given staff. A nil staffID
	// matches only globally scoped intervals.
	FindBlockingInterval(
		ctx context.Context,
		tenantID uint,
		start time.Time,
		end time.Time,
		staffID *uint,
	) (*models.BlockedTime, error)

	// -------- Appointment --------
	CreateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	SaveAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	// DeleteAppointment tombstones the appointment; history is preserved.
	DeleteAppointment(
		ctx context.Context,
		tenantID uint,
		id uint,
	) error

	GetAppointmentByID(
		ctx context.Context,
		tenantID uint,
		id uint,
	) (*models.Appointment, error)

	// FindConflictingAppointment returns the earliest-starting active
	// appointment of the staff member overlapping [start, end), ignoring
	// excludeID when non-zero.
	FindConflictingAppointment(
		ctx context.Context,
		tenantID uint,
		staffID uint,
		start time.Time,
		end time.Time,
		excludeID uint,
	) (*models.Appointment, error)

	// MaxAppointmentNumber returns the highest appointment number with the
	// given prefix, or "" when none exists.
	MaxAppointmentNumber(
		ctx context.Context,
		tenantID uint,
		prefix string,
	) (string, error)

	AppointmentExistsAt(
		ctx context.Context,
		tenantID uint,
		customerID *uint,
		serviceID *uint,
		start time.Time,
	) (bool, error)

	ListAppointmentsForRange(
		ctx context.Context,
		tenantID uint,
		from time.Time,
		to time.Time,
		staffID *uint,
		status string,
	) ([]models.Appointment, error)

	ListUpcomingAppointments(
		ctx context.Context,
		tenantID uint,
		now time.Time,
		staffID *uint,
		limit int,
	) ([]models.Appointment, error)

	ListCustomerAppointments(
		ctx context.Context,
		tenantID uint,
		customerID uint,
		now time.Time,
		includePast bool,
	) ([]models.Appointment, error)

	SearchAppointments(
		ctx context.Context,
		tenantID uint,
		query string,
		limit int,
	) ([]models.Appointment, error)

	ListDueReminders(
		ctx context.Context,
		tenantID uint,
		now time.Time,
		until time.Time,
	) ([]models.Appointment, error)

	// -------- History --------
	AppendHistory(
		ctx context.Context,
		entry *models.AppointmentHistory,
	) error

	// ListHistory returns entries newest-first.
	ListHistory(
		ctx context.Context,
		tenantID uint,
		appointmentID uint,
	) ([]models.AppointmentHistory, error)

	// -------- Recurring --------
	CreateRecurring(
		ctx context.Context,
		template *models.RecurringAppointment,
	) error

	GetRecurringByID(
		ctx context.Context,
		tenantID uint,
		id uint,
	) (*models.RecurringAppointment, error)

	ListActiveRecurring(
		ctx context.Context,
		tenantID uint,
	) ([]models.RecurringAppointment, error)

	SaveRecurring(
		ctx context.Context,
		template *models.RecurringAppointment,
	) error

	// -------- Stats --------
	CountAppointmentsByStatus(
		ctx context.Context,
		tenantID uint,
		from time.Time,
		to time.Time,
	) (map[string]int64, error)

	SumCompletedRevenue(
		ctx context.Context,
		tenantID uint,
		from time.Time,
		to time.Time,
	) (decimal.Decimal, error)

	// -------- Unit of work --------
	// InTransaction runs fn against a repository bound to a single database
	// transaction, so conflict-check-then-write sequences are not racy.
	InTransaction(
		ctx context.Context,
		fn func(Repository) error,
	) error
}
