package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/HubFlowSystems/appointments-core/internal/models"
)

func newTestRepo(t *testing.T) (*BookingGormRepository, uint) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_busy_timeout=5000", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.Tenant{},
		&models.TenantSettings{},
		&models.Schedule{},
		&models.ScheduleTimeSlot{},
		&models.BlockedTime{},
		&models.Appointment{},
		&models.AppointmentHistory{},
		&models.RecurringAppointment{},
	))

	tenant := &models.Tenant{Name: "Acme Salon", Slug: "acme-" + t.Name(), Timezone: "UTC"}
	require.NoError(t, db.Create(tenant).Error)

	return NewBookingGormRepository(db), tenant.ID
}

func at(hour int) time.Time {
	return time.Date(2026, 3, 2, hour, 0, 0, 0, time.UTC)
}

var seedSeq int

func seedAppointment(t *testing.T, repo *BookingGormRepository, tenantID uint, staffID uint, start time.Time, status string) *models.Appointment {
	t.Helper()

	seedSeq++
	ap := &models.Appointment{
		TenantID:          tenantID,
		AppointmentNumber: fmt.Sprintf("APT-20260302-%04d", seedSeq),
		CustomerName:      "Dana Fields",
		StaffID:           &staffID,
		ServiceName:       "Consultation",
		ServicePrice:      decimal.NewFromInt(50),
		StartDatetime:     start,
		EndDatetime:       start.Add(time.Hour),
		DurationMinutes:   60,
		Status:            status,
	}
	require.NoError(t, repo.CreateAppointment(context.Background(), ap))
	return ap
}

// --------------------------------------------------
// Settings
// --------------------------------------------------

func TestGetSettingsCreatesDefaultsOnFirstAccess(t *testing.T) {
	repo, tenantID := newTestRepo(t)
	ctx := context.Background()

	settings, err := repo.GetSettings(ctx, tenantID)
	require.NoError(t, err)

	require.Equal(t, 60, settings.DefaultDuration)
	require.Equal(t, 60, settings.MinBookingNotice)
	require.Equal(t, 90, settings.MaxAdvanceBooking)
	require.Equal(t, 15, settings.SlotInterval)
	require.False(t, settings.AllowOverlapping)
	require.True(t, settings.SendReminders)

	// Second read returns the same row, not a new one.
	settings.MinBookingNotice = 30
	require.NoError(t, repo.SaveSettings(ctx, settings))

	again, err := repo.GetSettings(ctx, tenantID)
	require.NoError(t, err)
	require.Equal(t, settings.ID, again.ID)
	require.Equal(t, 30, again.MinBookingNotice)
}

// --------------------------------------------------
// Conflict scan
// --------------------------------------------------

func TestFindConflictingAppointmentHalfOpen(t *testing.T) {
	repo, tenantID := newTestRepo(t)
	ctx := context.Background()

	seedAppointment(t, repo, tenantID, 7, at(10), "confirmed")

	// Touching ranges never conflict.
	conflict, err := repo.FindConflictingAppointment(ctx, tenantID, 7, at(11), at(12), 0)
	require.NoError(t, err)
	require.Nil(t, conflict)

	conflict, err = repo.FindConflictingAppointment(ctx, tenantID, 7, at(9), at(10), 0)
	require.NoError(t, err)
	require.Nil(t, conflict)

	// Any true overlap does.
	conflict, err = repo.FindConflictingAppointment(ctx, tenantID, 7, at(10).Add(30*time.Minute), at(11).Add(30*time.Minute), 0)
	require.NoError(t, err)
	require.NotNil(t, conflict)
}

func TestFindConflictingAppointmentIgnoresTerminalStatuses(t *testing.T) {
	repo, tenantID := newTestRepo(t)
	ctx := context.Background()

	seedAppointment(t, repo, tenantID, 7, at(10), "cancelled")
	seedAppointment(t, repo, tenantID, 7, at(12), "completed")
	seedAppointment(t, repo, tenantID, 7, at(14), "no_show")

	for _, start := range []time.Time{at(10), at(12), at(14)} {
		conflict, err := repo.FindConflictingAppointment(ctx, tenantID, 7, start, start.Add(time.Hour), 0)
		require.NoError(t, err)
		require.Nil(t, conflict)
	}
}

func TestFindConflictingAppointmentExcludesSelf(t *testing.T) {
	repo, tenantID := newTestRepo(t)
	ctx := context.Background()

	ap := seedAppointment(t, repo, tenantID, 7, at(10), "pending")

	conflict, err := repo.FindConflictingAppointment(ctx, tenantID, 7, at(10), at(11), ap.ID)
	require.NoError(t, err)
	require.Nil(t, conflict)
}

// --------------------------------------------------
// Blocked time scope
// --------------------------------------------------

func TestFindBlockingIntervalScope(t *testing.T) {
	repo, tenantID := newTestRepo(t)
	ctx := context.Background()

	staff := uint(7)
	other := uint(8)

	global := &models.BlockedTime{
		TenantID:      tenantID,
		Title:         "Holiday",
		BlockType:     models.BlockTypeHoliday,
		StartDatetime: at(9),
		EndDatetime:   at(12),
	}
	require.NoError(t, repo.CreateBlockedTime(ctx, global))

	personal := &models.BlockedTime{
		TenantID:      tenantID,
		Title:         "Dentist",
		BlockType:     models.BlockTypeBreak,
		StartDatetime: at(14),
		EndDatetime:   at(15),
		StaffID:       &staff,
	}
	require.NoError(t, repo.CreateBlockedTime(ctx, personal))

	// Global block applies to everyone.
	found, err := repo.FindBlockingInterval(ctx, tenantID, at(10), at(11), &staff)
	require.NoError(t, err)
	require.NotNil(t, found)
	require.Equal(t, "Holiday", found.Title)

	// Personal block applies to its staff member only.
	found, err = repo.FindBlockingInterval(ctx, tenantID, at(14), at(15), &staff)
	require.NoError(t, err)
	require.NotNil(t, found)

	found, err = repo.FindBlockingInterval(ctx, tenantID, at(14), at(15), &other)
	require.NoError(t, err)
	require.Nil(t, found)

	// A nil staff reference only sees global blocks.
	found, err = repo.FindBlockingInterval(ctx, tenantID, at(14), at(15), nil)
	require.NoError(t, err)
	require.Nil(t, found)
}

// --------------------------------------------------
// Numbers
// --------------------------------------------------

func TestMaxAppointmentNumberIncludesTombstoned(t *testing.T) {
	repo, tenantID := newTestRepo(t)
	ctx := context.Background()

	ap := seedAppointment(t, repo, tenantID, 7, at(10), "pending")
	ap.AppointmentNumber = "APT-20260302-0005"
	require.NoError(t, repo.SaveAppointment(ctx, ap))

	require.NoError(t, repo.DeleteAppointment(ctx, tenantID, ap.ID))

	// The number stays reserved even after the soft delete.
	max, err := repo.MaxAppointmentNumber(ctx, tenantID, "APT-20260302")
	require.NoError(t, err)
	require.Equal(t, "APT-20260302-0005", max)
}

func TestMaxAppointmentNumberEmptyDay(t *testing.T) {
	repo, tenantID := newTestRepo(t)

	max, err := repo.MaxAppointmentNumber(context.Background(), tenantID, "APT-20991231")
	require.NoError(t, err)
	require.Equal(t, "", max)
}

// --------------------------------------------------
// Reminders
// --------------------------------------------------

func TestListDueRemindersLowerBoundIsStrict(t *testing.T) {
	repo, tenantID := newTestRepo(t)
	ctx := context.Background()

	now := at(10)
	until := at(14)

	seedAppointment(t, repo, tenantID, 7, now, "confirmed")             // starts exactly now
	inWindow := seedAppointment(t, repo, tenantID, 7, at(12), "pending") // inside
	seedAppointment(t, repo, tenantID, 7, at(16), "confirmed")          // past the horizon
	seedAppointment(t, repo, tenantID, 8, at(13), "cancelled")          // terminal

	due, err := repo.ListDueReminders(ctx, tenantID, now, until)
	require.NoError(t, err)
	require.Len(t, due, 1)
	require.Equal(t, inWindow.ID, due[0].ID)
}

// --------------------------------------------------
// Stats
// --------------------------------------------------

func TestStatsAggregation(t *testing.T) {
	repo, tenantID := newTestRepo(t)
	ctx := context.Background()

	seedAppointment(t, repo, tenantID, 7, at(9), "completed")
	seedAppointment(t, repo, tenantID, 7, at(11), "completed")
	seedAppointment(t, repo, tenantID, 7, at(13), "cancelled")

	from := at(0)
	to := at(23)

	byStatus, err := repo.CountAppointmentsByStatus(ctx, tenantID, from, to)
	require.NoError(t, err)
	require.Equal(t, int64(2), byStatus["completed"])
	require.Equal(t, int64(1), byStatus["cancelled"])

	revenue, err := repo.SumCompletedRevenue(ctx, tenantID, from, to)
	require.NoError(t, err)
	require.True(t, revenue.Equal(decimal.NewFromInt(100)), "got %s", revenue)
}

func TestSumCompletedRevenueEmptyRange(t *testing.T) {
	repo, tenantID := newTestRepo(t)

	revenue, err := repo.SumCompletedRevenue(context.Background(), tenantID, at(0), at(23))
	require.NoError(t, err)
	require.True(t, revenue.IsZero())
}

// --------------------------------------------------
// Tenant isolation
// --------------------------------------------------

func TestQueriesAreTenantScoped(t *testing.T) {
	repo, tenantID := newTestRepo(t)
	ctx := context.Background()

	ap := seedAppointment(t, repo, tenantID, 7, at(10), "pending")

	_, err := repo.GetAppointmentByID(ctx, tenantID+1, ap.ID)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	conflict, err := repo.FindConflictingAppointment(ctx, tenantID+1, 7, at(10), at(11), 0)
	require.NoError(t, err)
	require.Nil(t, conflict)
}
