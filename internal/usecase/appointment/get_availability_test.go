package appointment

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/HubFlowSystems/appointments-core/internal/domain/booking"
	"github.com/HubFlowSystems/appointments-core/internal/infra/repository"
	"github.com/HubFlowSystems/appointments-core/internal/lock"
	"github.com/HubFlowSystems/appointments-core/internal/models"
)

// nextMonday returns a Monday at least a week out so today-only notice
// filtering never applies.
func nextMonday() time.Time {
	day := time.Now().UTC().AddDate(0, 0, 7)
	for day.Weekday() != time.Monday {
		day = day.AddDate(0, 0, 1)
	}
	return time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
}

func setupSchedule(t *testing.T, repo *repository.BookingGormRepository, tenantID uint) *models.Schedule {
	t.Helper()
	ctx := context.Background()

	sched := &models.Schedule{TenantID: tenantID, Name: "Standard", IsActive: true}
	require.NoError(t, repo.CreateSchedule(ctx, sched))
	require.NoError(t, repo.SetDefaultSchedule(ctx, tenantID, sched.ID))

	// Monday 09:00-13:00.
	require.NoError(t, repo.CreateTimeSlot(ctx, &models.ScheduleTimeSlot{
		TenantID:   tenantID,
		ScheduleID: sched.ID,
		DayOfWeek:  0,
		StartTime:  "09:00",
		EndTime:    "13:00",
		IsActive:   true,
	}))

	return sched
}

func TestAvailabilityWalksWindowAtSlotInterval(t *testing.T) {
	repo, tenant := newTestRepo(t)
	setupSchedule(t, repo, tenant.ID)

	uc := NewGetAvailability(repo)
	slots, err := uc.Execute(context.Background(), booking.AvailabilityInput{
		TenantID:        tenant.ID,
		Date:            nextMonday(),
		DurationMinutes: 60,
	})
	require.NoError(t, err)

	// 09:00 through 12:00 inclusive at 15-minute steps.
	require.Len(t, slots, 13)
	require.Equal(t, "09:00", slots[0].Formatted)
	require.Equal(t, "12:00", slots[len(slots)-1].Formatted)

	for _, slot := range slots {
		require.Equal(t, slot.Start.Add(60*time.Minute), slot.End)
	}
}

func TestAvailabilitySkipsStaffConflicts(t *testing.T) {
	repo, tenant := newTestRepo(t)
	setupSchedule(t, repo, tenant.ID)
	ctx := context.Background()

	monday := nextMonday()
	booked := time.Date(monday.Year(), monday.Month(), monday.Day(), 10, 0, 0, 0, time.UTC)

	create := NewCreateAppointment(repo, lock.NewLocalLocker(), nil)
	in := createInput(tenant.ID, booked)
	_, err := create.Execute(ctx, in)
	require.NoError(t, err)

	uc := NewGetAvailability(repo)
	slots, err := uc.Execute(ctx, booking.AvailabilityInput{
		TenantID:        tenant.ID,
		Date:            monday,
		DurationMinutes: 60,
		StaffID:         in.StaffID,
	})
	require.NoError(t, err)

	// Every candidate overlapping [10:00,11:00) is gone: 09:15..10:45.
	for _, slot := range slots {
		overlaps := slot.Start.Before(booked.Add(time.Hour)) && slot.End.After(booked)
		require.False(t, overlaps, "slot %s should be excluded", slot.Formatted)
	}

	// The half-open boundaries survive.
	formatted := make(map[string]bool)
	for _, slot := range slots {
		formatted[slot.Formatted] = true
	}
	require.True(t, formatted["09:00"])
	require.True(t, formatted["11:00"])
}

func TestAvailabilitySkipsBlockedIntervals(t *testing.T) {
	repo, tenant := newTestRepo(t)
	setupSchedule(t, repo, tenant.ID)
	ctx := context.Background()

	monday := nextMonday()
	require.NoError(t, repo.CreateBlockedTime(ctx, &models.BlockedTime{
		TenantID:      tenant.ID,
		Title:         "Team meeting",
		BlockType:     models.BlockTypeBreak,
		StartDatetime: time.Date(monday.Year(), monday.Month(), monday.Day(), 11, 0, 0, 0, time.UTC),
		EndDatetime:   time.Date(monday.Year(), monday.Month(), monday.Day(), 12, 0, 0, 0, time.UTC),
	}))

	uc := NewGetAvailability(repo)
	slots, err := uc.Execute(ctx, booking.AvailabilityInput{
		TenantID:        tenant.ID,
		Date:            monday,
		DurationMinutes: 60,
	})
	require.NoError(t, err)

	for _, slot := range slots {
		require.False(t, slot.Formatted >= "10:15" && slot.Formatted <= "11:45",
			"slot %s overlaps the block", slot.Formatted)
	}
}

func TestAvailabilityEmptyWhenDefaultScheduleInactive(t *testing.T) {
	repo, tenant := newTestRepo(t)
	ctx := context.Background()

	sched := &models.Schedule{TenantID: tenant.ID, Name: "Retired", IsActive: false}
	require.NoError(t, repo.CreateSchedule(ctx, sched))
	require.NoError(t, repo.SetDefaultSchedule(ctx, tenant.ID, sched.ID))
	require.NoError(t, repo.CreateTimeSlot(ctx, &models.ScheduleTimeSlot{
		TenantID:   tenant.ID,
		ScheduleID: sched.ID,
		DayOfWeek:  0,
		StartTime:  "09:00",
		EndTime:    "13:00",
		IsActive:   true,
	}))

	uc := NewGetAvailability(repo)
	slots, err := uc.Execute(ctx, booking.AvailabilityInput{
		TenantID:        tenant.ID,
		Date:            nextMonday(),
		DurationMinutes: 60,
	})
	require.NoError(t, err)
	require.Empty(t, slots)
}

func TestAvailabilityEmptyWithoutSchedule(t *testing.T) {
	repo, tenant := newTestRepo(t)

	uc := NewGetAvailability(repo)
	slots, err := uc.Execute(context.Background(), booking.AvailabilityInput{
		TenantID:        tenant.ID,
		Date:            nextMonday(),
		DurationMinutes: 30,
	})
	require.NoError(t, err)
	require.Empty(t, slots)
}

func TestAvailabilityEmptyOnDayWithoutWindows(t *testing.T) {
	repo, tenant := newTestRepo(t)
	setupSchedule(t, repo, tenant.ID)

	// The schedule only covers Monday.
	tuesday := nextMonday().AddDate(0, 0, 1)

	uc := NewGetAvailability(repo)
	slots, err := uc.Execute(context.Background(), booking.AvailabilityInput{
		TenantID:        tenant.ID,
		Date:            tuesday,
		DurationMinutes: 60,
	})
	require.NoError(t, err)
	require.Empty(t, slots)
}
