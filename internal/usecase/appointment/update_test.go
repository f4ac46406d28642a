package appointment

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/HubFlowSystems/appointments-core/internal/httperr"
	"github.com/HubFlowSystems/appointments-core/internal/lock"
	"github.com/HubFlowSystems/appointments-core/internal/models"
)

func TestUpdateTimingRederivesEnd(t *testing.T) {
	repo, tenant := newTestRepo(t)
	ap := bookOne(t, repo, tenant.ID)
	ctx := context.Background()

	newStart := futureSlot(14, 0)
	newDuration := 90

	updated, err := NewUpdateAppointment(repo).Execute(ctx, tenant.ID, ap.ID, UpdateInput{
		StartDatetime:   &newStart,
		DurationMinutes: &newDuration,
	}, nil)
	require.NoError(t, err)

	require.Equal(t, newStart, updated.StartDatetime.UTC())
	require.Equal(t, 90, updated.DurationMinutes)
	require.Equal(t, newStart.Add(90*time.Minute), updated.EndDatetime.UTC())
}

func TestUpdateConflictLeavesAppointmentUntouched(t *testing.T) {
	repo, tenant := newTestRepo(t)
	ctx := context.Background()

	uc := NewCreateAppointment(repo, lock.NewLocalLocker(), nil)
	first, err := uc.Execute(ctx, createInput(tenant.ID, futureSlot(10, 0)))
	require.NoError(t, err)
	second, err := uc.Execute(ctx, createInput(tenant.ID, futureSlot(12, 0)))
	require.NoError(t, err)

	// Move the second booking onto the first.
	clash := futureSlot(10, 30)
	_, err = NewUpdateAppointment(repo).Execute(ctx, tenant.ID, second.ID, UpdateInput{
		StartDatetime: &clash,
	}, nil)
	require.Error(t, err)
	require.True(t, httperr.IsBusiness(err, httperr.CodeStaffConflict))

	reloaded, err := repo.GetAppointmentByID(ctx, tenant.ID, second.ID)
	require.NoError(t, err)
	require.Equal(t, first.EndDatetime.Add(time.Hour), reloaded.StartDatetime.UTC())
}

func TestUpdateNotesAddsHistoryEntry(t *testing.T) {
	repo, tenant := newTestRepo(t)
	ap := bookOne(t, repo, tenant.ID)
	ctx := context.Background()

	notes := "bring paperwork"
	_, err := NewUpdateAppointment(repo).Execute(ctx, tenant.ID, ap.ID, UpdateInput{Notes: &notes}, nil)
	require.NoError(t, err)

	entries, err := repo.ListHistory(ctx, tenant.ID, ap.ID)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, models.HistoryActionNoteAdded, entries[0].Action)
}

func TestUpdateWithUnchangedStaffIsANoOp(t *testing.T) {
	repo, tenant := newTestRepo(t)
	ap := bookOne(t, repo, tenant.ID)
	ctx := context.Background()

	same := *ap.StaffID
	_, err := NewUpdateAppointment(repo).Execute(ctx, tenant.ID, ap.ID, UpdateInput{StaffID: &same}, nil)
	require.NoError(t, err)

	entries, err := repo.ListHistory(ctx, tenant.ID, ap.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, models.HistoryActionCreated, entries[0].Action)
}

func TestRescheduleMovesAndLogs(t *testing.T) {
	repo, tenant := newTestRepo(t)
	ap := bookOne(t, repo, tenant.ID)
	ctx := context.Background()

	newStart := futureSlot(15, 0)
	moved, err := NewRescheduleAppointment(repo, nil).Execute(ctx, tenant.ID, ap.ID, newStart, 0, nil)
	require.NoError(t, err)

	require.Equal(t, newStart, moved.StartDatetime.UTC())
	require.Equal(t, 60, moved.DurationMinutes)
	require.Equal(t, newStart.Add(time.Hour), moved.EndDatetime.UTC())

	entries, err := repo.ListHistory(ctx, tenant.ID, ap.ID)
	require.NoError(t, err)
	require.Equal(t, models.HistoryActionRescheduled, entries[0].Action)
}

func TestRescheduleOntoOwnSlotIsAllowed(t *testing.T) {
	repo, tenant := newTestRepo(t)
	ap := bookOne(t, repo, tenant.ID)

	// Shifting by 15 minutes overlaps the appointment's own current range;
	// the conflict check must exclude the appointment itself.
	newStart := futureSlot(10, 15)
	_, err := NewRescheduleAppointment(repo, nil).Execute(context.Background(), tenant.ID, ap.ID, newStart, 0, nil)
	require.NoError(t, err)
}

func TestRescheduleCompletedFails(t *testing.T) {
	repo, tenant := newTestRepo(t)
	ap := bookOne(t, repo, tenant.ID)
	ctx := context.Background()

	_, err := NewConfirmAppointment(repo, nil).Execute(ctx, tenant.ID, ap.ID, nil)
	require.NoError(t, err)
	_, err = NewCompleteAppointment(repo, nil).Execute(ctx, tenant.ID, ap.ID, nil)
	require.NoError(t, err)

	_, err = NewRescheduleAppointment(repo, nil).Execute(ctx, tenant.ID, ap.ID, futureSlot(16, 0), 0, nil)
	require.Error(t, err)
	require.True(t, httperr.IsBusiness(err, httperr.CodeIllegalTransition))
}
