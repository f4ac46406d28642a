package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/HubFlowSystems/appointments-core/internal/models"
)

func newAppointment(status string) *models.Appointment {
	start := time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)
	ap := &models.Appointment{
		Status:          status,
		StartDatetime:   start,
		DurationMinutes: 60,
	}
	ap.RecalcEnd()
	return ap
}

func TestLifecycleHappyPath(t *testing.T) {
	ap := newAppointment(string(StatusPending))

	require.True(t, Confirm(ap))
	require.Equal(t, string(StatusConfirmed), ap.Status)

	require.True(t, Start(ap))
	require.Equal(t, string(StatusInProgress), ap.Status)

	require.True(t, Complete(ap))
	require.Equal(t, string(StatusCompleted), ap.Status)
}

func TestCompleteSkipsInProgress(t *testing.T) {
	ap := newAppointment(string(StatusConfirmed))
	require.True(t, Complete(ap))
	require.Equal(t, string(StatusCompleted), ap.Status)
}

func TestConfirmRejectsNonPending(t *testing.T) {
	for _, status := range []Status{StatusConfirmed, StatusInProgress, StatusCompleted, StatusCancelled, StatusNoShow} {
		ap := newAppointment(string(status))
		require.False(t, Confirm(ap), "status %s", status)
		require.Equal(t, string(status), ap.Status)
	}
}

func TestCancelFromActiveStatuses(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	for _, status := range []Status{StatusPending, StatusConfirmed, StatusInProgress} {
		ap := newAppointment(string(status))
		require.True(t, Cancel(ap, "client called", now), "status %s", status)
		require.Equal(t, string(StatusCancelled), ap.Status)
		require.Equal(t, "client called", ap.CancellationReason)
		require.NotNil(t, ap.CancelledAt)
		require.Equal(t, now, *ap.CancelledAt)
	}
}

func TestCancelRejectsTerminalStatuses(t *testing.T) {
	now := time.Now()

	for _, status := range []Status{StatusCompleted, StatusCancelled, StatusNoShow} {
		ap := newAppointment(string(status))
		require.False(t, Cancel(ap, "", now), "status %s", status)
		require.Equal(t, string(status), ap.Status)
		require.Nil(t, ap.CancelledAt)
	}
}

func TestMarkNoShowRequiresPastAppointment(t *testing.T) {
	ap := newAppointment(string(StatusConfirmed))

	before := ap.EndDatetime.Add(-time.Minute)
	require.False(t, MarkNoShow(ap, before))
	require.Equal(t, string(StatusConfirmed), ap.Status)

	after := ap.EndDatetime.Add(time.Minute)
	require.True(t, MarkNoShow(ap, after))
	require.Equal(t, string(StatusNoShow), ap.Status)
}

func TestMarkNoShowRejectsInProgress(t *testing.T) {
	ap := newAppointment(string(StatusInProgress))
	require.False(t, MarkNoShow(ap, ap.EndDatetime.Add(time.Hour)))
}

func TestRescheduleRederivesEnd(t *testing.T) {
	ap := newAppointment(string(StatusPending))

	newStart := time.Date(2026, 3, 12, 14, 30, 0, 0, time.UTC)
	require.True(t, Reschedule(ap, newStart, 45))

	require.Equal(t, newStart, ap.StartDatetime)
	require.Equal(t, 45, ap.DurationMinutes)
	require.Equal(t, newStart.Add(45*time.Minute), ap.EndDatetime)
}

func TestRescheduleKeepsDurationWhenZero(t *testing.T) {
	ap := newAppointment(string(StatusConfirmed))

	newStart := ap.StartDatetime.Add(2 * time.Hour)
	require.True(t, Reschedule(ap, newStart, 0))

	require.Equal(t, 60, ap.DurationMinutes)
	require.Equal(t, newStart.Add(60*time.Minute), ap.EndDatetime)
}

func TestRescheduleRejectsStartedAppointments(t *testing.T) {
	for _, status := range []Status{StatusInProgress, StatusCompleted, StatusCancelled, StatusNoShow} {
		ap := newAppointment(string(status))
		require.False(t, Reschedule(ap, ap.StartDatetime.Add(time.Hour), 0), "status %s", status)
	}
}

func TestIsTerminal(t *testing.T) {
	require.True(t, StatusCompleted.IsTerminal())
	require.True(t, StatusCancelled.IsTerminal())
	require.True(t, StatusNoShow.IsTerminal())
	require.False(t, StatusPending.IsTerminal())
	require.False(t, StatusConfirmed.IsTerminal())
	require.False(t, StatusInProgress.IsTerminal())
}
