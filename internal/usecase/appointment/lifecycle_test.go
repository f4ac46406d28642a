package appointment

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/HubFlowSystems/appointments-core/internal/httperr"
	"github.com/HubFlowSystems/appointments-core/internal/infra/repository"
	"github.com/HubFlowSystems/appointments-core/internal/lock"
	"github.com/HubFlowSystems/appointments-core/internal/models"
)

func bookOne(t *testing.T, repo *repository.BookingGormRepository, tenantID uint) *models.Appointment {
	t.Helper()
	uc := NewCreateAppointment(repo, lock.NewLocalLocker(), nil)
	ap, err := uc.Execute(context.Background(), createInput(tenantID, futureSlot(10, 0)))
	require.NoError(t, err)
	return ap
}

func TestConfirmThenStartThenComplete(t *testing.T) {
	repo, tenant := newTestRepo(t)
	ap := bookOne(t, repo, tenant.ID)
	ctx := context.Background()

	ap, err := NewConfirmAppointment(repo, nil).Execute(ctx, tenant.ID, ap.ID, nil)
	require.NoError(t, err)
	require.Equal(t, "confirmed", ap.Status)

	ap, err = NewStartAppointment(repo, nil).Execute(ctx, tenant.ID, ap.ID, nil)
	require.NoError(t, err)
	require.Equal(t, "in_progress", ap.Status)

	ap, err = NewCompleteAppointment(repo, nil).Execute(ctx, tenant.ID, ap.ID, nil)
	require.NoError(t, err)
	require.Equal(t, "completed", ap.Status)

	entries, err := repo.ListHistory(ctx, tenant.ID, ap.ID)
	require.NoError(t, err)
	require.Len(t, entries, 4) // created + three transitions
}

func TestStartRequiresConfirmed(t *testing.T) {
	repo, tenant := newTestRepo(t)
	ap := bookOne(t, repo, tenant.ID)

	_, err := NewStartAppointment(repo, nil).Execute(context.Background(), tenant.ID, ap.ID, nil)
	require.Error(t, err)
	require.True(t, httperr.IsBusiness(err, httperr.CodeIllegalTransition))
}

func TestCancelPendingRecordsReason(t *testing.T) {
	repo, tenant := newTestRepo(t)
	ap := bookOne(t, repo, tenant.ID)
	ctx := context.Background()

	ap, err := NewCancelAppointment(repo, nil).Execute(ctx, tenant.ID, ap.ID, "weather", nil)
	require.NoError(t, err)
	require.Equal(t, "cancelled", ap.Status)
	require.Equal(t, "weather", ap.CancellationReason)
	require.NotNil(t, ap.CancelledAt)
}

func TestCancelCompletedFails(t *testing.T) {
	repo, tenant := newTestRepo(t)
	ap := bookOne(t, repo, tenant.ID)
	ctx := context.Background()

	_, err := NewConfirmAppointment(repo, nil).Execute(ctx, tenant.ID, ap.ID, nil)
	require.NoError(t, err)
	_, err = NewCompleteAppointment(repo, nil).Execute(ctx, tenant.ID, ap.ID, nil)
	require.NoError(t, err)

	_, err = NewCancelAppointment(repo, nil).Execute(ctx, tenant.ID, ap.ID, "", nil)
	require.Error(t, err)
	require.True(t, httperr.IsBusiness(err, httperr.CodeIllegalTransition))
}

func TestCancelTwiceFails(t *testing.T) {
	repo, tenant := newTestRepo(t)
	ap := bookOne(t, repo, tenant.ID)
	ctx := context.Background()

	_, err := NewCancelAppointment(repo, nil).Execute(ctx, tenant.ID, ap.ID, "", nil)
	require.NoError(t, err)

	_, err = NewCancelAppointment(repo, nil).Execute(ctx, tenant.ID, ap.ID, "", nil)
	require.Error(t, err)
	require.True(t, httperr.IsBusiness(err, httperr.CodeIllegalTransition))
}

func TestTransitionUnknownAppointment(t *testing.T) {
	repo, tenant := newTestRepo(t)

	_, err := NewConfirmAppointment(repo, nil).Execute(context.Background(), tenant.ID, 9999, nil)
	require.Error(t, err)
	require.True(t, httperr.IsBusiness(err, httperr.CodeNotFound))
}

func TestCancelledAppointmentFreesTheSlot(t *testing.T) {
	repo, tenant := newTestRepo(t)
	ap := bookOne(t, repo, tenant.ID)
	ctx := context.Background()

	_, err := NewCancelAppointment(repo, nil).Execute(ctx, tenant.ID, ap.ID, "", nil)
	require.NoError(t, err)

	// Same staff, same time: the cancelled booking no longer occupies it.
	uc := NewCreateAppointment(repo, lock.NewLocalLocker(), nil)
	_, err = uc.Execute(ctx, createInput(tenant.ID, futureSlot(10, 0)))
	require.NoError(t, err)
}
