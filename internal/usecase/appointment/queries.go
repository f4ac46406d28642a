package appointment

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/HubFlowSystems/appointments-core/internal/domain/booking"
	"github.com/HubFlowSystems/appointments-core/internal/httperr"
	"github.com/HubFlowSystems/appointments-core/internal/models"
	"github.com/HubFlowSystems/appointments-core/internal/timezone"
)

// Queries groups the read side: bounded-result lookups ordered by start time.
type Queries struct {
	repo booking.Repository
}

func NewQueries(repo booking.Repository) *Queries {
	return &Queries{repo: repo}
}

func (q *Queries) Get(ctx context.Context, tenantID, appointmentID uint) (*models.Appointment, error) {
	return loadAppointment(ctx, q.repo, tenantID, appointmentID)
}

// History returns the appointment's audit trail, newest-first.
func (q *Queries) History(ctx context.Context, tenantID, appointmentID uint) ([]models.AppointmentHistory, error) {
	if _, err := loadAppointment(ctx, q.repo, tenantID, appointmentID); err != nil {
		return nil, err
	}
	return q.repo.ListHistory(ctx, tenantID, appointmentID)
}

func (q *Queries) ForDate(
	ctx context.Context,
	tenantID uint,
	date time.Time,
	staffID *uint,
	status string,
) ([]models.Appointment, error) {
	from, to := timezone.DayBounds(date)
	return q.repo.ListAppointmentsForRange(ctx, tenantID, from, to, staffID, status)
}

func (q *Queries) ForRange(
	ctx context.Context,
	tenantID uint,
	from time.Time,
	to time.Time,
	staffID *uint,
) ([]models.Appointment, error) {
	return q.repo.ListAppointmentsForRange(ctx, tenantID, from, to, staffID, "")
}

func (q *Queries) Upcoming(
	ctx context.Context,
	tenantID uint,
	staffID *uint,
	limit int,
) ([]models.Appointment, error) {
	if limit <= 0 {
		limit = 10
	}
	return q.repo.ListUpcomingAppointments(ctx, tenantID, time.Now(), staffID, limit)
}

func (q *Queries) ForCustomer(
	ctx context.Context,
	tenantID uint,
	customerID uint,
	includePast bool,
) ([]models.Appointment, error) {
	return q.repo.ListCustomerAppointments(ctx, tenantID, customerID, time.Now(), includePast)
}

func (q *Queries) Search(
	ctx context.Context,
	tenantID uint,
	query string,
	limit int,
) ([]models.Appointment, error) {
	if limit <= 0 {
		limit = 50
	}
	return q.repo.SearchAppointments(ctx, tenantID, query, limit)
}

// Delete tombstones the appointment; the history trail survives.
func (q *Queries) Delete(ctx context.Context, tenantID, appointmentID uint) error {
	err := q.repo.DeleteAppointment(ctx, tenantID, appointmentID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return httperr.ErrBusiness(httperr.CodeNotFound, "Appointment not found")
	}
	return err
}
