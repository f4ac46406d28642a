package appointment

import (
	"context"
	"time"

	"github.com/HubFlowSystems/appointments-core/internal/domain/booking"
	"github.com/HubFlowSystems/appointments-core/internal/models"
)

// ConflictChecker answers whether a time range collides with existing active
// appointments or blocked intervals. Read-only; no side effects.
//
// Overlap is half-open: [a,b) and [c,d) conflict iff a < d and c < b, so
// touching boundaries never conflict.
type ConflictChecker struct {
	repo booking.Repository
}

func NewConflictChecker(repo booking.Repository) *ConflictChecker {
	return &ConflictChecker{repo: repo}
}

// FindConflictingAppointment returns the earliest-starting appointment of the
// staff member in an active status (pending/confirmed/in_progress) that
// overlaps [start, end), or nil. excludeID lets a reschedule ignore its own
// prior record.
func (c *ConflictChecker) FindConflictingAppointment(
	ctx context.Context,
	tenantID uint,
	staffID uint,
	start time.Time,
	end time.Time,
	excludeID uint,
) (*models.Appointment, error) {
	return c.repo.FindConflictingAppointment(ctx, tenantID, staffID, start, end, excludeID)
}

// FindBlockingInterval returns the earliest-starting blocked interval
// overlapping [start, end) that applies to the given staff, or nil. Globally
// scoped intervals block everyone; a staff-scoped interval blocks only that
// staff member. With staffID == nil only global intervals are considered.
func (c *ConflictChecker) FindBlockingInterval(
	ctx context.Context,
	tenantID uint,
	start time.Time,
	end time.Time,
	staffID *uint,
) (*models.BlockedTime, error) {
	return c.repo.FindBlockingInterval(ctx, tenantID, start, end, staffID)
}
