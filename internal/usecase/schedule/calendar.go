package schedule

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/HubFlowSystems/appointments-core/internal/domain/booking"
	"github.com/HubFlowSystems/appointments-core/internal/httperr"
	"github.com/HubFlowSystems/appointments-core/internal/models"
)

// Calendar manages weekly availability templates.
type Calendar struct {
	repo booking.Repository
}

func NewCalendar(repo booking.Repository) *Calendar {
	return &Calendar{repo: repo}
}

func (c *Calendar) CreateSchedule(
	ctx context.Context,
	tenantID uint,
	name string,
	description string,
	isDefault bool,
) (*models.Schedule, error) {

	if name == "" {
		return nil, httperr.ErrBusiness(httperr.CodeValidation, "Schedule name is required")
	}

	sched := &models.Schedule{
		TenantID:    tenantID,
		Name:        name,
		Description: description,
		IsActive:    true,
	}

	err := c.repo.InTransaction(ctx, func(tx booking.Repository) error {
		if err := tx.CreateSchedule(ctx, sched); err != nil {
			return err
		}
		if isDefault {
			return tx.SetDefaultSchedule(ctx, tenantID, sched.ID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sched.IsDefault = isDefault
	return sched, nil
}

// SetDefault marks the schedule as the tenant's default, clearing the flag on
// every other schedule in the same transaction.
func (c *Calendar) SetDefault(ctx context.Context, tenantID, scheduleID uint) error {
	if _, err := c.repo.GetScheduleByID(ctx, tenantID, scheduleID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return httperr.ErrBusiness(httperr.CodeNotFound, "Schedule not found")
		}
		return err
	}
	return c.repo.SetDefaultSchedule(ctx, tenantID, scheduleID)
}

// AddTimeSlot adds one day-of-week window. Inverted ranges are rejected, and
// so is any overlap with an active slot of the same schedule/day; overlap is
// never silently corrected.
func (c *Calendar) AddTimeSlot(
	ctx context.Context,
	tenantID uint,
	scheduleID uint,
	dayOfWeek int,
	startTime string,
	endTime string,
) (*models.ScheduleTimeSlot, error) {

	if dayOfWeek < 0 || dayOfWeek > 6 {
		return nil, httperr.ErrBusiness(httperr.CodeValidation, "day_of_week must be between 0 and 6")
	}
	if err := validateClock(startTime); err != nil {
		return nil, err
	}
	if err := validateClock(endTime); err != nil {
		return nil, err
	}
	if startTime >= endTime {
		return nil, httperr.ErrBusiness(httperr.CodeValidation, "End time must be after start time")
	}

	if _, err := c.repo.GetScheduleByID(ctx, tenantID, scheduleID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrBusiness(httperr.CodeNotFound, "Schedule not found")
		}
		return nil, err
	}

	slot := &models.ScheduleTimeSlot{
		TenantID:   tenantID,
		ScheduleID: scheduleID,
		DayOfWeek:  dayOfWeek,
		StartTime:  startTime,
		EndTime:    endTime,
		IsActive:   true,
	}

	err := c.repo.InTransaction(ctx, func(tx booking.Repository) error {
		existing, err := tx.FindOverlappingTimeSlot(ctx, tenantID, scheduleID, dayOfWeek, startTime, endTime)
		if err != nil {
			return err
		}
		if existing != nil {
			return httperr.ErrBusinessMeta(
				httperr.CodeSlotOverlap,
				"Time slot overlaps with existing slot",
				map[string]any{
					"slot_id":    existing.ID,
					"start_time": existing.StartTime,
					"end_time":   existing.EndTime,
				},
			)
		}
		return tx.CreateTimeSlot(ctx, slot)
	})
	if err != nil {
		return nil, err
	}

	return slot, nil
}

// RemoveTimeSlot hard-removes the slot; removing an already-gone slot reports
// not_found.
func (c *Calendar) RemoveTimeSlot(ctx context.Context, tenantID, slotID uint) error {
	err := c.repo.DeleteTimeSlot(ctx, tenantID, slotID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return httperr.ErrBusiness(httperr.CodeNotFound, "Time slot not found")
	}
	return err
}

// SlotsForDay returns the active slots of a schedule day ordered by start.
func (c *Calendar) SlotsForDay(
	ctx context.Context,
	tenantID uint,
	scheduleID uint,
	dayOfWeek int,
) ([]models.ScheduleTimeSlot, error) {
	return c.repo.ListTimeSlots(ctx, tenantID, scheduleID, dayOfWeek)
}

// IsAvailableAt reports whether the clock time falls within an active slot of
// the day. Both endpoints count as available.
func (c *Calendar) IsAvailableAt(
	ctx context.Context,
	tenantID uint,
	scheduleID uint,
	dayOfWeek int,
	at string,
) (bool, error) {

	if err := validateClock(at); err != nil {
		return false, err
	}

	slots, err := c.repo.ListTimeSlots(ctx, tenantID, scheduleID, dayOfWeek)
	if err != nil {
		return false, err
	}

	for _, slot := range slots {
		if slot.StartTime <= at && at <= slot.EndTime {
			return true, nil
		}
	}
	return false, nil
}

// validateClock checks an HH:MM wall-clock string. Lexicographic comparison
// of valid values matches chronological order.
func validateClock(s string) error {
	if _, err := time.Parse("15:04", s); err != nil {
		return httperr.ErrBusiness(httperr.CodeValidation, fmt.Sprintf("Invalid time %q, expected HH:MM", s))
	}
	return nil
}
