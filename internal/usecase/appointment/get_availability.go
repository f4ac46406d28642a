package appointment

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/HubFlowSystems/appointments-core/internal/domain/booking"
	"github.com/HubFlowSystems/appointments-core/internal/httperr"
	"github.com/HubFlowSystems/appointments-core/internal/timezone"
)

type GetAvailability struct {
	repo     booking.Repository
	conflict *ConflictChecker
}

func NewGetAvailability(repo booking.Repository) *GetAvailability {
	return &GetAvailability{
		repo:     repo,
		conflict: NewConflictChecker(repo),
	}
}

// Execute enumerates the bookable slots of a date by walking each schedule
// window at the tenant's slot interval. Results are computed fresh on every
// call; conflicts can change between calls.
func (uc *GetAvailability) Execute(
	ctx context.Context,
	in booking.AvailabilityInput,
) ([]booking.AvailableSlot, error) {

	if in.DurationMinutes <= 0 {
		return nil, httperr.ErrBusiness(httperr.CodeValidation, "Duration must be positive")
	}

	tenant, err := uc.repo.GetTenantByID(ctx, in.TenantID)
	if err != nil {
		return nil, httperr.ErrBusiness(httperr.CodeNotFound, "Tenant not found")
	}
	settings, err := uc.repo.GetSettings(ctx, in.TenantID)
	if err != nil {
		return nil, err
	}

	// No schedule resolves to no availability, not an error.
	scheduleID := in.ScheduleID
	if scheduleID == 0 {
		def, err := uc.repo.GetDefaultSchedule(ctx, in.TenantID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return []booking.AvailableSlot{}, nil
			}
			return nil, err
		}
		scheduleID = def.ID
	}

	loc := timezone.Location(tenant.Timezone)
	date := in.Date.In(loc)
	dayOfWeek := booking.WeekdayIndex(date.Weekday())

	windows, err := uc.repo.ListTimeSlots(ctx, in.TenantID, scheduleID, dayOfWeek)
	if err != nil {
		return nil, err
	}
	if len(windows) == 0 {
		return []booking.AvailableSlot{}, nil
	}

	now := timezone.NowIn(tenant.Timezone)
	today := timezone.SameDate(date, now)
	minNotice := time.Duration(settings.MinBookingNotice) * time.Minute
	interval := time.Duration(settings.SlotInterval) * time.Minute
	duration := time.Duration(in.DurationMinutes) * time.Minute

	parseHM := func(hm string) time.Time {
		t, _ := time.Parse("15:04", hm)
		return time.Date(
			date.Year(), date.Month(), date.Day(),
			t.Hour(), t.Minute(), 0, 0,
			loc,
		)
	}

	var slots []booking.AvailableSlot

	for _, window := range windows {
		windowEnd := parseHM(window.EndTime)

		for cur := parseHM(window.StartTime); !cur.Add(duration).After(windowEnd); cur = cur.Add(interval) {
			slotEnd := cur.Add(duration)

			if in.StaffID != nil {
				conflicting, err := uc.conflict.FindConflictingAppointment(
					ctx, in.TenantID, *in.StaffID, cur, slotEnd, 0,
				)
				if err != nil {
					return nil, err
				}
				if conflicting != nil {
					continue
				}
			}

			blocked, err := uc.conflict.FindBlockingInterval(ctx, in.TenantID, cur, slotEnd, in.StaffID)
			if err != nil {
				return nil, err
			}
			if blocked != nil {
				continue
			}

			// Past and too-soon candidates are suppressed for today only;
			// future dates are never notice-filtered.
			if today && cur.Before(now.Add(minNotice)) {
				continue
			}

			slots = append(slots, booking.AvailableSlot{
				Start:     cur,
				End:       slotEnd,
				Formatted: cur.Format("15:04"),
			})
		}
	}

	return slots, nil
}
