package recurring

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/HubFlowSystems/appointments-core/internal/domain/booking"
	"github.com/HubFlowSystems/appointments-core/internal/httperr"
	"github.com/HubFlowSystems/appointments-core/internal/models"
)

type CreateTemplateInput struct {
	TenantID uint

	CustomerID   *uint
	CustomerName string

	ServiceID   *uint
	ServiceName string

	StaffID   *uint
	StaffName string

	Frequency       string
	DayOfWeek       *int // Monday=0 .. Sunday=6; required for weekly/biweekly
	Time            string
	DurationMinutes int

	StartDate      time.Time
	EndDate        *time.Time
	MaxOccurrences *int
}

var frequencies = map[string]bool{
	models.FrequencyDaily:    true,
	models.FrequencyWeekly:   true,
	models.FrequencyBiweekly: true,
	models.FrequencyMonthly:  true,
}

type Templates struct {
	repo booking.Repository
}

func NewTemplates(repo booking.Repository) *Templates {
	return &Templates{repo: repo}
}

func (t *Templates) Create(ctx context.Context, in CreateTemplateInput) (*models.RecurringAppointment, error) {
	if in.CustomerName == "" {
		return nil, httperr.ErrBusiness(httperr.CodeValidation, "Customer name is required")
	}
	if in.ServiceName == "" {
		return nil, httperr.ErrBusiness(httperr.CodeValidation, "Service name is required")
	}
	if !frequencies[in.Frequency] {
		return nil, httperr.ErrBusiness(httperr.CodeValidation, "Unknown frequency")
	}
	if in.Frequency == models.FrequencyWeekly || in.Frequency == models.FrequencyBiweekly {
		if in.DayOfWeek == nil {
			return nil, httperr.ErrBusiness(httperr.CodeValidation, "day_of_week is required for weekly and biweekly templates")
		}
	}
	if in.DayOfWeek != nil && (*in.DayOfWeek < 0 || *in.DayOfWeek > 6) {
		return nil, httperr.ErrBusiness(httperr.CodeValidation, "day_of_week must be between 0 and 6")
	}
	if _, err := time.Parse("15:04", in.Time); err != nil {
		return nil, httperr.ErrBusiness(httperr.CodeValidation, "Invalid time, expected HH:MM")
	}
	if in.DurationMinutes <= 0 {
		return nil, httperr.ErrBusiness(httperr.CodeValidation, "Duration must be positive")
	}
	if in.StartDate.IsZero() {
		return nil, httperr.ErrBusiness(httperr.CodeValidation, "Start date is required")
	}
	if in.EndDate != nil && in.EndDate.Before(in.StartDate) {
		return nil, httperr.ErrBusiness(httperr.CodeValidation, "End date must not precede start date")
	}

	template := &models.RecurringAppointment{
		TenantID:        in.TenantID,
		CustomerID:      in.CustomerID,
		CustomerName:    in.CustomerName,
		ServiceID:       in.ServiceID,
		ServiceName:     in.ServiceName,
		StaffID:         in.StaffID,
		StaffName:       in.StaffName,
		Frequency:       in.Frequency,
		DayOfWeek:       in.DayOfWeek,
		Time:            in.Time,
		DurationMinutes: in.DurationMinutes,
		StartDate:       in.StartDate,
		EndDate:         in.EndDate,
		MaxOccurrences:  in.MaxOccurrences,
		IsActive:        true,
	}

	if err := t.repo.CreateRecurring(ctx, template); err != nil {
		return nil, err
	}
	return template, nil
}

func (t *Templates) Get(ctx context.Context, tenantID, id uint) (*models.RecurringAppointment, error) {
	template, err := t.repo.GetRecurringByID(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrBusiness(httperr.CodeNotFound, "Recurring template not found")
		}
		return nil, err
	}
	return template, nil
}

func (t *Templates) ListActive(ctx context.Context, tenantID uint) ([]models.RecurringAppointment, error) {
	return t.repo.ListActiveRecurring(ctx, tenantID)
}

// Deactivate stops a template from producing further instances. Existing
// generated appointments are untouched.
func (t *Templates) Deactivate(ctx context.Context, tenantID, id uint) error {
	template, err := t.Get(ctx, tenantID, id)
	if err != nil {
		return err
	}
	template.IsActive = false
	return t.repo.SaveRecurring(ctx, template)
}
