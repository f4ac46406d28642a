package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/HubFlowSystems/appointments-core/internal/domain/booking"
	"github.com/HubFlowSystems/appointments-core/internal/httperr"
	"github.com/HubFlowSystems/appointments-core/internal/httpresp"
	"github.com/HubFlowSystems/appointments-core/internal/middleware"
)

type SettingsHandler struct {
	db   *gorm.DB
	repo booking.Repository
}

func NewSettingsHandler(db *gorm.DB, repo booking.Repository) *SettingsHandler {
	return &SettingsHandler{db: db, repo: repo}
}

// UpdateSettingsRequest uses pointers so absent fields keep their stored
/// values. Units are heterogeneous on purpose: MinBookingNotice is minutes,
// ReminderHoursBefore and CancellationNoticeHours are hours, MaxAdvanceBooking
// is days.
type UpdateSettingsRequest struct {
	DefaultDuration   *int `json:"default_duration"`
	MinBookingNotice  *int `json:"min_booking_notice"`
	MaxAdvanceBooking *int `json:"max_advance_booking"`

	AllowOverlapping *bool `json:"allow_overlapping"`

	SendReminders       *bool `json:"send_reminders"`
	ReminderHoursBefore *int  `json:"reminder_hours_before"`

	AllowCustomerCancellation *bool `json:"allow_customer_cancellation"`
	CancellationNoticeHours   *int  `json:"cancellation_notice_hours"`

	CalendarStartHour *int `json:"calendar_start_hour"`
	CalendarEndHour   *int `json:"calendar_end_hour"`
	SlotInterval      *int `json:"slot_interval"`
}

func (h *SettingsHandler) Get(c *gin.Context) {
	tenantID := c.MustGet(middleware.ContextTenantID).(uint)

	settings, err := h.repo.GetSettings(c.Request.Context(), tenantID)
	if err != nil {
		httperr.Internal(c, "settings_load_failed", "Failed to load settings.")
		return
	}
	httpresp.OK(c, settings)
}

func (h *SettingsHandler) Update(c *gin.Context) {
	tenantID := c.MustGet(middleware.ContextTenantID).(uint)

	var req UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	settings, err := h.repo.GetSettings(c.Request.Context(), tenantID)
	if err != nil {
		httperr.Internal(c, "settings_load_failed", "Failed to load settings.")
		return
	}

	setInt := func(dst *int, src *int) {
		if src != nil && *src >= 0 {
			*dst = *src
		}
	}

	setInt(&settings.DefaultDuration, req.DefaultDuration)
	setInt(&settings.MinBookingNotice, req.MinBookingNotice)
	setInt(&settings.MaxAdvanceBooking, req.MaxAdvanceBooking)
	setInt(&settings.ReminderHoursBefore, req.ReminderHoursBefore)
	setInt(&settings.CancellationNoticeHours, req.CancellationNoticeHours)
	setInt(&settings.CalendarStartHour, req.CalendarStartHour)
	setInt(&settings.CalendarEndHour, req.CalendarEndHour)

	if req.SlotInterval != nil && *req.SlotInterval > 0 {
		settings.SlotInterval = *req.SlotInterval
	}
	if req.AllowOverlapping != nil {
		settings.AllowOverlapping = *req.AllowOverlapping
	}
	if req.SendReminders != nil {
		settings.SendReminders = *req.SendReminders
	}
	if req.AllowCustomerCancellation != nil {
		settings.AllowCustomerCancellation = *req.AllowCustomerCancellation
	}

	if err := h.repo.SaveSettings(c.Request.Context(), settings); err != nil {
		httperr.Internal(c, "settings_save_failed", "Failed to save settings.")
		return
	}
	httpresp.OK(c, settings)
}
