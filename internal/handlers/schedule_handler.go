package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/HubFlowSystems/appointments-core/internal/httperr"
	"github.com/HubFlowSystems/appointments-core/internal/httpresp"
	"github.com/HubFlowSystems/appointments-core/internal/middleware"
	"github.com/HubFlowSystems/appointments-core/internal/models"
	ucSchedule "github.com/HubFlowSystems/appointments-core/internal/usecase/schedule"
)

// ======================================================
// HANDLER
// ======================================================

type ScheduleHandler struct {
	db       *gorm.DB
	calendar *ucSchedule.Calendar
}

func NewScheduleHandler(db *gorm.DB, calendar *ucSchedule.Calendar) *ScheduleHandler {
	return &ScheduleHandler{db: db, calendar: calendar}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateScheduleRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	IsDefault   bool   `json:"is_default"`
}

type AddTimeSlotRequest struct {
	DayOfWeek *int   `json:"day_of_week" binding:"required"`
	StartTime string `json:"start_time" binding:"required"`
	EndTime   string `json:"end_time" binding:"required"`
}

// ======================================================
// SCHEDULES
// ======================================================

func (h *ScheduleHandler) Create(c *gin.Context) {
	tenantID := c.MustGet(middleware.ContextTenantID).(uint)

	var req CreateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	sched, err := h.calendar.CreateSchedule(c.Request.Context(), tenantID, req.Name, req.Description, req.IsDefault)
	if err != nil {
		httperr.WriteBusiness(c, err)
		return
	}
	httpresp.Created(c, sched)
}

func (h *ScheduleHandler) List(c *gin.Context) {
	tenantID := c.MustGet(middleware.ContextTenantID).(uint)

	var schedules []models.Schedule
	if err := h.db.
		Preload("TimeSlots").
		Where("tenant_id = ?", tenantID).
		Order("id ASC").
		Find(&schedules).Error; err != nil {
		httperr.Internal(c, "schedule_list_failed", "Failed to list schedules.")
		return
	}
	httpresp.List(c, schedules)
}

func (h *ScheduleHandler) SetDefault(c *gin.Context) {
	tenantID := c.MustGet(middleware.ContextTenantID).(uint)
	id, ok := paramID(c)
	if !ok {
		return
	}

	if err := h.calendar.SetDefault(c.Request.Context(), tenantID, id); err != nil {
		httperr.WriteBusiness(c, err)
		return
	}
	c.Status(204)
}

// ======================================================
// TIME SLOTS
// ======================================================

func (h *ScheduleHandler) AddTimeSlot(c *gin.Context) {
	tenantID := c.MustGet(middleware.ContextTenantID).(uint)
	id, ok := paramID(c)
	if !ok {
		return
	}

	var req AddTimeSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.DayOfWeek == nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	slot, err := h.calendar.AddTimeSlot(c.Request.Context(), tenantID, id, *req.DayOfWeek, req.StartTime, req.EndTime)
	if err != nil {
		httperr.WriteBusiness(c, err)
		return
	}
	httpresp.Created(c, slot)
}

func (h *ScheduleHandler) RemoveTimeSlot(c *gin.Context) {
	tenantID := c.MustGet(middleware.ContextTenantID).(uint)

	slotID, err := strconv.ParseUint(c.Param("slotID"), 10, 32)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Invalid slot id.")
		return
	}

	if err := h.calendar.RemoveTimeSlot(c.Request.Context(), tenantID, uint(slotID)); err != nil {
		httperr.WriteBusiness(c, err)
		return
	}
	c.Status(204)
}

func (h *ScheduleHandler) SlotsForDay(c *gin.Context) {
	tenantID := c.MustGet(middleware.ContextTenantID).(uint)
	id, ok := paramID(c)
	if !ok {
		return
	}

	day, err := strconv.Atoi(c.Query("day"))
	if err != nil || day < 0 || day > 6 {
		httperr.BadRequest(c, "invalid_day", "day must be between 0 and 6.")
		return
	}

	slots, err := h.calendar.SlotsForDay(c.Request.Context(), tenantID, id, day)
	if err != nil {
		httperr.WriteBusiness(c, err)
		return
	}
	httpresp.List(c, slots)
}
