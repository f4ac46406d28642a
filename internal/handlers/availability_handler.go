package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/HubFlowSystems/appointments-core/internal/domain/booking"
	"github.com/HubFlowSystems/appointments-core/internal/httperr"
	"github.com/HubFlowSystems/appointments-core/internal/httpresp"
	ucAppointment "github.com/HubFlowSystems/appointments-core/internal/usecase/appointment"
)

type AvailabilityHandler struct {
	db           *gorm.DB
	availability *ucAppointment.GetAvailability
}

func NewAvailabilityHandler(db *gorm.DB, availability *ucAppointment.GetAvailability) *AvailabilityHandler {
	return &AvailabilityHandler{db: db, availability: availability}
}

func (h *AvailabilityHandler) Get(c *gin.Context) {
	tenant, ok := tenantFromContext(c, h.db)
	if !ok {
		return
	}

	dateStr := c.Query("date")
	if dateStr == "" {
		httperr.BadRequest(c, "missing_date", "Date is required.")
		return
	}
	date, err := parseDateInTenant(tenant, dateStr)
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "Invalid date.")
		return
	}

	duration, _ := strconv.Atoi(c.Query("duration"))

	var scheduleID uint
	if s := c.Query("schedule_id"); s != "" {
		id, err := strconv.ParseUint(s, 10, 32)
		if err != nil {
			httperr.BadRequest(c, "invalid_schedule_id", "Invalid schedule id.")
			return
		}
		scheduleID = uint(id)
	}

	slots, err := h.availability.Execute(c.Request.Context(), booking.AvailabilityInput{
		TenantID:        tenant.ID,
		Date:            date,
		DurationMinutes: duration,
		StaffID:         queryStaffID(c),
		ScheduleID:      scheduleID,
	})
	if err != nil {
		httperr.WriteBusiness(c, err)
		return
	}

	httpresp.List(c, slots)
}
