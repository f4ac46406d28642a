package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/HubFlowSystems/appointments-core/internal/httperr"
	"github.com/HubFlowSystems/appointments-core/internal/httpresp"
	"github.com/HubFlowSystems/appointments-core/internal/middleware"
	"github.com/HubFlowSystems/appointments-core/internal/models"
	ucAppointment "github.com/HubFlowSystems/appointments-core/internal/usecase/appointment"
)

// ======================================================
// HANDLER
// ======================================================

type AppointmentHandler struct {
	db *gorm.DB

	create     *ucAppointment.CreateAppointment
	update     *ucAppointment.UpdateAppointment
	confirm    *ucAppointment.ConfirmAppointment
	start      *ucAppointment.StartAppointment
	complete   *ucAppointment.CompleteAppointment
	cancel     *ucAppointment.CancelAppointment
	noShow     *ucAppointment.MarkNoShow
	reschedule *ucAppointment.RescheduleAppointment
	queries    *ucAppointment.Queries
	stats      *ucAppointment.Stats
	reminders  *ucAppointment.Reminders
}

func NewAppointmentHandler(
	db *gorm.DB,
	create *ucAppointment.CreateAppointment,
	update *ucAppointment.UpdateAppointment,
	confirm *ucAppointment.ConfirmAppointment,
	start *ucAppointment.StartAppointment,
	complete *ucAppointment.CompleteAppointment,
	cancel *ucAppointment.CancelAppointment,
	noShow *ucAppointment.MarkNoShow,
	reschedule *ucAppointment.RescheduleAppointment,
	queries *ucAppointment.Queries,
	stats *ucAppointment.Stats,
	reminders *ucAppointment.Reminders,
) *AppointmentHandler {
	return &AppointmentHandler{
		db:         db,
		create:     create,
		update:     update,
		confirm:    confirm,
		start:      start,
		complete:   complete,
		cancel:     cancel,
		noShow:     noShow,
		reschedule: reschedule,
		queries:    queries,
		stats:      stats,
		reminders:  reminders,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateAppointmentRequest struct {
	CustomerID    *uint  `json:"customer_id"`
	CustomerName  string `json:"customer_name" binding:"required"`
	CustomerPhone string `json:"customer_phone"`
	CustomerEmail string `json:"customer_email"`

	StaffID   *uint  `json:"staff_id"`
	StaffName string `json:"staff_name"`

	ServiceID    *uint           `json:"service_id"`
	ServiceName  string          `json:"service_name" binding:"required"`
	ServicePrice decimal.Decimal `json:"service_price"`

	Date            string `json:"date" binding:"required"`
	Time            string `json:"time" binding:"required"`
	DurationMinutes int    `json:"duration_minutes"`

	Notes        string `json:"notes"`
	BookedOnline bool   `json:"booked_online"`
}

type UpdateAppointmentRequest struct {
	Date            *string `json:"date"`
	Time            *string `json:"time"`
	DurationMinutes *int    `json:"duration_minutes"`

	CustomerName  *string `json:"customer_name"`
	CustomerPhone *string `json:"customer_phone"`
	CustomerEmail *string `json:"customer_email"`

	StaffID   *uint   `json:"staff_id"`
	StaffName *string `json:"staff_name"`

	ServiceName  *string          `json:"service_name"`
	ServicePrice *decimal.Decimal `json:"service_price"`

	Notes         *string `json:"notes"`
	InternalNotes *string `json:"internal_notes"`
}

type CancelAppointmentRequest struct {
	Reason string `json:"reason"`
}

type RescheduleAppointmentRequest struct {
	Date            string `json:"date" binding:"required"`
	Time            string `json:"time" binding:"required"`
	DurationMinutes int    `json:"duration_minutes"`
}

// ======================================================
// HELPERS
// ======================================================

func (h *AppointmentHandler) tenant(c *gin.Context) (*models.Tenant, bool) {
	return tenantFromContext(c, h.db)
}

func paramID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Invalid id.")
		return 0, false
	}
	return uint(id), true
}

func queryStaffID(c *gin.Context) *uint {
	if s := c.Query("staff_id"); s != "" {
		if id, err := strconv.ParseUint(s, 10, 32); err == nil {
			v := uint(id)
			return &v
		}
	}
	return nil
}

// ======================================================
// CREATE
// ======================================================

func (h *AppointmentHandler) Create(c *gin.Context) {
	tenant, ok := h.tenant(c)
	if !ok {
		return
	}

	var req CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	start, err := parseDateTimeInTenant(tenant, req.Date, req.Time)
	if err != nil {
		httperr.BadRequest(c, "invalid_date_or_time", "Invalid date or time.")
		return
	}

	ap, err := h.create.Execute(c.Request.Context(), ucAppointment.CreateInput{
		TenantID:        tenant.ID,
		CustomerID:      req.CustomerID,
		CustomerName:    req.CustomerName,
		CustomerPhone:   req.CustomerPhone,
		CustomerEmail:   req.CustomerEmail,
		StaffID:         req.StaffID,
		StaffName:       req.StaffName,
		ServiceID:       req.ServiceID,
		ServiceName:     req.ServiceName,
		ServicePrice:    req.ServicePrice,
		StartDatetime:   start,
		DurationMinutes: req.DurationMinutes,
		Notes:           req.Notes,
		BookedOnline:    req.BookedOnline,
		CreatedByID:     middleware.ActorID(c),
	})
	if err != nil {
		httperr.WriteBusiness(c, err)
		return
	}

	httpresp.Created(c, ap)
}

// ======================================================
// READ
// ======================================================

func (h *AppointmentHandler) Get(c *gin.Context) {
	tenantID := c.MustGet(middleware.ContextTenantID).(uint)
	id, ok := paramID(c)
	if !ok {
		return
	}

	ap, err := h.queries.Get(c.Request.Context(), tenantID, id)
	if err != nil {
		httperr.WriteBusiness(c, err)
		return
	}
	httpresp.OK(c, ap)
}

func (h *AppointmentHandler) History(c *gin.Context) {
	tenantID := c.MustGet(middleware.ContextTenantID).(uint)
	id, ok := paramID(c)
	if !ok {
		return
	}

	entries, err := h.queries.History(c.Request.Context(), tenantID, id)
	if err != nil {
		httperr.WriteBusiness(c, err)
		return
	}
	httpresp.List(c, entries)
}

func (h *AppointmentHandler) ListByDate(c *gin.Context) {
	tenant, ok := h.tenant(c)
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

	aps, err := h.queries.ForDate(c.Request.Context(), tenant.ID, date, queryStaffID(c), c.Query("status"))
	if err != nil {
		httperr.WriteBusiness(c, err)
		return
	}
	httpresp.List(c, aps)
}

func (h *AppointmentHandler) ListRange(c *gin.Context) {
	tenant, ok := h.tenant(c)
	if !ok {
		return
	}

	from, err := parseDateInTenant(tenant, c.Query("from"))
	if err != nil {
		httperr.BadRequest(c, "invalid_from", "Invalid from date.")
		return
	}
	to, err := parseDateInTenant(tenant, c.Query("to"))
	if err != nil {
		httperr.BadRequest(c, "invalid_to", "Invalid to date.")
		return
	}

	// to is inclusive at day granularity.
	aps, err := h.queries.ForRange(c.Request.Context(), tenant.ID, from, to.AddDate(0, 0, 1), queryStaffID(c))
	if err != nil {
		httperr.WriteBusiness(c, err)
		return
	}
	httpresp.List(c, aps)
}

func (h *AppointmentHandler) Upcoming(c *gin.Context) {
	tenantID := c.MustGet(middleware.ContextTenantID).(uint)

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	aps, err := h.queries.Upcoming(c.Request.Context(), tenantID, queryStaffID(c), limit)
	if err != nil {
		httperr.WriteBusiness(c, err)
		return
	}
	httpresp.List(c, aps)
}

func (h *AppointmentHandler) Search(c *gin.Context) {
	tenantID := c.MustGet(middleware.ContextTenantID).(uint)

	query := c.Query("q")
	if query == "" {
		httperr.BadRequest(c, "missing_query", "Search query is required.")
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	aps, err := h.queries.Search(c.Request.Context(), tenantID, query, limit)
	if err != nil {
		httperr.WriteBusiness(c, err)
		return
	}
	httpresp.List(c, aps)
}

func (h *AppointmentHandler) ListByCustomer(c *gin.Context) {
	tenantID := c.MustGet(middleware.ContextTenantID).(uint)

	customerID, err := strconv.ParseUint(c.Param("customerID"), 10, 32)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Invalid customer id.")
		return
	}

	includePast := c.Query("include_past") == "true"

	aps, err := h.queries.ForCustomer(c.Request.Context(), tenantID, uint(customerID), includePast)
	if err != nil {
		httperr.WriteBusiness(c, err)
		return
	}
	httpresp.List(c, aps)
}

// ======================================================
// UPDATE / DELETE
// ======================================================

func (h *AppointmentHandler) Update(c *gin.Context) {
	tenant, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := paramID(c)
	if !ok {
		return
	}

	var req UpdateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	in := ucAppointment.UpdateInput{
		DurationMinutes: req.DurationMinutes,
		CustomerName:    req.CustomerName,
		CustomerPhone:   req.CustomerPhone,
		CustomerEmail:   req.CustomerEmail,
		StaffID:         req.StaffID,
		StaffName:       req.StaffName,
		ServiceName:     req.ServiceName,
		ServicePrice:    req.ServicePrice,
		Notes:           req.Notes,
		InternalNotes:   req.InternalNotes,
	}

	if req.Date != nil && req.Time != nil {
		start, err := parseDateTimeInTenant(tenant, *req.Date, *req.Time)
		if err != nil {
			httperr.BadRequest(c, "invalid_date_or_time", "Invalid date or time.")
			return
		}
		in.StartDatetime = &start
	}

	ap, err := h.update.Execute(c.Request.Context(), tenant.ID, id, in, middleware.ActorID(c))
	if err != nil {
		httperr.WriteBusiness(c, err)
		return
	}
	httpresp.OK(c, ap)
}

func (h *AppointmentHandler) Delete(c *gin.Context) {
	tenantID := c.MustGet(middleware.ContextTenantID).(uint)
	id, ok := paramID(c)
	if !ok {
		return
	}

	if err := h.queries.Delete(c.Request.Context(), tenantID, id); err != nil {
		httperr.WriteBusiness(c, err)
		return
	}
	c.Status(204)
}

// ======================================================
// LIFECYCLE
// ======================================================

func (h *AppointmentHandler) Confirm(c *gin.Context) {
	h.transition(c, func(tenantID, id uint, actorID *uint) (*models.Appointment, error) {
		return h.confirm.Execute(c.Request.Context(), tenantID, id, actorID)
	})
}

func (h *AppointmentHandler) Start(c *gin.Context) {
	h.transition(c, func(tenantID, id uint, actorID *uint) (*models.Appointment, error) {
		return h.start.Execute(c.Request.Context(), tenantID, id, actorID)
	})
}

func (h *AppointmentHandler) Complete(c *gin.Context) {
	h.transition(c, func(tenantID, id uint, actorID *uint) (*models.Appointment, error) {
		return h.complete.Execute(c.Request.Context(), tenantID, id, actorID)
	})
}

func (h *AppointmentHandler) NoShow(c *gin.Context) {
	h.transition(c, func(tenantID, id uint, actorID *uint) (*models.Appointment, error) {
		return h.noShow.Execute(c.Request.Context(), tenantID, id, actorID)
	})
}

func (h *AppointmentHandler) transition(
	c *gin.Context,
	run func(tenantID, id uint, actorID *uint) (*models.Appointment, error),
) {
	tenantID := c.MustGet(middleware.ContextTenantID).(uint)
	id, ok := paramID(c)
	if !ok {
		return
	}

	ap, err := run(tenantID, id, middleware.ActorID(c))
	if err != nil {
		httperr.WriteBusiness(c, err)
		return
	}
	httpresp.OK(c, ap)
}

func (h *AppointmentHandler) Cancel(c *gin.Context) {
	tenantID := c.MustGet(middleware.ContextTenantID).(uint)
	id, ok := paramID(c)
	if !ok {
		return
	}

	var req CancelAppointmentRequest
	_ = c.ShouldBindJSON(&req)

	ap, err := h.cancel.Execute(c.Request.Context(), tenantID, id, req.Reason, middleware.ActorID(c))
	if err != nil {
		httperr.WriteBusiness(c, err)
		return
	}
	httpresp.OK(c, ap)
}

func (h *AppointmentHandler) Reschedule(c *gin.Context) {
	tenant, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := paramID(c)
	if !ok {
		return
	}

	var req RescheduleAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	newStart, err := parseDateTimeInTenant(tenant, req.Date, req.Time)
	if err != nil {
		httperr.BadRequest(c, "invalid_date_or_time", "Invalid date or time.")
		return
	}

	ap, err := h.reschedule.Execute(c.Request.Context(), tenant.ID, id, newStart, req.DurationMinutes, middleware.ActorID(c))
	if err != nil {
		httperr.WriteBusiness(c, err)
		return
	}
	httpresp.OK(c, ap)
}

// ======================================================
// STATS / REMINDERS
// ======================================================

func (h *AppointmentHandler) Stats(c *gin.Context) {
	tenant, ok := h.tenant(c)
	if !ok {
		return
	}

	var from, to time.Time
	if s := c.Query("from"); s != "" {
		parsed, err := parseDateInTenant(tenant, s)
		if err != nil {
			httperr.BadRequest(c, "invalid_from", "Invalid from date.")
			return
		}
		from = parsed
	}
	if s := c.Query("to"); s != "" {
		parsed, err := parseDateInTenant(tenant, s)
		if err != nil {
			httperr.BadRequest(c, "invalid_to", "Invalid to date.")
			return
		}
		to = parsed.AddDate(0, 0, 1)
	}

	result, err := h.stats.Execute(c.Request.Context(), tenant.ID, from, to)
	if err != nil {
		httperr.WriteBusiness(c, err)
		return
	}
	httpresp.OK(c, result)
}

func (h *AppointmentHandler) DueReminders(c *gin.Context) {
	tenantID := c.MustGet(middleware.ContextTenantID).(uint)

	aps, err := h.reminders.Due(c.Request.Context(), tenantID)
	if err != nil {
		httperr.WriteBusiness(c, err)
		return
	}
	httpresp.List(c, aps)
}

func (h *AppointmentHandler) MarkReminderSent(c *gin.Context) {
	tenantID := c.MustGet(middleware.ContextTenantID).(uint)
	id, ok := paramID(c)
	if !ok {
		return
	}

	if err := h.reminders.MarkSent(c.Request.Context(), tenantID, id); err != nil {
		httperr.WriteBusiness(c, err)
		return
	}
	c.Status(204)
}
