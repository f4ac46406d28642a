package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/HubFlowSystems/appointments-core/internal/httperr"
	"github.com/HubFlowSystems/appointments-core/internal/httpresp"
	"github.com/HubFlowSystems/appointments-core/internal/middleware"
	ucRecurring "github.com/HubFlowSystems/appointments-core/internal/usecase/recurring"
)

type RecurringHandler struct {
	db        *gorm.DB
	templates *ucRecurring.Templates
	expander  *ucRecurring.Expander
}

func NewRecurringHandler(
	db *gorm.DB,
	templates *ucRecurring.Templates,
	expander *ucRecurring.Expander,
) *RecurringHandler {
	return &RecurringHandler{db: db, templates: templates, expander: expander}
}

type CreateRecurringRequest struct {
	CustomerID   *uint  `json:"customer_id"`
	CustomerName string `json:"customer_name" binding:"required"`

	ServiceID   *uint  `json:"service_id"`
	ServiceName string `json:"service_name" binding:"required"`

	StaffID   *uint  `json:"staff_id"`
	StaffName string `json:"staff_name"`

	Frequency       string `json:"frequency" binding:"required"`
	DayOfWeek       *int   `json:"day_of_week"`
	Time            string `json:"time" binding:"required"`
	DurationMinutes int    `json:"duration_minutes" binding:"required"`

	StartDate      string  `json:"start_date" binding:"required"`
	EndDate        *string `json:"end_date"`
	MaxOccurrences *int    `json:"max_occurrences"`
}

type ExpandRecurringRequest struct {
	UntilDate string `json:"until_date" binding:"required"`
}

func (h *RecurringHandler) Create(c *gin.Context) {
	tenant, ok := tenantFromContext(c, h.db)
	if !ok {
		return
	}

	var req CreateRecurringRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	startDate, err := parseDateInTenant(tenant, req.StartDate)
	if err != nil {
		httperr.BadRequest(c, "invalid_start_date", "Invalid start date.")
		return
	}

	in := ucRecurring.CreateTemplateInput{
		TenantID:        tenant.ID,
		CustomerID:      req.CustomerID,
		CustomerName:    req.CustomerName,
		ServiceID:       req.ServiceID,
		ServiceName:     req.ServiceName,
		StaffID:         req.StaffID,
		StaffName:       req.StaffName,
		Frequency:       req.Frequency,
		DayOfWeek:       req.DayOfWeek,
		Time:            req.Time,
		DurationMinutes: req.DurationMinutes,
		StartDate:       startDate,
		MaxOccurrences:  req.MaxOccurrences,
	}

	if req.EndDate != nil {
		endDate, err := parseDateInTenant(tenant, *req.EndDate)
		if err != nil {
			httperr.BadRequest(c, "invalid_end_date", "Invalid end date.")
			return
		}
		in.EndDate = &endDate
	}

	template, err := h.templates.Create(c.Request.Context(), in)
	if err != nil {
		httperr.WriteBusiness(c, err)
		return
	}
	httpresp.Created(c, template)
}

func (h *RecurringHandler) List(c *gin.Context) {
	tenantID := c.MustGet(middleware.ContextTenantID).(uint)

	templates, err := h.templates.ListActive(c.Request.Context(), tenantID)
	if err != nil {
		httperr.WriteBusiness(c, err)
		return
	}
	httpresp.List(c, templates)
}

func (h *RecurringHandler) Get(c *gin.Context) {
	tenantID := c.MustGet(middleware.ContextTenantID).(uint)
	id, ok := paramID(c)
	if !ok {
		return
	}

	template, err := h.templates.Get(c.Request.Context(), tenantID, id)
	if err != nil {
		httperr.WriteBusiness(c, err)
		return
	}
	httpresp.OK(c, template)
}

func (h *RecurringHandler) Deactivate(c *gin.Context) {
	tenantID := c.MustGet(middleware.ContextTenantID).(uint)
	id, ok := paramID(c)
	if !ok {
		return
	}

	if err := h.templates.Deactivate(c.Request.Context(), tenantID, id); err != nil {
		httperr.WriteBusiness(c, err)
		return
	}
	c.Status(204)
}

func (h *RecurringHandler) Expand(c *gin.Context) {
	tenant, ok := tenantFromContext(c, h.db)
	if !ok {
		return
	}
	id, ok := paramID(c)
	if !ok {
		return
	}

	var req ExpandRecurringRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	until, err := parseDateInTenant(tenant, req.UntilDate)
	if err != nil {
		httperr.BadRequest(c, "invalid_until_date", "Invalid until date.")
		return
	}

	created, err := h.expander.Execute(c.Request.Context(), ucRecurring.ExpandInput{
		TenantID:   tenant.ID,
		TemplateID: id,
		UntilDate:  until,
		ActorID:    middleware.ActorID(c),
	})
	if err != nil {
		httperr.WriteBusiness(c, err)
		return
	}
	httpresp.List(c, created)
}
