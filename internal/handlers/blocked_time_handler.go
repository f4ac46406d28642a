package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/HubFlowSystems/appointments-core/internal/httperr"
	"github.com/HubFlowSystems/appointments-core/internal/httpresp"
	"github.com/HubFlowSystems/appointments-core/internal/middleware"
	ucBlocked "github.com/HubFlowSystems/appointments-core/internal/usecase/blockedtime"
)

type BlockedTimeHandler struct {
	db      *gorm.DB
	manager *ucBlocked.Manager
}

func NewBlockedTimeHandler(db *gorm.DB, manager *ucBlocked.Manager) *BlockedTimeHandler {
	return &BlockedTimeHandler{db: db, manager: manager}
}

type CreateBlockedTimeRequest struct {
	Title     string `json:"title" binding:"required"`
	BlockType string `json:"block_type"`

	StartDate string `json:"start_date" binding:"required"`
	StartTime string `json:"start_time" binding:"required"`
	EndDate   string `json:"end_date" binding:"required"`
	EndTime   string `json:"end_time" binding:"required"`
	AllDay    bool   `json:"all_day"`

	StaffID *uint  `json:"staff_id"`
	Reason  string `json:"reason"`
}

func (h *BlockedTimeHandler) Create(c *gin.Context) {
	tenant, ok := tenantFromContext(c, h.db)
	if !ok {
		return
	}

	var req CreateBlockedTimeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	start, err := parseDateTimeInTenant(tenant, req.StartDate, req.StartTime)
	if err != nil {
		httperr.BadRequest(c, "invalid_date_or_time", "Invalid start date or time.")
		return
	}
	end, err := parseDateTimeInTenant(tenant, req.EndDate, req.EndTime)
	if err != nil {
		httperr.BadRequest(c, "invalid_date_or_time", "Invalid end date or time.")
		return
	}

	blocked, err := h.manager.Create(c.Request.Context(), ucBlocked.CreateInput{
		TenantID:      tenant.ID,
		Title:         req.Title,
		BlockType:     req.BlockType,
		StartDatetime: start,
		EndDatetime:   end,
		AllDay:        req.AllDay,
		StaffID:       req.StaffID,
		Reason:        req.Reason,
	})
	if err != nil {
		httperr.WriteBusiness(c, err)
		return
	}
	httpresp.Created(c, blocked)
}

func (h *BlockedTimeHandler) List(c *gin.Context) {
	tenant, ok := tenantFromContext(c, h.db)
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

	blocks, err := h.manager.List(c.Request.Context(), tenant.ID, from, to.AddDate(0, 0, 1))
	if err != nil {
		httperr.WriteBusiness(c, err)
		return
	}
	httpresp.List(c, blocks)
}

func (h *BlockedTimeHandler) Delete(c *gin.Context) {
	tenantID := c.MustGet(middleware.ContextTenantID).(uint)
	id, ok := paramID(c)
	if !ok {
		return
	}

	if err := h.manager.Remove(c.Request.Context(), tenantID, id); err != nil {
		httperr.WriteBusiness(c, err)
		return
	}
	c.Status(204)
}
