package blockedtime

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/HubFlowSystems/appointments-core/internal/domain/booking"
	"github.com/HubFlowSystems/appointments-core/internal/httperr"
	"github.com/HubFlowSystems/appointments-core/internal/models"
)

// Manager owns ad-hoc exclusion intervals (holidays, breaks, maintenance).
type Manager struct {
	repo booking.Repository
}

func NewManager(repo booking.Repository) *Manager {
	return &Manager{repo: repo}
}

type CreateInput struct {
	TenantID      uint
	Title         string
	BlockType     string
	StartDatetime time.Time
	EndDatetime   time.Time
	AllDay        bool
	StaffID       *uint // nil = blocks every staff member
	Reason        string
}

var blockTypes = map[string]bool{
	models.BlockTypeHoliday:     true,
	models.BlockTypeVacation:    true,
	models.BlockTypeBreak:       true,
	models.BlockTypeMaintenance: true,
	models.BlockTypeOther:       true,
}

func (m *Manager) Create(ctx context.Context, in CreateInput) (*models.BlockedTime, error) {
	if in.Title == "" {
		return nil, httperr.ErrBusiness(httperr.CodeValidation, "Title is required")
	}
	if !in.EndDatetime.After(in.StartDatetime) {
		return nil, httperr.ErrBusiness(httperr.CodeValidation, "End datetime must be after start datetime")
	}

	blockType := in.BlockType
	if blockType == "" {
		blockType = models.BlockTypeOther
	}
	if !blockTypes[blockType] {
		return nil, httperr.ErrBusiness(httperr.CodeValidation, "Unknown block type")
	}

	blocked := &models.BlockedTime{
		TenantID:      in.TenantID,
		Title:         in.Title,
		BlockType:     blockType,
		StartDatetime: in.StartDatetime,
		EndDatetime:   in.EndDatetime,
		AllDay:        in.AllDay,
		StaffID:       in.StaffID,
		Reason:        in.Reason,
	}

	if err := m.repo.CreateBlockedTime(ctx, blocked); err != nil {
		return nil, err
	}
	return blocked, nil
}

// Remove soft-deletes the interval; blocked time is never mutated in place.
func (m *Manager) Remove(ctx context.Context, tenantID, id uint) error {
	err := m.repo.DeleteBlockedTime(ctx, tenantID, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return httperr.ErrBusiness(httperr.CodeNotFound, "Blocked time not found")
	}
	return err
}

func (m *Manager) List(ctx context.Context, tenantID uint, from, to time.Time) ([]models.BlockedTime, error) {
	return m.repo.ListBlockedTimes(ctx, tenantID, from, to)
}

// ScopeOf exposes the block's scope variant for callers that need to reason
// about who an interval applies to.
func (m *Manager) ScopeOf(b *models.BlockedTime) booking.BlockScope {
	return booking.ScopeOf(b)
}
