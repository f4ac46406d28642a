package appointment

import (
	"context"
	"encoding/json"

	"gorm.io/datatypes"

	"github.com/HubFlowSystems/appointments-core/internal/domain/booking"
	"github.com/HubFlowSystems/appointments-core/internal/models"
)

// appendHistory writes the single audit entry every lifecycle event produces.
// Snapshots hold only the changed fields.
func appendHistory(
	ctx context.Context,
	repo booking.Repository,
	ap *models.Appointment,
	action string,
	description string,
	actorID *uint,
	oldValue map[string]any,
	newValue map[string]any,
) error {
	entry := &models.AppointmentHistory{
		TenantID:      ap.TenantID,
		AppointmentID: ap.ID,
		Action:        action,
		Description:   description,
		PerformedByID: actorID,
	}

	if oldValue != nil {
		if b, err := json.Marshal(oldValue); err == nil {
			entry.OldValue = datatypes.JSON(b)
		}
	}
	if newValue != nil {
		if b, err := json.Marshal(newValue); err == nil {
			entry.NewValue = datatypes.JSON(b)
		}
	}

	return repo.AppendHistory(ctx, entry)
}
