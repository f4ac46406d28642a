package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/HubFlowSystems/appointments-core/internal/httperr"
	"github.com/HubFlowSystems/appointments-core/internal/middleware"
	"github.com/HubFlowSystems/appointments-core/internal/models"
	"github.com/HubFlowSystems/appointments-core/internal/timezone"
)

// tenantFromContext loads the authenticated tenant. Failing to resolve it is
// an internal error, not a client one: the id came from a signed token.
func tenantFromContext(c *gin.Context, db *gorm.DB) (*models.Tenant, bool) {
	tenantID := c.MustGet(middleware.ContextTenantID).(uint)

	var tenant models.Tenant
	if err := db.First(&tenant, tenantID).Error; err != nil {
		httperr.Internal(c, "tenant_not_found", "Tenant not found.")
		return nil, false
	}
	return &tenant, true
}

// locationFromTenant resolves the tenant's official timezone. Every date and
// datetime in the API is interpreted in that zone, never in server local time.
func locationFromTenant(tenant *models.Tenant) *time.Location {
	if tenant != nil {
		return timezone.Location(tenant.Timezone)
	}
	return timezone.Location(timezone.DefaultTimezone)
}

func parseDateInTenant(tenant *models.Tenant, dateStr string) (time.Time, error) {
	return time.ParseInLocation(
		"2006-01-02",
		dateStr,
		locationFromTenant(tenant),
	)
}

func parseDateTimeInTenant(
	tenant *models.Tenant,
	dateStr string,
	timeStr string,
) (time.Time, error) {
	return time.ParseInLocation(
		"2006-01-02 15:04",
		dateStr+" "+timeStr,
		locationFromTenant(tenant),
	)
}
