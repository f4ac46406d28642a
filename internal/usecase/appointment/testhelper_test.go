package appointment

import (
	"fmt"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/HubFlowSystems/appointments-core/internal/infra/repository"
	"github.com/HubFlowSystems/appointments-core/internal/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_busy_timeout=5000", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	if err := db.AutoMigrate(
		&models.Tenant{},
		&models.TenantSettings{},
		&models.User{},
		&models.Schedule{},
		&models.ScheduleTimeSlot{},
		&models.BlockedTime{},
		&models.Appointment{},
		&models.AppointmentHistory{},
		&models.RecurringAppointment{},
		&models.AuditLog{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	return db
}

func newTestRepo(t *testing.T) (*repository.BookingGormRepository, *models.Tenant) {
	t.Helper()

	db := newTestDB(t)

	tenant := &models.Tenant{Name: "Acme Salon", Slug: "acme-" + t.Name(), Timezone: "UTC"}
	if err := db.Create(tenant).Error; err != nil {
		t.Fatalf("create tenant: %v", err)
	}

	return repository.NewBookingGormRepository(db), tenant
}

// futureSlot returns a start comfortably inside the default booking window:
// past the minimum notice, well before the advance limit.
func futureSlot(hour, minute int) time.Time {
	day := time.Now().UTC().AddDate(0, 0, 2)
	return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, time.UTC)
}
