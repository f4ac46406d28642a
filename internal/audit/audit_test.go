package audit

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/HubFlowSystems/appointments-core/internal/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_busy_timeout=5000", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.AuditLog{}))
	return db
}

func TestRequestIDContextRoundTrip(t *testing.T) {
	ctx := WithRequestID(context.Background(), "req-123")
	require.Equal(t, "req-123", RequestIDFromContext(ctx))

	require.Equal(t, "", RequestIDFromContext(context.Background()))
}

func TestDispatchPersistsRequestID(t *testing.T) {
	db := newTestDB(t)
	dispatcher := NewDispatcher(New(db))

	ctx := WithRequestID(context.Background(), "req-456")
	dispatcher.Dispatch(Event{
		TenantID:  1,
		Action:    "appointment_created",
		Entity:    "appointment",
		RequestID: RequestIDFromContext(ctx),
	})

	require.Eventually(t, func() bool {
		var entry models.AuditLog
		if err := db.First(&entry).Error; err != nil {
			return false
		}
		return entry.RequestID == "req-456" && entry.Action == "appointment_created"
	}, 2*time.Second, 10*time.Millisecond)
}
