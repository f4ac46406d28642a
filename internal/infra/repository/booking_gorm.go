package repository

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/HubFlowSystems/appointments-core/internal/domain/booking"
	"github.com/HubFlowSystems/appointments-core/internal/models"
)

type BookingGormRepository struct {
	db *gorm.DB
}

func NewBookingGormRepository(db *gorm.DB) *BookingGormRepository {
	return &BookingGormRepository{db: db}
}

// withUpdateLock adds FOR UPDATE on engines that support it. SQLite (used in
// tests) serializes writers anyway.
func (r *BookingGormRepository) withUpdateLock(q *gorm.DB) *gorm.DB {
	if r.db.Dialector.Name() == "postgres" {
		return q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return q
}

// --------------------------------------------------
// Tenant / settings
// --------------------------------------------------

func (r *BookingGormRepository) GetTenantByID(
	ctx context.Context,
	id uint,
) (*models.Tenant, error) {

	var tenant models.Tenant
	if err := r.db.WithContext(ctx).First(&tenant, id).Error; err != nil {
		return nil, err
	}
	return &tenant, nil
}

func (r *BookingGormRepository) GetSettings(
	ctx context.Context,
	tenantID uint,
) (*models.TenantSettings, error) {

	var settings models.TenantSettings
	err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Attrs(defaultSettings(tenantID)).
		FirstOrCreate(&settings).Error
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

// defaultSettings mirrors the column defaults so a lazily created row behaves
// the same on engines that ignore gorm default tags during Create.
func defaultSettings(tenantID uint) models.TenantSettings {
	return models.TenantSettings{
		TenantID:                  tenantID,
		DefaultDuration:           60,
		MinBookingNotice:          60,
		MaxAdvanceBooking:         90,
		SendReminders:             true,
		ReminderHoursBefore:       24,
		AllowCustomerCancellation: true,
		CancellationNoticeHours:   24,
		CalendarStartHour:         8,
		CalendarEndHour:           20,
		SlotInterval:              15,
	}
}

func (r *BookingGormRepository) SaveSettings(
	ctx context.Context,
	settings *models.TenantSettings,
) error {
	return r.db.WithContext(ctx).Save(settings).Error
}

// --------------------------------------------------
// Schedule
// --------------------------------------------------

func (r *BookingGormRepository) CreateSchedule(
	ctx context.Context,
	schedule *models.Schedule,
) error {
	return r.db.WithContext(ctx).Create(schedule).Error
}

func (r *BookingGormRepository) GetScheduleByID(
	ctx context.Context,
	tenantID uint,
	id uint,
) (*models.Schedule, error) {

	var schedule models.Schedule
	if err := r.db.WithContext(ctx).
		Where("id = ? AND tenant_id = ?", id, tenantID).
		First(&schedule).Error; err != nil {
		return nil, err
	}
	return &schedule, nil
}

func (r *BookingGormRepository) GetDefaultSchedule(
	ctx context.Context,
	tenantID uint,
) (*models.Schedule, error) {

	var schedule models.Schedule
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND is_default = ? AND is_active = ?", tenantID, true, true).
		First(&schedule).Error; err != nil {
		return nil, err
	}
	return &schedule, nil
}

func (r *BookingGormRepository) SetDefaultSchedule(
	ctx context.Context,
	tenantID uint,
	scheduleID uint,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Schedule{}).
			Where("tenant_id = ? AND id <> ?", tenantID, scheduleID).
			Update("is_default", false).Error; err != nil {
			return err
		}

		res := tx.Model(&models.Schedule{}).
			Where("tenant_id = ? AND id = ?", tenantID, scheduleID).
			Update("is_default", true)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *BookingGormRepository) CreateTimeSlot(
	ctx context.Context,
	slot *models.ScheduleTimeSlot,
) error {
	return r.db.WithContext(ctx).Create(slot).Error
}

func (r *BookingGormRepository) DeleteTimeSlot(
	ctx context.Context,
	tenantID uint,
	slotID uint,
) error {

	res := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Delete(&models.ScheduleTimeSlot{}, slotID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *BookingGormRepository) ListTimeSlots(
	ctx context.Context,
	tenantID uint,
	scheduleID uint,
	dayOfWeek int,
) ([]models.ScheduleTimeSlot, error) {

	var slots []models.ScheduleTimeSlot
	if err := r.db.WithContext(ctx).
		Where(
			"tenant_id = ? AND schedule_id = ? AND day_of_week = ? AND is_active = ?",
			tenantID, scheduleID, dayOfWeek, true,
		).
		Order("start_time ASC").
		Find(&slots).Error; err != nil {
		return nil, err
	}
	return slots, nil
}

func (r *BookingGormRepository) FindOverlappingTimeSlot(
	ctx context.Context,
	tenantID uint,
	scheduleID uint,
	dayOfWeek int,
	startTime string,
	endTime string,
) (*models.ScheduleTimeSlot, error) {

	var slot models.ScheduleTimeSlot
	err := r.db.WithContext(ctx).
		Where(
			"tenant_id = ? AND schedule_id = ? AND day_of_week = ? AND is_active = ? AND start_time < ? AND end_time > ?",
			tenantID, scheduleID, dayOfWeek, true, endTime, startTime,
		).
		Order("start_time ASC").
		First(&slot).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &slot, nil
}

// --------------------------------------------------
// Blocked time
// --------------------------------------------------

func (r *BookingGormRepository) CreateBlockedTime(
	ctx context.Context,
	blocked *models.BlockedTime,
) error {
	return r.db.WithContext(ctx).Create(blocked).Error
}

func (r *BookingGormRepository) DeleteBlockedTime(
	ctx context.Context,
	tenantID uint,
	id uint,
) error {

	res := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Delete(&models.BlockedTime{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *BookingGormRepository) ListBlockedTimes(
	ctx context.Context,
	tenantID uint,
	from time.Time,
	to time.Time,
) ([]models.BlockedTime, error) {

	var blocks []models.BlockedTime
	if err := r.db.WithContext(ctx).
		Where(
			"tenant_id = ? AND start_datetime < ? AND end_datetime > ?",
			tenantID, to, from,
		).
		Order("start_datetime ASC").
		Find(&blocks).Error; err != nil {
		return nil, err
	}
	return blocks, nil
}

func (r *BookingGormRepository) FindBlockingInterval(
	ctx context.Context,
	tenantID uint,
	start time.Time,
	end time.Time,
	staffID *uint,
) (*models.BlockedTime, error) {

	q := r.db.WithContext(ctx).
		Where(
			"tenant_id = ? AND start_datetime < ? AND end_datetime > ?",
			tenantID, end, start,
		)

	if staffID != nil {
		q = q.Where("staff_id IS NULL OR staff_id = ?", *staffID)
	} else {
		q = q.Where("staff_id IS NULL")
	}

	var blocked models.BlockedTime
	err := q.Order("start_datetime ASC").First(&blocked).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &blocked, nil
}

// --------------------------------------------------
// Appointment
// --------------------------------------------------

func (r *BookingGormRepository) CreateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	return r.db.WithContext(ctx).Create(ap).Error
}

func (r *BookingGormRepository) SaveAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	return r.db.WithContext(ctx).Save(ap).Error
}

func (r *BookingGormRepository) DeleteAppointment(
	ctx context.Context,
	tenantID uint,
	id uint,
) error {

	res := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Delete(&models.Appointment{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *BookingGormRepository) GetAppointmentByID(
	ctx context.Context,
	tenantID uint,
	id uint,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := r.db.WithContext(ctx).
		Where("id = ? AND tenant_id = ?", id, tenantID).
		First(&ap).Error; err != nil {
		return nil, err
	}
	return &ap, nil
}

func (r *BookingGormRepository) FindConflictingAppointment(
	ctx context.Context,
	tenantID uint,
	staffID uint,
	start time.Time,
	end time.Time,
	excludeID uint,
) (*models.Appointment, error) {

	q := r.withUpdateLock(r.db.WithContext(ctx)).
		Where(
			"tenant_id = ? AND staff_id = ? AND status IN ? AND start_datetime < ? AND end_datetime > ?",
			tenantID, staffID, booking.ActiveStatusStrings(), end, start,
		)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}

	var ap models.Appointment
	err := q.Order("start_datetime ASC").First(&ap).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &ap, nil
}

func (r *BookingGormRepository) MaxAppointmentNumber(
	ctx context.Context,
	tenantID uint,
	prefix string,
) (string, error) {

	// Unscoped: numbers on tombstoned appointments stay reserved because the
	// unique index still sees the rows.
	var ap models.Appointment
	err := r.db.WithContext(ctx).Unscoped().
		Select("appointment_number").
		Where("tenant_id = ? AND appointment_number LIKE ?", tenantID, prefix+"%").
		Order("appointment_number DESC").
		First(&ap).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return ap.AppointmentNumber, nil
}

func (r *BookingGormRepository) AppointmentExistsAt(
	ctx context.Context,
	tenantID uint,
	customerID *uint,
	serviceID *uint,
	start time.Time,
) (bool, error) {

	q := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("tenant_id = ? AND start_datetime = ?", tenantID, start)

	if customerID != nil {
		q = q.Where("customer_id = ?", *customerID)
	} else {
		q = q.Where("customer_id IS NULL")
	}
	if serviceID != nil {
		q = q.Where("service_id = ?", *serviceID)
	} else {
		q = q.Where("service_id IS NULL")
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *BookingGormRepository) ListAppointmentsForRange(
	ctx context.Context,
	tenantID uint,
	from time.Time,
	to time.Time,
	staffID *uint,
	status string,
) ([]models.Appointment, error) {

	q := r.db.WithContext(ctx).
		Where(
			"tenant_id = ? AND start_datetime >= ? AND start_datetime < ?",
			tenantID, from, to,
		)
	if staffID != nil {
		q = q.Where("staff_id = ?", *staffID)
	}
	if status != "" {
		q = q.Where("status = ?", status)
	}

	var apps []models.Appointment
	if err := q.Order("start_datetime ASC").Find(&apps).Error; err != nil {
		return nil, err
	}
	return apps, nil
}

func (r *BookingGormRepository) ListUpcomingAppointments(
	ctx context.Context,
	tenantID uint,
	now time.Time,
	staffID *uint,
	limit int,
) ([]models.Appointment, error) {

	q := r.db.WithContext(ctx).
		Where(
			"tenant_id = ? AND start_datetime >= ? AND status IN ?",
			tenantID, now, booking.ActiveStatusStrings(),
		)
	if staffID != nil {
		q = q.Where("staff_id = ?", *staffID)
	}

	var apps []models.Appointment
	if err := q.Order("start_datetime ASC").Limit(limit).Find(&apps).Error; err != nil {
		return nil, err
	}
	return apps, nil
}

func (r *BookingGormRepository) ListCustomerAppointments(
	ctx context.Context,
	tenantID uint,
	customerID uint,
	now time.Time,
	includePast bool,
) ([]models.Appointment, error) {

	q := r.db.WithContext(ctx).
		Where("tenant_id = ? AND customer_id = ?", tenantID, customerID)

	order := "start_datetime DESC"
	if !includePast {
		q = q.Where("start_datetime >= ?", now)
		order = "start_datetime ASC"
	}

	var apps []models.Appointment
	if err := q.Order(order).Find(&apps).Error; err != nil {
		return nil, err
	}
	return apps, nil
}

func (r *BookingGormRepository) SearchAppointments(
	ctx context.Context,
	tenantID uint,
	query string,
	limit int,
) ([]models.Appointment, error) {

	pattern := "%" + query + "%"

	var apps []models.Appointment
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Where(
			"appointment_number LIKE ? OR customer_name LIKE ? OR customer_phone LIKE ? OR customer_email LIKE ?",
			pattern, pattern, pattern, pattern,
		).
		Order("start_datetime DESC").
		Limit(limit).
		Find(&apps).Error; err != nil {
		return nil, err
	}
	return apps, nil
}

func (r *BookingGormRepository) ListDueReminders(
	ctx context.Context,
	tenantID uint,
	now time.Time,
	until time.Time,
) ([]models.Appointment, error) {

	var apps []models.Appointment
	if err := r.db.WithContext(ctx).
		Where(
			"tenant_id = ? AND reminder_sent = ? AND status IN ? AND start_datetime > ? AND start_datetime <= ?",
			tenantID, false, []string{"pending", "confirmed"}, now, until,
		).
		Order("start_datetime ASC").
		Find(&apps).Error; err != nil {
		return nil, err
	}
	return apps, nil
}

// --------------------------------------------------
// History
// --------------------------------------------------

func (r *BookingGormRepository) AppendHistory(
	ctx context.Context,
	entry *models.AppointmentHistory,
) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *BookingGormRepository) ListHistory(
	ctx context.Context,
	tenantID uint,
	appointmentID uint,
) ([]models.AppointmentHistory, error) {

	var entries []models.AppointmentHistory
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND appointment_id = ?", tenantID, appointmentID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// --------------------------------------------------
// Recurring
// --------------------------------------------------

func (r *BookingGormRepository) CreateRecurring(
	ctx context.Context,
	template *models.RecurringAppointment,
) error {
	return r.db.WithContext(ctx).Create(template).Error
}

func (r *BookingGormRepository) GetRecurringByID(
	ctx context.Context,
	tenantID uint,
	id uint,
) (*models.RecurringAppointment, error) {

	var template models.RecurringAppointment
	if err := r.db.WithContext(ctx).
		Where("id = ? AND tenant_id = ?", id, tenantID).
		First(&template).Error; err != nil {
		return nil, err
	}
	return &template, nil
}

func (r *BookingGormRepository) ListActiveRecurring(
	ctx context.Context,
	tenantID uint,
) ([]models.RecurringAppointment, error) {

	var templates []models.RecurringAppointment
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND is_active = ?", tenantID, true).
		Order("id ASC").
		Find(&templates).Error; err != nil {
		return nil, err
	}
	return templates, nil
}

func (r *BookingGormRepository) SaveRecurring(
	ctx context.Context,
	template *models.RecurringAppointment,
) error {
	return r.db.WithContext(ctx).Save(template).Error
}

// --------------------------------------------------
// Stats
// --------------------------------------------------

func (r *BookingGormRepository) CountAppointmentsByStatus(
	ctx context.Context,
	tenantID uint,
	from time.Time,
	to time.Time,
) (map[string]int64, error) {

	var rows []struct {
		Status string
		Count  int64
	}
	if err := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Select("status, COUNT(*) AS count").
		Where(
			"tenant_id = ? AND start_datetime >= ? AND start_datetime < ?",
			tenantID, from, to,
		).
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	byStatus := make(map[string]int64, len(rows))
	for _, row := range rows {
		byStatus[row.Status] = row.Count
	}
	return byStatus, nil
}

func (r *BookingGormRepository) SumCompletedRevenue(
	ctx context.Context,
	tenantID uint,
	from time.Time,
	to time.Time,
) (decimal.Decimal, error) {

	var total decimal.NullDecimal
	err := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Select("SUM(service_price)").
		Where(
			"tenant_id = ? AND status = ? AND start_datetime >= ? AND start_datetime < ?",
			tenantID, "completed", from, to,
		).
		Row().Scan(&total)
	if err != nil {
		return decimal.Zero, err
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal, nil
}

// --------------------------------------------------
// Unit of work
// --------------------------------------------------

func (r *BookingGormRepository) InTransaction(
	ctx context.Context,
	fn func(booking.Repository) error,
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&BookingGormRepository{db: tx})
	})
}

// Compile-time check
var _ booking.Repository = (*BookingGormRepository)(nil)
